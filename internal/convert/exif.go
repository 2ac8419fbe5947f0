package convert

import (
	"io"
	"os"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// hasGPSTags reports whether the file carries GPS EXIF tags. The scan
// is best effort: any failure reads as no GPS, and conversion never
// blocks on it.
func hasGPSTags(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	return scanGPS(f)
}

func scanGPS(rs io.ReadSeeker) bool {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return false
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		return false
	}

	for _, tag := range tags {
		if strings.HasPrefix(tag.TagName, "GPS") || strings.Contains(tag.IfdPath, "GPS") {
			return true
		}
	}
	return false
}
