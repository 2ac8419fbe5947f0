package pipeline

import "strings"

// Bucket classifies a source image by its role on the site. The
// bucket decides the output folder and the resize target.
type Bucket int

const (
	Cover Bucket = iota
	Banner
	Screenshot
)

// Folder returns the canonical folder and URL path segment.
func (b Bucket) Folder() string {
	switch b {
	case Banner:
		return "banner"
	case Screenshot:
		return "screenshot"
	default:
		return "cover"
	}
}

func (b Bucket) String() string {
	return b.Folder()
}

// Classify assigns a bucket from filename substrings. The checks run
// in a fixed order and the first match wins: a name matching several
// tokens resolves to whichever rule runs first. Names matching no
// token default to Cover.
func Classify(filename string) Bucket {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "banner") || strings.Contains(name, " b."):
		return Banner
	case strings.Contains(name, "screenshot") || strings.Contains(name, "screen") || strings.Contains(name, " s"):
		return Screenshot
	case strings.Contains(name, "cover") || strings.Contains(name, " c."):
		return Cover
	default:
		return Cover
	}
}
