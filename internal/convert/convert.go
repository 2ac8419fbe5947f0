// Package convert produces WebP files from source images: full
// decode/resize/encode for other formats, re-encode or passthrough
// for sources that are already WebP.
package convert

import (
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	xwebp "golang.org/x/image/webp"

	"squish/pkg/imgutil"
)

// FitMode selects how a source is mapped onto the target box.
type FitMode int

const (
	// FitInside shrinks the image to fit the box, never enlarging it.
	FitInside FitMode = iota
	// CropToFill fills the box exactly, cropping centered overflow.
	CropToFill
)

// ResizeSpec is the output geometry for one conversion.
type ResizeSpec struct {
	Width  int
	Height int
	Mode   FitMode
}

// Stats reports the byte sizes and advisories of one operation.
type Stats struct {
	OriginalBytes int64
	OutputBytes   int64
	Warnings      []string
}

// Converter holds the settings shared by the three operations.
type Converter struct {
	// Quality is the WebP encoder quality, 1 to 100.
	Quality int
	// MaxAspect is the advisory ratio threshold. A source wider or
	// taller than MaxAspect:1 gets a warning. Zero disables the check.
	MaxAspect float64
}

// Convert decodes the source image, applies spec, and writes a WebP
// file to dst. The source's EXIF orientation is applied before
// resizing.
func (c Converter) Convert(src, dst string, spec ResizeSpec) (Stats, error) {
	stats := Stats{}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return stats, err
	}
	stats.OriginalBytes = srcInfo.Size()

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return stats, fmt.Errorf("decode %s: %w", filepath.Base(src), err)
	}

	bounds := img.Bounds()
	if warn := c.aspectWarning(bounds.Dx(), bounds.Dy()); warn != "" {
		stats.Warnings = append(stats.Warnings, warn)
	}
	if kind, sniffErr := imgutil.SniffFile(src); sniffErr == nil && kind == imgutil.KindJPEG && hasGPSTags(src) {
		stats.Warnings = append(stats.Warnings, "source carries GPS metadata")
	}

	out := resize(img, spec)

	if err := writeFileAtomic(dst, srcInfo.Mode(), func(f *os.File) error {
		return webp.Encode(f, out, &webp.Options{Quality: float32(c.Quality)})
	}); err != nil {
		return stats, err
	}

	dstInfo, err := os.Stat(dst)
	if err != nil {
		return stats, err
	}
	stats.OutputBytes = dstInfo.Size()

	return stats, nil
}

// Recompress re-encodes a WebP source at the target quality without
// resizing it.
func (c Converter) Recompress(src, dst string) (Stats, error) {
	stats := Stats{}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return stats, err
	}
	stats.OriginalBytes = srcInfo.Size()

	f, err := os.Open(src)
	if err != nil {
		return stats, err
	}
	img, err := xwebp.Decode(f)
	_ = f.Close()
	if err != nil {
		return stats, fmt.Errorf("decode %s: %w", filepath.Base(src), err)
	}

	if err := writeFileAtomic(dst, srcInfo.Mode(), func(out *os.File) error {
		return webp.Encode(out, img, &webp.Options{Quality: float32(c.Quality)})
	}); err != nil {
		return stats, err
	}

	dstInfo, err := os.Stat(dst)
	if err != nil {
		return stats, err
	}
	stats.OutputBytes = dstInfo.Size()

	return stats, nil
}

// Copy writes a byte-identical duplicate of a WebP source to dst.
// Original and output sizes are equal, so the computed saving is zero.
func (c Converter) Copy(src, dst string) (Stats, error) {
	stats := Stats{}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return stats, err
	}
	stats.OriginalBytes = srcInfo.Size()

	// The passthrough keeps every byte of the source, so metadata it
	// carries goes public with it.
	if hasGPSTags(src) {
		stats.Warnings = append(stats.Warnings, "source carries GPS metadata")
	}

	in, err := os.Open(src)
	if err != nil {
		return stats, err
	}
	defer in.Close()

	if err := writeFileAtomic(dst, srcInfo.Mode(), func(out *os.File) error {
		_, copyErr := io.Copy(out, in)
		return copyErr
	}); err != nil {
		return stats, err
	}

	dstInfo, err := os.Stat(dst)
	if err != nil {
		return stats, err
	}
	stats.OutputBytes = dstInfo.Size()

	return stats, nil
}

func (c Converter) aspectWarning(w, h int) string {
	if c.MaxAspect <= 0 || w <= 0 || h <= 0 {
		return ""
	}
	aspect := float64(w) / float64(h)
	if aspect < 1 {
		aspect = 1 / aspect
	}
	if aspect > c.MaxAspect {
		return fmt.Sprintf("unusual aspect ratio %.1f:1 (%dx%d)", aspect, w, h)
	}
	return ""
}

func resize(img image.Image, spec ResizeSpec) image.Image {
	if spec.Mode == CropToFill {
		return imaging.Fill(img, spec.Width, spec.Height, imaging.Center, imaging.Lanczos)
	}
	return imaging.Fit(img, spec.Width, spec.Height, imaging.Lanczos)
}

func writeFileAtomic(destPath string, mode fs.FileMode, fill func(*os.File) error) error {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(destDir, "squish-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	if err := tmpFile.Chmod(mode); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := fill(tmpFile); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return replaceFile(tmpFile.Name(), destPath)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
