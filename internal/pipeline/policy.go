package pipeline

import (
	"math"

	"squish/internal/convert"
)

// Target returns the output pixel dimensions for a bucket. Covers are
// portrait 2:3, banners and screenshots are 16:9.
func Target(b Bucket) (width, height int) {
	if b == Cover {
		return 600, 900
	}
	return 1920, 1080
}

// Spec picks the output dimensions and fit mode for a source image.
// A native aspect ratio further than tolerance from the target ratio
// is cropped to fill the target box; anything closer is fitted inside
// it without enlargement.
func Spec(b Bucket, srcW, srcH int, tolerance float64) convert.ResizeSpec {
	w, h := Target(b)
	spec := convert.ResizeSpec{Width: w, Height: h, Mode: convert.FitInside}

	if srcW <= 0 || srcH <= 0 {
		return spec
	}

	target := float64(w) / float64(h)
	native := float64(srcW) / float64(srcH)
	if math.Abs(native-target) > tolerance {
		spec.Mode = convert.CropToFill
	}
	return spec
}
