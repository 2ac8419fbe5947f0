package pipeline

import (
	"testing"

	"squish/internal/convert"
)

func TestTarget(t *testing.T) {
	if w, h := Target(Cover); w != 600 || h != 900 {
		t.Errorf("Target(Cover) = %dx%d, want 600x900", w, h)
	}
	if w, h := Target(Banner); w != 1920 || h != 1080 {
		t.Errorf("Target(Banner) = %dx%d, want 1920x1080", w, h)
	}
	if w, h := Target(Screenshot); w != 1920 || h != 1080 {
		t.Errorf("Target(Screenshot) = %dx%d, want 1920x1080", w, h)
	}
}

func TestSpecFitMode(t *testing.T) {
	cases := []struct {
		name       string
		bucket     Bucket
		srcW, srcH int
		tolerance  float64
		want       convert.FitMode
	}{
		{"cover exact ratio", Cover, 400, 600, 0.1, convert.FitInside},
		{"cover square source", Cover, 1000, 1000, 0.1, convert.CropToFill},
		{"banner exact ratio", Banner, 1920, 1080, 0.1, convert.FitInside},
		{"banner near ratio", Banner, 1280, 720, 0.1, convert.FitInside},
		{"banner square source", Banner, 1000, 1000, 0.1, convert.CropToFill},
		{"screenshot portrait source", Screenshot, 600, 900, 0.1, convert.CropToFill},
		{"wide tolerance keeps fit", Cover, 1000, 1000, 0.5, convert.FitInside},
		{"zero tolerance crops", Banner, 1918, 1080, 0, convert.CropToFill},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := Spec(tc.bucket, tc.srcW, tc.srcH, tc.tolerance)
			if spec.Mode != tc.want {
				t.Errorf("Spec(%v, %dx%d, %g).Mode = %v, want %v",
					tc.bucket, tc.srcW, tc.srcH, tc.tolerance, spec.Mode, tc.want)
			}

			wantW, wantH := Target(tc.bucket)
			if spec.Width != wantW || spec.Height != wantH {
				t.Errorf("Spec dimensions = %dx%d, want %dx%d", spec.Width, spec.Height, wantW, wantH)
			}
		})
	}
}

func TestSpecDegenerateSource(t *testing.T) {
	spec := Spec(Cover, 0, 0, 0.1)
	if spec.Mode != convert.FitInside {
		t.Errorf("degenerate source should fall back to fit-inside, got %v", spec.Mode)
	}
	if spec.Width != 600 || spec.Height != 900 {
		t.Errorf("Spec dimensions = %dx%d, want 600x900", spec.Width, spec.Height)
	}
}
