package pipeline

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		filename string
		want     Bucket
	}{
		{"game banner.png", Banner},
		{"BANNER art.jpg", Banner},
		{"title b. wide.png", Banner},
		{"screenshot1.png", Screenshot},
		{"menu screen.png", Screenshot},
		{"game s1.png", Screenshot},
		{"SCREENSHOT.JPG", Screenshot},
		{"game cover.jpg", Cover},
		{"art c. final.png", Cover},
		{"random.png", Cover},
		{"IMG_2041.jpeg", Cover},
		{"", Cover},
	}

	for _, tc := range cases {
		if got := Classify(tc.filename); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// The rule order is the tie-break, not the token position in the
	// name: banner beats screenshot beats cover.
	cases := []struct {
		filename string
		want     Bucket
	}{
		{"cover banner.png", Banner},
		{"screen banner.png", Banner},
		{"cover screenshot.png", Screenshot},
		{"cover screen.png", Screenshot},
	}

	for _, tc := range cases {
		if got := Classify(tc.filename); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func TestBucketFolder(t *testing.T) {
	cases := []struct {
		bucket Bucket
		want   string
	}{
		{Cover, "cover"},
		{Banner, "banner"},
		{Screenshot, "screenshot"},
	}
	for _, tc := range cases {
		if got := tc.bucket.Folder(); got != tc.want {
			t.Errorf("%v.Folder() = %q, want %q", tc.bucket, got, tc.want)
		}
	}
}
