package cdn

import "testing"

func TestURL(t *testing.T) {
	got := URL("a", "b", "main", "cover", "x.webp")
	want := "https://cdn.jsdelivr.net/gh/a/b@main/cover/x.webp"
	if got != want {
		t.Fatalf("URL = %q, want %q", got, want)
	}
}

func TestURLBranchAndFolder(t *testing.T) {
	got := URL("octocat", "assets", "media", "screenshot", "game s1.webp")
	want := "https://cdn.jsdelivr.net/gh/octocat/assets@media/screenshot/game s1.webp"
	if got != want {
		t.Fatalf("URL = %q, want %q", got, want)
	}
}
