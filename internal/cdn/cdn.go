// Package cdn builds jsDelivr URLs for files published through a
// GitHub repository.
package cdn

import "fmt"

const base = "https://cdn.jsdelivr.net/gh"

// URL returns the jsDelivr address of a file in the given repository
// at the given branch. Folder is the bucket segment of the path.
func URL(owner, repo, branch, folder, filename string) string {
	return fmt.Sprintf("%s/%s/%s@%s/%s/%s", base, owner, repo, branch, folder, filename)
}
