// Package gitx wraps the few git operations the tool needs behind a
// narrow interface so command logic can be tested against a fake.
package gitx

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

// Coordinates locate a repository on GitHub.
type Coordinates struct {
	Owner  string
	Name   string
	Branch string
}

// Repo is the git surface the commands depend on.
type Repo interface {
	// Coordinates reports owner/name from the origin remote and the
	// current branch from HEAD.
	Coordinates(ctx context.Context) (Coordinates, error)
	// LastCommitFiles lists the paths touched by the HEAD commit,
	// relative to the repository root.
	LastCommitFiles(ctx context.Context) ([]string, error)
	// StageCommitPush stages the given paths, commits them with
	// message, and pushes. Nothing staged is not an error.
	StageCommitPush(ctx context.Context, paths []string, message string) error
}

// CLI implements Repo by shelling out to git in Dir.
type CLI struct {
	Dir string
}

func (c CLI) Coordinates(ctx context.Context) (Coordinates, error) {
	remote, err := c.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		return Coordinates{}, err
	}
	owner, name, err := ParseRemote(remote)
	if err != nil {
		return Coordinates{}, err
	}

	branch, err := c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return Coordinates{}, err
	}

	return Coordinates{Owner: owner, Name: name, Branch: branch}, nil
}

func (c CLI) LastCommitFiles(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "diff-tree", "--no-commit-id", "--name-only", "-r", "HEAD")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

func (c CLI) StageCommitPush(ctx context.Context, paths []string, message string) error {
	if len(paths) == 0 {
		return nil
	}

	addArgs := append([]string{"add", "--"}, paths...)
	if _, err := c.run(ctx, addArgs...); err != nil {
		return err
	}

	// Exit 0 means the index matches HEAD, so there is nothing to commit.
	check := exec.CommandContext(ctx, "git", "diff", "--cached", "--quiet")
	check.Dir = c.Dir
	if err := check.Run(); err == nil {
		return nil
	}

	if _, err := c.run(ctx, "commit", "-m", message); err != nil {
		return err
	}
	if _, err := c.run(ctx, "push"); err != nil {
		return err
	}
	return nil
}

func (c CLI) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.Dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w\noutput: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return strings.TrimSpace(string(output)), nil
}

// ParseRemote extracts owner and repository name from a GitHub remote
// URL in either scp-like or URL form.
func ParseRemote(remote string) (owner, name string, err error) {
	remote = strings.TrimSpace(remote)

	var path string
	switch {
	case strings.HasPrefix(remote, "git@"):
		_, after, ok := strings.Cut(remote, ":")
		if !ok {
			return "", "", fmt.Errorf("unrecognized remote url: %s", remote)
		}
		path = after
	case strings.HasPrefix(remote, "ssh://"),
		strings.HasPrefix(remote, "http://"),
		strings.HasPrefix(remote, "https://"):
		u, parseErr := url.Parse(remote)
		if parseErr != nil {
			return "", "", fmt.Errorf("unrecognized remote url: %s", remote)
		}
		path = strings.TrimPrefix(u.Path, "/")
	default:
		return "", "", fmt.Errorf("unrecognized remote url: %s", remote)
	}

	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("remote url has no owner/name: %s", remote)
	}
	owner = parts[len(parts)-2]
	name = parts[len(parts)-1]
	if owner == "" || name == "" {
		return "", "", fmt.Errorf("remote url has no owner/name: %s", remote)
	}
	return owner, name, nil
}
