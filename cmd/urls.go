package cmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"squish/internal/cdn"
	"squish/internal/config"
	"squish/internal/gitx"
	"squish/internal/pipeline"
	"squish/internal/tui"
)

var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Print CDN links for the WebP files in the last commit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		urls, err := lastCommitURLs(context.Background(), cfg, gitx.CLI{Dir: cfg.Repo.Root})
		if err != nil {
			return err
		}
		printURLs(urls)
		return nil
	},
}

var allCmd = &cobra.Command{
	Use:     "all",
	Aliases: []string{"recent"},
	Short:   "Print CDN links for every WebP file in the bucket folders",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		urls, err := allURLs(context.Background(), cfg, gitx.CLI{Dir: cfg.Repo.Root})
		if err != nil {
			return err
		}
		printURLs(urls)
		return nil
	},
}

// lastCommitURLs lists CDN links for the WebP files that the most
// recent commit touched inside the bucket folders.
func lastCommitURLs(ctx context.Context, cfg config.Config, repo gitx.Repo) ([]string, error) {
	coords, err := resolveCoordinates(ctx, cfg, repo)
	if err != nil {
		return nil, err
	}
	files, err := repo.LastCommitFiles(ctx)
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, file := range files {
		folder, name, ok := splitBucketPath(cfg, file)
		if !ok {
			continue
		}
		urls = append(urls, cdn.URL(coords.Owner, coords.Name, coords.Branch, folder, name))
	}
	return urls, nil
}

// allURLs lists CDN links for every WebP file sitting in the bucket
// folders on disk right now.
func allURLs(ctx context.Context, cfg config.Config, repo gitx.Repo) ([]string, error) {
	coords, err := resolveCoordinates(ctx, cfg, repo)
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, b := range []pipeline.Bucket{pipeline.Cover, pipeline.Banner, pipeline.Screenshot} {
		folder := bucketFolder(cfg, b)
		entries, err := os.ReadDir(filepath.Join(cfg.Repo.Root, folder))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read bucket folder %s: %w", folder, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".webp") {
				continue
			}
			urls = append(urls, cdn.URL(coords.Owner, coords.Name, coords.Branch, folderSegment(folder), entry.Name()))
		}
	}
	return urls, nil
}

// splitBucketPath reports whether a repo-relative file path names a
// WebP inside one of the configured bucket folders, and if so returns
// the URL folder and filename for it.
func splitBucketPath(cfg config.Config, file string) (folder, name string, ok bool) {
	if !strings.EqualFold(path.Ext(file), ".webp") {
		return "", "", false
	}
	clean := path.Clean(filepath.ToSlash(file))
	for _, b := range []pipeline.Bucket{pipeline.Cover, pipeline.Banner, pipeline.Screenshot} {
		dir := folderSegment(bucketFolder(cfg, b))
		if strings.HasPrefix(clean, dir+"/") {
			return path.Dir(clean), path.Base(clean), true
		}
	}
	return "", "", false
}

func printURLs(urls []string) {
	if len(urls) == 0 {
		fmt.Fprintln(os.Stdout, urlDimStyle.Render("No WebP files found."))
		return
	}
	for _, u := range urls {
		fmt.Fprintln(os.Stdout, u)
	}
}

var (
	urlHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	urlDimStyle    = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(urlsCmd)
	rootCmd.AddCommand(allCmd)
}
