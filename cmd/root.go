package cmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"squish/internal/config"
	"squish/internal/gitx"
	"squish/internal/pipeline"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "squish",
	Short: "squish 🗜️ - batch-convert images to WebP and print CDN links",
	Long:  "squish 🗜️ is a CLI for batch-converting images to sorted WebP bucket folders and publishing them as jsDelivr CDN links through a GitHub repository.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "squish.yaml", "configuration file")
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

// resolveCoordinates takes owner/name/branch from the configuration
// and fills the blanks from the git checkout.
func resolveCoordinates(ctx context.Context, cfg config.Config, repo gitx.Repo) (gitx.Coordinates, error) {
	coords := gitx.Coordinates{
		Owner:  cfg.Repo.Owner,
		Name:   cfg.Repo.Name,
		Branch: cfg.Repo.Branch,
	}
	if coords.Owner != "" && coords.Name != "" {
		return coords, nil
	}

	detected, err := repo.Coordinates(ctx)
	if err != nil {
		return coords, fmt.Errorf("repo owner/name not configured and git detection failed: %w", err)
	}
	if coords.Owner == "" {
		coords.Owner = detected.Owner
	}
	if coords.Name == "" {
		coords.Name = detected.Name
	}
	if coords.Branch == "" {
		coords.Branch = detected.Branch
	}
	return coords, nil
}

func bucketFolder(cfg config.Config, b pipeline.Bucket) string {
	switch b {
	case pipeline.Banner:
		return cfg.Buckets.Banner
	case pipeline.Screenshot:
		return cfg.Buckets.Screenshot
	default:
		return cfg.Buckets.Cover
	}
}

func bucketDirs(cfg config.Config) map[pipeline.Bucket]string {
	return map[pipeline.Bucket]string{
		pipeline.Cover:      cfg.Buckets.Cover,
		pipeline.Banner:     cfg.Buckets.Banner,
		pipeline.Screenshot: cfg.Buckets.Screenshot,
	}
}

// folderSegment normalizes a configured bucket folder into the URL
// path segment form.
func folderSegment(dir string) string {
	return path.Clean(filepath.ToSlash(dir))
}
