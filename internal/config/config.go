package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Input         string        `yaml:"input"`
	Repo          RepoConfig    `yaml:"repo"`
	Buckets       BucketsConfig `yaml:"buckets"`
	Quality       int           `yaml:"quality"`
	MaxAspect     float64       `yaml:"max_aspect"`
	CropTolerance float64       `yaml:"crop_tolerance"`
	Log           LogConfig     `yaml:"log"`
}

// RepoConfig identifies the GitHub repository the converted files are
// published through. Owner and Name may be left blank; they are then
// detected from the local git remote.
type RepoConfig struct {
	Owner  string `yaml:"owner"`
	Name   string `yaml:"name"`
	Branch string `yaml:"branch"`
	Root   string `yaml:"root"`
}

// BucketsConfig maps each bucket to its output folder, relative to
// Repo.Root.
type BucketsConfig struct {
	Cover      string `yaml:"cover"`
	Banner     string `yaml:"banner"`
	Screenshot string `yaml:"screenshot"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Input: "images",
		Repo: RepoConfig{
			Branch: "main",
			Root:   ".",
		},
		Buckets: BucketsConfig{
			Cover:      "cover",
			Banner:     "banner",
			Screenshot: "screenshot",
		},
		Quality:       80,
		MaxAspect:     3.0,
		CropTolerance: 0.1,
		Log: LogConfig{
			File:  "squish.log",
			Level: "info",
		},
	}
}

// Load reads the configuration file at path. A missing file is not an
// error: the defaults are returned. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input folder is required")
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", c.Quality)
	}
	if c.MaxAspect < 1 {
		return fmt.Errorf("max_aspect must be at least 1, got %g", c.MaxAspect)
	}
	if c.CropTolerance < 0 {
		return fmt.Errorf("crop_tolerance must not be negative, got %g", c.CropTolerance)
	}
	if c.Buckets.Cover == "" || c.Buckets.Banner == "" || c.Buckets.Screenshot == "" {
		return fmt.Errorf("every bucket needs an output folder")
	}
	if c.Repo.Branch == "" {
		return fmt.Errorf("repo.branch is required")
	}
	return nil
}
