package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"squish/internal/cdn"
	"squish/internal/config"
	"squish/internal/gitx"
	"squish/internal/logging"
	"squish/internal/pipeline"
	"squish/internal/tui"
)

var (
	convertQuality      int
	convertClean        bool
	convertGit          bool
	convertNoRecompress bool
	convertPlain        bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert the input folder to WebP and sort into bucket folders",
	Long:  "Convert scans the input folder, turns every image into a sized WebP, and files it into the cover, banner, or screenshot folder based on its name.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("quality") {
			cfg.Quality = convertQuality
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		sink, err := logging.New(logging.Options{
			File:    cfg.Log.File,
			Level:   cfg.Log.Level,
			Console: convertPlain,
		})
		if err != nil {
			return err
		}
		defer sink.Close()

		opts := pipeline.Options{
			OutputRoot:    cfg.Repo.Root,
			BucketDirs:    bucketDirs(cfg),
			Quality:       cfg.Quality,
			MaxAspect:     cfg.MaxAspect,
			CropTolerance: cfg.CropTolerance,
			DeleteSource:  convertClean,
			NoRecompress:  convertNoRecompress,
			Log:           sink.Logger(),
		}

		ctx := context.Background()

		var summary pipeline.Summary
		if convertPlain {
			summary, err = pipeline.Run(ctx, cfg.Input, opts, nil)
		} else {
			updates := make(chan pipeline.ProgressUpdate, 64)
			model := tui.NewModel(updates)
			program := tea.NewProgram(model)

			uiDone := make(chan struct{})
			go func() {
				_, _ = program.Run()
				close(uiDone)
			}()

			summary, err = pipeline.Run(ctx, cfg.Input, opts, updates)
			close(updates)
			<-uiDone
		}
		if err != nil {
			sink.Error("run aborted", "error", err)
			return err
		}

		if summary.Scanned == 0 {
			fmt.Fprintf(os.Stdout, "No images found in %s\n", cfg.Input)
			return nil
		}

		printSummary(summary)

		repo := gitx.CLI{Dir: cfg.Repo.Root}
		if len(summary.Produced) > 0 {
			printProducedURLs(ctx, cfg, repo, summary, sink)
		}

		if convertGit {
			if err := pushBuckets(ctx, cfg, repo, summary); err != nil {
				sink.Warn("git push failed", "error", err)
				fmt.Fprintf(os.Stdout, "Warning: git push failed: %v\n", err)
			}
		}

		return nil
	},
}

func printSummary(summary pipeline.Summary) {
	rows := []tui.SummaryRow{
		{Label: "Files scanned", Value: fmt.Sprintf("%d", summary.Scanned)},
		{Label: "Converted", Value: fmt.Sprintf("%d", summary.Converted)},
		{Label: "Recompressed", Value: fmt.Sprintf("%d", summary.Recompressed)},
		{Label: "Copied", Value: fmt.Sprintf("%d", summary.Copied)},
		{Label: "Skipped", Value: fmt.Sprintf("%d", summary.Skipped)},
		{Label: "Errors", Value: fmt.Sprintf("%d", len(summary.Errors))},
		{Label: "Warnings", Value: fmt.Sprintf("%d", summary.WarningCount)},
		{Label: "Bytes saved", Value: fmt.Sprintf("%d", summary.BytesSaved())},
	}
	if pct, ok := summary.SavingsPercent(); ok {
		rows = append(rows, tui.SummaryRow{Label: "Size reduction", Value: fmt.Sprintf("%.1f%%", pct)})
	}
	fmt.Fprintln(os.Stdout, tui.RenderSummary("Conversion summary", rows))

	for _, fe := range summary.Errors {
		fmt.Fprintf(os.Stdout, "  failed: %s: %v\n", fe.Path, fe.Err)
	}
}

func printProducedURLs(ctx context.Context, cfg config.Config, repo gitx.Repo, summary pipeline.Summary, sink *logging.Sink) {
	coords, err := resolveCoordinates(ctx, cfg, repo)
	if err != nil {
		sink.Warn("cannot build CDN links", "error", err)
		fmt.Fprintf(os.Stdout, "CDN links unavailable: %v\n", err)
		return
	}

	fmt.Fprintln(os.Stdout, urlHeaderStyle.Render("CDN links"))
	for _, p := range summary.Produced {
		folder := folderSegment(bucketFolder(cfg, p.Bucket))
		fmt.Fprintln(os.Stdout, cdn.URL(coords.Owner, coords.Name, coords.Branch, folder, p.Filename))
	}
}

func pushBuckets(ctx context.Context, cfg config.Config, repo gitx.Repo, summary pipeline.Summary) error {
	paths := []string{
		cfg.Buckets.Cover,
		cfg.Buckets.Banner,
		cfg.Buckets.Screenshot,
	}
	message := "Add converted images"
	if n := summary.Succeeded(); n > 0 {
		message = fmt.Sprintf("Add %d converted images", n)
	}
	if err := repo.StageCommitPush(ctx, paths, message); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "Bucket folders synced to git.")
	return nil
}

func init() {
	convertCmd.Flags().IntVar(&convertQuality, "quality", 80, "WebP encoding quality (1-100)")
	convertCmd.Flags().BoolVar(&convertClean, "clean", false, "delete source files after successful conversion")
	convertCmd.Flags().BoolVar(&convertGit, "git", false, "stage, commit, and push the bucket folders afterwards")
	convertCmd.Flags().BoolVar(&convertNoRecompress, "no-recompress", false, "copy WebP sources instead of re-encoding them")
	convertCmd.Flags().BoolVar(&convertPlain, "plain", false, "log progress lines instead of the live display")
	rootCmd.AddCommand(convertCmd)
}
