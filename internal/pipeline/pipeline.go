package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"squish/internal/convert"
	"squish/pkg/imgutil"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

func eligible(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// Run converts every eligible image under root per opts and returns
// the aggregated summary. Per-file failures are recorded in the
// summary; only run-level conditions (an unreadable root, a walk
// failure) are returned as errors.
func Run(ctx context.Context, root string, opts Options, updates chan<- ProgressUpdate) (Summary, error) {
	summary := Summary{}

	info, err := os.Stat(root)
	if err != nil {
		return summary, fmt.Errorf("input folder: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return summary, err
	}

	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	// Bucket folders living inside the input tree must not be walked,
	// or a prior run's outputs would be re-fed as sources.
	var skipDirs []string
	for _, b := range []Bucket{Cover, Banner, Screenshot} {
		dir := filepath.Join(opts.OutputRoot, opts.bucketDir(b))
		if abs, absErr := filepath.Abs(dir); absErr == nil && isWithin(abs, absRoot) {
			skipDirs = append(skipDirs, abs)
		}
	}

	jobs := make(chan Job)
	results := make(chan Result)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			worker(ctx, jobs, results, opts)
		}()
	}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			summary.Scanned++
			if updates != nil {
				updates <- ProgressUpdate{DoneDelta: 1}
			}

			switch {
			case res.Err != nil:
				summary.Errors = append(summary.Errors, FileError{Path: res.Display, Err: res.Err})
				if updates != nil {
					updates <- ProgressUpdate{ErrorDelta: 1}
				}
				log.Error("failed", "file", res.Display, "error", res.Err)
			case res.Action == ActionSkip:
				summary.Skipped++
				if updates != nil {
					updates <- ProgressUpdate{SkippedDelta: 1}
				}
				log.Info("skipped", "file", res.Display, "reason", "output exists")
			default:
				switch res.Action {
				case ActionConvert:
					summary.Converted++
				case ActionRecompress:
					summary.Recompressed++
				case ActionCopy:
					summary.Copied++
				}
				summary.OriginalBytes += res.OriginalBytes
				summary.OutputBytes += res.OutputBytes
				summary.Produced = append(summary.Produced, Produced{Bucket: res.Bucket, Filename: res.OutName})
				saved := res.OriginalBytes - res.OutputBytes
				if updates != nil && saved != 0 {
					updates <- ProgressUpdate{BytesSavedDelta: saved}
				}
				log.Info(res.Action.String(),
					"file", res.Display,
					"bucket", res.Bucket.Folder(),
					"in", res.OriginalBytes,
					"out", res.OutputBytes,
					"saved", saved,
				)
			}

			for _, warn := range res.Warnings {
				summary.WarningCount++
				log.Warn(warn, "file", res.Display)
			}
		}
	}()

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)

		sendJob := func(job Job) error {
			if updates != nil {
				updates <- ProgressUpdate{ScannedDelta: 1}
			}
			if ctx == nil {
				jobs <- job
				return nil
			}
			select {
			case jobs <- job:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if !info.IsDir() {
			if eligible(absRoot) {
				producerErr <- sendJob(Job{Path: absRoot, Display: filepath.Base(absRoot)})
			} else {
				producerErr <- nil
			}
			return
		}

		fsys := os.DirFS(absRoot)
		walkErr := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				fullDir := filepath.Join(absRoot, path)
				for _, skip := range skipDirs {
					if isWithin(fullDir, skip) {
						return fs.SkipDir
					}
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !eligible(path) {
				return nil
			}
			return sendJob(Job{Path: filepath.Join(absRoot, path), Display: path})
		})
		producerErr <- walkErr
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	if err := <-producerErr; err != nil {
		return summary, err
	}

	if ctx != nil {
		if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
			return summary, err
		}
	}

	sort.Slice(summary.Produced, func(i, j int) bool {
		a, b := summary.Produced[i], summary.Produced[j]
		if a.Bucket != b.Bucket {
			return a.Bucket < b.Bucket
		}
		return a.Filename < b.Filename
	})

	return summary, nil
}

func worker(ctx context.Context, jobs <-chan Job, results chan<- Result, opts Options) {
	for job := range jobs {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return
			}
		}
		results <- handle(job, opts)
	}
}

func handle(job Job, opts Options) Result {
	base := filepath.Base(job.Path)
	res := Result{
		Source:  job.Path,
		Display: job.Display,
		Bucket:  Classify(base),
		OutName: strings.TrimSuffix(base, filepath.Ext(base)) + ".webp",
	}

	// Dest is a pure function of base name and bucket. Two sources
	// sharing a base name race on the same dest; last write wins.
	task := Task{
		Source:  job.Path,
		Dest:    filepath.Join(opts.OutputRoot, opts.bucketDir(res.Bucket), res.OutName),
		Bucket:  res.Bucket,
		Quality: opts.Quality,
	}

	if _, err := os.Stat(task.Dest); err == nil {
		res.Action = ActionSkip
		return res
	} else if !errors.Is(err, fs.ErrNotExist) {
		res.Err = err
		return res
	}

	kind, err := imgutil.SniffFile(task.Source)
	if err != nil {
		res.Err = fmt.Errorf("read image header: %w", err)
		return res
	}

	conv := convert.Converter{Quality: task.Quality, MaxAspect: opts.MaxAspect}

	var stats convert.Stats
	switch kind {
	case imgutil.KindWebP:
		if opts.NoRecompress {
			task.Action = ActionCopy
			stats, err = conv.Copy(task.Source, task.Dest)
		} else {
			task.Action = ActionRecompress
			stats, err = conv.Recompress(task.Source, task.Dest)
		}
	case imgutil.KindUnknown:
		res.Err = fmt.Errorf("unrecognized image data")
		return res
	default:
		task.Action = ActionConvert
		w, h, probeErr := imgutil.Probe(task.Source)
		if probeErr != nil {
			res.Err = fmt.Errorf("probe %s: %w", base, probeErr)
			return res
		}
		stats, err = conv.Convert(task.Source, task.Dest, Spec(task.Bucket, w, h, opts.CropTolerance))
	}

	res.Action = task.Action
	res.Warnings = stats.Warnings
	if err != nil {
		res.Err = err
		return res
	}
	res.OriginalBytes = stats.OriginalBytes
	res.OutputBytes = stats.OutputBytes

	if opts.DeleteSource {
		if rmErr := os.Remove(task.Source); rmErr != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not remove source: %v", rmErr))
		}
	}

	return res
}

func isWithin(path string, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if strings.HasPrefix(rel, "..") || strings.HasPrefix(rel, "..\\") || strings.HasPrefix(rel, "../") {
		return false
	}
	return true
}
