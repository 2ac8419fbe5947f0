package pipeline

import "log/slog"

// Action is what the pipeline did with a source file.
type Action int

const (
	ActionConvert Action = iota
	ActionRecompress
	ActionCopy
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionConvert:
		return "convert"
	case ActionRecompress:
		return "recompress"
	case ActionCopy:
		return "copy"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Options configures a Run.
type Options struct {
	// OutputRoot is the directory holding the bucket folders,
	// typically the repository checkout.
	OutputRoot string
	// BucketDirs overrides the output folder per bucket, relative to
	// OutputRoot. Missing entries fall back to the bucket's canonical
	// folder name.
	BucketDirs    map[Bucket]string
	Quality       int
	MaxAspect     float64
	CropTolerance float64
	// Workers caps the worker pool. Zero means one per CPU.
	Workers int
	// DeleteSource removes each source file after its task succeeds.
	DeleteSource bool
	// NoRecompress copies WebP sources byte for byte instead of
	// re-encoding them at the target quality.
	NoRecompress bool
	Log          *slog.Logger
}

func (o Options) bucketDir(b Bucket) string {
	if dir, ok := o.BucketDirs[b]; ok && dir != "" {
		return dir
	}
	return b.Folder()
}

type Job struct {
	Path    string
	Display string
}

// Task is the unit of work a worker executes for one source file.
type Task struct {
	Source  string
	Dest    string
	Bucket  Bucket
	Quality int
	Action  Action
}

type Result struct {
	Source        string
	Display       string
	Bucket        Bucket
	Action        Action
	OutName       string
	OriginalBytes int64
	OutputBytes   int64
	Warnings      []string
	Err           error
}

// Produced identifies one output file by bucket and base name.
type Produced struct {
	Bucket   Bucket
	Filename string
}

type FileError struct {
	Path string
	Err  error
}

type Summary struct {
	Scanned       int
	Converted     int
	Recompressed  int
	Copied        int
	Skipped       int
	OriginalBytes int64
	OutputBytes   int64
	Produced      []Produced
	Errors        []FileError
	WarningCount  int
}

// Succeeded counts the files that produced an output this run.
func (s Summary) Succeeded() int {
	return s.Converted + s.Recompressed + s.Copied
}

// BytesSaved is input size minus output size over all successes.
// Negative when the outputs grew.
func (s Summary) BytesSaved() int64 {
	return s.OriginalBytes - s.OutputBytes
}

// SavingsPercent reports the saved share of the original bytes. The
// second return is false when nothing succeeded, which would make the
// ratio meaningless.
func (s Summary) SavingsPercent() (float64, bool) {
	if s.Succeeded() == 0 || s.OriginalBytes == 0 {
		return 0, false
	}
	return float64(s.BytesSaved()) / float64(s.OriginalBytes) * 100, true
}

type ProgressUpdate struct {
	ScannedDelta    int
	DoneDelta       int
	ErrorDelta      int
	SkippedDelta    int
	BytesSavedDelta int64
}
