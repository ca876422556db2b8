// Package app runs hand detection benchmarks over batches of images.
package app

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/handscan/internal/annotate"
	"github.com/ayusman/handscan/internal/detector"
	"github.com/ayusman/handscan/internal/logging"
	"github.com/ayusman/handscan/internal/source"
	"github.com/ayusman/handscan/internal/store"
)

// Config holds configuration options for a benchmark run.
type Config struct {
	// OutputDir receives the annotated images.
	OutputDir string
	// CSVPath is the results file, truncated at the start of every run.
	CSVPath string
	// Cascade is recorded in the run history only.
	Cascade string
	// Params are passed to every Detect call. Zero value means DefaultParams.
	Params detector.Params
	// Thickness overrides the rectangle thickness when > 0.
	Thickness int
	// Store enables run history when non-nil.
	Store  *store.Store
	Logger logging.Logger
}

// Result is the detector output for a single image.
type Result struct {
	Boxes   []detector.Box
	Elapsed time.Duration
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Processed  int
	Skipped    int
	OutputDir  string
	CSVPath    string
	DetectTime time.Duration
}

// AverageDetect returns the mean detection time per processed image.
func (s *Summary) AverageDetect() time.Duration {
	if s.Processed == 0 {
		return 0
	}
	return s.DetectTime / time.Duration(s.Processed)
}

// App runs benchmark batches with a single detector.
type App struct {
	config   Config
	detector detector.Detector
	logger   logging.Logger
}

// New creates a new App using d for every image.
func New(config Config, d detector.Detector) *App {
	if config.Params == (detector.Params{}) {
		config.Params = detector.DefaultParams()
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &App{
		config:   config,
		detector: d,
		logger:   logger,
	}
}

// Detect runs the detector on img and times only the detector call.
func (a *App) Detect(img gocv.Mat) (Result, error) {
	start := time.Now()
	boxes, err := a.detector.Detect(img, a.config.Params)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, err
	}
	return Result{Boxes: boxes, Elapsed: elapsed}, nil
}

// Close releases the detector.
func (a *App) Close() error {
	if a.detector == nil {
		return nil
	}
	return a.detector.Close()
}

// lineThickness picks the rectangle thickness: the override when set,
// otherwise thick lines for single images and thin lines for batches.
func lineThickness(mode source.Mode, override int) int {
	if override > 0 {
		return override
	}
	if mode == source.ModeImage {
		return annotate.ThickLine
	}
	return annotate.ThinLine
}
