package app

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"gocv.io/x/gocv"

	"github.com/ayusman/handscan/internal/annotate"
	"github.com/ayusman/handscan/internal/report"
	"github.com/ayusman/handscan/internal/source"
	"github.com/ayusman/handscan/internal/store"
)

// run is the state owned by a single Run call. The CSV writer and history
// run are acquired at the start and released on every exit path.
type run struct {
	app     *App
	csv     *report.Writer
	style   annotate.Style
	summary Summary
	// written maps output paths to the input that produced them.
	written map[string]string
}

// Run processes every item of listing in order.
//
// Pipeline per image:
// 1. Decode; unreadable files are logged and skipped
// 2. Time the detector call only
// 3. Draw one rectangle per box and the summary text
// 4. Write the annotated image, prefixed with the type label when present
// 5. Append the CSV row (and history row), zero-filled when nothing matched
//
// Failures writing outputs abort the run. The CSV is flushed and closed
// regardless and the history run is finished with the partial counters; both
// errors are combined with the returned error.
func (a *App) Run(listing *source.Listing) (summary *Summary, err error) {
	if listing == nil || len(listing.Items) == 0 {
		return nil, source.ErrNoImages
	}

	if err := os.MkdirAll(a.config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	csv, err := report.Create(a.config.CSVPath, listing.Mode == source.ModeTree)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, csv.Close())
	}()

	r := &run{
		app:     a,
		csv:     csv,
		style:   annotate.DefaultStyle(lineThickness(listing.Mode, a.config.Thickness)),
		written: make(map[string]string, len(listing.Items)),
		summary: Summary{
			OutputDir: a.config.OutputDir,
			CSVPath:   a.config.CSVPath,
		},
	}

	if err := r.startHistory(listing); err != nil {
		return nil, err
	}

	for _, path := range listing.Skipped {
		a.logger.Warnw("skipping non-image file", "file", path)
		r.summary.Skipped++
	}

	for _, it := range listing.Items {
		if err := r.process(it); err != nil {
			return &r.summary, multierr.Append(err, r.finishHistory())
		}
	}

	if err := r.finishHistory(); err != nil {
		return &r.summary, err
	}

	a.logger.Infof("processed %d images (%d skipped), output in %s, csv at %s",
		r.summary.Processed, r.summary.Skipped, r.summary.OutputDir, r.summary.CSVPath)

	return &r.summary, nil
}

// process runs the full pipeline for one image. A returned error is fatal to
// the run; per-image problems are logged and counted as skipped instead.
func (r *run) process(it source.Item) error {
	a := r.app

	img := gocv.IMRead(it.Path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		a.logger.Warnw("skipping unreadable image", "file", it.Path)
		r.summary.Skipped++
		return nil
	}
	defer img.Close()

	res, err := a.Detect(img)
	if err != nil {
		a.logger.Warnw("skipping image, detection failed", "file", it.Path, "error", err)
		r.summary.Skipped++
		return nil
	}

	if err := annotate.Draw(&img, res.Boxes, res.Elapsed, it.Type, r.style); err != nil {
		return fmt.Errorf("annotate %s: %w", it.Path, err)
	}

	outPath := filepath.Join(a.config.OutputDir, annotate.OutputName(it.Name, it.Type))
	if prev, ok := r.written[outPath]; ok {
		a.logger.Warnw("overwriting annotated image", "output", outPath, "file", it.Path, "previous", prev)
	}
	if err := annotate.Write(outPath, img); err != nil {
		return err
	}
	r.written[outPath] = it.Path

	rec := report.NewRecord(it.Name, it.Type, res.Boxes, res.Elapsed.Nanoseconds())
	if err := r.csv.Write(rec); err != nil {
		return fmt.Errorf("append csv row for %s: %w", it.Path, err)
	}
	if err := r.recordHistory(rec); err != nil {
		return fmt.Errorf("record history for %s: %w", it.Path, err)
	}

	r.summary.Processed++
	r.summary.DetectTime += res.Elapsed

	if it.Labeled() {
		a.logger.Infof("[%s] %s: %d hands in %.2f ms", it.Type, it.Name, len(res.Boxes), ms(res.Elapsed.Nanoseconds()))
	} else {
		a.logger.Infof("%s: %d hands in %.2f ms", it.Name, len(res.Boxes), ms(res.Elapsed.Nanoseconds()))
	}

	return nil
}

func (r *run) startHistory(listing *source.Listing) error {
	st := r.app.config.Store
	if st == nil {
		return nil
	}

	input := listing.Root
	if listing.Mode == source.ModeImage {
		input = listing.Items[0].Path
	}

	hr := &store.Run{
		Mode:      string(listing.Mode),
		Input:     input,
		OutputDir: r.app.config.OutputDir,
		CSVPath:   r.app.config.CSVPath,
		Cascade:   r.app.config.Cascade,
	}
	if err := st.Runs().Create(hr); err != nil {
		return fmt.Errorf("create history run: %w", err)
	}

	r.summary.RunID = hr.ID
	return nil
}

func (r *run) recordHistory(rec report.Record) error {
	st := r.app.config.Store
	if st == nil {
		return nil
	}

	return st.Results().Add(&store.Result{
		RunID:         r.summary.RunID,
		Seq:           r.csv.Rows() - 1,
		File:          rec.File,
		Type:          rec.Type,
		DetectedCount: rec.DetectedCount,
		TimeNs:        rec.TimeNs,
		FirstX:        rec.FirstX,
		FirstY:        rec.FirstY,
		FirstW:        rec.FirstW,
		FirstH:        rec.FirstH,
	})
}

func (r *run) finishHistory() error {
	st := r.app.config.Store
	if st == nil {
		return nil
	}

	if err := st.Runs().Finish(r.summary.RunID, r.summary.Processed, r.summary.Skipped); err != nil {
		return fmt.Errorf("finish history run: %w", err)
	}
	return nil
}

func ms(ns int64) float64 {
	return float64(ns) / 1e6
}
