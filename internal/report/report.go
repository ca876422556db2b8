// Package report writes per-image benchmark rows to CSV.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/multierr"

	"github.com/ayusman/handscan/internal/detector"
)

// ErrClosed is returned when writing to a closed Writer.
var ErrClosed = errors.New("report writer is closed")

// Record is one CSV row describing a processed image.
type Record struct {
	File          string
	Type          string
	DetectedCount int
	TimeNs        int64
	FirstX        int
	FirstY        int
	FirstW        int
	FirstH        int
}

// NewRecord builds a record from the detector output. The box fields hold the
// first returned box, or zeros when nothing was detected.
func NewRecord(file, typ string, boxes []detector.Box, timeNs int64) Record {
	first := detector.First(boxes)
	return Record{
		File:          file,
		Type:          typ,
		DetectedCount: len(boxes),
		TimeNs:        timeNs,
		FirstX:        first.X,
		FirstY:        first.Y,
		FirstW:        first.Width,
		FirstH:        first.Height,
	}
}

// Header returns the CSV header, with the type column when withType is set.
func Header(withType bool) []string {
	h := []string{"file"}
	if withType {
		h = append(h, "type")
	}
	return append(h, "detected_count", "time_ns", "first_x", "first_y", "first_w", "first_h")
}

// Fields renders r as CSV fields matching Header(withType).
func (r Record) Fields(withType bool) []string {
	f := []string{r.File}
	if withType {
		f = append(f, r.Type)
	}
	return append(f,
		strconv.Itoa(r.DetectedCount),
		strconv.FormatInt(r.TimeNs, 10),
		strconv.Itoa(r.FirstX),
		strconv.Itoa(r.FirstY),
		strconv.Itoa(r.FirstW),
		strconv.Itoa(r.FirstH),
	)
}

// Writer appends records to a CSV file. Every row is flushed as soon as it is
// written so an interrupted run keeps all completed rows.
type Writer struct {
	closer   io.Closer
	csv      *csv.Writer
	withType bool
	rows     int
	closed   bool
}

// Create creates (or truncates) the CSV file at path, creating parent
// directories as needed, and writes the header.
func Create(path string, withType bool) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create csv dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv: %w", err)
	}

	w := newWriter(f, f, withType)
	if err := w.writeRow(Header(withType)); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	return w, nil
}

func newWriter(out io.Writer, closer io.Closer, withType bool) *Writer {
	return &Writer{
		closer:   closer,
		csv:      csv.NewWriter(out),
		withType: withType,
	}
}

// Write appends one record.
func (w *Writer) Write(r Record) error {
	if err := w.writeRow(r.Fields(w.withType)); err != nil {
		return err
	}
	w.rows++
	return nil
}

func (w *Writer) writeRow(fields []string) error {
	if w.closed {
		return ErrClosed
	}
	if err := w.csv.Write(fields); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}

// Rows returns the number of records written, excluding the header.
func (w *Writer) Rows() int {
	return w.rows
}

// Close flushes pending output and closes the underlying file.
// Calling Close more than once is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.csv.Flush()
	err := w.csv.Error()
	if w.closer != nil {
		err = multierr.Append(err, w.closer.Close())
	}
	return err
}
