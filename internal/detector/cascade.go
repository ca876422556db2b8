package detector

import (
	"fmt"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// CascadeDetector implements Detector using an OpenCV Haar cascade.
type CascadeDetector struct {
	path       string
	classifier gocv.CascadeClassifier
	mu         sync.Mutex
	closed     bool
}

// NewCascadeDetector loads the cascade definition at path.
// It fails fast when the file is missing or cannot be parsed.
func NewCascadeDetector(path string) (*CascadeDetector, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCascadeNotFound, path)
		}
		return nil, fmt.Errorf("stat cascade %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrCascadeNotFound, path)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("%w: %s", ErrEmptyClassifier, path)
	}

	return &CascadeDetector{
		path:       path,
		classifier: classifier,
	}, nil
}

// Path returns the cascade file the detector was loaded from.
func (d *CascadeDetector) Path() string {
	return d.path
}

// Detect runs multi-scale detection on img.
func (d *CascadeDetector) Detect(img gocv.Mat, params Params) ([]Box, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrEmptyClassifier
	}
	if img.Empty() {
		return nil, ErrEmptyImage
	}

	rects := d.classifier.DetectMultiScaleWithParams(
		img,
		params.ScaleFactor,
		params.MinNeighbors,
		params.Flags,
		params.MinSize,
		params.MaxSize,
	)

	boxes := make([]Box, len(rects))
	for i, r := range rects {
		boxes[i] = BoxFromRect(r)
	}

	return boxes, nil
}

// Close releases the underlying classifier.
func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.classifier.Close()
}
