// Package detector provides hand region detection over decoded images.
package detector

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

var (
	// ErrCascadeNotFound is returned when the cascade definition file does not exist.
	ErrCascadeNotFound = errors.New("cascade file not found")

	// ErrEmptyClassifier is returned when the cascade definition could not be loaded.
	ErrEmptyClassifier = errors.New("empty classifier")

	// ErrEmptyImage is returned when Detect is called with an empty image.
	ErrEmptyImage = errors.New("empty image")
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect scans img and returns candidate hand regions in the order the
	// implementation produced them. Returns an empty slice if nothing matched.
	Detect(img gocv.Mat, params Params) ([]Box, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Params holds the multi-scale detection parameters.
type Params struct {
	// ScaleFactor is how much the search window grows between scales.
	ScaleFactor float64

	// MinNeighbors is how many overlapping raw hits must agree before a
	// region is reported.
	MinNeighbors int

	// Flags is passed through to the classifier untouched.
	Flags int

	// MinSize is the smallest region reported.
	MinSize image.Point

	// MaxSize is the largest region reported. The zero value means no limit.
	MaxSize image.Point
}

// DefaultParams returns the fixed parameter set used for benchmarking:
// scale 1.1, one neighbor, no flags and a 150x150 minimum size.
func DefaultParams() Params {
	return Params{
		ScaleFactor:  1.1,
		MinNeighbors: 1,
		Flags:        0,
		MinSize:      image.Pt(150, 150),
	}
}

// Box is an axis-aligned detection in pixel coordinates.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BoxFromRect converts an image.Rectangle to a Box.
func BoxFromRect(r image.Rectangle) Box {
	return Box{
		X:      r.Min.X,
		Y:      r.Min.Y,
		Width:  r.Dx(),
		Height: r.Dy(),
	}
}

// Rect returns the box as an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// First returns the box at index 0, or the zero Box when boxes is empty.
// No ordering is imposed: the first box is whatever the detector returned first.
func First(boxes []Box) Box {
	if len(boxes) == 0 {
		return Box{}
	}
	return boxes[0]
}
