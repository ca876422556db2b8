// Package annotate draws detection overlays onto images using GoCV.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/handscan/internal/detector"
)

// Line thickness used by the single image and batch variants.
const (
	ThickLine = 10
	ThinLine  = 2
)

var (
	// BoxColor is the rectangle color drawn around detected hands.
	BoxColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}

	// TextColor is the overlay text color.
	TextColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}

	// TextOrigin is the baseline position of the overlay text.
	TextOrigin = image.Pt(10, 30)
)

// Style holds the drawing parameters for an annotated image.
type Style struct {
	BoxColor      color.RGBA
	LineThickness int
	TextColor     color.RGBA
	Font          gocv.HersheyFont
	FontScale     float64
	FontThickness int
	TextOrigin    image.Point
}

// DefaultStyle returns the style with the given rectangle thickness.
func DefaultStyle(thickness int) Style {
	if thickness <= 0 {
		thickness = ThinLine
	}
	return Style{
		BoxColor:      BoxColor,
		LineThickness: thickness,
		TextColor:     TextColor,
		Font:          gocv.FontHersheySimplex,
		FontScale:     1.0,
		FontThickness: 2,
		TextOrigin:    TextOrigin,
	}
}

// Boxes draws one rectangle per box and returns how many were drawn.
func Boxes(img *gocv.Mat, boxes []detector.Box, style Style) (int, error) {
	drawn := 0
	for _, b := range boxes {
		if err := gocv.Rectangle(img, b.Rect(), style.BoxColor, style.LineThickness); err != nil {
			return drawn, fmt.Errorf("draw rectangle: %w", err)
		}
		drawn++
	}
	return drawn, nil
}

// Label formats the overlay text. typ is appended only when non-empty.
func Label(count int, elapsed time.Duration, typ string) string {
	ms := float64(elapsed.Nanoseconds()) / 1e6
	text := fmt.Sprintf("Hands: %d | %.2f ms", count, ms)
	if typ != "" {
		text += " | type: " + typ
	}
	return text
}

// Text draws text at the style's fixed origin.
func Text(img *gocv.Mat, text string, style Style) error {
	if err := gocv.PutText(img, text, style.TextOrigin, style.Font, style.FontScale, style.TextColor, style.FontThickness); err != nil {
		return fmt.Errorf("draw text: %w", err)
	}
	return nil
}

// Draw renders all boxes and the summary label onto img.
func Draw(img *gocv.Mat, boxes []detector.Box, elapsed time.Duration, typ string, style Style) error {
	if _, err := Boxes(img, boxes, style); err != nil {
		return err
	}
	return Text(img, Label(len(boxes), elapsed, typ), style)
}

// OutputName returns the file name for an annotated image. A type label is
// used as a prefix so identically named files from different folders do not
// collide.
func OutputName(name, typ string) string {
	name = filepath.Base(name)
	if typ == "" {
		return name
	}
	return typ + "_" + name
}

// Write encodes img to path. The format follows the file extension.
func Write(path string, img gocv.Mat) error {
	if !gocv.IMWrite(path, img) {
		return fmt.Errorf("write image %s", path)
	}
	return nil
}
