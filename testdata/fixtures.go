// Package testdata generates image fixtures for handscan tests.
package testdata

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Gray is the fill color of generated fixture images.
var Gray = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

// WriteImage writes a solid gray width x height image to path. The encoder is
// chosen from the extension (.jpg, .jpeg, .png). Parent directories are created.
func WriteImage(path string, width, height int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create fixture dir: %w", err)
	}

	img := imaging.New(width, height, Gray)
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save fixture %s: %w", path, err)
	}
	return nil
}

// WriteCorrupt writes bytes that no image decoder accepts to path, which
// should carry an image extension.
func WriteCorrupt(path string) error {
	return writeFile(path, []byte("this is not an image"))
}

// WriteText writes a plain text file to path.
func WriteText(path string) error {
	return writeFile(path, []byte("notes\n"))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create fixture dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
