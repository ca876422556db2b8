// Package source enumerates the images a benchmark run processes.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RootType is the type label attached to images found directly in a tree root.
const RootType = "root"

// Mode selects how input images are enumerated.
type Mode string

const (
	// ModeImage processes a single image file.
	ModeImage Mode = "image"
	// ModeDir processes the image files directly inside one directory.
	ModeDir Mode = "dir"
	// ModeTree walks a directory recursively and labels images by folder.
	ModeTree Mode = "tree"
)

var (
	// ErrNotFound is returned when the input path does not exist.
	ErrNotFound = errors.New("input not found")

	// ErrNoImages is returned when enumeration finds nothing to process.
	ErrNoImages = errors.New("no images found")
)

// imageExts lists the accepted extensions, lower case.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Item is one image scheduled for processing.
type Item struct {
	// Path is the location of the image on disk.
	Path string
	// Name is the file's base name.
	Name string
	// Type is the folder label in tree mode, empty otherwise.
	Type string
}

// Labeled reports whether the item carries a type label.
func (it Item) Labeled() bool {
	return it.Type != ""
}

// Listing is the result of enumerating an input.
type Listing struct {
	Mode  Mode
	Root  string
	Items []Item
	// Skipped holds files that were seen but do not have an image extension.
	Skipped []string
}

// IsImage reports whether name has an accepted image extension.
// The comparison is case-insensitive.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// List enumerates path according to mode.
func List(mode Mode, path string) (*Listing, error) {
	switch mode {
	case ModeImage:
		return Single(path)
	case ModeDir:
		return Dir(path)
	case ModeTree:
		return Tree(path)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// Single returns a listing holding one image file.
func Single(path string) (*Listing, error) {
	info, err := stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	l := &Listing{Mode: ModeImage, Root: filepath.Dir(path)}
	name := filepath.Base(path)
	if !IsImage(name) {
		l.Skipped = append(l.Skipped, path)
		return l, fmt.Errorf("%w: %s is not a supported image", ErrNoImages, path)
	}

	l.Items = append(l.Items, Item{Path: path, Name: name})
	return l, nil
}

// Dir lists the image files directly inside dir in lexical order.
// Subdirectories are ignored.
func Dir(dir string) (*Listing, error) {
	if err := requireDir(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	l := &Listing{Mode: ModeDir, Root: dir}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !IsImage(e.Name()) {
			l.Skipped = append(l.Skipped, path)
			continue
		}
		l.Items = append(l.Items, Item{Path: path, Name: e.Name()})
	}

	if len(l.Items) == 0 {
		return l, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}
	return l, nil
}

// Tree walks root recursively in lexical order. Every image is labeled with
// the base name of the directory holding it, or RootType for root itself.
func Tree(root string) (*Listing, error) {
	if err := requireDir(root); err != nil {
		return nil, err
	}

	l := &Listing{Mode: ModeTree, Root: root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !IsImage(d.Name()) {
			l.Skipped = append(l.Skipped, path)
			return nil
		}
		l.Items = append(l.Items, Item{
			Path: path,
			Name: d.Name(),
			Type: typeLabel(root, filepath.Dir(path)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	if len(l.Items) == 0 {
		return l, fmt.Errorf("%w under %s", ErrNoImages, root)
	}
	return l, nil
}

func typeLabel(root, dir string) string {
	if filepath.Clean(dir) == filepath.Clean(root) {
		return RootType
	}
	return filepath.Base(dir)
}

func stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return info, nil
}

func requireDir(dir string) error {
	info, err := stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
