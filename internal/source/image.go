package source

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

// IsImage reports whether the file name has a supported image extension.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range imageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ImageSource serves a single screenshot file or every image in a
// directory, sorted by name.
type ImageSource struct {
	paths []string
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && IsImage(entry.Name()) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths}, nil
}

func (s *ImageSource) Count() int {
	return len(s.paths)
}

func (s *ImageSource) Name(index int) string {
	return s.paths[index]
}

func (s *ImageSource) Screen(index int) (image.Image, error) {
	if index < 0 || index >= len(s.paths) {
		return nil, fmt.Errorf("screen %d out of range", index)
	}
	return imaging.Open(s.paths[index])
}

func (s *ImageSource) Close() error {
	return nil
}
