package source

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source yields screenshots by index.
type Source interface {
	Count() int
	Name(index int) string
	Screen(index int) (image.Image, error)
	Close() error
}

// Open picks the source type by extension: PDF albums go through fitz,
// everything else is treated as an image file or directory.
func Open(path string, dpi int) (Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return NewFitzPDFSource(path, dpi)
	}
	return NewImageSource(path)
}

// FitzPDFSource renders each page of a PDF as one screenshot.
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *FitzPDFSource) Count() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) Name(index int) string {
	return fmt.Sprintf("%s#%d", filepath.Base(f.path), index+1)
}

// Screen renders a page on a private document handle so that pages can be
// rendered concurrently.
func (f *FitzPDFSource) Screen(index int) (image.Image, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(f.dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
