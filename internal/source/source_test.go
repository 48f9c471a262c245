package source

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestImageSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	img := imaging.New(8, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	for _, name := range []string{"b.png", "a.jpg"} {
		if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	src, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	if src.Count() != 2 {
		t.Fatalf("Count = %d, want 2", src.Count())
	}
	if filepath.Base(src.Name(0)) != "a.jpg" {
		t.Errorf("Name(0) = %s, want a.jpg first", src.Name(0))
	}

	screen, err := src.Screen(1)
	if err != nil {
		t.Fatalf("Screen failed: %v", err)
	}
	if screen.Bounds() != image.Rect(0, 0, 8, 4) {
		t.Errorf("bounds = %v", screen.Bounds())
	}
	if _, err := src.Screen(5); err == nil {
		t.Error("expected error for out of range index")
	}
}

func TestImageSourceMissing(t *testing.T) {
	if _, err := NewImageSource(filepath.Join(t.TempDir(), "nope.png")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestIsImage(t *testing.T) {
	tests := map[string]bool{
		"shot.PNG":  true,
		"shot.webp": true,
		"shot.jpeg": true,
		"album.pdf": false,
		"README":    false,
	}
	for name, want := range tests {
		if got := IsImage(name); got != want {
			t.Errorf("IsImage(%q) = %v, want %v", name, got, want)
		}
	}
}
