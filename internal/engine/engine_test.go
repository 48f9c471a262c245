package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ivlev/umadetail/internal/analyzer"
	"github.com/ivlev/umadetail/internal/config"
	"github.com/ivlev/umadetail/internal/export"
	"github.com/ivlev/umadetail/internal/imagetools"
	"github.com/ivlev/umadetail/internal/layout"
	"github.com/ivlev/umadetail/internal/recognize"
	"github.com/ivlev/umadetail/internal/status"
)

// fakeSource serves gray images whose width encodes the expected outcome.
type fakeSource struct {
	widths []int
}

func (s *fakeSource) Count() int        { return len(s.widths) }
func (s *fakeSource) Name(i int) string { return fmt.Sprintf("screen%d.png", i) }
func (s *fakeSource) Close() error      { return nil }

func (s *fakeSource) Screen(i int) (image.Image, error) {
	if s.widths[i] == 0 {
		return nil, errors.New("corrupt file")
	}
	return image.NewGray(image.Rect(0, 0, s.widths[i], 4)), nil
}

const (
	okScreen      = 2
	foreignScreen = 1
	noRecognizer  = 3
)

type fakeExtractor struct {
	calls atomic.Int32
}

func (f *fakeExtractor) Load(img image.Image) (*imagetools.Mat, error) {
	f.calls.Add(1)
	if img.Bounds().Dx() == foreignScreen {
		return nil, fmt.Errorf("%w: no header row", analyzer.ErrPanelNotFound)
	}
	m, _ := imagetools.NewMat(4, 4, 3)
	m.Pix[0] = uint8(img.Bounds().Dx())
	return m, nil
}

func (f *fakeExtractor) Snapshot(m *imagetools.Mat) (*status.Snapshot, error) {
	if m.Pix[0] == noRecognizer {
		return nil, fmt.Errorf("read speed: %w", recognize.ErrRecognitionUnavailable)
	}
	return &status.Snapshot{
		Numbers: map[layout.Field]int{layout.Speed: 1200},
		Ranks:   map[layout.Field]string{layout.Turf: "A"},
		Skills:  status.NewSkillRecord(),
		Tab:     "info",
	}, nil
}

func TestRunKeepsOrderAndErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Workers:    3,
		ReportPath: filepath.Join(dir, "report.yaml"),
		DebugDir:   filepath.Join(dir, "debug"),
	}
	src := &fakeSource{widths: []int{okScreen, foreignScreen, 0, okScreen}}

	var logBuf bytes.Buffer
	project := NewProject(cfg, src, &fakeExtractor{})
	project.ResultLog = export.NewResultLog(&logBuf)

	results, err := project.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	for i, r := range results {
		if r.Index != i || r.Name != src.Name(i) {
			t.Errorf("result %d out of order: %+v", i, r)
		}
	}
	if results[0].Err != nil || !strings.HasPrefix(results[0].JSON, `{"speed":1200,`) {
		t.Errorf("result 0 = %+v", results[0])
	}
	if !errors.Is(results[1].Err, analyzer.ErrPanelNotFound) {
		t.Errorf("result 1 error = %v", results[1].Err)
	}
	if results[2].Err == nil || !strings.Contains(results[2].Err.Error(), "corrupt") {
		t.Errorf("result 2 error = %v", results[2].Err)
	}

	if got := strings.Count(logBuf.String(), "\n"); got != 4 {
		t.Errorf("result log has %d lines, want 4", got)
	}
	if !strings.Contains(logBuf.String(), "unsupported image") {
		t.Errorf("result log should flag the foreign screenshot:\n%s", logBuf.String())
	}

	report, err := ReadReport(cfg.ReportPath)
	if err != nil {
		t.Fatalf("ReadReport failed: %v", err)
	}
	if len(report.Screens) != 4 || report.Screens[0].ID != 1 || report.Screens[0].Tab != "info" {
		t.Errorf("unexpected report: %+v", report.Screens)
	}
	if report.Screens[1].Error == "" || report.Screens[0].Result != results[0].JSON {
		t.Errorf("report entries do not match results: %+v", report.Screens)
	}

	dumps, err := os.ReadDir(cfg.DebugDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(dumps) != 2 {
		t.Errorf("got %d panel dumps, want 2", len(dumps))
	}
}

func TestRunStopsWithoutRecognizer(t *testing.T) {
	widths := make([]int, 20)
	for i := range widths {
		widths[i] = okScreen
	}
	widths[0] = noRecognizer

	ex := &fakeExtractor{}
	project := NewProject(&config.Config{Workers: 1}, &fakeSource{widths: widths}, ex)

	_, err := project.Run(context.Background())
	if !errors.Is(err, recognize.ErrRecognitionUnavailable) {
		t.Fatalf("expected ErrRecognitionUnavailable, got %v", err)
	}
	if n := ex.calls.Load(); n >= int32(len(widths)) {
		t.Errorf("batch should stop early, processed %d screens", n)
	}
}

func TestRunEmptySource(t *testing.T) {
	project := NewProject(&config.Config{Workers: 2}, &fakeSource{}, &fakeExtractor{})
	if _, err := project.Run(context.Background()); err == nil {
		t.Error("expected error for an empty source")
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	project := NewProject(&config.Config{Workers: 1}, &fakeSource{widths: []int{okScreen, okScreen}}, &fakeExtractor{})
	results, err := project.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d should be canceled, got %v", r.Index, r.Err)
		}
	}
}
