package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/umadetail/internal/analyzer"
	"github.com/ivlev/umadetail/internal/config"
	"github.com/ivlev/umadetail/internal/export"
	"github.com/ivlev/umadetail/internal/imagetools"
	"github.com/ivlev/umadetail/internal/layout"
	"github.com/ivlev/umadetail/internal/recognize"
	"github.com/ivlev/umadetail/internal/source"
	"github.com/ivlev/umadetail/internal/status"
	"github.com/ivlev/umadetail/internal/system"
)

// Extractor is the part of analyzer.Extractor the engine drives.
type Extractor interface {
	Load(img image.Image) (*imagetools.Mat, error)
	Snapshot(m *imagetools.Mat) (*status.Snapshot, error)
}

// Result is the outcome for one screenshot.
type Result struct {
	Index    int
	Name     string
	JSON     string
	Snapshot *status.Snapshot
	Err      error
	Elapsed  time.Duration
}

type Project struct {
	Config    *config.Config
	Source    source.Source
	Extractor Extractor
	ResultLog *export.ResultLog
	Logger    zerolog.Logger
}

func NewProject(cfg *config.Config, src source.Source, ex Extractor) *Project {
	return &Project{
		Config:    cfg,
		Source:    src,
		Extractor: ex,
		Logger:    zerolog.Nop(),
	}
}

// Run processes every screenshot of the source, each in its own pipeline.
// Per-screen failures are kept in the results; a missing recognizer or a
// broken configuration stops the whole batch.
func (p *Project) Run(ctx context.Context) ([]Result, error) {
	startTime := time.Now()

	count := p.Source.Count()
	if count == 0 {
		return nil, fmt.Errorf("source has no screenshots")
	}

	workers := p.Config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > count {
		workers = count
	}

	if p.Config.DebugDir != "" {
		if err := os.MkdirAll(p.Config.DebugDir, 0755); err != nil {
			return nil, fmt.Errorf("create debug dir: %w", err)
		}
	}

	results := make([]Result, count)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < count; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Index: i, Name: p.Source.Name(i), Err: err}
				return err
			}
			results[i] = p.process(i)
			if fatal(results[i].Err) {
				return results[i].Err
			}
			return nil
		})
	}
	err := g.Wait()

	for _, r := range results {
		p.record(r)
	}

	if p.Config.ReportPath != "" {
		report := NewReport(p.Config.BuildVersion, results)
		if host, herr := system.HostStats(); herr == nil {
			report.Host = &host
		}
		if werr := WriteReport(report, p.Config.ReportPath); werr != nil {
			p.Logger.Error().Err(werr).Msg("batch report not written")
		}
	}
	if p.Config.ShowStats {
		p.showStats(results, time.Since(startTime))
	}
	return results, err
}

func (p *Project) process(i int) (r Result) {
	start := time.Now()
	r = Result{Index: i, Name: p.Source.Name(i)}
	defer func() { r.Elapsed = time.Since(start) }()

	img, err := p.Source.Screen(i)
	if err != nil {
		r.Err = fmt.Errorf("decode: %w", err)
		return r
	}
	m, err := p.Extractor.Load(img)
	if err != nil {
		r.Err = err
		return r
	}
	if p.Config.DebugDir != "" {
		p.dump(r.Name, m)
	}

	r.Snapshot, err = p.Extractor.Snapshot(m)
	if err != nil {
		r.Err = err
		return r
	}
	r.JSON, r.Err = r.Snapshot.JSON()
	return r
}

func (p *Project) record(r Result) {
	if p.ResultLog == nil {
		return
	}
	switch {
	case r.Err == nil:
		p.ResultLog.Result(r.Name, r.JSON)
	case errors.Is(r.Err, analyzer.ErrPanelNotFound):
		p.ResultLog.Failure(r.Name, r.Err, "unsupported image")
	case errors.Is(r.Err, context.Canceled):
		// not attempted
	default:
		p.ResultLog.Failure(r.Name, r.Err, "extraction failed")
	}
}

func (p *Project) dump(name string, m *imagetools.Mat) {
	img, err := m.Image()
	if err != nil {
		p.Logger.Warn().Err(err).Str("image", name).Msg("panel not dumped")
		return
	}
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.NewReplacer("#", "_", " ", "_").Replace(base)
	path := filepath.Join(p.Config.DebugDir, base+"_panel.png")
	if err := imaging.Save(img, path); err != nil {
		p.Logger.Warn().Err(err).Str("path", path).Msg("panel not dumped")
	}
}

func (p *Project) showStats(results []Result, total time.Duration) {
	failed := 0
	var busy time.Duration
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		busy += r.Elapsed
	}
	perScreen := 0.0
	if len(results) > 0 {
		perScreen = busy.Seconds() / float64(len(results))
	}

	host, err := system.HostStats()
	if err != nil {
		p.Logger.Warn().Err(err).Msg("host stats unavailable")
	}
	rss, err := system.ProcessRSS()
	if err != nil {
		p.Logger.Warn().Err(err).Msg("process stats unavailable")
	}

	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Screens: %d (failed: %d)\n"+
			"Total Time: %.2fs\n"+
			"Per Screen: %.3fs\n"+
			"Workers: %d | CPUs: %d | RSS: %d MB | Host memory: %.1f%% of %d MB\n"+
			"----------------------------\n",
		p.Config.BuildVersion, len(results), failed, total.Seconds(), perScreen,
		p.Config.Workers, host.LogicalCPUs, rss, host.UsedMemPct, host.TotalMemMB,
	)

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Screens: %d | Failed: %d | Total: %.2fs | Per screen: %.3fs | RSS: %d MB\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		len(results),
		failed,
		total.Seconds(),
		perScreen,
		rss,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Could not write benchmark.log: %v\n", err)
	}
}

func fatal(err error) bool {
	return errors.Is(err, recognize.ErrRecognitionUnavailable) ||
		errors.Is(err, layout.ErrConfiguration) ||
		errors.Is(err, analyzer.ErrNoTemplates)
}
