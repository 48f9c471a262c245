package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ivlev/umadetail/internal/analyzer"
	"github.com/ivlev/umadetail/internal/config"
	"github.com/ivlev/umadetail/internal/engine"
	"github.com/ivlev/umadetail/internal/export"
	"github.com/ivlev/umadetail/internal/layout"
	"github.com/ivlev/umadetail/internal/recognize"
	"github.com/ivlev/umadetail/internal/source"
	"github.com/ivlev/umadetail/internal/system"
)

var buildVersion = "dev"

func main() {
	defaults := config.Default()

	settingsPtr := flag.String("settings", "settings.ini", "INI file with default settings ([umadetail] section)")
	inputPtr := flag.String("input", "", "Screenshot, directory of screenshots or PDF album (default: first argument, then prompt)")
	layoutPtr := flag.String("layout", defaults.LayoutPath, "Layout table (YAML or JSON)")
	skillsPtr := flag.String("skills", defaults.SkillsPath, "Skill name table (YAML or JSON)")
	logPtr := flag.String("log", defaults.LogPath, "Result log, one JSON line per screenshot")
	recognizerPtr := flag.String("recognizer", defaults.Recognizer, "Recognition backend")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Screenshots processed in parallel")
	dpiPtr := flag.Int("dpi", defaults.DPI, "DPI for PDF albums")
	qrPtr := flag.String("qr", "", "Write the result as a QR code PNG")
	reportPtr := flag.String("report", "", "Write a YAML batch report")
	debugPtr := flag.String("debug-dir", "", "Save the normalized panels here")
	dumpPtr := flag.Bool("dump-layout", false, "Print the flattened layout table and exit")
	statsPtr := flag.Bool("stats", false, "Print a performance report")
	verbosePtr := flag.Bool("v", false, "Verbose diagnostics")

	flag.Parse()

	cfg, err := config.LoadFromINI(*settingsPtr)
	if err != nil {
		log.Fatalf("[-] Error: %v", err)
	}
	// explicit flags win over the settings file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "layout":
			cfg.LayoutPath = *layoutPtr
		case "skills":
			cfg.SkillsPath = *skillsPtr
		case "log":
			cfg.LogPath = *logPtr
		case "recognizer":
			cfg.Recognizer = *recognizerPtr
		case "workers":
			cfg.Workers = max(1, *workersPtr)
		case "dpi":
			cfg.DPI = *dpiPtr
		case "debug-dir":
			cfg.DebugDir = *debugPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		}
	})
	cfg.QRPath = *qrPtr
	cfg.ReportPath = *reportPtr
	cfg.DumpLayout = *dumpPtr
	cfg.BuildVersion = buildVersion

	level := zerolog.WarnLevel
	if *verbosePtr {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if cfg.DumpLayout {
		if err := dumpLayout(cfg.LayoutPath); err != nil {
			log.Fatalf("[-] Error: %v", err)
		}
		return
	}

	resultLog, err := export.OpenResultLog(cfg.LogPath)
	if err != nil {
		log.Fatalf("[-] Error: %v", err)
	}
	defer resultLog.Close()

	cfg.InputPath = resolveInput(*inputPtr, flag.Arg(0))
	if cfg.InputPath == "" {
		resultLog.Failure("", errors.New("no input"), "no screenshot given")
		fmt.Println("[-] Pass a screenshot path as the first argument.")
		os.Exit(1)
	}
	if _, err := os.Stat(cfg.InputPath); err != nil {
		resultLog.Failure(cfg.InputPath, err, "file does not exist")
		fmt.Printf("[-] File not found: %s\n", cfg.InputPath)
		os.Exit(1)
	}

	lay, err := layout.Load(cfg.LayoutPath)
	if err != nil {
		log.Fatalf("[-] Layout error: %v", err)
	}
	skills, err := layout.LoadSkills(cfg.SkillsPath)
	if err != nil {
		log.Fatalf("[-] Skill table error: %v", err)
	}
	rec, err := recognize.New(cfg.Recognizer)
	if err != nil {
		log.Fatalf("[-] Recognizer error: %v", err)
	}

	ex := analyzer.New(lay, skills, rec, analyzer.WithLogger(logger))
	if err := ex.LoadTemplates(); err != nil {
		log.Fatalf("[-] Template error: %v", err)
	}

	src, err := source.Open(cfg.InputPath, cfg.DPI)
	if err != nil {
		log.Fatalf("[-] Source error: %v", err)
	}
	defer src.Close()

	fmt.Printf("[*] Input: %s | Screens: %d | Workers: %d\n", cfg.InputPath, src.Count(), cfg.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewProject(cfg, src, ex)
	project.ResultLog = resultLog
	project.Logger = logger

	results, runErr := project.Run(ctx)

	failed := 0
	for _, r := range results {
		switch {
		case r.Err == nil:
			fmt.Printf("[+] %s\n%s\n", r.Name, r.JSON)
			if cfg.QRPath != "" {
				writeQR(cfg.QRPath, r, len(results))
			}
		case errors.Is(r.Err, analyzer.ErrPanelNotFound):
			failed++
			fmt.Printf("[-] %s: unsupported image. Use a PNG screenshot of the detail screen.\n", r.Name)
		case errors.Is(r.Err, context.Canceled):
			failed++
		default:
			failed++
			fmt.Printf("[-] %s: %v\n", r.Name, r.Err)
		}
	}

	if runErr != nil {
		resultLog.Close()
		log.Fatalf("[-] Extraction aborted: %v", runErr)
	}
	if failed > 0 {
		resultLog.Close()
		os.Exit(1)
	}
}

// resolveInput prefers the flag, then the first argument, then asks on
// stdin. An empty answer picks the latest screenshot in input/.
func resolveInput(flagValue, arg string) string {
	if flagValue != "" {
		return flagValue
	}
	if arg != "" {
		return arg
	}

	fmt.Print("[?] Screenshot path (empty: latest file in input/): ")
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	if path := strings.TrimSpace(line); path != "" {
		return path
	}

	latest, err := system.FindLatestImage("input")
	if err != nil {
		log.Printf("[!] %v", err)
		return ""
	}
	fmt.Printf("[*] Selected file: %s\n", latest)
	return latest
}

func dumpLayout(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	entries, err := layout.Flatten(data)
	if err != nil {
		return err
	}
	return layout.WriteFlat(os.Stdout, entries)
}

func writeQR(path string, r engine.Result, total int) {
	if total > 1 {
		ext := filepath.Ext(path)
		path = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), r.Index+1, ext)
	}
	if err := export.WriteQR(r.JSON, path); err != nil {
		log.Printf("[!] %v", err)
		return
	}
	fmt.Printf("[*] QR code: %s\n", path)
}
