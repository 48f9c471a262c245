package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

// FindLatestImage returns the most recently modified screenshot in dir.
func FindLatestImage(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		isImage := false
		for _, ext := range imageExtensions {
			if strings.HasSuffix(strings.ToLower(f.Name()), ext) {
				isImage = true
				break
			}
		}
		if isImage {
			info, err := f.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(latestTime) {
				latestTime = info.ModTime()
				latestFile = filepath.Join(dir, f.Name())
			}
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no screenshots found in %s", dir)
	}

	return latestFile, nil
}

// HostInfo is a snapshot of the machine a batch ran on.
type HostInfo struct {
	LogicalCPUs int     `yaml:"logical_cpus"`
	CPUModel    string  `yaml:"cpu_model,omitempty"`
	TotalMemMB  uint64  `yaml:"total_mem_mb"`
	UsedMemPct  float64 `yaml:"used_mem_pct"`
}

// HostStats collects CPU and memory figures. Fields that cannot be read on
// the current platform stay zero.
func HostStats() (HostInfo, error) {
	var info HostInfo

	n, err := cpu.Counts(true)
	if err != nil {
		return info, fmt.Errorf("cpu counts: %w", err)
	}
	info.LogicalCPUs = n

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return info, fmt.Errorf("virtual memory: %w", err)
	}
	info.TotalMemMB = vm.Total / (1 << 20)
	info.UsedMemPct = vm.UsedPercent
	return info, nil
}

// ProcessRSS returns the resident set size of the current process in MB.
func ProcessRSS() (uint64, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	m, err := p.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return m.RSS / (1 << 20), nil
}
