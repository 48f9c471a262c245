package engine

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/umadetail/internal/system"
)

// Report summarizes a batch run.
type Report struct {
	Version   string           `yaml:"version"`
	Generated time.Time        `yaml:"generated"`
	Host      *system.HostInfo `yaml:"host,omitempty"`
	Screens   []ScreenEntry    `yaml:"screens"`
}

// ScreenEntry is one screenshot of the batch.
type ScreenEntry struct {
	ID      int     `yaml:"id"`
	Input   string  `yaml:"input"`
	Tab     string  `yaml:"tab,omitempty"`
	Result  string  `yaml:"result,omitempty"` // JSON object string
	Error   string  `yaml:"error,omitempty"`
	Seconds float64 `yaml:"seconds"`
}

// NewReport builds a report from batch results.
func NewReport(version string, results []Result) *Report {
	r := &Report{Version: version, Generated: time.Now().UTC().Truncate(time.Second)}
	for _, res := range results {
		e := ScreenEntry{
			ID:      res.Index + 1,
			Input:   res.Name,
			Result:  res.JSON,
			Seconds: res.Elapsed.Seconds(),
		}
		if res.Snapshot != nil {
			e.Tab = res.Snapshot.Tab
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		r.Screens = append(r.Screens, e)
	}
	return r
}

// WriteReport writes a report to a YAML file
func WriteReport(report *Report, path string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadReport reads a report from a YAML file
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	return &report, nil
}
