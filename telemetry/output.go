package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/wavegrid/config"
)

// File names written into the output directory.
const (
	ProbeFile  = "probe.csv"
	PerfFile   = "perf.csv"
	ConfigFile = "config.yaml"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	probeFile *os.File
	perfFile  *os.File

	// Track if headers have been written
	probeHeaderWritten bool
	perfHeaderWritten  bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, ProbeFile))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", ProbeFile, err)
	}
	om.probeFile = f

	f, err = os.Create(filepath.Join(dir, PerfFile))
	if err != nil {
		om.probeFile.Close()
		return nil, fmt.Errorf("creating %s: %w", PerfFile, err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteProbe appends one snapshot's field stats to probe.csv.
func (om *OutputManager) WriteProbe(stats FieldStats) error {
	if om == nil {
		return nil
	}

	records := []FieldStats{stats}

	if !om.probeHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.probeFile); err != nil {
			return fmt.Errorf("writing probe: %w", err)
		}
		om.probeHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.probeFile); err != nil {
			return fmt.Errorf("writing probe: %w", err)
		}
	}

	return nil
}

// WritePerf appends a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, snapshot int) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(snapshot)}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.probeFile != nil {
		if err := om.probeFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
