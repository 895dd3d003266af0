// Package config loads the worker manifest that tells the gateway which
// workers to supervise and which routes they answer.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v2"

	"lambdagate/internal/supervisor"
)

var endpointNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Manifest is the top-level shape of the manifest YAML file.
type Manifest struct {
	BindAddress   string         `yaml:"bind_address"`
	CacheCapacity int            `yaml:"cache_capacity"`
	Workers       []WorkerConfig `yaml:"workers"`
}

// WorkerConfig is a single worker entry in the manifest.
type WorkerConfig struct {
	ID           string   `yaml:"id"`
	Executable   string   `yaml:"executable"`
	Args         []string `yaml:"args"`
	WorkingDir   string   `yaml:"working_dir"`
	RoutePattern string   `yaml:"route_pattern"`
	EndpointName string   `yaml:"endpoint_name"`
	Mode         string   `yaml:"mode"` // "ipc" or "http"
}

// Load reads and parses the manifest at path, validating field formats.
// Cross-record invariants (duplicate ids, duplicate endpoint names, route
// ambiguity) are left to the supervisor and route table to check, since
// those checks require seeing the whole worker set together.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	for i, w := range m.Workers {
		if err := validateWorker(w); err != nil {
			return nil, fmt.Errorf("worker %d (%s): %w", i, w.ID, err)
		}
	}

	return &m, nil
}

func validateWorker(w WorkerConfig) error {
	if w.ID == "" {
		return fmt.Errorf("missing id")
	}
	if w.Executable == "" {
		return fmt.Errorf("missing executable")
	}
	if w.RoutePattern == "" {
		return fmt.Errorf("missing route_pattern")
	}
	if w.EndpointName == "" {
		return fmt.Errorf("missing endpoint_name")
	}
	if !endpointNamePattern.MatchString(w.EndpointName) {
		return fmt.Errorf("endpoint_name %q must match %s", w.EndpointName, endpointNamePattern)
	}
	switch w.Mode {
	case "", "ipc":
	case "http":
	default:
		return fmt.Errorf("unknown mode %q", w.Mode)
	}
	return nil
}

// Records converts the manifest's worker entries into supervisor records.
func (m *Manifest) Records() []supervisor.WorkerRecord {
	out := make([]supervisor.WorkerRecord, 0, len(m.Workers))
	for _, w := range m.Workers {
		mode := supervisor.ModeIPC
		if w.Mode == "http" {
			mode = supervisor.ModeHTTP
		}
		out = append(out, supervisor.WorkerRecord{
			ID:           w.ID,
			Executable:   w.Executable,
			Args:         w.Args,
			WorkingDir:   w.WorkingDir,
			RoutePattern: w.RoutePattern,
			EndpointName: w.EndpointName,
			Mode:         mode,
		})
	}
	return out
}
