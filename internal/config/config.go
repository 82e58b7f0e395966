package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the settings file, relative to the process working directory.
const DefaultPath = "config/physics.yaml"

type Material struct {
	StaticFriction  float32 `yaml:"static_friction"`
	DynamicFriction float32 `yaml:"dynamic_friction"`
	Restitution     float32 `yaml:"restitution"`
}

type Sleep struct {
	LinearThreshold  float32 `yaml:"linear_threshold"`
	AngularThreshold float32 `yaml:"angular_threshold"`
	Time             float32 `yaml:"time"`
}

// Settings are the physics tunables. Gravity is in the engine frame (Z up).
type Settings struct {
	FixedTimestep    float32    `yaml:"fixed_timestep"`
	MaxSubsteps      int        `yaml:"max_substeps"`
	Gravity          [3]float32 `yaml:"gravity,flow"`
	WorkerThreads    int        `yaml:"worker_threads"`
	SolverIterations int        `yaml:"solver_iterations"`
	DefaultMaterial  Material   `yaml:"default_material"`
	DefaultDensity   float32    `yaml:"default_density"`
	Sleep            Sleep      `yaml:"sleep"`
}

func Default() Settings {
	return Settings{
		FixedTimestep:    1.0 / 60.0,
		MaxSubsteps:      8,
		Gravity:          [3]float32{0, 0, -9.81},
		WorkerThreads:    4,
		SolverIterations: 8,
		DefaultMaterial:  Material{StaticFriction: 0.5, DynamicFriction: 0.5, Restitution: 0.6},
		DefaultDensity:   1000,
		Sleep:            Sleep{LinearThreshold: 0.05, AngularThreshold: 0.05, Time: 0.5},
	}
}

// Load reads settings from path. A missing file yields Default() and no
// error; keys absent from the file keep their default values.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	s.Normalize()
	return s, nil
}

// Save writes settings to path, creating the directory if needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize clamps out-of-range values back into a usable range.
func (s *Settings) Normalize() {
	d := Default()
	if s.FixedTimestep <= 0 {
		s.FixedTimestep = d.FixedTimestep
	}
	s.FixedTimestep = min(s.FixedTimestep, 0.1)
	s.MaxSubsteps = min(max(s.MaxSubsteps, 1), 64)
	s.WorkerThreads = min(max(s.WorkerThreads, 1), 64)
	s.SolverIterations = min(max(s.SolverIterations, 1), 255)
	if s.DefaultDensity <= 0 {
		s.DefaultDensity = d.DefaultDensity
	}
	m := &s.DefaultMaterial
	m.StaticFriction = max(m.StaticFriction, 0)
	m.DynamicFriction = max(m.DynamicFriction, 0)
	m.Restitution = min(max(m.Restitution, 0), 1)
	s.Sleep.LinearThreshold = max(s.Sleep.LinearThreshold, 0)
	s.Sleep.AngularThreshold = max(s.Sleep.AngularThreshold, 0)
	s.Sleep.Time = max(s.Sleep.Time, 0)
}
