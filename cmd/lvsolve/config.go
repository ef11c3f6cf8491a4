package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/katalvlaran/lvsolve/cnc"
	"github.com/katalvlaran/lvsolve/motion"
	"github.com/katalvlaran/lvsolve/search"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

var (
	// ErrBadConfig wraps every job validation failure.
	ErrBadConfig = errors.New("lvsolve: invalid job")

	// ErrBadLogLevel indicates an unknown --log-level / log_level value.
	ErrBadLogLevel = errors.New("lvsolve: log level must be debug, info, warn or error")
)

// Config is one YAML job. A job may carry inputs for several commands;
// each command reads only its own sections.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Solver SolverConfig `yaml:"solver"`

	// plan
	Operations []cnc.Operation `yaml:"operations"`
	Features   []FeatureConfig `yaml:"features"`
	Directions []cnc.Direction `yaml:"directions"`
	Points     []Point         `yaml:"points"`
	Workpiece  *BoxConfig      `yaml:"workpiece"`

	// tour
	Cities []City `yaml:"cities"`

	// assign
	Costs [][]float64 `yaml:"costs"`
}

// SolverConfig tunes the solvers.
type SolverConfig struct {
	Seed     uint64        `yaml:"seed"`
	MaxNodes int           `yaml:"max_nodes"`
	Polish   bool          `yaml:"polish"`
	Rapids   RapidsConfig  `yaml:"rapids"`
	Roadmap  RoadmapConfig `yaml:"roadmap"`
}

// RapidsConfig mirrors the cnc rapid options. SafeHeight 0 means derived.
type RapidsConfig struct {
	Resolution float64 `yaml:"resolution"`
	Clearance  float64 `yaml:"clearance"`
	SafeHeight float64 `yaml:"safe_height"`
}

// RoadmapConfig enables the roadmap fallback when Samples > 0.
type RoadmapConfig struct {
	Samples int     `yaml:"samples"`
	Radius  float64 `yaml:"radius"`
	Margin  float64 `yaml:"margin"`
}

// FeatureConfig is the YAML form of cnc.Feature.
type FeatureConfig struct {
	ID        string          `yaml:"id"`
	Allowed   []cnc.Direction `yaml:"allowed"`
	RelatedTo []string        `yaml:"related_to"`
}

// Point is a YAML 3-vector.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// BoxConfig is a YAML axis-aligned box.
type BoxConfig struct {
	Min Point `yaml:"min"`
	Max Point `yaml:"max"`
}

// City is a named planar location.
type City struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// DefaultConfig returns the job defaults applied before YAML is decoded.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Solver: SolverConfig{
			MaxNodes: search.DefaultMaxNodes,
			Polish:   true,
			Rapids: RapidsConfig{
				Resolution: cnc.DefaultResolution,
				Clearance:  cnc.DefaultClearance,
			},
			Roadmap: RoadmapConfig{
				Radius: motion.DefaultConnectionRadius,
				Margin: cnc.DefaultRetractMargin,
			},
		},
	}
}

// LoadConfig reads the job at path over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read job %s: %w", path, err)
	}

	return ParseConfig(bytes.NewReader(data))
}

// ParseConfig decodes a YAML job over DefaultConfig. Unknown keys are rejected.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode job: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks section shapes; solver-level checks stay with the solvers.
func (c Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Solver.MaxNodes < 0 {
		return fmt.Errorf("solver.max_nodes %d: %w", c.Solver.MaxNodes, ErrBadConfig)
	}
	if c.Solver.Roadmap.Samples < 0 || c.Solver.Roadmap.Margin < 0 {
		return fmt.Errorf("solver.roadmap: %w", ErrBadConfig)
	}
	if c.Solver.Roadmap.Samples > 0 && !(c.Solver.Roadmap.Radius > 0) {
		return fmt.Errorf("solver.roadmap.radius %g: %w", c.Solver.Roadmap.Radius, ErrBadConfig)
	}
	if len(c.Points) > 1 && c.Workpiece == nil {
		return fmt.Errorf("points without workpiece: %w", ErrBadConfig)
	}
	for i, row := range c.Costs {
		if len(row) != len(c.Costs[0]) {
			return fmt.Errorf("costs row %d has %d columns, want %d: %w", i, len(row), len(c.Costs[0]), ErrBadConfig)
		}
	}

	return nil
}

// features converts the YAML features.
func (c Config) features() []cnc.Feature {
	out := make([]cnc.Feature, len(c.Features))
	for i, f := range c.Features {
		out[i] = cnc.Feature{ID: f.ID, Allowed: f.Allowed, RelatedTo: f.RelatedTo}
	}

	return out
}

func (p Point) vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

func (b BoxConfig) box() motion.Box { return motion.Box{Min: b.Min.vec(), Max: b.Max.vec()} }

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrBadLogLevel)
	}
}
