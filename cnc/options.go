// Package cnc maps manufacturing tasks onto the generic solvers:
//
//   - OptimizeToolChanges: operation order with fewest tool changes
//     (weighted A* over {done set, loaded tool}).
//   - PlanSetups: clamping direction per feature with related features
//     kept together (CSP, forward checking).
//   - OptimizeRapids: non-cutting moves around a box workpiece
//     (straight line, then potential field, then optional roadmap, then
//     retract over a safe height).
//
// Adapters are pure: value objects in, value objects out, no I/O. Decisions
// such as fallbacks and exhausted searches are logged at Debug on the
// logger from WithLogger (discarded by default).
package cnc

import (
	"errors"
	"log/slog"
	"math"

	"github.com/katalvlaran/lvsolve/motion"
	"github.com/katalvlaran/lvsolve/search"
)

// ErrBadOption indicates an invalid adapter option.
var ErrBadOption = errors.New("cnc: invalid option")

// Defaults.
const (
	DefaultResolution    = 0.5
	DefaultClearance     = 1.0
	DefaultRetractMargin = 5.0
)

// Options configures the adapters. Each adapter reads only its fields.
type Options struct {
	Logger *slog.Logger

	// MaxNodes caps the tool-change search.
	MaxNodes int

	// Resolution is the collision sampling step along rapid moves.
	Resolution float64

	// Clearance inflates the workpiece for rapid collision checks.
	Clearance float64

	// SafeHeight is the retract plane; 0 selects top + Clearance + DefaultRetractMargin.
	SafeHeight float64

	// Field tunes the potential-field fallback.
	Field []motion.FieldOption

	// Roadmap, when set, is tried after the potential field.
	Roadmap *motion.Roadmap
}

// Option mutates Options.
type Option func(*Options)

// WithLogger sets the logger for adapter decisions.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithMaxNodes caps tool-change search expansions.
func WithMaxNodes(n int) Option { return func(o *Options) { o.MaxNodes = n } }

// WithResolution sets the rapid collision sampling step.
func WithResolution(r float64) Option { return func(o *Options) { o.Resolution = r } }

// WithClearance sets the workpiece safety margin.
func WithClearance(c float64) Option { return func(o *Options) { o.Clearance = c } }

// WithSafeHeight sets the retract plane.
func WithSafeHeight(z float64) Option { return func(o *Options) { o.SafeHeight = z } }

// WithFieldOptions tunes the potential-field fallback.
func WithFieldOptions(opts ...motion.FieldOption) Option {
	return func(o *Options) { o.Field = append(o.Field, opts...) }
}

// WithRoadmap enables the roadmap fallback.
func WithRoadmap(rm *motion.Roadmap) Option { return func(o *Options) { o.Roadmap = rm } }

// DefaultOptions returns the package defaults.
func DefaultOptions() Options {
	return Options{
		MaxNodes:   search.DefaultMaxNodes,
		Resolution: DefaultResolution,
		Clearance:  DefaultClearance,
	}
}

func buildOptions(opts []Option) (Options, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.MaxNodes < 0 {
		return cfg, ErrBadOption
	}
	if !(cfg.Resolution > 0) || math.IsInf(cfg.Resolution, 1) {
		return cfg, ErrBadOption
	}
	if !(cfg.Clearance >= 0) || math.IsInf(cfg.Clearance, 1) || math.IsNaN(cfg.SafeHeight) {
		return cfg, ErrBadOption
	}

	return cfg, nil
}
