package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// flags are the persistent root flags.
type flags struct {
	logLevel string
	json     bool
	seed     uint64
	trace    bool
}

// newRootCmd builds a fresh command tree.
func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "lvsolve",
		Short: "Search, optimization and planning solvers driven by YAML jobs",
		Long: `lvsolve runs the solver toolkit on a YAML job file.

Commands:
  plan    tool-change order, setup directions and rapid moves for a part
  tour    Christofides tour over named cities
  assign  minimum-cost assignment over a cost matrix

Precedence: built-in defaults < job file < flags.`,
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides log_level)")
	pf.BoolVar(&f.json, "json", false, "emit JSON results and JSON logs")
	pf.Uint64Var(&f.seed, "seed", 0, "random seed (overrides solver.seed)")
	pf.BoolVar(&f.trace, "trace", false, "export OpenTelemetry spans to stderr")

	root.AddCommand(newPlanCmd(f), newTourCmd(f), newAssignCmd(f))

	return root
}

// run is the per-invocation state shared by the commands.
type run struct {
	id     uuid.UUID
	cfg    Config
	log    *slog.Logger
	out    io.Writer
	json   bool
	finish func(context.Context) error
}

// start loads the job, applies flag overrides, and builds the logger and
// optional tracer provider.
func start(cmd *cobra.Command, f *flags, path string) (*run, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("seed") {
		cfg.Solver.Seed = f.seed
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	r := &run{
		id:     uuid.New(),
		cfg:    cfg,
		out:    cmd.OutOrStdout(),
		json:   f.json,
		finish: func(context.Context) error { return nil },
	}
	r.log = newLogger(cmd.ErrOrStderr(), level, f.json, r.id)
	if f.trace {
		if r.finish, err = initTracing(cmd.ErrOrStderr(), r.id); err != nil {
			return nil, err
		}
	}
	r.log.Debug("job loaded",
		slog.String("command", cmd.Name()),
		slog.String("path", path),
		slog.Uint64("seed", cfg.Solver.Seed),
	)

	return r, nil
}

// emit writes v as indented JSON, or calls text for the plain form.
func (r *run) emit(v any, text func(io.Writer)) error {
	if !r.json {
		text(r.out)
		return nil
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return nil
}

// close flushes telemetry, keeping the first error.
func (r *run) close(ctx context.Context, err error) error {
	if ferr := r.finish(ctx); ferr != nil && err == nil {
		err = fmt.Errorf("flush traces: %w", ferr)
	}

	return err
}
