package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/katalvlaran/lvsolve/cnc"
	"github.com/katalvlaran/lvsolve/internal/rng"
	"github.com/katalvlaran/lvsolve/motion"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/spatial/r3"
)

// planOutput holds whichever adapters the job had input for.
type planOutput struct {
	RunID  string         `json:"run_id"`
	Tools  *cnc.ToolPlan  `json:"tool_plan,omitempty"`
	Setups *cnc.SetupPlan `json:"setup_plan,omitempty"`
	Rapids *cnc.RapidPlan `json:"rapid_plan,omitempty"`
}

func newPlanCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan JOB",
		Short: "Plan tool changes, setups and rapid moves",
		Long: `Runs each manufacturing adapter the job has input for:

  operations             -> tool-change order
  features + directions  -> setup direction per feature
  points + workpiece     -> rapid moves around the workpiece`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			r, err := start(cmd, f, args[0])
			if err != nil {
				return err
			}
			defer func() { err = r.close(context.WithoutCancel(cmd.Context()), err) }()

			out, err := plan(cmd.Context(), r)
			if err != nil {
				return err
			}
			return r.emit(out, func(w io.Writer) { printPlan(w, out) })
		},
	}
}

func plan(ctx context.Context, r *run) (planOutput, error) {
	var (
		cfg  = r.cfg
		out  = planOutput{RunID: r.id.String()}
		opts = []cnc.Option{
			cnc.WithLogger(r.log),
			cnc.WithMaxNodes(cfg.Solver.MaxNodes),
			cnc.WithResolution(cfg.Solver.Rapids.Resolution),
			cnc.WithClearance(cfg.Solver.Rapids.Clearance),
			cnc.WithSafeHeight(cfg.Solver.Rapids.SafeHeight),
		}
	)

	// 1) Tool changes.
	if len(cfg.Operations) > 0 {
		err := traced(ctx, "cnc.OptimizeToolChanges", func() ([]attribute.KeyValue, error) {
			res, err := cnc.OptimizeToolChanges(cfg.Operations, opts...)
			if err != nil {
				return nil, fmt.Errorf("tool changes: %w", err)
			}
			out.Tools = &res
			return []attribute.KeyValue{
				attribute.Int("operations", len(cfg.Operations)),
				attribute.Int("tool_changes", res.ToolChanges),
				attribute.Bool("searched", res.Searched),
				attribute.Int("nodes_expanded", res.NodesExpanded),
			}, nil
		})
		if err != nil {
			return out, err
		}
		r.log.Info("tool changes planned",
			slog.Int("operations", len(cfg.Operations)),
			slog.Int("tool_changes", out.Tools.ToolChanges),
		)
	}

	// 2) Setups.
	if len(cfg.Features) > 0 {
		err := traced(ctx, "cnc.PlanSetups", func() ([]attribute.KeyValue, error) {
			res, err := cnc.PlanSetups(cfg.features(), cfg.Directions, opts...)
			if err != nil {
				return nil, fmt.Errorf("setups: %w", err)
			}
			out.Setups = &res
			return []attribute.KeyValue{
				attribute.Int("features", len(cfg.Features)),
				attribute.Bool("feasible", res.Feasible),
				attribute.Int("setups", len(res.Setups)),
				attribute.Int("backtracks", res.Backtracks),
			}, nil
		})
		if err != nil {
			return out, err
		}
		r.log.Info("setups planned",
			slog.Bool("feasible", out.Setups.Feasible),
			slog.Int("setups", len(out.Setups.Setups)),
		)
	}

	// 3) Rapids.
	if len(cfg.Points) > 1 {
		var (
			work   = cfg.Workpiece.box()
			points = make([]r3.Vec, len(cfg.Points))
		)
		for i, p := range cfg.Points {
			points[i] = p.vec()
		}
		rapidOpts := opts
		if cfg.Solver.Roadmap.Samples > 0 {
			rm, err := buildRoadmap(cfg, work, points)
			if err != nil {
				return out, fmt.Errorf("roadmap: %w", err)
			}
			r.log.Debug("roadmap built", slog.Int("nodes", len(rm.Nodes())), slog.Int("edges", rm.Edges()))
			rapidOpts = append(rapidOpts[:len(rapidOpts):len(rapidOpts)], cnc.WithRoadmap(rm))
		}
		err := traced(ctx, "cnc.OptimizeRapids", func() ([]attribute.KeyValue, error) {
			res, err := cnc.OptimizeRapids(points, work, rapidOpts...)
			if err != nil {
				return nil, fmt.Errorf("rapids: %w", err)
			}
			out.Rapids = &res
			attrs := []attribute.KeyValue{
				attribute.Int("segments", len(res.Segments)),
				attribute.Float64("total_distance", res.TotalDistance),
			}
			for s, n := range res.Breakdown {
				attrs = append(attrs, attribute.Int("strategy."+string(s), n))
			}
			return attrs, nil
		})
		if err != nil {
			return out, err
		}
		r.log.Info("rapids planned",
			slog.Int("segments", len(out.Rapids.Segments)),
			slog.Float64("total_distance", out.Rapids.TotalDistance),
		)
	}

	return out, nil
}

// buildRoadmap samples the box spanning the rapid points and the workpiece
// keep-out zone, grown by the roadmap margin.
func buildRoadmap(cfg Config, work motion.Box, points []r3.Vec) (*motion.Roadmap, error) {
	keepOut := work.Inflate(cfg.Solver.Rapids.Clearance)
	lo, hi := keepOut.Min, keepOut.Max
	for _, p := range points {
		lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	m := cfg.Solver.Roadmap.Margin
	grow := r3.Vec{X: m, Y: m, Z: m}

	return motion.NewRoadmap(motion.RoadmapConfig{
		Samples:          cfg.Solver.Roadmap.Samples,
		ConnectionRadius: cfg.Solver.Roadmap.Radius,
		Resolution:       cfg.Solver.Rapids.Resolution,
		Lower:            r3.Sub(lo, grow),
		Upper:            r3.Add(hi, grow),
		Obstacles:        []motion.Obstacle{keepOut},
		Rand:             rng.New(cfg.Solver.Seed),
	})
}

func printPlan(w io.Writer, out planOutput) {
	if t := out.Tools; t != nil {
		fmt.Fprintf(w, "tool changes: %d (searched=%t, nodes=%d)\n", t.ToolChanges, t.Searched, t.NodesExpanded)
		for i, op := range t.Order {
			fmt.Fprintf(w, "  %2d. %-16s %s\n", i+1, op.ID, op.Tool)
		}
	}
	if s := out.Setups; s != nil {
		if !s.Feasible {
			fmt.Fprintln(w, "setups: infeasible")
		} else {
			fmt.Fprintf(w, "setups: %d\n", len(s.Setups))
			for _, st := range s.Setups {
				fmt.Fprintf(w, "  %-4s %v\n", st.Direction, st.Features)
			}
		}
	}
	if rp := out.Rapids; rp != nil {
		fmt.Fprintf(w, "rapids: %d segments, %.3f total\n", len(rp.Segments), rp.TotalDistance)
		for i, s := range rp.Segments {
			fmt.Fprintf(w, "  %2d. %-15s %.3f\n", i+1, s.Strategy, s.Length)
		}
	}
}
