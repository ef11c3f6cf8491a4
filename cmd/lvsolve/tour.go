package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/katalvlaran/lvsolve/tsp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/mat"
)

type tourOutput struct {
	RunID         string   `json:"run_id"`
	Tour          []string `json:"tour"`
	Cost          float64  `json:"cost"`
	ExactMatching bool     `json:"exact_matching"`
}

func newTourCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "tour JOB",
		Short: "Christofides tour over the job's cities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			r, err := start(cmd, f, args[0])
			if err != nil {
				return err
			}
			defer func() { err = r.close(context.WithoutCancel(cmd.Context()), err) }()

			out, err := tour(cmd.Context(), r)
			if err != nil {
				return err
			}
			return r.emit(out, func(w io.Writer) {
				fmt.Fprintf(w, "tour: %v\ncost: %.3f (exact matching=%t)\n", out.Tour, out.Cost, out.ExactMatching)
			})
		},
	}
}

func tour(ctx context.Context, r *run) (tourOutput, error) {
	cities := r.cfg.Cities
	if len(cities) == 0 {
		return tourOutput{}, fmt.Errorf("no cities: %w", ErrBadConfig)
	}

	n := len(cities)
	dist := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Hypot(cities[i].X-cities[j].X, cities[i].Y-cities[j].Y)
			dist.Set(i, j, d)
			dist.Set(j, i, d)
		}
	}

	out := tourOutput{RunID: r.id.String()}
	err := traced(ctx, "tsp.Christofides", func() ([]attribute.KeyValue, error) {
		res, err := tsp.Christofides(dist, tsp.WithPolish(r.cfg.Solver.Polish))
		if err != nil {
			return nil, fmt.Errorf("christofides: %w", err)
		}
		for _, v := range res.Tour {
			out.Tour = append(out.Tour, cities[v].Name)
		}
		out.Cost, out.ExactMatching = res.Cost, res.ExactMatching
		return []attribute.KeyValue{
			attribute.Int("cities", n),
			attribute.Float64("cost", res.Cost),
			attribute.Bool("exact_matching", res.ExactMatching),
		}, nil
	})
	if err != nil {
		return out, err
	}
	r.log.Info("tour built", slog.Int("cities", n), slog.Float64("cost", out.Cost))

	return out, nil
}
