package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/katalvlaran/lvsolve/assign"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/mat"
)

type assignOutput struct {
	RunID    string        `json:"run_id"`
	Pairs    []assign.Pair `json:"pairs"`
	Cost     float64       `json:"cost"`
	Complete bool          `json:"complete"`
}

func newAssignCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "assign JOB",
		Short: "Minimum-cost assignment over the job's cost matrix",
		Long: `Solves the job's costs matrix (rows are agents, columns are tasks) with the
Hungarian method. Rectangular matrices are allowed; a .inf entry forbids a pair.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			r, err := start(cmd, f, args[0])
			if err != nil {
				return err
			}
			defer func() { err = r.close(context.WithoutCancel(cmd.Context()), err) }()

			out, err := assignment(cmd.Context(), r)
			if err != nil {
				return err
			}
			return r.emit(out, func(w io.Writer) {
				for _, p := range out.Pairs {
					fmt.Fprintf(w, "row %d -> col %d (%g)\n", p.Row, p.Col, p.Cost)
				}
				fmt.Fprintf(w, "cost: %g (complete=%t)\n", out.Cost, out.Complete)
			})
		},
	}
}

func assignment(ctx context.Context, r *run) (assignOutput, error) {
	costs := r.cfg.Costs
	if len(costs) == 0 || len(costs[0]) == 0 {
		return assignOutput{}, fmt.Errorf("no costs: %w", ErrBadConfig)
	}

	rows, cols := len(costs), len(costs[0])
	m := mat.NewDense(rows, cols, nil)
	for i, row := range costs {
		m.SetRow(i, row)
	}

	out := assignOutput{RunID: r.id.String()}
	err := traced(ctx, "assign.Hungarian", func() ([]attribute.KeyValue, error) {
		res, err := assign.Hungarian(m)
		if err != nil {
			return nil, fmt.Errorf("hungarian: %w", err)
		}
		out.Pairs, out.Cost, out.Complete = res.Pairs, res.Cost, res.Complete
		return []attribute.KeyValue{
			attribute.Int("rows", rows),
			attribute.Int("cols", cols),
			attribute.Float64("cost", res.Cost),
			attribute.Bool("complete", res.Complete),
		}, nil
	})
	if err != nil {
		return out, err
	}
	r.log.Info("assignment solved", slog.Int("pairs", len(out.Pairs)), slog.Float64("cost", out.Cost))

	return out, nil
}
