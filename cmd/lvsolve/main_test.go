package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/lvsolve/cnc"
	"github.com/katalvlaran/lvsolve/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partJob = `
log_level: warn
solver:
  seed: 3
  rapids:
    clearance: 1
operations:
  - {id: face, tool: T1}
  - {id: drill, tool: T2}
  - {id: finish, tool: T1}
features:
  - {id: pocket, allowed: ["+Z"]}
  - {id: bore, related_to: [pocket]}
  - {id: slot, allowed: ["-Z"]}
directions: ["+Z", "-Z"]
workpiece:
  min: {x: 0, y: 0, z: 0}
  max: {x: 10, y: 10, z: 5}
points:
  - {x: -5, y: -5, z: 10}
  - {x: 15, y: -5, z: 10}
  - {x: 15, y: 15, z: 10}
`

func writeJob(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// ------------------------------------------------------------------------
// 1. Config
// ------------------------------------------------------------------------

func TestParseConfig_DefaultsAndOverrides(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, search.DefaultMaxNodes, cfg.Solver.MaxNodes)

	cfg, err = ParseConfig(strings.NewReader(partJob))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, uint64(3), cfg.Solver.Seed)
	assert.Equal(t, cnc.DefaultResolution, cfg.Solver.Rapids.Resolution, "unset keys keep defaults")
	assert.True(t, cfg.Solver.Polish)
	require.Len(t, cfg.Operations, 3)
	assert.Equal(t, cnc.Operation{ID: "drill", Tool: "T2"}, cfg.Operations[1])
	assert.Equal(t, []string{"pocket"}, cfg.Features[1].RelatedTo)
	require.NotNil(t, cfg.Workpiece)
	assert.Equal(t, 5.0, cfg.Workpiece.Max.Z)
}

func TestParseConfig_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "solvr: {}\n",
		"bad level":      "log_level: loud\n",
		"negative nodes": "solver: {max_nodes: -1}\n",
		"roadmap radius": "solver: {roadmap: {samples: 10, radius: 0}}\n",
		"points no box":  "points: [{x: 0}, {x: 1}]\n",
		"ragged costs":   "costs: [[1, 2], [3]]\n",
		"not a mapping":  "- 1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig(strings.NewReader(body))
			require.Error(t, err)
		})
	}

	_, err := ParseConfig(strings.NewReader("log_level: loud\n"))
	require.ErrorIs(t, err, ErrBadLogLevel)
	_, err = ParseConfig(strings.NewReader("costs: [[1, 2], [3]]\n"))
	require.ErrorIs(t, err, ErrBadConfig)
}

// ------------------------------------------------------------------------
// 2. Commands
// ------------------------------------------------------------------------

func TestPlan_Text(t *testing.T) {
	stdout, _, err := execute(t, "plan", writeJob(t, partJob))
	require.NoError(t, err)
	assert.Contains(t, stdout, "tool changes: 2 (searched=true")
	assert.Contains(t, stdout, "setups: 2")
	assert.Contains(t, stdout, "+Z   [pocket bore]")
	assert.Contains(t, stdout, "rapids: 2 segments, 40.000 total")
}

func TestPlan_JSON(t *testing.T) {
	stdout, _, err := execute(t, "plan", "--json", writeJob(t, partJob))
	require.NoError(t, err)

	var out planOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.NotEmpty(t, out.RunID)
	require.NotNil(t, out.Tools)
	assert.Equal(t, 2, out.Tools.ToolChanges)
	require.NotNil(t, out.Setups)
	assert.True(t, out.Setups.Feasible)
	require.NotNil(t, out.Rapids)
	assert.Equal(t, 2, out.Rapids.Breakdown[cnc.Straight])
}

func TestPlan_FlagsOverrideJob(t *testing.T) {
	_, stderr, err := execute(t, "plan", "--log-level", "debug", "--seed", "42", writeJob(t, partJob))
	require.NoError(t, err)
	assert.Contains(t, stderr, "job loaded")
	assert.Contains(t, stderr, "seed=42")
	assert.Contains(t, stderr, "run_id=")
	assert.Contains(t, stderr, "tool-change plan", "adapter debug records reach the run logger")
}

func TestPlan_Trace(t *testing.T) {
	_, stderr, err := execute(t, "plan", "--trace", writeJob(t, partJob))
	require.NoError(t, err)
	assert.Contains(t, stderr, "cnc.OptimizeToolChanges")
	assert.Contains(t, stderr, "cnc.PlanSetups")
	assert.Contains(t, stderr, "cnc.OptimizeRapids")
	assert.Contains(t, stderr, "tool_changes")
}

func TestPlan_WithRoadmap(t *testing.T) {
	job := strings.Replace(partJob, "  rapids:\n", "  roadmap: {samples: 150, radius: 4}\n  rapids:\n", 1)
	stdout, _, err := execute(t, "plan", "--json", writeJob(t, job))
	require.NoError(t, err)

	var out planOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.NotNil(t, out.Rapids)
	assert.Len(t, out.Rapids.Segments, 2)
}

func TestTour(t *testing.T) {
	job := `
cities:
  - {name: a, x: 0, y: 0}
  - {name: b, x: 1, y: 0}
  - {name: c, x: 1, y: 1}
  - {name: d, x: 0, y: 1}
`
	stdout, _, err := execute(t, "tour", "--json", writeJob(t, job))
	require.NoError(t, err)

	var out tourOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "a", out.Tour[0])
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, out.Tour)
	assert.InDelta(t, 4.0, out.Cost, 1e-9)

	_, _, err = execute(t, "tour", writeJob(t, "log_level: info\n"))
	require.ErrorIs(t, err, ErrBadConfig)
}

func TestAssign(t *testing.T) {
	job := `
costs:
  - [4, 1, 3]
  - [2, 0, 5]
  - [3, 2, 2]
`
	stdout, _, err := execute(t, "assign", writeJob(t, job))
	require.NoError(t, err)
	assert.Contains(t, stdout, "row 0 -> col 1 (1)")
	assert.Contains(t, stdout, "row 1 -> col 0 (2)")
	assert.Contains(t, stdout, "row 2 -> col 2 (2)")
	assert.Contains(t, stdout, "cost: 5 (complete=true)")
}

func TestCommandErrors(t *testing.T) {
	_, _, err := execute(t, "plan", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, "plan", "--log-level", "loud", writeJob(t, partJob))
	require.ErrorIs(t, err, ErrBadLogLevel)

	_, _, err = execute(t, "plan")
	require.Error(t, err)
}
