package problem

import "math"

var (
	posInf = math.Inf(1)
	negInf = math.Inf(-1)
)

// Reason explains how a search terminated.
type Reason int

const (
	// Solved means a goal state was reached.
	Solved Reason = iota

	// Exhausted means the frontier emptied without reaching a goal.
	Exhausted

	// NodeLimit means the expansion cap was hit.
	NodeLimit

	// DepthLimit means a depth cutoff pruned at least one branch.
	DepthLimit

	// IterationLimit means the outer iteration cap (IDA* thresholds,
	// beam generations) was hit.
	IterationLimit
)

// String implements fmt.Stringer.
func (r Reason) String() string {
	switch r {
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	case NodeLimit:
		return "node-limit"
	case DepthLimit:
		return "depth-limit"
	case IterationLimit:
		return "iteration-limit"
	default:
		return "unknown"
	}
}

// Result is the outcome of a state-space search.
//
// When Found is false, Path/Actions are nil and Cost is 0; NodesExpanded and
// Reason are still meaningful for diagnostics.
type Result[S any] struct {
	// Found reports whether a goal state was reached.
	Found bool

	// Path lists states from Initial to the goal (inclusive).
	Path []S

	// Actions lists action labels; len(Actions) == len(Path)-1.
	Actions []string

	// Cost is the sum of step costs along Path.
	Cost float64

	// NodesExpanded counts states whose successors were generated.
	NodesExpanded int

	// Reason explains termination.
	Reason Reason
}

// Fail builds a negative result.
func Fail[S any](expanded int, reason Reason) Result[S] {
	return Result[S]{NodesExpanded: expanded, Reason: reason}
}
