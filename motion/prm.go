package motion

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/lvsolve/graph"
	"github.com/katalvlaran/lvsolve/internal/rng"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrBadBounds indicates Lower > Upper on some axis.
	ErrBadBounds = errors.New("motion: sampling bounds are inverted")

	// ErrBadRoadmap indicates a non-positive sample count or connection radius.
	ErrBadRoadmap = errors.New("motion: roadmap needs samples ≥ 1 and a positive radius")
)

// Roadmap defaults.
const (
	DefaultSamples          = 200
	DefaultConnectionRadius = 2.0
	DefaultResolution       = 0.05
	attemptsPerSample       = 50
)

// RoadmapConfig parameterizes NewRoadmap.
type RoadmapConfig struct {
	Samples          int
	ConnectionRadius float64
	Resolution       float64

	// Lower and Upper bound the sampling box.
	Lower, Upper r3.Vec

	Obstacles []Obstacle

	// MaxAttempts caps sampling draws; 0 means 50 per requested sample.
	MaxAttempts int

	Rand *rand.Rand
}

// DefaultRoadmapConfig returns the defaults over the unit cube.
func DefaultRoadmapConfig() RoadmapConfig {
	return RoadmapConfig{
		Samples:          DefaultSamples,
		ConnectionRadius: DefaultConnectionRadius,
		Resolution:       DefaultResolution,
		Upper:            r3.Vec{X: 1, Y: 1, Z: 1},
	}
}

// Roadmap is a probabilistic roadmap. Vertex i of the graph is Nodes()[i].
type Roadmap struct {
	cfg   RoadmapConfig
	free  func(r3.Vec) bool
	nodes []r3.Vec
	g     *graph.Graph[int]
}

// Route is a roadmap query answer.
type Route struct {
	Found  bool
	Path   []r3.Vec
	Length float64
}

// NewRoadmap samples up to cfg.Samples collision-free points and joins every
// pair within ConnectionRadius whose straight segment is free.
//
// Complexity: O(S² · radius/resolution) for S samples.
func NewRoadmap(cfg RoadmapConfig) (*Roadmap, error) {
	if cfg.Samples < 1 || !(cfg.ConnectionRadius > 0) {
		return nil, ErrBadRoadmap
	}
	if !(cfg.Resolution > 0) || math.IsInf(cfg.Resolution, 1) {
		return nil, ErrBadResolution
	}
	if cfg.Lower.X > cfg.Upper.X || cfg.Lower.Y > cfg.Upper.Y || cfg.Lower.Z > cfg.Upper.Z {
		return nil, fmt.Errorf("%v > %v: %w", cfg.Lower, cfg.Upper, ErrBadBounds)
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = attemptsPerSample * cfg.Samples
	}

	rm := &Roadmap{
		cfg:  cfg,
		free: Free(cfg.Obstacles...),
		g:    graph.NewGraph[int](),
	}

	// 1) Rejection-sample free configurations.
	var (
		r    = rng.Or(cfg.Rand)
		span = r3.Sub(cfg.Upper, cfg.Lower)
		p    r3.Vec
	)
	for attempt := 0; attempt < cfg.MaxAttempts && len(rm.nodes) < cfg.Samples; attempt++ {
		p = r3.Vec{
			X: cfg.Lower.X + r.Float64()*span.X,
			Y: cfg.Lower.Y + r.Float64()*span.Y,
			Z: cfg.Lower.Z + r.Float64()*span.Z,
		}
		if !rm.free(p) {
			continue
		}
		rm.g.AddVertex(len(rm.nodes))
		rm.nodes = append(rm.nodes, p)
	}

	// 2) Connect neighbors with free straight segments.
	for i := range rm.nodes {
		for j := i + 1; j < len(rm.nodes); j++ {
			if err := rm.link(i, j, rm.nodes[i], rm.nodes[j]); err != nil {
				return nil, err
			}
		}
	}

	return rm, nil
}

// Nodes returns a copy of the sampled configurations.
func (rm *Roadmap) Nodes() []r3.Vec { return append([]r3.Vec(nil), rm.nodes...) }

// Edges returns the number of roadmap edges.
func (rm *Roadmap) Edges() int { return rm.g.EdgeCount() }

// Query plans start→goal through the roadmap. Both endpoints are inserted
// temporarily, linked like samples, and removed before returning. A blocked
// endpoint or a disconnected roadmap gives Found=false.
func (rm *Roadmap) Query(start, goal r3.Vec) (Route, error) {
	if !rm.free(start) || !rm.free(goal) {
		return Route{}, nil
	}

	s, t := len(rm.nodes), len(rm.nodes)+1
	rm.g.AddVertex(s)
	rm.g.AddVertex(t)
	defer func() {
		_ = rm.g.RemoveVertex(t)
		_ = rm.g.RemoveVertex(s)
	}()

	if err := rm.link(s, t, start, goal); err != nil {
		return Route{}, err
	}
	for i, p := range rm.nodes {
		if err := rm.link(s, i, start, p); err != nil {
			return Route{}, err
		}
		if err := rm.link(t, i, goal, p); err != nil {
			return Route{}, err
		}
	}

	res, err := graph.Dijkstra(rm.g, s)
	if err != nil {
		return Route{}, err
	}
	ids, length, ok := res.PathTo(t)
	if !ok {
		return Route{}, nil
	}

	path := make([]r3.Vec, len(ids))
	for k, id := range ids {
		switch id {
		case s:
			path[k] = start
		case t:
			path[k] = goal
		default:
			path[k] = rm.nodes[id]
		}
	}

	return Route{Found: true, Path: path, Length: length}, nil
}

// link adds i–j when a and b are within the connection radius and the
// segment between them is free.
func (rm *Roadmap) link(i, j int, a, b r3.Vec) error {
	d := r3.Norm(r3.Sub(b, a))
	if d > rm.cfg.ConnectionRadius {
		return nil
	}
	ok, err := SegmentFree(a, b, rm.cfg.Resolution, rm.free)
	if err != nil || !ok {
		return err
	}

	return rm.g.AddEdge(i, j, d)
}
