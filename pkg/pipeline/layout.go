package pipeline

import (
	"math"
	"time"

	"github.com/matzehuels/stresslayout/pkg/core/geom"
	"github.com/matzehuels/stresslayout/pkg/core/majorize"
	"github.com/matzehuels/stresslayout/pkg/core/weight"
	"github.com/matzehuels/stresslayout/pkg/errors"
	"github.com/matzehuels/stresslayout/pkg/graph"
)

// =============================================================================
// Solving
// =============================================================================

// Solve lays out a problem and returns the solved layout.
//
// Every ordered pair (i, j) pulls node i towards the point at the target
// distance from node j: the stress is target/‖p_i − p_j‖, or 0 when the two
// nodes coincide. Weights come from the named preset evaluated on the target
// distances, so they stay fixed while nodes move. Ignored pairs and the self
// pair never contribute.
func Solve(p graph.Problem, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return graph.Layout{}, err
	}
	if err := p.Validate(); err != nil {
		return graph.Layout{}, err
	}
	if len(p.Nodes) < MinNodes {
		return graph.Layout{}, errors.New(errors.ErrCodeInvalidInput,
			"problem needs at least %d nodes, got %d", MinNodes, len(p.Nodes))
	}

	m := newModel(p, opts)
	w, err := weight.Factory[int](m.target).ByName(opts.Weight)
	if err != nil {
		return graph.Layout{}, errors.Wrap(errors.ErrCodeInvalidOption, err, "invalid weight")
	}
	termination, err := majorize.ParseTermination(opts.Termination)
	if err != nil {
		return graph.Layout{}, errors.Wrap(errors.ErrCodeInvalidOption, err, "invalid termination")
	}
	solveOpts := []majorize.Option{
		majorize.WithEpsilon(opts.Epsilon),
		majorize.WithMaxIterations(opts.MaxIterations),
		majorize.WithTermination(termination),
	}

	var (
		nodes []graph.Node
		trace majorize.Trace
	)
	switch opts.Algorithm {
	case graph.AlgorithmFlat:
		nodes, trace, err = solveFlat(p, m, w, solveOpts)
	default:
		nodes, trace, err = solveGeneric(p, m, w, solveOpts)
	}
	if err != nil {
		return graph.Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "solve")
	}
	if trace.HasNaN() {
		return graph.Layout{}, errors.New(errors.ErrCodeInvalidInput,
			"solver diverged: some node has every pair ignored")
	}

	opts.Logger.Debug("solved layout",
		"algorithm", opts.Algorithm,
		"iterations", trace.Iterations(),
		"last", trace.Last())

	return graph.Layout{
		Nodes:         nodes,
		Targets:       p.Targets,
		Trace:         trace,
		Iterations:    trace.Iterations(),
		Converged:     termination.Met(trace, opts.Epsilon),
		Algorithm:     opts.Algorithm,
		Weight:        opts.Weight,
		Termination:   opts.Termination,
		Epsilon:       opts.Epsilon,
		MaxIterations: opts.MaxIterations,
		DefaultTarget: m.defaultTarget,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// =============================================================================
// Problem Model
// =============================================================================

// model is the index-based view of a problem shared by both algorithms.
type model struct {
	n             int
	targets       []float64 // n×n, row-major
	ignore        *majorize.PairSet
	defaultTarget float64
}

func newModel(p graph.Problem, opts Options) *model {
	n := len(p.Nodes)
	m := &model{
		n:             n,
		targets:       make([]float64, n*n),
		ignore:        majorize.NewPairSet(n),
		defaultTarget: resolveDefaultTarget(p, opts),
	}
	for i := range m.targets {
		m.targets[i] = m.defaultTarget
	}

	idx := p.Index()
	for _, t := range p.Targets {
		i, j := idx[t.From], idx[t.To]
		m.targets[i*n+j] = t.Distance
		m.targets[j*n+i] = t.Distance
	}
	for _, pr := range p.Ignore {
		i, j := idx[pr.From], idx[pr.To]
		if pr.Symmetric {
			m.ignore.AddSymmetric(i, j)
		} else {
			m.ignore.Add(i, j)
		}
	}
	return m
}

// resolveDefaultTarget picks the target for pairs without an explicit one:
// the options win over the problem, the package default fills the gap.
func resolveDefaultTarget(p graph.Problem, opts Options) float64 {
	switch {
	case opts.DefaultTarget > 0:
		return opts.DefaultTarget
	case p.DefaultTarget > 0:
		return p.DefaultTarget
	}
	return DefaultTargetDistance
}

func (m *model) target(i, j int) float64 { return m.targets[i*m.n+j] }

// stress scales the unit vector from j to i up to the target distance.
func stress(xi, yi, xj, yj, target float64) float64 {
	d := math.Hypot(xi-xj, yi-yj)
	if d == 0 {
		return 0
	}
	return target / d
}

// =============================================================================
// Generic Engine
// =============================================================================

// node is the collection element for the generic engine: the document node
// plus its index into the model.
type node struct {
	graph.Node
	index int
}

func solveGeneric(p graph.Problem, m *model, w weight.Func[int], opts []majorize.Option) ([]graph.Node, majorize.Trace, error) {
	coll := majorize.NewOrdered[string, node]()
	for i, n := range graph.CloneNodes(p.Nodes) {
		coll.Put(n.ID, node{Node: n, index: i})
	}

	params := majorize.Params[node]{
		Weight: majorize.ByNodes(func(u, v node) float64 {
			return w(u.index, v.index)
		}),
		Stress: func(xi, yi, xj, yj float64, u, v node) float64 {
			return stress(xi, yi, xj, yj, m.target(u.index, v.index))
		},
		Ignore:  majorize.IgnoreNodes[node](m.ignore),
		ToPoint: func(n node) geom.Point { return geom.Pt(n.X, n.Y) },
		FromPoint: func(pt geom.Point, n node) node {
			n.X, n.Y = pt.X, pt.Y
			return n
		},
	}

	trace, err := majorize.Solve[string, node](coll, params, opts...)
	if err != nil {
		return nil, nil, err
	}

	nodes := make([]graph.Node, 0, coll.Len())
	for _, n := range coll.All() {
		nodes = append(nodes, n.Node)
	}
	return nodes, trace, nil
}

// =============================================================================
// Flat Kernel
// =============================================================================

func solveFlat(p graph.Problem, m *model, w weight.Func[int], opts []majorize.Option) ([]graph.Node, majorize.Trace, error) {
	points := make([]float64, 2*len(p.Nodes))
	for i, n := range p.Nodes {
		points[2*i], points[2*i+1] = n.X, n.Y
	}

	params := majorize.FlatParams{
		Weight: func(_, _, _, _ float64, i, j int) float64 {
			return w(i, j)
		},
		Stress: func(xi, yi, xj, yj float64, i, j int) float64 {
			return stress(xi, yi, xj, yj, m.target(i, j))
		},
		Ignore: m.ignore.Ignore(),
	}

	out, trace, err := majorize.SolveFlat(points, params, opts...)
	if err != nil {
		return nil, nil, err
	}

	nodes := graph.CloneNodes(p.Nodes)
	for i := range nodes {
		nodes[i].X, nodes[i].Y = out[2*i], out[2*i+1]
	}
	return nodes, trace, nil
}
