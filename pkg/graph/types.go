package graph

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Solver algorithms.
const (
	// AlgorithmGeneric runs the engine over a keyed node collection.
	AlgorithmGeneric = "generic"
	// AlgorithmFlat runs the flat-array kernel over packed coordinates.
	AlgorithmFlat = "flat"
)

// =============================================================================
// Node
// =============================================================================

// Node is a positioned node. Problems carry initial positions, layouts
// carry solved ones.
type Node struct {
	ID    string         `json:"id" toml:"id" bson:"id"`
	Label string         `json:"label,omitempty" toml:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	X     float64        `json:"x" toml:"x" bson:"x"`
	Y     float64        `json:"y" toml:"y" bson:"y"`
	Meta  map[string]any `json:"meta,omitempty" toml:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Target, Pair
// =============================================================================

// Target is the desired distance between two nodes. It applies in both
// directions.
type Target struct {
	From     string  `json:"from" toml:"from" bson:"from"`
	To       string  `json:"to" toml:"to" bson:"to"`
	Distance float64 `json:"distance" toml:"distance" bson:"distance"`
}

// Pair is an ordered node pair excluded from the update of From.
// Symmetric also excludes the reverse pair.
type Pair struct {
	From      string `json:"from" toml:"from" bson:"from"`
	To        string `json:"to" toml:"to" bson:"to"`
	Symmetric bool   `json:"symmetric,omitempty" toml:"symmetric,omitempty" bson:"symmetric,omitempty"`
}

// =============================================================================
// Problem
// =============================================================================

// Problem is a layout problem: nodes with initial positions and the
// distances the solver should reproduce.
//
// Pairs without an explicit target use DefaultTarget. A zero DefaultTarget
// is replaced by the pipeline default.
type Problem struct {
	Nodes         []Node   `json:"nodes" toml:"nodes" bson:"nodes"`
	Targets       []Target `json:"targets,omitempty" toml:"targets,omitempty" bson:"targets,omitempty"`
	Ignore        []Pair   `json:"ignore,omitempty" toml:"ignore,omitempty" bson:"ignore,omitempty"`
	DefaultTarget float64  `json:"default_target,omitempty" toml:"default_target,omitempty" bson:"default_target,omitempty"`
}

// Index maps node IDs to their position in Nodes.
func (p *Problem) Index() map[string]int {
	idx := make(map[string]int, len(p.Nodes))
	for i, n := range p.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// CloneNodes returns a copy of nodes with independent metadata maps.
func CloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Meta = copyMeta(n.Meta)
		out[i] = n
	}
	return out
}
