package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/matzehuels/stresslayout/pkg/errors"
)

// =============================================================================
// Layout - Solved Problem
// =============================================================================

// Layout is a solved problem together with the options that produced it.
//
// Nodes keep the order and metadata of the problem; only X and Y change.
// Trace holds one convergence measure per iteration: the mean displacement
// for the generic algorithm and the summed displacement for the flat one.
type Layout struct {
	ID string `json:"id,omitempty" bson:"_id,omitempty"`

	Nodes   []Node   `json:"nodes" bson:"nodes"`
	Targets []Target `json:"targets,omitempty" bson:"targets,omitempty"`

	// Convergence
	Trace      []float64 `json:"trace" bson:"trace"`
	Iterations int       `json:"iterations" bson:"iterations"`
	Converged  bool      `json:"converged" bson:"converged"`

	// Solver options
	Algorithm     string  `json:"algorithm" bson:"algorithm"`
	Weight        string  `json:"weight" bson:"weight"`
	Termination   string  `json:"termination" bson:"termination"`
	Epsilon       float64 `json:"epsilon" bson:"epsilon"`
	MaxIterations int     `json:"max_iterations" bson:"max_iterations"`
	DefaultTarget float64 `json:"default_target" bson:"default_target"`

	// Frame used when rendering
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero" bson:"created_at,omitempty"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
// Non-finite trace entries cannot be encoded and are reported as errors.
func MarshalLayout(l Layout) ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return data, nil
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if len(l.Nodes) == 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout must contain nodes")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s not found", path)
		}
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
