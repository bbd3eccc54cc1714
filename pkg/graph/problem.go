package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stresslayout/pkg/errors"
)

// =============================================================================
// Problem Serialization API
// =============================================================================

// ReadProblemFile reads a problem from a JSON or TOML file.
// The format is chosen by extension: ".toml" is TOML, anything else JSON.
// The problem is validated before it is returned.
func ReadProblemFile(path string) (Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Problem{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "problem file %s not found", path)
		}
		return Problem{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ReadProblemTOML(f)
	}
	return ReadProblem(f)
}

// ReadProblem decodes and validates a JSON problem.
func ReadProblem(r io.Reader) (Problem, error) {
	var p Problem
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Problem{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode problem")
	}
	if err := p.Validate(); err != nil {
		return Problem{}, err
	}
	return p, nil
}

// ReadProblemTOML decodes and validates a TOML problem.
func ReadProblemTOML(r io.Reader) (Problem, error) {
	var p Problem
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return Problem{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode problem")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Problem{}, errors.New(errors.ErrCodeInvalidFormat, "unknown problem keys: %v", undecoded)
	}
	if err := p.Validate(); err != nil {
		return Problem{}, err
	}
	return p, nil
}

// UnmarshalProblem decodes and validates JSON bytes.
func UnmarshalProblem(data []byte) (Problem, error) {
	return ReadProblem(bytes.NewReader(data))
}

// MarshalProblem encodes a problem as compact JSON. Equal problems produce
// equal bytes, so the output doubles as cache-key material.
func MarshalProblem(p Problem) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode problem: %w", err)
	}
	return data, nil
}

// WriteProblemFile writes a problem as indented JSON.
func WriteProblemFile(p Problem, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode problem: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the structural rules of a problem: at least one node,
// unique valid IDs, finite coordinates, and targets and ignored pairs that
// reference known nodes.
func (p *Problem) Validate() error {
	if len(p.Nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidProblem, "problem has no nodes")
	}

	seen := make(map[string]struct{}, len(p.Nodes))
	for i, n := range p.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidProblem, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}

		if err := errors.ValidateFinite(fmt.Sprintf("node %q x", n.ID), n.X); err != nil {
			return err
		}
		if err := errors.ValidateFinite(fmt.Sprintf("node %q y", n.ID), n.Y); err != nil {
			return err
		}
	}

	known := func(id string) error {
		if _, ok := seen[id]; !ok {
			return errors.New(errors.ErrCodeInvalidProblem, "unknown node %q", id)
		}
		return nil
	}

	for _, t := range p.Targets {
		if err := known(t.From); err != nil {
			return fmt.Errorf("target %s-%s: %w", t.From, t.To, err)
		}
		if err := known(t.To); err != nil {
			return fmt.Errorf("target %s-%s: %w", t.From, t.To, err)
		}
		if t.From == t.To {
			return errors.New(errors.ErrCodeInvalidProblem, "target %s-%s joins a node to itself", t.From, t.To)
		}
		if err := errors.ValidateFinite("target distance", t.Distance); err != nil {
			return err
		}
		if t.Distance <= 0 {
			return errors.New(errors.ErrCodeInvalidProblem, "target %s-%s: distance must be positive, got %v", t.From, t.To, t.Distance)
		}
	}

	for _, pr := range p.Ignore {
		if err := known(pr.From); err != nil {
			return fmt.Errorf("ignore %s-%s: %w", pr.From, pr.To, err)
		}
		if err := known(pr.To); err != nil {
			return fmt.Errorf("ignore %s-%s: %w", pr.From, pr.To, err)
		}
	}

	if err := errors.ValidateFinite("default_target", p.DefaultTarget); err != nil {
		return err
	}
	if p.DefaultTarget < 0 {
		return errors.New(errors.ErrCodeInvalidProblem, "default_target must not be negative, got %v", p.DefaultTarget)
	}

	return nil
}
