// Package pipeline provides the solve → render pipeline for stresslayout.
//
// This package turns a [graph.Problem] into a [graph.Layout] and a layout
// into artifacts. The CLI and the API both go through it so that options,
// defaults and caching behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Solve: run stress majorization with the generic engine or the flat kernel
//  2. Render: produce SVG, PNG, DOT or JSON from the solved positions
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Algorithm: graph.AlgorithmGeneric,
//	    Weight:    weight.Inverse,
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, problem, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	layout, err := runner.Solve(ctx, problem, opts)
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stresslayout/pkg/cache"
	"github.com/matzehuels/stresslayout/pkg/core/majorize"
	"github.com/matzehuels/stresslayout/pkg/core/weight"
	"github.com/matzehuels/stresslayout/pkg/errors"
	"github.com/matzehuels/stresslayout/pkg/graph"
	"github.com/matzehuels/stresslayout/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultAlgorithm is the solver used when none is given.
	DefaultAlgorithm = graph.AlgorithmGeneric

	// DefaultWeight is the weight preset used when none is given.
	DefaultWeight = weight.InverseSquared

	// DefaultEpsilon is the convergence threshold.
	DefaultEpsilon = majorize.DefaultEpsilon

	// DefaultMaxIterations caps a solve when MaxIterations is zero.
	DefaultMaxIterations = majorize.DefaultMaxIterations

	// DefaultTargetDistance is the target for pairs without an explicit one,
	// when neither the options nor the problem set it.
	DefaultTargetDistance = 100.0

	// DefaultWidth is the default frame width in points.
	DefaultWidth = nodelink.DefaultWidth

	// DefaultHeight is the default frame height in points.
	DefaultHeight = nodelink.DefaultHeight

	// DefaultPadding is the default frame inset in points.
	DefaultPadding = nodelink.DefaultPadding

	// MinNodes is the smallest problem the pipeline accepts. Fewer nodes
	// leave the solver with empty weight sums.
	MinNodes = 2
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidAlgorithms is the set of supported solvers.
var ValidAlgorithms = map[string]bool{
	graph.AlgorithmGeneric: true,
	graph.AlgorithmFlat:    true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Solve options
	Algorithm     string  `json:"algorithm,omitempty"`
	Weight        string  `json:"weight,omitempty"`
	Termination   string  `json:"termination,omitempty"` // "epsilon" or "delta"; empty uses the algorithm's rule
	Epsilon       float64 `json:"epsilon,omitempty"` // 0 uses DefaultEpsilon, so exactly 0 cannot be requested
	MaxIterations int     `json:"max_iterations,omitempty"` // 0 uses the default, negative removes the cap
	DefaultTarget float64 `json:"default_target,omitempty"`
	Refresh       bool    `json:"refresh,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Width       float64  `json:"width,omitempty"`
	Height      float64  `json:"height,omitempty"`
	Padding     float64  `json:"padding,omitempty"`
	ShowTargets bool     `json:"show_targets,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the solved layout.
	Layout graph.Layout

	// ProblemHash is the content hash of the problem.
	ProblemHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	Iterations int
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SolveHit  bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, names(ValidFormats))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAlgorithm checks that an algorithm is valid.
func ValidateAlgorithm(algorithm string) error {
	if !ValidAlgorithms[algorithm] {
		return errors.New(errors.ErrCodeInvalidOption, "invalid algorithm: %q (must be one of: %s)", algorithm, names(ValidAlgorithms))
	}
	return nil
}

// ValidateWeight checks that a weight preset is valid.
func ValidateWeight(name string) error {
	if !weight.Valid(name) {
		return errors.New(errors.ErrCodeInvalidOption, "invalid weight: %q (must be one of: %s)", name, strings.Join(weight.Names(), ", "))
	}
	return nil
}

func names(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every option.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetSolveDefaults sets default values for solving.
func (o *Options) SetSolveDefaults() {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Weight == "" {
		o.Weight = DefaultWeight
	}
	if o.Termination == "" {
		o.Termination = defaultTermination(o.Algorithm).String()
	}
	if o.Epsilon == 0 {
		o.Epsilon = DefaultEpsilon
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForSolve validates and sets defaults for solving.
func (o *Options) ValidateForSolve() error {
	o.SetSolveDefaults()
	if err := ValidateAlgorithm(o.Algorithm); err != nil {
		return err
	}
	if err := ValidateWeight(o.Weight); err != nil {
		return err
	}
	if _, err := majorize.ParseTermination(o.Termination); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "invalid termination")
	}
	if err := errors.ValidateFinite("epsilon", o.Epsilon); err != nil {
		return err
	}
	if o.Epsilon < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "epsilon must not be negative, got %v", o.Epsilon)
	}
	if err := errors.ValidateFinite("default_target", o.DefaultTarget); err != nil {
		return err
	}
	if o.DefaultTarget < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "default_target must not be negative, got %v", o.DefaultTarget)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, v := range []struct {
		name string
		val  float64
	}{{"width", o.Width}, {"height", o.Height}} {
		if err := errors.ValidateFinite(v.name, v.val); err != nil {
			return err
		}
		if v.val <= 0 {
			return errors.New(errors.ErrCodeInvalidOption, "%s must be positive, got %v", v.name, v.val)
		}
	}
	return errors.ValidateFinite("padding", o.Padding)
}

// LayoutKeyOpts returns cache key options for solving.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Algorithm:     o.Algorithm,
		Weight:        o.Weight,
		Termination:   o.Termination,
		Epsilon:       o.Epsilon,
		MaxIterations: o.MaxIterations,
		DefaultTarget: o.DefaultTarget,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Width:       o.Width,
		Height:      o.Height,
		Padding:     o.Padding,
		ShowTargets: o.ShowTargets,
		Detailed:    o.Detailed,
	}
}

// NodelinkOptions returns the drawing options for the render stage.
func (o *Options) NodelinkOptions() nodelink.Options {
	return nodelink.Options{
		Width:       o.Width,
		Height:      o.Height,
		Padding:     o.Padding,
		ShowTargets: o.ShowTargets,
		Detailed:    o.Detailed,
	}
}

// defaultTermination is the stopping rule each algorithm uses on its own.
func defaultTermination(algorithm string) majorize.Termination {
	if algorithm == graph.AlgorithmFlat {
		return majorize.StopOnDelta
	}
	return majorize.StopOnEpsilon
}
