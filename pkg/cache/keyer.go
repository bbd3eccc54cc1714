package cache

// Keyer derives cache keys for layouts and artifacts.
type Keyer interface {
	// LayoutKey identifies a solved layout by problem hash and solver options.
	LayoutKey(problemHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact by layout hash and render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the solver options that change a layout.
type LayoutKeyOpts struct {
	Algorithm     string  `json:"algorithm"`
	Weight        string  `json:"weight"`
	Termination   string  `json:"termination"`
	Epsilon       float64 `json:"epsilon"`
	MaxIterations int     `json:"max_iterations"`
	DefaultTarget float64 `json:"default_target"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Padding     float64 `json:"padding"`
	ShowTargets bool    `json:"show_targets"`
	Detailed    bool    `json:"detailed"`
}

// DefaultKeyer builds keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the keyer used by the CLI and the API.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(problemHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", problemHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
