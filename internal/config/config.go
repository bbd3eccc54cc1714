// Package config loads the stresslayout configuration file.
//
// The file lives at $XDG_CONFIG_HOME/stresslayout/config.toml, falling back to
// ~/.config/stresslayout/config.toml. A missing file is not an error; Load
// returns the defaults. Command-line flags override values from the file and
// pipeline.Options fills in anything still unset.
//
// Example:
//
//	[solver]
//	algorithm = "flat"
//	weight = "inverse"
//	max_iterations = 500
//
//	[render]
//	formats = ["svg", "png"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stresslayout/pkg/errors"
	"github.com/matzehuels/stresslayout/pkg/pipeline"
)

const (
	appName  = "stresslayout"
	fileName = "config.toml"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Server defaults.
const (
	DefaultAddr      = ":8080"
	DefaultRateLimit = 10.0
	DefaultBurst     = 20
	DefaultDatabase  = "stresslayout"
)

// Config is the decoded configuration file.
type Config struct {
	Solver Solver `toml:"solver"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Solver holds defaults for the solve stage.
type Solver struct {
	Algorithm     string  `toml:"algorithm"`
	Weight        string  `toml:"weight"`
	Termination   string  `toml:"termination"`
	Epsilon       float64 `toml:"epsilon"`
	MaxIterations int     `toml:"max_iterations"`
	DefaultTarget float64 `toml:"default_target"`
}

// Render holds defaults for the render stage.
type Render struct {
	Width       float64  `toml:"width"`
	Height      float64  `toml:"height"`
	Padding     float64  `toml:"padding"`
	Formats     []string `toml:"formats"`
	ShowTargets bool     `toml:"show_targets"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Prefix    string   `toml:"prefix"`
	TTL       Duration `toml:"ttl"`
}

// Server configures `stresslayout serve`.
type Server struct {
	Addr          string  `toml:"addr"`
	MongoURI      string  `toml:"mongo_uri"`
	MongoDatabase string  `toml:"mongo_database"`
	StoreDir      string  `toml:"store_dir"`
	RateLimit     float64 `toml:"rate_limit"` // requests per second per client
	Burst         int     `toml:"burst"`
}

// Duration decodes TOML strings such as "24h" or "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache: Cache{Backend: BackendFile},
		Server: Server{
			Addr:          DefaultAddr,
			MongoDatabase: DefaultDatabase,
			RateLimit:     DefaultRateLimit,
			Burst:         DefaultBurst,
		},
	}
}

// Path returns the configuration file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Dir returns the configuration directory using the XDG standard.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Load reads the configuration from the default path.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the configuration at path. A missing file yields Default().
func LoadFile(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that the pipeline does not validate itself.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "cache.backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidOption, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "cache.ttl must not be negative")
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "server.rate_limit and server.burst must not be negative")
	}
	return nil
}

// Apply copies configured values into opts wherever opts is still unset.
// Flags parsed before Apply therefore win over the file.
func (c Config) Apply(opts *pipeline.Options) {
	s, r := c.Solver, c.Render
	if opts.Algorithm == "" {
		opts.Algorithm = s.Algorithm
	}
	if opts.Weight == "" {
		opts.Weight = s.Weight
	}
	if opts.Termination == "" {
		opts.Termination = s.Termination
	}
	if opts.Epsilon == 0 {
		opts.Epsilon = s.Epsilon
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = s.MaxIterations
	}
	if opts.DefaultTarget == 0 {
		opts.DefaultTarget = s.DefaultTarget
	}
	if opts.Width == 0 {
		opts.Width = r.Width
	}
	if opts.Height == 0 {
		opts.Height = r.Height
	}
	if opts.Padding == 0 {
		opts.Padding = r.Padding
	}
	if len(opts.Formats) == 0 && len(r.Formats) > 0 {
		opts.Formats = append([]string(nil), r.Formats...)
	}
	opts.ShowTargets = opts.ShowTargets || r.ShowTargets
}
