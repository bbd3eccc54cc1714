package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stresslayout/internal/config"
	"github.com/matzehuels/stresslayout/pkg/cache"
	"github.com/matzehuels/stresslayout/pkg/graph"
	"github.com/matzehuels/stresslayout/pkg/store"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"layout", "visualize", "render", "trace", "cache", "config", "serve", "completion"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"dot", []string{"dot"}},
		{"SVG, png ,dot", []string{"svg", "png", "dot"}},
		{"json,,", []string{"json"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseFormats(tt.in))
		})
	}
}

func TestTrimInputExt(t *testing.T) {
	tests := map[string]string{
		"problem.json":           "problem",
		"dir/problem.toml":       "dir/problem",
		"problem.layout.json":    "problem",
		"noext":                  "noext",
		"out/square.layout.json": "out/square",
	}
	for in, want := range tests {
		assert.Equal(t, want, trimInputExt(in), in)
	}
}

func TestArtifactPaths(t *testing.T) {
	t.Run("single format with output", func(t *testing.T) {
		got := artifactPaths([]string{"svg"}, "p.json", "drawing.svg")
		assert.Equal(t, map[string]string{"svg": "drawing.svg"}, got)
	})
	t.Run("multiple formats from input", func(t *testing.T) {
		got := artifactPaths([]string{"svg", "dot"}, "p.layout.json", "")
		assert.Equal(t, map[string]string{"svg": "p.svg", "dot": "p.dot"}, got)
	})
	t.Run("output with format extension is a base", func(t *testing.T) {
		got := artifactPaths([]string{"svg", "png"}, "p.json", "out/result.svg")
		assert.Equal(t, map[string]string{"svg": "out/result.svg", "png": "out/result.png"}, got)
	})
	t.Run("output without extension", func(t *testing.T) {
		got := artifactPaths([]string{"dot", "json"}, "p.json", "out/result")
		assert.Equal(t, map[string]string{"dot": "out/result.dot", "json": "out/result.json"}, got)
	})
}

func TestNewCacheBackends(t *testing.T) {
	ctx := t.Context()

	c := New(&bytes.Buffer{}, log.DebugLevel)
	cc, err := c.newCache(ctx, true)
	require.NoError(t, err)
	assert.IsType(t, &cache.NullCache{}, cc)

	c.Config.Cache.Backend = config.BackendNone
	cc, err = c.newCache(ctx, false)
	require.NoError(t, err)
	assert.IsType(t, &cache.NullCache{}, cc)

	c.Config.Cache = config.Cache{Backend: config.BackendFile, Dir: t.TempDir()}
	cc, err = c.newCache(ctx, false)
	require.NoError(t, err)
	assert.IsType(t, &cache.FileCache{}, cc)
	cc.Close()
}

// writeConfig points a CLI run at an isolated config with caching in dir.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func triangleProblem(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "triangle.json")
	p := graph.Problem{
		Nodes: []graph.Node{
			{ID: "a", X: 0, Y: 0},
			{ID: "b", X: 10, Y: 0},
			{ID: "c", X: 0, Y: 10},
		},
		Targets:       []graph.Target{{From: "a", To: "b", Distance: 4}},
		DefaultTarget: 5,
	}
	require.NoError(t, graph.WriteProblemFile(p, path))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestLayoutVisualizeTrace(t *testing.T) {
	dir := t.TempDir()
	problem := triangleProblem(t, dir)
	cfg := writeConfig(t, "[cache]\nbackend = \"none\"\n")

	_, err := execute(t, "layout", problem, "--config", cfg, "--no-cache")
	require.NoError(t, err)

	layoutPath := filepath.Join(dir, "triangle.layout.json")
	layout, err := graph.ReadLayoutFile(layoutPath)
	require.NoError(t, err)
	assert.Len(t, layout.Nodes, 3)
	assert.True(t, layout.Converged)
	assert.NotEmpty(t, layout.Trace)

	_, err = execute(t, "visualize", layoutPath, "--config", cfg, "-f", "dot,json")
	require.NoError(t, err)

	dot, err := os.ReadFile(filepath.Join(dir, "triangle.dot"))
	require.NoError(t, err)
	assert.Contains(t, string(dot), "graph")
	_, err = os.Stat(filepath.Join(dir, "triangle.json"))
	require.NoError(t, err)

	out, err := execute(t, "trace", layoutPath, "--config", cfg, "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "3 nodes")
	assert.Contains(t, out, "Iter")
}

func TestRenderKeepLayout(t *testing.T) {
	dir := t.TempDir()
	problem := triangleProblem(t, dir)
	cfg := writeConfig(t, "[solver]\nalgorithm = \"flat\"\n\n[cache]\nbackend = \"none\"\n")
	output := filepath.Join(dir, "out", "drawing.dot")

	_, err := execute(t, "render", problem, "--config", cfg, "-f", "dot", "-o", output, "--keep-layout")
	require.NoError(t, err)

	_, err = os.Stat(output)
	require.NoError(t, err)

	layout, err := graph.ReadLayoutFile(filepath.Join(dir, "triangle.layout.json"))
	require.NoError(t, err)
	assert.Equal(t, "flat", layout.Algorithm)
}

func TestLayoutErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "[cache]\nbackend = \"none\"\n")

	_, err := execute(t, "layout", filepath.Join(dir, "missing.json"), "--config", cfg)
	assert.Error(t, err)

	problem := triangleProblem(t, dir)
	_, err = execute(t, "layout", problem, "--config", cfg, "--weight", "cubic")
	assert.Error(t, err)

	bad := writeConfig(t, "[cache]\nbackend = \"tape\"\n")
	_, err = execute(t, "layout", problem, "--config", bad)
	assert.ErrorContains(t, err, "load config")
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	out, err := execute(t, "cache", "path", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, dir+"\n", out)

	fc, err := cache.NewFileCache(dir)
	require.NoError(t, err)
	require.NoError(t, fc.Set(t.Context(), "k", []byte("v"), 0))
	fc.Close()

	_, err = execute(t, "cache", "clear", "--config", cfg)
	require.NoError(t, err)

	fc, err = cache.NewFileCache(dir)
	require.NoError(t, err)
	defer fc.Close()
	_, ok, err := fc.Get(t.Context(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfigShow(t *testing.T) {
	cfg := writeConfig(t, "[solver]\nweight = \"one\"\n")

	out, err := execute(t, "config", "show", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "[solver]")
	assert.Contains(t, out, `weight = "one"`)
}

func TestNewStore(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)

	st, err := c.newStore(t.Context(), "", "")
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, st)

	dir := filepath.Join(t.TempDir(), "layouts")
	st, err = c.newStore(t.Context(), "", dir)
	require.NoError(t, err)
	require.IsType(t, &store.FileStore{}, st)
	assert.Equal(t, dir, st.(*store.FileStore).Path())
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "stresslayout")

	out, err = execute(t, "__complete", "layout", "--weight", "")
	require.NoError(t, err)
	assert.Contains(t, out, "inverse-squared")

	out, err = execute(t, "__complete", "visualize", "--format", "")
	require.NoError(t, err)
	assert.Contains(t, out, "svg")
	assert.NotContains(t, out, "inverse")
}
