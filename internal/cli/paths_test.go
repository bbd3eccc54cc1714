package cli

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stresslayout/internal/config"
)

func TestCacheDirLocations(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
		dir, err := cacheDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/tmp/xdg-cache", appName), dir)
	})

	t.Run("home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", "")
		t.Setenv("HOME", home)
		dir, err := cacheDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".cache", appName), dir)
	})
}

func TestLocalCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	c := New(io.Discard, LogInfo)

	dir, err := c.localCacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg-cache", appName), dir)

	c.Config.Cache = config.Cache{Dir: "/srv/layout-cache"}
	dir, err = c.localCacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/srv/layout-cache", dir)
}
