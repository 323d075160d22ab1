package cli

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unprivate/unprivate/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(afero.NewMemMapFs(), "/", "", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg.Options)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
	assert.Equal(t, defaultColor, cfg.Color)
	assert.Equal(t, defaultCacheSize, cfg.CacheSize)
	assert.Empty(t, cfg.OutDir)
}

func TestLoadConfigFile(t *testing.T) {
	memory := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memory, "/project/.unprivate.yaml", []byte(`
prefix: __
a-to-z: true
by-file: true
outdir: dist
cache-size: 0
unknown-key: ignored
`), 0o644))

	cfg, err := LoadConfig(memory, "/project", "", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Options{Prefix: "__", ExtendedAlphabet: true, PerFileReset: true}, cfg.Options)
	assert.Equal(t, "dist", cfg.OutDir)
	assert.Equal(t, 0, cfg.CacheSize)
}

func TestLoadConfigInvalid(t *testing.T) {
	memory := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memory, "/bad.yaml", []byte("cache-size: -1\n"), 0o644))
	_, err := LoadConfig(memory, "/", "/bad.yaml", nil)
	require.ErrorIs(t, err, ErrInvalidCacheSize)

	require.NoError(t, afero.WriteFile(memory, "/broken.yaml", []byte("prefix: [\n"), 0o644))
	_, err = LoadConfig(memory, "/", "/broken.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
