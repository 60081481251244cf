package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
packages:
  - ./examples/simpleapp
introspect:
  parallelism: 8
validation:
  unknown_directives: false
  require_explicit_logical_type_name: true
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"./examples/simpleapp"}, cfg.Packages)
	assert.Equal(t, 8, cfg.Introspect.Parallelism)
	assert.Equal(t, 256, cfg.Semantics.CacheSize)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.True(t, cfg.Validation.DeprecatedFacets)
	assert.True(t, cfg.Validation.ConflictingOptionality)
	assert.False(t, cfg.Validation.UnknownDirectives)
	assert.True(t, cfg.Validation.RequireExplicitLogicalTypeName)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("packages: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestParse_ClampsValues(t *testing.T) {
	cfg, err := Parse([]byte("introspect:\n  parallelism: 0\nsemantics:\n  cache_size: -3\npackages: []\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Introspect.Parallelism)
	assert.Equal(t, 256, cfg.Semantics.CacheSize)
	assert.Equal(t, []string{"./..."}, cfg.Packages)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvPackages:    "./a, ./b",
		EnvLogLevel:    "debug",
		EnvParallelism: "2",
		EnvCacheSize:   "16",
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, []string{"./a", "./b"}, cfg.Packages)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.Introspect.Parallelism)
	assert.Equal(t, 16, cfg.Semantics.CacheSize)

	env[EnvParallelism] = "many"
	require.Error(t, Default().ApplyEnv(func(k string) string { return env[k] }))
}

func TestLoadFileAndDotEnv(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "causeway.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(EnvCacheSize+"=42\n"), 0o644))

	t.Setenv(EnvCacheSize, "")
	os.Unsetenv(EnvCacheSize)

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "absent.env"), envFile))
	require.NoError(t, cfg.ApplyEnv(os.Getenv))
	assert.Equal(t, 42, cfg.Semantics.CacheSize)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
