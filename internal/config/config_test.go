package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"JSH_PROMPT", "JSH_LOG_FILE", "JSH_MAX_JOBS", "JSH_PATH_LOOKUP", "JSH_DEBUG"} {
		if value, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "jshrc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prompt: "33sh> "
max_jobs: 8
path_lookup: true
log_file: /tmp/jsh.log
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Prompt:     "33sh> ",
		MaxJobs:    8,
		PathLookup: true,
		LogFile:    "/tmp/jsh.log",
	}, cfg)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "jshrc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_jobs: 8\n"), 0o644))

	t.Setenv("JSH_MAX_JOBS", "3")
	t.Setenv("JSH_PROMPT", "$ ")
	t.Setenv("JSH_DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxJobs)
	assert.Equal(t, "$ ", cfg.Prompt)
	assert.True(t, cfg.Debug)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("max_jobs: [1, 2]\n"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	zero := filepath.Join(dir, "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("max_jobs: 0\n"), 0o644))
	_, err = Load(zero)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("JSH_PATH_LOOKUP", "maybe")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("JSH_CONFIG", "/etc/jsh.yaml")
	assert.Equal(t, "/etc/jsh.yaml", DefaultPath())
}
