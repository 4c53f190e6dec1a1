package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upstack-sh/upstack/pkg/config"
	"github.com/upstack-sh/upstack/pkg/paths"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(paths.EnvConfigDir, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "setup", cfg.Aliases.Setup)
	assert.Equal(t, "unsetup", cfg.Aliases.Unsetup)
	assert.Equal(t, []string{"NULL", "Generic"}, cfg.Flavors.Fallbacks)
	assert.True(t, cfg.Stack.Autosave)
}

func TestLoadUserFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)

	userConfig := `
[aliases]
setup = "load"

[stack]
autosave = false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(userConfig), 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "load", cfg.Aliases.Setup)
	assert.Equal(t, "unsetup", cfg.Aliases.Unsetup, "unset keys keep their defaults")
	assert.False(t, cfg.Stack.Autosave)
}

func TestLoadEnvOverridesAll(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName),
		[]byte("[aliases]\nsetup = \"load\"\n"), 0o644))

	t.Setenv("UPSTACK_ALIASES_SETUP", "activate")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "activate", cfg.Aliases.Setup)
}

func TestLoadRejectsMalformedUserFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName),
		[]byte("not toml ["), 0o644))

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDefaultConfigContent(t *testing.T) {
	assert.Contains(t, config.DefaultConfigContent(), "[aliases]")
}
