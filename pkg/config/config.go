// Package config loads upstack's layered configuration: built-in
// defaults, then the user's upstack.toml from the config directory, then
// UPSTACK_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/upstack-sh/upstack/pkg/errors"
	"github.com/upstack-sh/upstack/pkg/paths"
)

// FileName is the user configuration file looked up in the config dir.
const FileName = "upstack.toml"

const envPrefix = "UPSTACK_"

// Config holds the resolved configuration.
type Config struct {
	Aliases struct {
		Setup   string `koanf:"setup"`
		Unsetup string `koanf:"unsetup"`
	} `koanf:"aliases"`

	Flavors struct {
		Fallbacks []string `koanf:"fallbacks"`
	} `koanf:"flavors"`

	Stack struct {
		Autosave bool `koanf:"autosave"`
	} `koanf:"stack"`
}

// Load resolves the configuration from all layers.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}

	userFile := filepath.Join(paths.ConfigDir(), FileName)
	if _, err := os.Stat(userFile); err == nil {
		if err := k.Load(file.Provider(userFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load %s", userFile)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid configuration")
	}
	return &cfg, nil
}

// envToKey maps UPSTACK_ALIASES_SETUP to aliases.setup.
func envToKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
}
