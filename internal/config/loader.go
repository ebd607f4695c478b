package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix recognized for environment variable overrides.
const EnvPrefix = "JELLYFISH_"

const delimiter = "."

// Load layers defaults, an optional YAML file, and JELLYFISH_* environment
// variables (highest priority) into a Config. path may be empty, in which
// case only defaults and environment variables apply.
func Load(path string) (Config, error) {
	k := koanf.New(delimiter)

	defaults := Default()
	defaultsMap := map[string]interface{}{
		"server.bind":              defaults.Server.Bind,
		"server.port":              defaults.Server.Port,
		"catalog.path":             defaults.Catalog.Path,
		"chain.decay_rate_seconds": defaults.Chain.DecayRateSeconds,
		"chain.min_confidence":     defaults.Chain.MinConfidence,
		"mindset.dir":              defaults.Mindset.Dir,
		"mindset.watch":            defaults.Mindset.Watch,
		"vault.dir":                defaults.Vault.Dir,
	}
	if err := k.Load(confmap.Provider(defaultsMap, delimiter), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, delimiter, func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", delimiter)
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
