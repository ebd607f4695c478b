package config

import "fmt"

// Config holds every runtime setting for the jellyfish service and CLI.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Catalog CatalogConfig `koanf:"catalog"`
	Chain   ChainConfig   `koanf:"chain"`
	Mindset MindsetConfig `koanf:"mindset"`
	Vault   VaultConfig   `koanf:"vault"`
}

type ServerConfig struct {
	Bind string `koanf:"bind"`
	Port int    `koanf:"port"`
}

type CatalogConfig struct {
	Path string `koanf:"path"` // resolved at runtime via catalog.DefaultDBPath() when empty
}

type ChainConfig struct {
	DecayRateSeconds float64 `koanf:"decay_rate_seconds"`
	MinConfidence    float64 `koanf:"min_confidence"`
}

type MindsetConfig struct {
	Dir   string `koanf:"dir"`
	Watch bool   `koanf:"watch"`
}

type VaultConfig struct {
	Dir string `koanf:"dir"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 8787,
		},
		Catalog: CatalogConfig{
			Path: "",
		},
		Chain: ChainConfig{
			DecayRateSeconds: 86400,
			MinConfidence:    0.05,
		},
		Mindset: MindsetConfig{
			Dir:   "mindsets",
			Watch: false,
		},
		Vault: VaultConfig{
			Dir: "vault",
		},
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
