package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8787 {
		t.Errorf("Server.Port = %d, want 8787", cfg.Server.Port)
	}
	if cfg.Chain.MinConfidence != 0.05 {
		t.Errorf("Chain.MinConfidence = %v, want 0.05", cfg.Chain.MinConfidence)
	}
}

func TestLoadFileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "server:\n  port: 9999\nchain:\n  decay_rate_seconds: 3600\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Chain.DecayRateSeconds != 3600 {
		t.Errorf("Chain.DecayRateSeconds = %v, want 3600", cfg.Chain.DecayRateSeconds)
	}
	// unspecified fields keep their defaults
	if cfg.Server.Bind != "127.0.0.1" {
		t.Errorf("Server.Bind = %q, want 127.0.0.1", cfg.Server.Bind)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("JELLYFISH_SERVER_PORT", "7000")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
}

func TestListenAddr(t *testing.T) {
	cfg := Default()
	if got, want := cfg.ListenAddr(), "127.0.0.1:8787"; got != want {
		t.Errorf("ListenAddr() = %q, want %q", got, want)
	}
}
