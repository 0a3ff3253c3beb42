// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// transit-tui.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete transit-tui configuration, shared by the TUI and
// the agent service.
type Config struct {
	// Agent holds the TUI-side client settings.
	Agent AgentConfig `toml:"agent"`

	// Server holds the transitd service settings.
	Server ServerConfig `toml:"server"`

	// MBTA holds upstream transit API settings.
	MBTA MBTAConfig `toml:"mbta"`

	// UI holds presentation settings.
	UI UIConfig `toml:"ui"`
}

// AgentConfig configures the client side of the agent API.
type AgentConfig struct {
	// BaseURL is the agent service endpoint. Overridden by TRANSIT_AGENT_URL.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds a single prompt request.
	TimeoutSecs int `toml:"timeout_secs"`
}

// ServerConfig configures the transitd HTTP service.
type ServerConfig struct {
	// Port the service listens on. Overridden by TRANSIT_PORT.
	Port int `toml:"port"`
	// PromptsPath is the suggested-prompts file watched for changes
	// (empty = built-in list).
	PromptsPath string `toml:"prompts_path"`
	// HistoryPath is the sqlite prompt history database
	// (empty = ~/.transit/history.db).
	HistoryPath string `toml:"history_path"`
}

// MBTAConfig configures the upstream MBTA v3 API client.
type MBTAConfig struct {
	// BaseURL of the v3 API.
	BaseURL string `toml:"base_url"`
	// APIKey for the v3 API. Overridden by MBTA_API_KEY.
	APIKey string `toml:"api_key"`
	// RequestsPerMinute caps the upstream request rate.
	RequestsPerMinute int `toml:"requests_per_minute"`
	// CacheTTLSecs bounds how long alert responses are served from cache.
	CacheTTLSecs int `toml:"cache_ttl_secs"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme is "light", "dark" or "system".
	Theme string `toml:"theme"`
	// AnimationsEnabled toggles the graph highlight sweep.
	AnimationsEnabled bool `toml:"animations_enabled"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			BaseURL:     "http://127.0.0.1:8000",
			TimeoutSecs: 30,
		},
		Server: ServerConfig{
			Port: 8000,
		},
		MBTA: MBTAConfig{
			BaseURL:           "https://api-v3.mbta.com",
			RequestsPerMinute: 60,
			CacheTTLSecs:      60,
		},
		UI: UIConfig{
			Theme:             "system",
			AnimationsEnabled: true,
		},
	}
}

// Dir returns the transit-tui state directory (~/.transit).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".transit"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from the default location, applies environment
// overrides and validates the result. A missing file yields the defaults.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.toml"))
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("TRANSIT_AGENT_URL"); v != "" {
		c.Agent.BaseURL = v
	}
	if v := os.Getenv("TRANSIT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("MBTA_API_KEY"); v != "" {
		c.MBTA.APIKey = v
	}
	if v := os.Getenv("TRANSIT_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if _, err := url.Parse(c.Agent.BaseURL); err != nil {
		return fmt.Errorf("config: invalid agent base URL %q: %w", c.Agent.BaseURL, err)
	}
	if c.Agent.TimeoutSecs <= 0 {
		c.Agent.TimeoutSecs = 30
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	switch c.UI.Theme {
	case "light", "dark", "system":
	default:
		return fmt.Errorf("config: invalid theme %q (want light, dark or system)", c.UI.Theme)
	}
	if c.MBTA.RequestsPerMinute <= 0 {
		c.MBTA.RequestsPerMinute = 60
	}
	if c.MBTA.CacheTTLSecs <= 0 {
		c.MBTA.CacheTTLSecs = 60
	}
	return nil
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide configuration, loading it on first use.
// A load failure falls back to the defaults so the UI can always start.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
			cfg.applyEnv()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// ResetGlobalForTesting clears the global config so tests start clean.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = nil
}
