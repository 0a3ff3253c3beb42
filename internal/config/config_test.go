// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Agent.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("Unexpected default agent URL: %s", cfg.Agent.BaseURL)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Unexpected default port: %d", cfg.Server.Port)
	}
	if cfg.UI.Theme != "system" {
		t.Errorf("Unexpected default theme: %s", cfg.UI.Theme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed on missing file: %v", err)
	}
	if cfg.Agent.BaseURL == "" {
		t.Error("Expected defaults for missing file")
	}
}

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[agent]
base_url = "http://localhost:9000"

[server]
prompts_path = "/srv/transit/prompts.json"
history_path = "/srv/transit/history.db"

[ui]
theme = "dark"
animations_enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Agent.BaseURL != "http://localhost:9000" {
		t.Errorf("File value not applied: %s", cfg.Agent.BaseURL)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Theme not applied: %s", cfg.UI.Theme)
	}
	if cfg.UI.AnimationsEnabled {
		t.Error("animations_enabled=false not applied")
	}
	if cfg.Server.PromptsPath != "/srv/transit/prompts.json" {
		t.Errorf("prompts_path not applied: %s", cfg.Server.PromptsPath)
	}
	if cfg.Server.HistoryPath != "/srv/transit/history.db" {
		t.Errorf("history_path not applied: %s", cfg.Server.HistoryPath)
	}
	// Unset keys keep defaults.
	if cfg.Server.Port != 8000 {
		t.Errorf("Default port lost: %d", cfg.Server.Port)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TRANSIT_AGENT_URL", "http://10.0.0.5:8000")
	t.Setenv("MBTA_API_KEY", "test-key")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Agent.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("Env override not applied: %s", cfg.Agent.BaseURL)
	}
	if cfg.MBTA.APIKey != "test-key" {
		t.Errorf("MBTA_API_KEY not applied: %s", cfg.MBTA.APIKey)
	}
}

func TestValidate_BadTheme(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "sepia"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for bad theme")
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for bad port")
	}
}

func TestGlobal_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
