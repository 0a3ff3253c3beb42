// transit - a terminal chat interface for MBTA service status.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jeranaias/transit-tui/internal/config"
	"github.com/jeranaias/transit-tui/internal/gateway"
	"github.com/jeranaias/transit-tui/internal/store"
	"github.com/jeranaias/transit-tui/internal/ui"
	"github.com/jeranaias/transit-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "transit: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		serverURL  = flag.String("server", "", "agent service base URL (default from config)")
		themeFlag  = flag.String("theme", "", "color theme: light, dark or system")
		configPath = flag.String("config", "", "path to config file")
	)
	flag.Parse()

	// Local .env files carry the agent URL in development setups.
	_ = godotenv.Load()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	config.SetGlobal(cfg)

	dir, err := config.Dir()
	if err != nil {
		return err
	}

	// Theme precedence: flag, then the persisted toggle, then config.
	mode := styles.LoadMode(dir)
	if mode == styles.ModeSystem && cfg.UI.Theme != "" {
		if m, perr := styles.ParseMode(cfg.UI.Theme); perr == nil {
			mode = m
		}
	}
	if *themeFlag != "" {
		m, perr := styles.ParseMode(*themeFlag)
		if perr != nil {
			return perr
		}
		mode = m
	}

	st, err := store.NewDefault()
	if err != nil {
		return fmt.Errorf("open chat log: %w", err)
	}
	if _, err := st.Load(); err != nil {
		return fmt.Errorf("load chat log: %w", err)
	}

	baseURL := cfg.Agent.BaseURL
	if *serverURL != "" {
		baseURL = *serverURL
	}
	gw := gateway.New(baseURL, st,
		gateway.WithTimeout(time.Duration(cfg.Agent.TimeoutSecs)*time.Second))

	app := ui.NewApp(st, gw,
		ui.WithThemeDir(dir),
		ui.WithThemeMode(mode),
		ui.WithAnimations(cfg.UI.AnimationsEnabled),
	)
	defer app.Shutdown()

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	app.Attach(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
