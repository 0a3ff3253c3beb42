// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command transitd runs the transit assistant service: the supervisor,
// the MBTA alerts agent, and the HTTP/WebSocket API the TUI talks to.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jeranaias/transit-tui/internal/agents"
	"github.com/jeranaias/transit-tui/internal/config"
	"github.com/jeranaias/transit-tui/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "transitd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		port        = flag.Int("port", 0, "listen port (default from config)")
		configPath  = flag.String("config", "", "path to config file")
		promptsPath = flag.String("prompts", "", "path to suggested prompts file")
		historyPath = flag.String("history", "", "path to the prompt history database")
	)
	flag.Parse()

	// Optional .env keeps MBTA_API_KEY out of the shell profile. A real
	// environment variable still wins.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("DOTENV_SKIPPED | error=%v", err)
	}

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

	if *port == 0 {
		*port = cfg.Server.Port
	}

	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("resolve data directory: %w", err)
	}

	mbta := agents.NewMBTAClient(
		cfg.MBTA.APIKey,
		cfg.MBTA.RequestsPerMinute,
		time.Duration(cfg.MBTA.CacheTTLSecs)*time.Second,
		agents.WithMBTABaseURL(cfg.MBTA.BaseURL),
	)
	supervisor := agents.NewSupervisor(agents.NewAlertsAgent(mbta))

	srv := server.NewServer(*port, supervisor)

	history, err := agents.OpenHistory(
		resolvePath(*historyPath, cfg.Server.HistoryPath, filepath.Join(dir, "history.db")))
	if err != nil {
		log.Printf("HISTORY_DISABLED | error=%v", err)
	} else {
		defer history.Close()
		srv.WithHistory(history)
	}

	prompts, err := server.NewPromptList(
		resolvePath(*promptsPath, cfg.Server.PromptsPath, filepath.Join(dir, "prompts.json")))
	if err != nil {
		log.Printf("PROMPTS_STATIC | error=%v", err)
	} else {
		defer prompts.Close()
		srv.WithPrompts(prompts)
	}

	if cfg.MBTA.APIKey == "" {
		log.Printf("MBTA_KEY_MISSING | alerts will fail until MBTA_API_KEY is set")
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("SIGNAL_RECEIVED | signal=%v", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// resolvePath picks the first non-empty of flag value, config value, and
// the data-directory fallback.
func resolvePath(flagVal, cfgVal, fallback string) string {
	if flagVal != "" {
		return flagVal
	}
	if cfgVal != "" {
		return cfgVal
	}
	return fallback
}
