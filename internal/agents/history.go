// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// PROMPT HISTORY
// =============================================================================

const historySchema = `
CREATE TABLE IF NOT EXISTS history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	prompt TEXT NOT NULL,
	response TEXT NOT NULL,
	intent TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at);
`

// HistoryEntry is one recorded prompt/response exchange.
type HistoryEntry struct {
	ID        int64
	Prompt    string
	Response  string
	Intent    string
	CreatedAt time.Time
}

// History records every exchange the service answers, in SQLite.
type History struct {
	db *sql.DB
}

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}

	return &History{db: db}, nil
}

// Record stores one exchange.
func (h *History) Record(ctx context.Context, prompt, response string, intent Intent) error {
	_, err := h.db.ExecContext(ctx,
		"INSERT INTO history (prompt, response, intent, created_at) VALUES (?, ?, ?, ?)",
		prompt, response, string(intent), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record history entry: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		"SELECT id, prompt, response, intent, created_at FROM history ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Prompt, &e.Response, &e.Intent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the total number of recorded exchanges.
func (h *History) Count(ctx context.Context) (int, error) {
	var n int
	err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history").Scan(&n)
	return n, err
}

// Close releases the database handle.
func (h *History) Close() error {
	return h.db.Close()
}
