// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// SUGGESTED PROMPTS
// =============================================================================

// DefaultSuggestedPrompts seeds the UI when no prompts file exists.
var DefaultSuggestedPrompts = []string{
	"Are there any delays on the Red line?",
	"Is the Orange line running normally?",
	"Any current MBTA service alerts?",
	"What's the status of the Green line?",
}

// promptsDebounce is how long after the last file event a reload waits,
// so an editor's write-then-rename burst loads once.
const promptsDebounce = 200 * time.Millisecond

// PromptList serves suggested prompts from a JSON file and hot-reloads
// it when the file changes.
type PromptList struct {
	path    string
	mu      sync.RWMutex
	prompts []string

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPromptList loads the prompts file and starts watching it. A missing
// or unreadable file falls back to the defaults; the watch still runs so
// creating the file later takes effect.
func NewPromptList(path string) (*PromptList, error) {
	p := &PromptList{
		path:    path,
		prompts: DefaultSuggestedPrompts,
		done:    make(chan struct{}),
	}
	p.reload()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create prompts watcher: %w", err)
	}
	// Watch the directory: atomic saves replace the file, and watching
	// the file itself would lose the watch on rename.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch prompts directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.watcher = watcher
	p.cancel = cancel
	go p.processEvents(ctx)

	return p, nil
}

// Current returns the prompt list as last loaded.
func (p *PromptList) Current() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.prompts))
	copy(out, p.prompts)
	return out
}

// Close stops the watcher.
func (p *PromptList) Close() error {
	p.cancel()
	err := p.watcher.Close()
	<-p.done
	return err
}

// processEvents debounces file events into reloads.
func (p *PromptList) processEvents(ctx context.Context) {
	defer close(p.done)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(p.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(promptsDebounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(promptsDebounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			p.reload()

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("PROMPTS_WATCH_ERROR | error=%v", err)
		}
	}
}

// reload reads the prompts file. Parse failures keep the previous list.
func (p *PromptList) reload() {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("PROMPTS_READ_ERROR | path=%s error=%v", p.path, err)
		}
		p.mu.Lock()
		p.prompts = DefaultSuggestedPrompts
		p.mu.Unlock()
		return
	}

	var prompts []string
	if err := json.Unmarshal(data, &prompts); err != nil {
		log.Printf("PROMPTS_PARSE_ERROR | path=%s error=%v", p.path, err)
		return
	}
	if len(prompts) == 0 {
		prompts = DefaultSuggestedPrompts
	}

	p.mu.Lock()
	p.prompts = prompts
	p.mu.Unlock()
	log.Printf("PROMPTS_RELOADED | path=%s count=%d", p.path, len(prompts))
}
