// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/transit-tui/internal/gateway"
	"github.com/jeranaias/transit-tui/internal/model"
	"github.com/jeranaias/transit-tui/internal/store"
	"github.com/jeranaias/transit-tui/internal/ui/styles"
)

// newTestApp builds an App against a stub agent service.
func newTestApp(t *testing.T) (App, *store.MessageStore) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/agent/prompt":
			json.NewEncoder(w).Encode(map[string]string{"response": "No current alerts."})
		case "/suggested-prompts":
			json.NewEncoder(w).Encode([]string{"Any delays on the Red Line?"})
		case "/about":
			json.NewEncoder(w).Encode(model.AboutInfo{App: "transit-tui", Service: "transitd"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	st := store.New(filepath.Join(t.TempDir(), "chat.json"))
	if _, err := st.Load(); err != nil {
		t.Fatalf("load store: %v", err)
	}
	gw := gateway.New(srv.URL, st)

	app := NewApp(st, gw, WithThemeMode(styles.ModeDark))
	t.Cleanup(app.Shutdown)
	return app, st
}

// resize drives the initial window size through Update.
func resize(t *testing.T, a App, w, h int) App {
	t.Helper()
	m, _ := a.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return m.(App)
}

func TestApp_InitialState(t *testing.T) {
	app, _ := newTestApp(t)

	if app.state != StateReady {
		t.Errorf("state = %v, want ready", app.state)
	}
	if got := app.StatusLine(); got != "ready" {
		t.Errorf("StatusLine = %q", got)
	}
	if app.View() != "Starting transit assistant..." {
		t.Error("pre-resize view should show the startup line")
	}
}

func TestApp_ViewAfterResize(t *testing.T) {
	app, _ := newTestApp(t)
	app = resize(t, app, 120, 40)

	out := app.View()
	if !strings.Contains(out, "Transit Assistant") {
		t.Error("view missing header")
	}
	if !strings.Contains(out, "Supervisor") {
		t.Error("wide layout should include the graph panel")
	}
}

func TestApp_NarrowLayoutHidesGraph(t *testing.T) {
	app, _ := newTestApp(t)
	app = resize(t, app, 60, 30)

	if strings.Contains(app.View(), "Agent flow") {
		t.Error("narrow layout should hide the graph panel")
	}
}

func TestApp_SuggestedPromptCycling(t *testing.T) {
	app, _ := newTestApp(t)
	app = resize(t, app, 100, 40)

	m, _ := app.Update(suggestedMsg{prompts: []string{"first", "second"}})
	app = m.(App)

	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = m.(App)
	if got := app.input.Value(); got != "first" {
		t.Errorf("after one tab input = %q, want first", got)
	}

	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = m.(App)
	if got := app.input.Value(); got != "second" {
		t.Errorf("after two tabs input = %q, want second", got)
	}
}

func TestApp_SubmitEmptyPromptIsNoop(t *testing.T) {
	app, st := newTestApp(t)
	app = resize(t, app, 100, 40)

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = m.(App)

	if app.state != StateReady {
		t.Error("empty submit should not change state")
	}
	if st.Len() != 0 {
		t.Error("empty submit should not touch the store")
	}
}

func TestApp_SubmitMarksBusy(t *testing.T) {
	app, _ := newTestApp(t)
	app = resize(t, app, 100, 40)

	app.input.SetValue("Red line status?")
	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = m.(App)

	if app.state != StateBusy {
		t.Errorf("state = %v, want busy", app.state)
	}
	if cmd == nil {
		t.Error("submit should produce a send command")
	}
	if app.input.Value() != "" {
		t.Error("submit should clear the input")
	}
}

func TestApp_SendDoneError(t *testing.T) {
	app, _ := newTestApp(t)
	app = resize(t, app, 100, 40)
	app.state = StateBusy

	m, _ := app.Update(sendDoneMsg{err: errors.New("connection refused")})
	app = m.(App)

	if app.state != StateError {
		t.Errorf("state = %v, want error", app.state)
	}
	if !strings.Contains(app.StatusLine(), "connection refused") {
		t.Errorf("StatusLine = %q", app.StatusLine())
	}
}

func TestApp_RevealStartsOnAnimatedReply(t *testing.T) {
	app, st := newTestApp(t)
	app = resize(t, app, 100, 40)

	if err := st.Append(model.NewUserMessage("hi"), model.NewPlaceholderMessage()); err != nil {
		t.Fatal(err)
	}
	if err := st.ReplaceLast("**Current alerts for the Red line**", true); err != nil {
		t.Fatal(err)
	}
	app.state = StateBusy

	m, cmd := app.Update(sendDoneMsg{})
	app = m.(App)

	if app.state != StateReady {
		t.Errorf("state = %v, want ready", app.state)
	}
	if app.revealID == "" {
		t.Error("animated reply should start a reveal")
	}
	if cmd == nil {
		t.Error("reveal should schedule ticks")
	}

	// Ticks advance the reveal and eventually clear it.
	for i := 0; i < 100 && app.revealID != ""; i++ {
		m, _ = app.Update(revealTickMsg{})
		app = m.(App)
	}
	if app.revealID != "" {
		t.Error("reveal should complete")
	}
}

func TestApp_PlaceholderShowsThinking(t *testing.T) {
	app, st := newTestApp(t)
	app = resize(t, app, 100, 40)

	if err := st.Append(model.NewUserMessage("hi"), model.NewPlaceholderMessage()); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(app.renderMessages(), "thinking") {
		t.Error("placeholder should render as thinking")
	}
}

func TestApp_AboutOverlayToggle(t *testing.T) {
	app, _ := newTestApp(t)
	app = resize(t, app, 100, 40)

	m, _ := app.Update(aboutMsg{info: model.AboutInfo{App: "transit-tui", Service: "transitd", Version: "1.0.0"}})
	app = m.(App)

	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	app = m.(App)
	if !strings.Contains(app.View(), "transitd") {
		t.Error("about overlay should show the service name")
	}

	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyEscape})
	app = m.(App)
	if app.showAbout {
		t.Error("esc should close the overlay")
	}
}

func TestApp_ThemeToggleCycles(t *testing.T) {
	app, _ := newTestApp(t)
	app = resize(t, app, 100, 40)

	if app.mode != styles.ModeDark {
		t.Fatalf("initial mode = %q", app.mode)
	}
	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	app = m.(App)
	if app.mode != styles.ModeSystem {
		t.Errorf("mode after toggle = %q, want system", app.mode)
	}
}

func TestApp_ClearResetsTranscript(t *testing.T) {
	app, st := newTestApp(t)
	app = resize(t, app, 100, 40)

	if err := st.Append(model.NewUserMessage("hi"), model.NewPlaceholderMessage()); err != nil {
		t.Fatal(err)
	}
	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	app = m.(App)

	if st.Len() != 0 {
		t.Errorf("store length = %d after clear", st.Len())
	}
}

func TestApp_HeightEmissionRefitsGraphPanel(t *testing.T) {
	app, _ := newTestApp(t)

	// A tall, wide terminal with a settled transcript height lands in
	// the most generous padding tier: node sublabels appear.
	app = resize(t, app, 150, 48)
	m, _ := app.Update(heightSettledMsg{height: 40, expanded: false})
	app = m.(App)
	generous := app.View()
	if !strings.Contains(generous, "routes queries") {
		t.Error("generous fit should annotate graph nodes")
	}

	// A cramped terminal settles into the tightest tier and the panel
	// sheds its annotations.
	app = resize(t, app, 85, 25)
	m, _ = app.Update(heightSettledMsg{height: 17, expanded: false})
	app = m.(App)
	tight := app.View()
	if strings.Contains(tight, "routes queries") {
		t.Error("tight fit should drop graph annotations")
	}
	if tight == generous {
		t.Error("fit emissions should change the rendered interface")
	}
}
