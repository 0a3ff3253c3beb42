// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/transit-tui/internal/gateway"
	"github.com/jeranaias/transit-tui/internal/graph"
	"github.com/jeranaias/transit-tui/internal/model"
	"github.com/jeranaias/transit-tui/internal/store"
	"github.com/jeranaias/transit-tui/internal/ui/styles"
	"github.com/jeranaias/transit-tui/internal/util"
)

// =============================================================================
// APP STATE
// =============================================================================

// State represents the current state of the chat interface.
type State int

const (
	StateReady State = iota // Ready for input
	StateBusy               // A prompt is in flight
	StateError              // Last request failed
)

const (
	// graphPanelWidth is the fixed column budget for the agent diagram in
	// wide layouts.
	graphPanelWidth = 44

	// revealInterval and revealStep pace the progressive reveal: a few
	// characters per frame reads as typing without dragging long replies.
	revealInterval = 25 * time.Millisecond
	revealStep     = 3

	// chrome rows: header (3), input (3), status bar (1), suggestion row (1).
	chromeHeight = 8

	// Nominal pixel size of a terminal cell, used to feed the fit
	// computation geometry it can discriminate on.
	cellHeightPx = 16.0
	cellWidthPx  = 8.0
)

// =============================================================================
// APP MODEL
// =============================================================================

// App is the Bubble Tea model for the transit assistant.
type App struct {
	state State

	// Styling
	theme    *styles.Theme
	mode     styles.Mode
	themeDir string

	// Dimensions
	width  int
	height int
	ready  bool

	// Conversation
	store *store.MessageStore
	gw    *gateway.Client

	// Agent diagram
	seq        *graph.Sequencer
	graphView  *GraphView
	animations bool

	// Resize settling
	observer *HeightObserver

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	md       *MarkdownRenderer

	// Suggested prompts
	suggested  []string
	suggestIdx int

	// About overlay
	about       model.AboutInfo
	aboutLoaded bool
	showAbout   bool

	// Progressive reveal of the newest animated reply
	revealID    string
	revealN     int
	revealTotal int

	// Background message injection
	handle *programHandle

	lastErr error
}

// AppOption customizes the App.
type AppOption func(*App)

// WithThemeDir sets where the theme mode is persisted.
func WithThemeDir(dir string) AppOption {
	return func(a *App) { a.themeDir = dir }
}

// WithThemeMode forces the initial theme mode.
func WithThemeMode(mode styles.Mode) AppOption {
	return func(a *App) { a.mode = mode }
}

// WithAnimations toggles the graph highlight sweep.
func WithAnimations(on bool) AppOption {
	return func(a *App) { a.animations = on }
}

// NewApp builds the chat interface around a message store and a gateway
// client. Call Attach with the running program so the sequencer and the
// resize observer can push redraws.
func NewApp(st *store.MessageStore, gw *gateway.Client, opts ...AppOption) App {
	a := App{
		state:      StateReady,
		mode:       styles.ModeSystem,
		store:      st,
		gw:         gw,
		animations: true,
		handle:     &programHandle{},
		md:         NewMarkdownRenderer(80),
	}
	for _, opt := range opts {
		opt(&a)
	}

	a.theme = styles.NewTheme(a.mode)

	ti := textinput.New()
	ti.Placeholder = "Ask about MBTA alerts, delays, service status..."
	ti.Prompt = "> "
	ti.CharLimit = 4000
	ti.Focus()
	a.input = ti

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 8,
	}
	sp.Style = a.theme.Spinner
	a.spinner = sp

	handle := a.handle
	a.seq = graph.NewSequencer(graph.DefaultConfig(), graph.WithOnChange(func() {
		handle.Send(GraphChangedMsg{})
	}))
	a.seq.Start()
	a.graphView = NewGraphView(graph.DefaultConfig(), a.theme)

	a.observer = NewHeightObserver(DebounceComposed, func(h float64, expanded bool) {
		handle.Send(heightSettledMsg{height: h, expanded: expanded})
	})

	return a
}

// Attach binds the running program for background redraw injection.
func (a *App) Attach(p *tea.Program) {
	a.handle.Attach(p)
}

// Shutdown stops the background goroutines. Call after the program exits.
func (a *App) Shutdown() {
	a.seq.Close()
	a.observer.Close()
}

// =============================================================================
// COMMANDS
// =============================================================================

// sendCmd issues the prompt round-trip off the update loop.
func (a *App) sendCmd(prompt string) tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		var sendErr error
		gw.Send(context.Background(), prompt, gateway.Callbacks{
			OnError: func(err error) { sendErr = err },
		})
		return sendDoneMsg{err: sendErr}
	}
}

// fetchSuggestedCmd loads the starter prompts.
func (a *App) fetchSuggestedCmd() tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return suggestedMsg{prompts: gw.SuggestedPrompts(ctx)}
	}
}

// fetchAboutCmd loads the service metadata.
func (a *App) fetchAboutCmd() tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return aboutMsg{info: gw.About(ctx)}
	}
}

func revealTick() tea.Cmd {
	return tea.Tick(revealInterval, func(time.Time) tea.Msg {
		return revealTickMsg{}
	})
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.spinner.Tick,
		a.fetchSuggestedCmd(),
		a.fetchAboutCmd(),
	)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		if !a.ready {
			a.ready = true
			a.observer.Start(float64(a.chatHeight()))
		} else {
			a.observer.Observe(float64(a.chatHeight()))
		}
		a.refreshViewport(true)

	case heightSettledMsg:
		// Cells map to a nominal 16x8 px so the fit tiers, calibrated
		// for pixel canvases, spread across real terminal sizes. The
		// graph panel shares the transcript's rows, so the canvas keeps
		// the settled chat height and loses everything else.
		wh := float64(a.height) * cellHeightPx
		ww := float64(a.width) * cellWidthPx
		chrome := wh - msg.height*cellHeightPx
		a.graphView.SetFit(graph.ComputeFit(wh, ww, chrome, msg.expanded))
		// Repaint once the zoom transition has settled.
		cmds = append(cmds, tea.Tick(graph.FitTransition, func(time.Time) tea.Msg {
			return GraphChangedMsg{}
		}))

	case GraphChangedMsg:
		// Redraw only; the sequencer already mutated its active set.

	case tea.KeyMsg:
		newApp, cmd, handled := a.handleKey(msg)
		if handled {
			return newApp, cmd
		}
		a = newApp
		var inputCmd tea.Cmd
		a.input, inputCmd = a.input.Update(msg)
		cmds = append(cmds, inputCmd)

	case sendDoneMsg:
		if a.animations {
			a.seq.Trigger(graph.TriggerReplyArrived)
		}
		if msg.err != nil {
			a.state = StateError
			a.lastErr = msg.err
		} else {
			a.state = StateReady
			a.lastErr = nil
			if cmd := a.startReveal(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		a.refreshViewport(true)

	case revealTickMsg:
		if a.revealID != "" {
			a.revealN += revealStep
			if a.revealN >= a.revealTotal {
				a.revealID = ""
			} else {
				cmds = append(cmds, revealTick())
			}
			a.refreshViewport(true)
		}

	case suggestedMsg:
		a.suggested = msg.prompts
		a.suggestIdx = -1

	case aboutMsg:
		a.about = msg.info
		a.aboutLoaded = true

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if a.state == StateBusy {
			// The in-flight turn lands in the store from the send
			// goroutine; ticking keeps the placeholder frame current.
			a.refreshViewport(true)
		}

	default:
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var vpCmd tea.Cmd
	a.viewport, vpCmd = a.viewport.Update(msg)
	cmds = append(cmds, vpCmd)

	return a, tea.Batch(cmds...)
}

// handleKey processes control keys. handled=false means the key should fall
// through to the text input.
func (a App) handleKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit, true

	case "esc":
		if a.showAbout {
			a.showAbout = false
			return a, nil, true
		}
		return a, tea.Quit, true

	case "enter":
		return a.submit()

	case "tab":
		if len(a.suggested) > 0 {
			a.suggestIdx = (a.suggestIdx + 1) % len(a.suggested)
			a.input.SetValue(a.suggested[a.suggestIdx])
			a.input.CursorEnd()
		}
		return a, nil, true

	case "ctrl+t":
		a.mode = a.mode.Next()
		a.applyTheme()
		if a.themeDir != "" {
			// Best effort; the toggle still applies for this session.
			_ = styles.SaveMode(a.themeDir, a.mode)
		}
		a.refreshViewport(false)
		return a, nil, true

	case "ctrl+o":
		a.showAbout = !a.showAbout
		if a.showAbout && !a.aboutLoaded {
			return a, a.fetchAboutCmd(), true
		}
		return a, nil, true

	case "ctrl+l":
		if a.state != StateBusy {
			if err := a.store.Clear(); err != nil {
				a.lastErr = err
				a.state = StateError
			}
			a.refreshViewport(true)
		}
		return a, nil, true
	}
	return a, nil, false
}

// submit sends the current input as a prompt.
func (a App) submit() (App, tea.Cmd, bool) {
	prompt := strings.TrimSpace(a.input.Value())
	if prompt == "" || a.state == StateBusy {
		return a, nil, true
	}

	a.input.Reset()
	a.suggestIdx = -1
	a.state = StateBusy
	a.lastErr = nil
	a.revealID = ""
	if a.animations {
		a.seq.Trigger(graph.TriggerRequestStarted)
	}

	cmd := a.sendCmd(prompt)

	// The user message and placeholder land in the store once the send
	// command starts; refresh on the next frame shows them.
	return a, tea.Batch(cmd, a.spinner.Tick), true
}

// startReveal begins the progressive reveal if the newest reply asked for
// animation.
func (a *App) startReveal() tea.Cmd {
	last, ok := a.store.Last()
	if !ok || !last.Animate || last.Role != model.RoleAssistant {
		return nil
	}
	a.revealID = last.ID
	a.revealN = 0
	a.revealTotal = len([]rune(last.Content))
	return revealTick()
}

// applyTheme rebuilds styles after a mode change.
func (a *App) applyTheme() {
	a.theme = styles.NewTheme(a.mode)
	a.spinner.Style = a.theme.Spinner
	a.graphView.SetTheme(a.theme)
}

// =============================================================================
// LAYOUT
// =============================================================================

// chatHeight is the row budget for the transcript viewport.
func (a *App) chatHeight() int {
	h := a.height - chromeHeight
	if h < 3 {
		h = 3
	}
	return h
}

// chatWidth is the column budget for the transcript viewport.
func (a *App) chatWidth() int {
	w := a.width
	if a.wide() {
		w -= graphPanelWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// wide reports whether the graph panel is shown.
func (a *App) wide() bool {
	a.theme.SetSize(a.width, a.height)
	return a.theme.GetLayoutMode() == styles.LayoutWide
}

// layout resizes the components after a window change.
func (a *App) layout() {
	cw := a.chatWidth()
	ch := a.chatHeight()
	if a.viewport.Width == 0 && a.viewport.Height == 0 {
		a.viewport = viewport.New(cw, ch)
	} else {
		a.viewport.Width = cw
		a.viewport.Height = ch
	}
	a.input.Width = a.width - 8
	a.md.SetWidth(cw - 6)
}

// refreshViewport re-renders the transcript.
func (a *App) refreshViewport(scrollToBottom bool) {
	a.viewport.SetContent(a.renderMessages())
	if scrollToBottom {
		a.viewport.GotoBottom()
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (a App) View() string {
	if !a.ready {
		return "Starting transit assistant..."
	}

	if a.showAbout {
		return a.renderAbout()
	}

	header := a.renderHeader()
	body := a.viewport.View()
	if a.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			body,
			a.graphView.View(a.activeIDs()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		a.renderSuggestions(),
		a.renderInput(),
		a.renderStatusBar(),
	)
}

// activeIDs snapshots the sequencer's highlight set for this frame.
func (a App) activeIDs() map[string]bool {
	if !a.animations {
		return nil
	}
	return a.seq.ActiveIDs()
}

func (a App) renderHeader() string {
	title := a.theme.HeaderTitle.Render("Transit Assistant")
	sub := a.theme.ShortcutDesc.Render("  MBTA service alerts")
	return a.theme.Header.Width(a.width - 4).Render(title + sub)
}

// renderMessages builds the transcript content.
func (a App) renderMessages() string {
	msgs := a.store.Messages()
	if len(msgs) == 0 {
		return a.theme.Placeholder.Render("\n  Ask about MBTA service. Tab cycles suggested prompts.")
	}

	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(a.renderMessage(m))
		b.WriteString("\n")
	}
	return b.String()
}

// renderMessage draws one chat turn.
func (a App) renderMessage(m model.ChatMessage) string {
	bubbleWidth := a.chatWidth() - 8
	if bubbleWidth < 16 {
		bubbleWidth = 16
	}

	switch {
	case m.Role == model.RoleUser:
		label := a.theme.UserLabel.Render("You")
		bubble := a.theme.UserBubble.MaxWidth(bubbleWidth).Render(m.Content)
		return label + "\n" + bubble

	case m.IsPlaceholder():
		label := a.theme.AssistantLabel.Render("Assistant")
		thinking := a.spinner.View() + a.theme.Placeholder.Render(" thinking...")
		return label + "\n" + a.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(thinking)

	default:
		label := a.theme.AssistantLabel.Render("Assistant")
		content := m.Content
		switch {
		case content == gateway.ErrorFallback:
			content = a.theme.ErrorText.Render(content)
		case m.ID == a.revealID && a.revealN < a.revealTotal:
			// Mid-reveal the raw prefix is shown; markdown lands when
			// the reveal completes.
			runes := []rune(content)
			content = string(runes[:a.revealN])
		default:
			content = a.md.Render(content)
		}
		return label + "\n" + a.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(content)
	}
}

func (a App) renderSuggestions() string {
	if len(a.suggested) == 0 || a.state == StateBusy {
		return ""
	}
	chips := make([]string, 0, len(a.suggested))
	budget := a.width - 4
	used := 0
	for i, s := range a.suggested {
		chip := util.TruncateWidth(s, 32)
		style := a.theme.PromptChip
		if i == a.suggestIdx {
			style = a.theme.PromptChipSelected
		}
		rendered := style.Render(chip)
		used += lipgloss.Width(rendered)
		if used > budget {
			break
		}
		chips = append(chips, rendered)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, chips...)
}

func (a App) renderInput() string {
	return a.theme.InputContainer.Width(a.width - 2).Render(a.input.View())
}

func (a App) renderStatusBar() string {
	var status string
	switch a.state {
	case StateBusy:
		status = a.theme.StatusBusy.Render(styles.StatusIndicators.Active + " waiting for agent")
	case StateError:
		status = a.theme.StatusError.Render(styles.StatusIndicators.Error + " request failed")
	default:
		status = a.theme.StatusOK.Render(styles.StatusIndicators.Success + " ready")
	}

	hints := strings.Join([]string{
		a.theme.ShortcutKey.Render("tab") + a.theme.ShortcutDesc.Render(" prompts"),
		a.theme.ShortcutKey.Render("^t") + a.theme.ShortcutDesc.Render(" theme"),
		a.theme.ShortcutKey.Render("^o") + a.theme.ShortcutDesc.Render(" about"),
		a.theme.ShortcutKey.Render("^l") + a.theme.ShortcutDesc.Render(" clear"),
		a.theme.ShortcutKey.Render("^c") + a.theme.ShortcutDesc.Render(" quit"),
	}, "  ")

	gap := a.width - lipgloss.Width(status) - lipgloss.Width(hints) - 4
	if gap < 1 {
		gap = 1
	}
	return a.theme.StatusBar.Width(a.width - 2).Render(
		status + strings.Repeat(" ", gap) + hints)
}

// renderAbout draws the service metadata overlay.
func (a App) renderAbout() string {
	kv := func(k, v string) string {
		if v == "" {
			v = "-"
		}
		return a.theme.AboutKey.Render(k) + a.theme.AboutValue.Render(v)
	}

	lines := []string{
		a.theme.AboutTitle.Render("About"),
		"",
		kv("App", a.about.App),
		kv("Service", a.about.Service),
		kv("Version", a.about.Version),
		kv("Build date", a.about.BuildDate),
		kv("Image", a.about.Image),
	}
	if len(a.about.Dependencies) > 0 {
		lines = append(lines, "", a.theme.AboutTitle.Render("Dependencies"))
		keys := make([]string, 0, len(a.about.Dependencies))
		for k := range a.about.Dependencies {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, kv(k, a.about.Dependencies[k]))
		}
	}
	lines = append(lines, "", a.theme.ShortcutDesc.Render("esc to close"))

	box := a.theme.AboutBox.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

// StatusLine is a plain-text summary used by tests and logging.
func (a App) StatusLine() string {
	switch a.state {
	case StateBusy:
		return "busy"
	case StateError:
		return fmt.Sprintf("error: %v", a.lastErr)
	default:
		return "ready"
	}
}
