// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/transit-tui/internal/util"
)

// =============================================================================
// THEME MODE
// =============================================================================

// Mode selects the color scheme.
type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLight:
		return ModeLight, nil
	case ModeDark:
		return ModeDark, nil
	case ModeSystem, "":
		return ModeSystem, nil
	}
	return "", fmt.Errorf("styles: unknown theme mode %q", s)
}

// Next cycles light -> dark -> system -> light, for the theme toggle key.
func (m Mode) Next() Mode {
	switch m {
	case ModeLight:
		return ModeDark
	case ModeDark:
		return ModeSystem
	default:
		return ModeLight
	}
}

// isDark resolves the mode against the terminal background.
func (m Mode) isDark() bool {
	switch m {
	case ModeLight:
		return false
	case ModeDark:
		return true
	default:
		return termenv.HasDarkBackground()
	}
}

// =============================================================================
// MODE PERSISTENCE
// =============================================================================

// themeFileName under the app data directory.
const themeFileName = "theme"

// LoadMode reads the persisted theme mode from dir. Missing or invalid
// files resolve to system.
func LoadMode(dir string) Mode {
	data, err := os.ReadFile(filepath.Join(dir, themeFileName))
	if err != nil {
		return ModeSystem
	}
	mode, err := ParseMode(string(data))
	if err != nil {
		return ModeSystem
	}
	return mode
}

// SaveMode persists the theme mode to dir.
func SaveMode(dir string, mode Mode) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("styles: create theme directory: %w", err)
	}
	path := filepath.Join(dir, themeFileName)
	if err := util.AtomicWriteFile(path, []byte(mode), 0644); err != nil {
		return fmt.Errorf("styles: save theme mode: %w", err)
	}
	return nil
}

// =============================================================================
// THEME
// =============================================================================

// Theme holds the styled components for the application.
type Theme struct {
	Mode         Mode
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Application container
	App       lipgloss.Style
	Container lipgloss.Style

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style

	// Message bubbles
	UserBubble      lipgloss.Style
	UserLabel       lipgloss.Style
	AssistantBubble lipgloss.Style
	AssistantLabel  lipgloss.Style
	Placeholder     lipgloss.Style
	ErrorText       lipgloss.Style

	// Input area
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// Suggested prompts row
	PromptChip         lipgloss.Style
	PromptChipSelected lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusOK     lipgloss.Style
	StatusBusy   lipgloss.Style
	StatusError  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Graph panel
	GraphPanel      lipgloss.Style
	GraphTitle      lipgloss.Style
	GraphNodeBox    lipgloss.Style
	GraphNodeActive lipgloss.Style
	GraphEdgeLine   lipgloss.Style
	GraphEdgeActive lipgloss.Style
	GraphSublabel   lipgloss.Style

	// About overlay
	AboutBox   lipgloss.Style
	AboutTitle lipgloss.Style
	AboutKey   lipgloss.Style
	AboutValue lipgloss.Style

	// Spinner
	Spinner lipgloss.Style
}

// NewTheme creates a theme for the given mode.
func NewTheme(mode Mode) *Theme {
	t := &Theme{
		Mode:         mode,
		IsDark:       mode.isDark(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// pick resolves a color pair for this theme's background.
func (t *Theme) pick(c ColorPair) lipgloss.Color {
	return c.Resolve(t.IsDark)
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.pick(Cyan)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(Purple)).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.pick(Purple))

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(t.pick(UserBubbleFg)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(UserBubbleBorder)).
		Padding(0, 1).
		MarginLeft(4)

	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.pick(Cyan))

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(t.pick(AssistantBubbleFg)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(AssistantBubbleBorder)).
		Padding(0, 1).
		MarginRight(4)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.pick(Purple))

	t.Placeholder = lipgloss.NewStyle().
		Foreground(t.pick(TextMuted)).
		Italic(true)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(t.pick(Rose))

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(t.pick(Overlay)).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(t.pick(Cyan)).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(t.pick(TextMuted)).
		Italic(true)

	// Suggested prompt chips
	t.PromptChip = lipgloss.NewStyle().
		Foreground(t.pick(TextSecondary)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(Overlay)).
		Padding(0, 1)

	t.PromptChipSelected = lipgloss.NewStyle().
		Foreground(t.pick(TextInverse)).
		Background(t.pick(Purple)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(Purple)).
		Bold(true).
		Padding(0, 1)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(t.pick(SurfaceDim)).
		Foreground(t.pick(TextSecondary)).
		Padding(0, 1)

	t.StatusOK = lipgloss.NewStyle().
		Foreground(t.pick(Emerald)).
		Bold(true)

	t.StatusBusy = lipgloss.NewStyle().
		Foreground(t.pick(Amber)).
		Bold(true)

	t.StatusError = lipgloss.NewStyle().
		Foreground(t.pick(Rose)).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(t.pick(Cyan)).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(t.pick(TextMuted))

	// Graph panel
	t.GraphPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(Overlay)).
		Padding(0, 1)

	t.GraphTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.pick(TextSecondary))

	t.GraphNodeBox = lipgloss.NewStyle().
		Foreground(t.pick(GraphNode)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.pick(GraphNode)).
		Padding(0, 1)

	t.GraphNodeActive = lipgloss.NewStyle().
		Foreground(t.pick(GraphActive)).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(t.pick(GraphActive)).
		Bold(true).
		Padding(0, 1)

	t.GraphEdgeLine = lipgloss.NewStyle().
		Foreground(t.pick(GraphEdge))

	t.GraphEdgeActive = lipgloss.NewStyle().
		Foreground(t.pick(GraphActive)).
		Bold(true)

	t.GraphSublabel = lipgloss.NewStyle().
		Foreground(t.pick(TextMuted)).
		Italic(true)

	// About overlay
	t.AboutBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(t.pick(Purple)).
		Padding(1, 3)

	t.AboutTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.pick(Cyan))

	t.AboutKey = lipgloss.NewStyle().
		Foreground(t.pick(TextMuted)).
		Width(16)

	t.AboutValue = lipgloss.NewStyle().
		Foreground(t.pick(TextPrimary))

	// Spinner
	t.Spinner = lipgloss.NewStyle().
		Foreground(t.pick(Purple))
}

// LineColor maps a route name to its line color; unknown routes get the
// secondary text color.
func (t *Theme) LineColor(route string) lipgloss.Color {
	switch {
	case strings.HasPrefix(route, "Red"):
		return t.pick(LineRed)
	case strings.HasPrefix(route, "Orange"):
		return t.pick(LineOrange)
	case strings.HasPrefix(route, "Blue"):
		return t.pick(LineBlue)
	case strings.HasPrefix(route, "Green"):
		return t.pick(LineGreen)
	}
	return t.pick(TextSecondary)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 80 columns: chat only
	LayoutWide                     // >= 80 columns: chat + graph panel
)

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 80 {
		return LayoutNarrow
	}
	return LayoutWide
}
