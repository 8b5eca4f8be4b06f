package theme

import (
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
)

// IconSet represents a collection of icons keyed by semantic usage.
type IconSet map[string]string

// clone returns a copy of the icon set to avoid shared mutation across themes.
func (s IconSet) clone() IconSet {
	if s == nil {
		return nil
	}
	clone := make(IconSet, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Colors holds the palette used by the lookup card.
type Colors struct {
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Rating     lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
}

// BadgeKind enumerates supported badge style variants.
type BadgeKind int

const (
	BadgeInfo BadgeKind = iota
	BadgeSuccess
	BadgeError
	BadgeMuted
)

// Theme centralizes palette, card border and icon configuration.
type Theme struct {
	colors      Colors
	border      lipgloss.Border
	cardPadding int
	icons       IconSet
	fallback    IconSet
}

// Option configures a Theme during construction.
type Option func(*Theme)

// WithIconSet overrides the icon set used by the theme.
func WithIconSet(set IconSet) Option {
	return func(t *Theme) {
		t.icons = set.clone()
	}
}

// WithColors overrides the base color palette.
func WithColors(colors Colors) Option {
	return func(t *Theme) {
		t.colors = colors
	}
}

// WithBorder overrides the card border.
func WithBorder(border lipgloss.Border, padding int) Option {
	return func(t *Theme) {
		t.border = border
		t.cardPadding = padding
	}
}

// New constructs a Theme with optional overrides applied.
func New(opts ...Option) Theme {
	defaults := []Option{
		WithColors(Colors{
			Primary:    lipgloss.Color("#01b4e4"),
			Accent:     lipgloss.Color("#90cea1"),
			Background: lipgloss.Color("#0d253f"),
			Text:       lipgloss.Color("#f8f8f8"),
			Muted:      lipgloss.Color("#9ba8c0"),
			Rating:     lipgloss.Color("#f5c518"),
			Success:    lipgloss.Color("#5dc796"),
			Error:      lipgloss.Color("#f04c56"),
		}),
		WithBorder(lipgloss.RoundedBorder(), 1),
		WithIconSet(defaultIconSet()),
	}

	t := Theme{fallback: asciiIcons.clone()}
	for _, opt := range append(defaults, opts...) {
		opt(&t)
	}
	if t.icons == nil {
		t.icons = defaultIconSet()
	}
	return t
}

// Default returns the default Theme configuration.
func Default() Theme {
	return New()
}

// Colors exposes the theme color palette.
func (t Theme) Colors() Colors {
	return t.colors
}

// Icon returns a themed icon with ASCII fallback if unavailable.
func (t Theme) Icon(name string) string {
	if icon, ok := t.icons[name]; ok {
		return icon
	}
	if icon, ok := t.fallback[name]; ok {
		return icon
	}
	return ""
}

// CardStyle returns the container style for a lookup result.
func (t Theme) CardStyle(width int) lipgloss.Style {
	style := lipgloss.NewStyle().
		Border(t.border).
		BorderForeground(t.colors.Primary).
		Padding(0, t.cardPadding)
	if width > 0 {
		style = style.Width(width)
	}
	return style
}

// TitleStyle returns the style for the record title line.
func (t Theme) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.colors.Primary)
}

// RatingStyle returns the style for the vote average line.
func (t Theme) RatingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.colors.Rating)
}

// MutedStyle returns the style for secondary text.
func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.colors.Muted)
}

// SpinnerStyle returns the style applied to the loading spinner.
func (t Theme) SpinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.colors.Accent)
}

// BadgeStyle returns the shared badge style for the requested variant.
func (t Theme) BadgeStyle(kind BadgeKind) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	switch kind {
	case BadgeSuccess:
		return base.Background(t.colors.Success).Foreground(t.colors.Background)
	case BadgeError:
		return base.Background(t.colors.Error).Foreground(t.colors.Text)
	case BadgeMuted:
		return base.Background(t.colors.Muted).Foreground(t.colors.Background)
	default:
		return base.Background(t.colors.Accent).Foreground(t.colors.Background)
	}
}

// defaultIconSet chooses the best icon set for the current terminal.
func defaultIconSet() IconSet {
	if isLimitedTerminal() {
		return asciiIcons.clone()
	}
	return emojiIcons.clone()
}

// isLimitedTerminal detects environments where ASCII icons are preferable.
func isLimitedTerminal() bool {
	if os.Getenv("SSH_CLIENT") != "" || os.Getenv("SSH_TTY") != "" || os.Getenv("SSH_CONNECTION") != "" {
		return true
	}
	return runtime.GOOS == "windows"
}

var emojiIcons = IconSet{
	"movie":   "🎬",
	"tv":      "📺",
	"poster":  "🖼",
	"search":  "🔎",
	"key":     "🔑",
	"error":   "❌",
	"success": "✅",
	"unknown": "❓",
}

var asciiIcons = IconSet{
	"movie":   "[M]",
	"tv":      "[TV]",
	"poster":  "[P]",
	"search":  "[?]",
	"key":     "[K]",
	"error":   "[!]",
	"success": "[v]",
	"unknown": "[?]",
}
