package lookup

import (
	"context"
	"fmt"
	"strings"

	"github.com/Digital-Shane/release-lens/internal/core"
	"github.com/Digital-Shane/release-lens/internal/media"
	"github.com/Digital-Shane/release-lens/internal/tui/theme"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// synopsisLines caps how many card lines the overview may fill
const synopsisLines = 4

// Looker starts an asynchronous lookup. *core.Engine satisfies it.
type Looker interface {
	Lookup(ctx context.Context, filename, apiKey string) <-chan core.LookupState
}

type stateMsg core.LookupState

type closedMsg struct{}

// Model shows the progress and result of a single filename lookup
type Model struct {
	ctx      context.Context
	looker   Looker
	filename string
	apiKey   string

	states  <-chan core.LookupState
	spinner spinner.Model
	theme   theme.Theme
	width   int

	loading    bool
	done       bool
	result     core.LookupState
	exitOnDone bool
}

// Option configures a Model during construction.
type Option func(*Model)

// WithTheme overrides the default theme.
func WithTheme(th theme.Theme) Option {
	return func(m *Model) {
		m.theme = th
	}
}

// WithExitOnResult quits the program once the lookup settles.
func WithExitOnResult() Option {
	return func(m *Model) {
		m.exitOnDone = true
	}
}

// WithContext sets the context passed to the lookup.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// New creates a lookup model for filename
func New(looker Looker, filename, apiKey string, opts ...Option) *Model {
	m := &Model{
		ctx:      context.Background(),
		looker:   looker,
		filename: filename,
		apiKey:   apiKey,
		width:    80,
	}

	initOpts := append([]Option{WithTheme(theme.Default())}, opts...)
	for _, opt := range initOpts {
		opt(m)
	}

	m.spinner = spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(m.theme.SpinnerStyle()),
	)
	return m
}

// Result returns the terminal lookup state. It is zero until Done reports true.
func (m *Model) Result() core.LookupState {
	return m.result
}

// Done reports whether the lookup has settled
func (m *Model) Done() bool {
	return m.done
}

func (m *Model) Init() tea.Cmd {
	m.states = m.looker.Lookup(m.ctx, m.filename, m.apiKey)
	m.loading = true
	return tea.Batch(m.spinner.Tick, waitForState(m.states))
}

func waitForState(states <-chan core.LookupState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return closedMsg{}
		}
		return stateMsg(state)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case stateMsg:
		state := core.LookupState(msg)
		if state.Loading {
			m.loading = true
			return m, waitForState(m.states)
		}
		m.loading = false
		m.done = true
		m.result = state
		return m, waitForState(m.states)

	case closedMsg:
		m.loading = false
		m.done = true
		if m.exitOnDone {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.MutedStyle().Render(fmt.Sprintf("%s %s", m.theme.Icon("search"), m.filename)))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View())
		b.WriteString(" Looking up on TMDB...")
	case m.result.Media != nil:
		b.WriteString(m.renderCard(m.result.Media))
	default:
		b.WriteString(m.renderDiagnostic(m.result.Diagnostic))
	}

	b.WriteString("\n\n")
	b.WriteString(m.theme.MutedStyle().Render("q quit"))
	return b.String()
}

func (m *Model) renderCard(rec *media.ResolvedMedia) string {
	card := m.theme.CardStyle(m.cardWidth())
	contentWidth := m.cardWidth() - card.GetHorizontalFrameSize()
	if contentWidth < 10 {
		contentWidth = 10
	}

	icon, badge := m.theme.Icon("movie"), m.theme.BadgeStyle(theme.BadgeInfo)
	if rec.MediaType == media.TV {
		icon, badge = m.theme.Icon("tv"), m.theme.BadgeStyle(theme.BadgeSuccess)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.TitleStyle().Render(fmt.Sprintf("%s %s", icon, rec.DisplayTitle())),
		" ",
		badge.Render(rec.MediaType.Label()),
	)

	lines := []string{
		header,
		m.theme.RatingStyle().Render(rec.Rating()),
		"",
		runewidth.Truncate(rec.Synopsis(), contentWidth*synopsisLines, "..."),
	}
	if url := rec.PosterURL(); url != "" {
		lines = append(lines, "", m.theme.MutedStyle().Render(fmt.Sprintf("%s %s", m.theme.Icon("poster"), url)))
	}
	return card.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderDiagnostic(d core.Diagnostic) string {
	icon, badge := m.theme.Icon("unknown"), m.theme.BadgeStyle(theme.BadgeMuted)
	if d == core.DiagnosticNoKey {
		icon, badge = m.theme.Icon("key"), m.theme.BadgeStyle(theme.BadgeError)
	}
	return fmt.Sprintf("%s %s", icon, badge.Render(d.Message()))
}

func (m *Model) cardWidth() int {
	if m.width <= 4 {
		return 0
	}
	return m.width - 2
}
