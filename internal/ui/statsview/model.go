package statsview

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kachijames/intake/internal/api"
	"github.com/kachijames/intake/internal/keys"
	"github.com/kachijames/intake/internal/log"
	"github.com/kachijames/intake/internal/ui/overlay"
	"github.com/kachijames/intake/internal/ui/styles"
)

// CloseMsg is sent when the user dismisses the panel.
type CloseMsg struct{}

const panelTitle = "Registration Statistics"

// Model is the stats panel shown over the form.
type Model struct {
	viewport viewport.Model
	spinner  spinner.Model
	keys     keys.KeyMap
	style    string
	stats    *api.Stats
	err      string
	loading  bool
	width    int
	height   int
}

// New creates an empty panel that renders Markdown with style.
func New(style string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(styles.SpinnerColor)
	return Model{
		viewport: viewport.New(0, 0),
		spinner:  sp,
		keys:     keys.DefaultKeyMap(),
		style:    style,
	}
}

// SetLoading shows the spinner until SetStats or SetError is called.
func (m Model) SetLoading() (Model, tea.Cmd) {
	m.loading = true
	m.err = ""
	return m, m.spinner.Tick
}

// SetStats renders stats into the panel.
func (m Model) SetStats(stats *api.Stats) Model {
	m.loading = false
	m.err = ""
	m.stats = stats
	m.refresh()
	m.viewport.GotoTop()
	return m
}

// SetError shows msg in place of the statistics.
func (m Model) SetError(msg string) Model {
	m.loading = false
	m.err = msg
	return m
}

// SetSize sizes the panel for a width x height screen.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.viewport.Width = max(m.panelWidth()-4, 10)
	m.viewport.Height = max(height-10, 3)
	m.refresh()
	return m
}

func (m Model) panelWidth() int {
	return min(max(m.width-8, 20), 90)
}

func (m *Model) refresh() {
	if m.stats == nil || m.viewport.Width == 0 {
		return
	}
	out, err := Render(m.stats, m.viewport.Width, m.style)
	if err != nil {
		log.ErrorErr(log.CatUI, "stats render failed", err)
		out = Document(m.stats)
	}
	m.viewport.SetContent(out)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles scrolling and closing.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Stats):
			return m, func() tea.Msg { return CloseMsg{} }
		case key.Matches(msg, m.keys.Up):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.viewport.ScrollDown(1)
			return m, nil
		case key.Matches(msg, m.keys.PageUp):
			m.viewport.HalfPageUp()
			return m, nil
		case key.Matches(msg, m.keys.PageDown):
			m.viewport.HalfPageDown()
			return m, nil
		}
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

// View renders the framed panel.
func (m Model) View() string {
	var body string
	switch {
	case m.loading:
		body = m.spinner.View() + " Loading statistics..."
	case m.err != "":
		body = styles.FieldErrorStyle.Render(styles.Wrap(m.err, max(m.panelWidth()-4, 10)))
	case m.stats == nil:
		body = styles.HintStyle.Render("No statistics loaded.")
	default:
		body = m.viewport.View()
	}
	return overlay.Panel(panelTitle, body, "esc close · j/k scroll", m.panelWidth())
}

// Overlay draws the panel centred over bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, m.View(), bg)
}
