// Package app contains the root application model.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kachijames/intake/internal/keys"
	"github.com/kachijames/intake/internal/log"
	"github.com/kachijames/intake/internal/pubsub"
	"github.com/kachijames/intake/internal/store"
	"github.com/kachijames/intake/internal/ui/form"
	"github.com/kachijames/intake/internal/ui/statsview"
	"github.com/kachijames/intake/internal/ui/toaster"
)

// DefaultToastDuration is how long a toast stays on screen.
const DefaultToastDuration = 3 * time.Second

// Config configures the root model.
type Config struct {
	Title         string
	MarkdownStyle string
	ToastDuration time.Duration
}

// statsLoadedMsg carries the result of a stats fetch.
type statsLoadedMsg struct {
	result store.StatsResult
}

// Model is the root application state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	store  *store.Store
	keys   keys.KeyMap

	form      form.Model
	stats     statsview.Model
	showStats bool

	// Centralized toaster, fed by store notifications.
	toaster       toaster.Model
	toastDuration time.Duration
	listener      *pubsub.ContinuousListener[store.Notification]

	width  int
	height int
}

// New creates the root model over st. Cancelling ctx, or quitting,
// cancels any request still in flight.
func New(ctx context.Context, st *store.Store, cfg Config) Model {
	ctx, cancel := context.WithCancel(ctx)
	if cfg.ToastDuration <= 0 {
		cfg.ToastDuration = DefaultToastDuration
	}

	return Model{
		ctx:           ctx,
		cancel:        cancel,
		store:         st,
		keys:          keys.DefaultKeyMap(),
		form:          form.New(ctx, st, form.Config{Title: cfg.Title}),
		stats:         statsview.New(cfg.MarkdownStyle),
		toaster:       toaster.New(),
		toastDuration: cfg.ToastDuration,
		listener:      pubsub.NewContinuousListener[store.Notification](ctx, st.Broker()),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.listener.Listen())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form = m.form.SetSize(msg.Width, msg.Height)
		m.stats = m.stats.SetSize(msg.Width, msg.Height)
		return m, nil

	case pubsub.Event[store.Notification]:
		n := msg.Payload
		log.Debug(log.CatUI, "notification", "type", msg.Type, "level", n.Level, "message", n.Message)
		m.toaster = m.toaster.ShowNotification(n)
		return m, tea.Batch(m.listener.Listen(), m.toaster.ScheduleDismiss(m.toastDuration))

	case toaster.DismissMsg:
		m.toaster = m.toaster.Dismiss(msg)
		return m, nil

	case statsLoadedMsg:
		if msg.result.Success {
			m.stats = m.stats.SetStats(msg.result.Data)
		} else {
			m.stats = m.stats.SetError(msg.result.Err)
		}
		return m, nil

	case statsview.CloseMsg:
		m.showStats = false
		return m, nil

	case spinner.TickMsg:
		// Each spinner ignores ticks carrying another spinner's ID.
		var formCmd, statsCmd tea.Cmd
		m.form, formCmd = m.form.Update(msg)
		m.stats, statsCmd = m.stats.Update(msg)
		return m, tea.Batch(formCmd, statsCmd)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.cancel()
			return m, tea.Quit
		}
		if m.showStats {
			var cmd tea.Cmd
			m.stats, cmd = m.stats.Update(msg)
			return m, cmd
		}
		if key.Matches(msg, m.keys.Stats) {
			return m.openStats()
		}

	case tea.MouseMsg:
		if m.showStats {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) openStats() (tea.Model, tea.Cmd) {
	m.showStats = true
	var spin tea.Cmd
	m.stats, spin = m.stats.SetLoading()

	ctx, st := m.ctx, m.store
	fetch := func() tea.Msg {
		return statsLoadedMsg{result: st.GetRegistrationStats(ctx)}
	}
	return m, tea.Batch(spin, fetch)
}

// View implements tea.Model.
func (m Model) View() string {
	view := m.form.View()

	if m.showStats {
		view = m.stats.Overlay(view)
	}

	// Toasts sit above everything else.
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}

	return zone.Scan(view)
}

// Close releases resources held by the application.
func (m *Model) Close() {
	m.cancel()
}
