// Package form implements the registration form view: one scrollable page
// of inputs bound to the form state container, with per-field error
// annotations and the submit sequence wired to a submission.Runner.
package form

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kachijames/intake/internal/keys"
	"github.com/kachijames/intake/internal/log"
	"github.com/kachijames/intake/internal/registration"
	"github.com/kachijames/intake/internal/store"
	"github.com/kachijames/intake/internal/submission"
	"github.com/kachijames/intake/internal/ui/styles"
)

// Default header text.
const (
	DefaultTitle    = "Kachi James Initiative Training Form"
	DefaultSubtitle = "Join our comprehensive tech academy program"
)

// Submit button labels.
const (
	submitLabel     = "Submit Application"
	submittingLabel = "Submitting..."
)

// SubmittedMsg carries the outcome of one submit attempt.
type SubmittedMsg struct {
	Result submission.Result
	Err    error
}

// Config configures the form.
type Config struct {
	Title    string
	Subtitle string
}

// Model is the form view state. Draft values live in the store; the model
// keeps only control state and error annotations.
type Model struct {
	ctx    context.Context
	store  *store.Store
	runner *submission.Runner
	config Config

	fields []fieldState
	focus  int // index into fields; len(fields) is the submit button
	errors registration.FieldErrors

	viewport   viewport.Model
	spinner    spinner.Model
	help       help.Model
	keys       keys.KeyMap
	submitting bool

	fieldTop    []int // first body line of each field
	fieldBottom []int // last body line of each field

	width, height int
}

// New creates a form bound to st. ctx bounds every submit attempt.
func New(ctx context.Context, st *store.Store, cfg Config) Model {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.Subtitle == "" {
		cfg.Subtitle = DefaultSubtitle
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(styles.SpinnerColor)

	m := Model{
		ctx:      ctx,
		store:    st,
		runner:   submission.NewRunner(st),
		config:   cfg,
		fields:   newFieldStates(),
		viewport: viewport.New(0, 0),
		spinner:  sp,
		help:     help.New(),
		keys:     keys.DefaultKeyMap(),
	}
	m.syncAll()
	m.focusField(0)
	return m
}

// Init starts the cursor blinking in the first input.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize sizes the form for a width x height screen.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.refresh(true)
	return m
}

// Reload re-reads every control from the store's draft. Call it after the
// store was changed outside the form.
func (m Model) Reload() Model {
	m.syncAll()
	m.refresh(false)
	return m
}

// Busy reports whether a submission or other store request is running.
func (m Model) Busy() bool {
	return m.submitting || m.store.Loading()
}

// FieldErrors returns the current annotations.
func (m Model) FieldErrors() registration.FieldErrors {
	return m.errors.Clone()
}

// Focused returns the focused field, or "" when the submit button has focus.
func (m Model) Focused() registration.Field {
	if m.focus >= len(m.fields) {
		return ""
	}
	return m.fields[m.focus].def.field
}

// Update handles input and submit results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case SubmittedMsg:
		return m.handleSubmitted(msg), nil

	case spinner.TickMsg:
		if !m.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Blink and other input messages go to the focused text input.
	if fs := m.focusedField(); fs != nil && fs.def.kind == kindText {
		var cmd tea.Cmd
		fs.input, cmd = fs.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Clear):
		return m.clear(), nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.refresh(false)
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m.moveFocus(1)

	case key.Matches(msg, m.keys.PrevField):
		return m.moveFocus(-1)

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfPageUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfPageDown()
		return m, nil
	}

	fs := m.focusedField()
	if fs == nil {
		// Submit button.
		switch {
		case key.Matches(msg, m.keys.Choose):
			return m.submit()
		case key.Matches(msg, m.keys.Up):
			return m.moveFocus(-1)
		case key.Matches(msg, m.keys.Down):
			return m.moveFocus(1)
		}
		return m, nil
	}

	switch fs.def.kind {
	case kindText:
		return m.handleTextKey(msg, fs)
	case kindSelect, kindChecklist:
		return m.handleOptionKey(msg, fs)
	}
	return m, nil
}

func (m Model) handleTextKey(msg tea.KeyMsg, fs *fieldState) (Model, tea.Cmd) {
	// j, k and space are typed; arrows and enter navigate.
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		switch {
		case key.Matches(msg, m.keys.Up):
			return m.moveFocus(-1)
		case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Choose):
			return m.moveFocus(1)
		}
	}

	before := fs.input.Value()
	var cmd tea.Cmd
	fs.input, cmd = fs.input.Update(msg)
	if after := fs.input.Value(); after != before {
		m.edit(fs.def.field, registration.Set(fs.def.field, after))
		m.refresh(false)
	}
	return m, cmd
}

func (m Model) handleOptionKey(msg tea.KeyMsg, fs *fieldState) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if fs.cursor <= 0 {
			return m.moveFocus(-1)
		}
		fs.cursor--
	case key.Matches(msg, m.keys.Down):
		if fs.cursor >= len(fs.options)-1 {
			return m.moveFocus(1)
		}
		fs.cursor++
	case key.Matches(msg, m.keys.Choose):
		m.choose(fs)
	default:
		return m, nil
	}
	m.refresh(true)
	return m, nil
}

// choose applies the option under the cursor.
func (m *Model) choose(fs *fieldState) {
	if fs.cursor < 0 || fs.cursor >= len(fs.options) {
		return
	}
	opt := fs.options[fs.cursor]
	f := fs.def.field

	if fs.def.kind == kindChecklist {
		checked := !m.store.Draft().Skills(f).Has(opt.Value)
		if err := m.store.ToggleSkill(f, opt.Value, checked); err != nil {
			log.ErrorErr(log.CatForm, "toggle skill failed", err, "field", f)
			return
		}
		m.clearErrors(f)
		return
	}
	m.edit(f, registration.Set(f, opt.Value))
}

// edit merges p into the store and drops the annotations it invalidates.
func (m *Model) edit(f registration.Field, p registration.Patch) {
	m.store.SetFields(p)
	m.clearErrors(f)
}

func (m *Model) clearErrors(f registration.Field) {
	m.errors = m.errors.Without(f).Without(registration.FieldGeneral)
	m.store.ClearError()
}

// ============================================================================
// Submit
// ============================================================================

func (m Model) submit() (Model, tea.Cmd) {
	if m.Busy() {
		log.Debug(log.CatForm, "submit ignored while busy")
		return m, nil
	}
	m.submitting = true
	m.refresh(false)

	ctx, runner, draft := m.ctx, m.runner, m.store.Draft()
	run := func() tea.Msg {
		res, err := runner.Submit(ctx, draft)
		return SubmittedMsg{Result: res, Err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) handleSubmitted(msg SubmittedMsg) Model {
	m.submitting = false
	if errors.Is(msg.Err, submission.ErrInFlight) {
		return m
	}

	res := msg.Result
	log.Debug(log.CatForm, "submission finished", "outcome", res.Outcome, "stage", res.Stage)
	if res.Succeeded() {
		m.errors = nil
		m.syncAll()
		m.focusField(0)
		m.refresh(true)
		return m
	}

	m.errors = res.FieldErrors.Clone()
	if i := m.firstErrorIndex(); i >= 0 {
		m.focusField(i)
	}
	m.refresh(true)
	return m
}

// clear resets the store and every control.
func (m Model) clear() Model {
	if m.Busy() {
		return m
	}
	m.store.Reset()
	m.errors = nil
	m.syncAll()
	m.focusField(0)
	m.refresh(true)
	return m
}

// ============================================================================
// Focus
// ============================================================================

func (m *Model) focusedField() *fieldState {
	if m.focus < 0 || m.focus >= len(m.fields) {
		return nil
	}
	return &m.fields[m.focus]
}

func (m *Model) focusField(i int) {
	if fs := m.focusedField(); fs != nil && fs.def.kind == kindText {
		fs.input.Blur()
	}
	m.focus = i
	if fs := m.focusedField(); fs != nil && fs.def.kind == kindText {
		fs.input.Focus()
	}
}

func (m Model) moveFocus(delta int) (Model, tea.Cmd) {
	n := len(m.fields) + 1
	m.focusField(((m.focus+delta)%n + n) % n)
	m.refresh(true)
	if fs := m.focusedField(); fs != nil && fs.def.kind == kindText {
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) firstErrorIndex() int {
	for i := range m.fields {
		if m.errors.Has(m.fields[i].def.field) {
			return i
		}
	}
	return -1
}

// syncAll reloads every control from the store's draft.
func (m *Model) syncAll() {
	d := m.store.Draft()
	for i := range m.fields {
		m.fields[i].sync(d)
	}
}

// ============================================================================
// Mouse
// ============================================================================

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
		if z := zone.Get(zoneSubmit); z != nil && z.InBounds(msg) {
			return m.submit()
		}
		for i := range m.fields {
			if z := zone.Get(fieldZoneID(m.fields[i].def.field)); z != nil && z.InBounds(msg) {
				m.focusField(i)
				m.refresh(false)
				return m, textinput.Blink
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}
