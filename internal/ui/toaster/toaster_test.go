package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kachijames/intake/internal/store"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShowAndHide(t *testing.T) {
	m := New().Show("Hello", StyleSuccess)
	assert.True(t, m.Visible())
	assert.Contains(t, m.View(), "Hello")

	m = m.Hide()
	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow_ReplacesExisting(t *testing.T) {
	m := New().
		Show("First", StyleSuccess).
		Show("Second", StyleError)

	assert.Contains(t, m.View(), "Second")
	assert.NotContains(t, m.View(), "First")
}

func TestView_Icons(t *testing.T) {
	tests := []struct {
		style Style
		icon  string
	}{
		{StyleSuccess, "✅"},
		{StyleError, "❌"},
		{StyleInfo, "ℹ️"},
		{StyleWarn, "⚠️"},
	}
	for _, tt := range tests {
		view := New().Show("msg", tt.style).View()
		assert.Contains(t, view, tt.icon)
		assert.Contains(t, view, "╭")
	}
}

func TestView_WrapsLongMessages(t *testing.T) {
	long := strings.Repeat("registration ", 12)
	view := New().Show(long, StyleError).View()

	for _, line := range strings.Split(view, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), maxToastWidth)
	}
}

func TestShowNotification(t *testing.T) {
	m := New().ShowNotification(store.Notification{Level: store.LevelError, Message: "User with email a@b.com already exists!"})

	assert.Equal(t, StyleError, m.Style())
	assert.Equal(t, "User with email a@b.com already exists!", m.Message())

	m = m.ShowNotification(store.Notification{Level: store.LevelSuccess, Message: store.MsgRegistered})
	assert.Equal(t, StyleSuccess, m.Style())

	m = m.ShowNotification(store.Notification{Level: store.LevelInfo, Message: store.MsgCleared})
	assert.Equal(t, StyleInfo, m.Style())
}

func TestOverlay_TopRight(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 40)+"\n", 10), "\n")
	out := New().Show("Saved", StyleSuccess).Overlay(bg, 40, 10)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, strings.Repeat(".", 40), lines[0], "top padding row stays background")
	assert.Contains(t, lines[2], "Saved")
	assert.True(t, strings.HasSuffix(lines[2], "."), "one column of padding on the right")
}

func TestOverlay_HiddenReturnsBackground(t *testing.T) {
	assert.Equal(t, "bg", New().Overlay("bg", 10, 1))
}

func TestDismiss_IgnoresStaleTimer(t *testing.T) {
	m := New().Show("First", StyleSuccess)
	stale := m.ScheduleDismiss(time.Millisecond)().(DismissMsg)

	m = m.Show("Second", StyleError)
	m = m.Dismiss(stale)
	assert.True(t, m.Visible())
	assert.Equal(t, "Second", m.Message())

	current := m.ScheduleDismiss(time.Millisecond)().(DismissMsg)
	m = m.Dismiss(current)
	assert.False(t, m.Visible())
}
