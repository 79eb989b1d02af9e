package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog_FormatsFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	Info(CatAPI, "request sent", "op", "register", "status", 201)

	line := buf.String()
	require.Contains(t, line, "[INFO] [api] request sent")
	require.Contains(t, line, "op=register")
	require.Contains(t, line, "status=201")
	require.True(t, strings.HasSuffix(line, "\n"), "entry should end with newline")
}

func TestLog_OrphanKey(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug(CatStore, "odd fields", "lonely")

	require.Contains(t, buf.String(), "lonely=<missing>")
}

func TestLog_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	ErrorErr(CatAPI, "call failed", errors.New("boom"))
	ErrorErr(CatAPI, "call failed", nil)

	out := buf.String()
	require.Contains(t, out, "error=boom")
	require.Contains(t, out, "error=<nil>")
}

func TestLog_MinLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetMinLevel(LevelWarn)

	Debug(CatForm, "hidden")
	Info(CatForm, "hidden too")
	Warn(CatForm, "shown")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "[WARN] [form] shown")
}

func TestLog_Disabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(false)

	Error(CatUI, "nothing")

	require.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}
