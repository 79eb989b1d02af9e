package markdown

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func TestNew(t *testing.T) {
	r, err := New(80, "")
	require.NoError(t, err)
	require.Equal(t, 80, r.Width())
}

func TestNew_UnknownStyle(t *testing.T) {
	_, err := New(80, "sepia")
	require.Error(t, err)
}

func TestRenderer_Render_Table(t *testing.T) {
	r, err := New(80, "ascii")
	require.NoError(t, err)

	out, err := r.Render("| Track | Registrations |\n| --- | --- |\n| Web Development | 7 |\n")
	require.NoError(t, err)

	plain := stripANSI(out)
	require.Contains(t, plain, "Web Development")
	require.Contains(t, plain, "Registrations")
}

func TestRenderer_Render_Heading(t *testing.T) {
	r, err := New(80, "notty")
	require.NoError(t, err)

	out, err := r.Render("## Overview\n\nTotal registrations: 12")
	require.NoError(t, err)
	require.Contains(t, stripANSI(out), "Overview")
	require.Contains(t, stripANSI(out), "Total registrations: 12")
}
