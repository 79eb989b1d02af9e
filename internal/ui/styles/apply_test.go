package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func resetTheme(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { _ = ApplyTheme(ThemeConfig{}) })
}

func TestApplyTheme_Default(t *testing.T) {
	resetTheme(t)
	require.NoError(t, ApplyTheme(ThemeConfig{}))
	require.Equal(t, DefaultPreset.Colors[TokenTextPrimary], TextPrimaryColor.Dark)
}

func TestApplyTheme_Preset(t *testing.T) {
	resetTheme(t)
	require.NoError(t, ApplyTheme(ThemeConfig{Preset: "high-contrast"}))
	require.Equal(t, "#FF0000", StatusErrorColor.Dark)
	require.Equal(t, "#FF0000", StatusErrorColor.Light)
}

func TestApplyTheme_PresetWithOverride(t *testing.T) {
	resetTheme(t)
	err := ApplyTheme(ThemeConfig{
		Preset: "light",
		Colors: map[string]string{"status.error": "#ABC"},
	})
	require.NoError(t, err)
	require.Equal(t, "#ABC", StatusErrorColor.Dark)
	require.Equal(t, LightPreset.Colors[TokenTextPrimary], TextPrimaryColor.Dark)
}

func TestApplyTheme_Errors(t *testing.T) {
	resetTheme(t)
	tests := []struct {
		name string
		cfg  ThemeConfig
		want string
	}{
		{"unknown preset", ThemeConfig{Preset: "neon"}, "unknown theme preset: neon"},
		{"unknown token", ThemeConfig{Colors: map[string]string{"issue.bug": "#FFF"}}, "unknown color token: issue.bug"},
		{"bad hex", ThemeConfig{Colors: map[string]string{"spinner": "blue"}}, "invalid hex color for spinner: blue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.EqualError(t, ApplyTheme(tt.cfg), tt.want)
		})
	}
}

func TestApplyTheme_RunsRebuilders(t *testing.T) {
	resetTheme(t)
	calls := 0
	RegisterStyleRebuilder(func() { calls++ })
	t.Cleanup(func() { styleRebuilders = styleRebuilders[:len(styleRebuilders)-1] })

	require.NoError(t, ApplyTheme(ThemeConfig{}))
	require.Equal(t, 1, calls)
}

func TestPresets_CoverEveryToken(t *testing.T) {
	for name, preset := range Presets {
		for _, token := range AllTokens() {
			_, ok := preset.Colors[token]
			require.True(t, ok, "preset %s is missing %s", name, token)
		}
		for _, hex := range preset.Colors {
			require.True(t, isValidHexColor(hex), "preset %s has bad color %s", name, hex)
		}
	}
}

func TestIsValidHexColor(t *testing.T) {
	require.True(t, isValidHexColor("#fff"))
	require.True(t, isValidHexColor("#1A5276"))
	require.False(t, isValidHexColor("1A5276"))
	require.False(t, isValidHexColor("#12345"))
	require.False(t, isValidHexColor("#GGGGGG"))
}
