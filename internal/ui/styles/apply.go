package styles

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styleRebuilders holds callbacks to rebuild styles in other packages.
var styleRebuilders []func()

// RegisterStyleRebuilder adds a callback that will be called after ApplyTheme
// updates colors. Use this to rebuild styles in packages that depend on styles.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// ApplyTheme applies a complete theme configuration.
// Order of application:
// 1. Start with default colors
// 2. Apply preset (if specified)
// 3. Apply individual color overrides
// 4. Rebuild all Style objects
func ApplyTheme(cfg ThemeConfig) error {
	colors := maps.Clone(DefaultPreset.Colors)

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	applyColors(colors)
	rebuildStyles()

	return nil
}

func applyColors(colors map[ColorToken]string) {
	makeColor := func(hex string) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: hex, Dark: hex}
	}
	targets := map[ColorToken][]*lipgloss.AdaptiveColor{
		TokenTextPrimary:          {&TextPrimaryColor},
		TokenTextSecondary:        {&TextSecondaryColor},
		TokenTextMuted:            {&TextMutedColor},
		TokenTextPlaceholder:      {&TextPlaceholderColor},
		TokenBorderDefault:        {&BorderDefaultColor},
		TokenBorderHighlight:      {&BorderHighlightFocusColor},
		TokenStatusSuccess:        {&StatusSuccessColor},
		TokenStatusWarning:        {&StatusWarningColor},
		TokenStatusError:          {&StatusErrorColor},
		TokenSelectionIndicator:   {&SelectionIndicatorColor},
		TokenButtonText:           {&ButtonTextColor},
		TokenButtonPrimaryBg:      {&ButtonPrimaryBgColor},
		TokenButtonPrimaryFocusBg: {&ButtonPrimaryFocusBgColor},
		TokenButtonDisabledBg:     {&ButtonDisabledBgColor},
		TokenFormLabel:            {&FormTextInputLabelColor},
		TokenFormLabelFocus:       {&FormTextInputFocusedLabelColor},
		TokenOverlayTitle:         {&OverlayTitleColor},
		TokenOverlayBorder:        {&OverlayBorderColor},
		TokenToastSuccess:         {&ToastBorderSuccessColor},
		TokenToastError:           {&ToastBorderErrorColor},
		TokenToastInfo:            {&ToastBorderInfoColor},
		TokenToastWarn:            {&ToastBorderWarnColor},
		TokenSpinner:              {&SpinnerColor},
	}
	for token, ptrs := range targets {
		c, ok := colors[token]
		if !ok {
			continue
		}
		for _, p := range ptrs {
			*p = makeColor(c)
		}
	}
}

func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	SubtitleStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)
	LabelStyle = lipgloss.NewStyle().Foreground(FormTextInputLabelColor)
	LabelFocusedStyle = lipgloss.NewStyle().Bold(true).Foreground(FormTextInputFocusedLabelColor)
	RequiredMarkStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
	FieldErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
	ErrorBannerStyle = lipgloss.NewStyle().
		Foreground(StatusErrorColor).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(StatusErrorColor).
		Padding(0, 1)
	HintStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	OptionStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	OptionSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(StatusSuccessColor)

	baseButtonStyle := lipgloss.NewStyle().Padding(0, 2).Bold(true)
	PrimaryButtonStyle = baseButtonStyle.
		Foreground(ButtonTextColor).
		Background(ButtonPrimaryBgColor)
	PrimaryButtonFocusedStyle = baseButtonStyle.
		Foreground(ButtonTextColor).
		Background(ButtonPrimaryFocusBgColor).
		Underline(true).
		UnderlineSpaces(true)
	DisabledButtonStyle = baseButtonStyle.
		Foreground(TextMutedColor).
		Background(ButtonDisabledBgColor)

	for _, fn := range styleRebuilders {
		fn()
	}
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

// isValidHexColor accepts #RGB and #RRGGBB.
func isValidHexColor(s string) bool {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 3 && len(hex) != 6) {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 32)
	return err == nil
}
