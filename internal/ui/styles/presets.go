package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":       DefaultPreset,
	"high-contrast": HighContrastPreset,
	"light":         LightPreset,
}

// DefaultPreset matches the Dark values of the AdaptiveColor definitions.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default dark theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#CCCCCC",
		TokenTextSecondary:   "#BBBBBB",
		TokenTextMuted:       "#696969",
		TokenTextPlaceholder: "#777777",

		TokenBorderDefault:   "#696969",
		TokenBorderHighlight: "#54A0FF",

		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF8787",

		TokenSelectionIndicator: "#FFFFFF",

		TokenButtonText:           "#FFFFFF",
		TokenButtonPrimaryBg:      "#1A5276",
		TokenButtonPrimaryFocusBg: "#3498DB",
		TokenButtonDisabledBg:     "#2D2D2D",

		TokenFormLabel:      "#8C8C8C",
		TokenFormLabelFocus: "#FFFFFF",

		TokenOverlayTitle:  "#C9C9C9",
		TokenOverlayBorder: "#8C8C8C",

		TokenToastSuccess: "#73F59F",
		TokenToastError:   "#FF8787",
		TokenToastInfo:    "#54A0FF",
		TokenToastWarn:    "#FECA57",

		TokenSpinner: "#FFFFFF",
	},
}

// HighContrastPreset maximises legibility on dark terminals.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast for accessibility",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#FFFFFF",
		TokenTextSecondary:   "#FFFFFF",
		TokenTextMuted:       "#C0C0C0",
		TokenTextPlaceholder: "#C0C0C0",

		TokenBorderDefault:   "#FFFFFF",
		TokenBorderHighlight: "#00FFFF",

		TokenStatusSuccess: "#00FF00",
		TokenStatusWarning: "#FFFF00",
		TokenStatusError:   "#FF0000",

		TokenSelectionIndicator: "#FFFF00",

		TokenButtonText:           "#000000",
		TokenButtonPrimaryBg:      "#00FFFF",
		TokenButtonPrimaryFocusBg: "#FFFF00",
		TokenButtonDisabledBg:     "#808080",

		TokenFormLabel:      "#FFFFFF",
		TokenFormLabelFocus: "#FFFF00",

		TokenOverlayTitle:  "#FFFFFF",
		TokenOverlayBorder: "#FFFFFF",

		TokenToastSuccess: "#00FF00",
		TokenToastError:   "#FF0000",
		TokenToastInfo:    "#00FFFF",
		TokenToastWarn:    "#FFFF00",

		TokenSpinner: "#FFFF00",
	},
}

// LightPreset is tuned for light terminal backgrounds.
var LightPreset = Preset{
	Name:        "light",
	Description: "Theme for light terminals",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#1F2937",
		TokenTextSecondary:   "#4B5563",
		TokenTextMuted:       "#9CA3AF",
		TokenTextPlaceholder: "#9CA3AF",

		TokenBorderDefault:   "#D1D5DB",
		TokenBorderHighlight: "#2563EB",

		TokenStatusSuccess: "#15803D",
		TokenStatusWarning: "#B45309",
		TokenStatusError:   "#DC2626",

		TokenSelectionIndicator: "#111827",

		TokenButtonText:           "#FFFFFF",
		TokenButtonPrimaryBg:      "#1A5276",
		TokenButtonPrimaryFocusBg: "#3498DB",
		TokenButtonDisabledBg:     "#9CA3AF",

		TokenFormLabel:      "#4B5563",
		TokenFormLabelFocus: "#111827",

		TokenOverlayTitle:  "#111827",
		TokenOverlayBorder: "#D1D5DB",

		TokenToastSuccess: "#15803D",
		TokenToastError:   "#DC2626",
		TokenToastInfo:    "#2563EB",
		TokenToastWarn:    "#B45309",

		TokenSpinner: "#7C3AED",
	},
}
