// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#BBBBBB"} // Subtitles, secondary info
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#696969"} // Hints, help text, footers
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#777777"} // Input placeholders

	// Semantic color names - Border
	BorderDefaultColor        = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#696969"} // Unfocused borders
	BorderHighlightFocusColor = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#54A0FF"} // Focused section

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF8787"}

	// Selection indicator color (used for ">" prefix in option lists)
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#FFFFFF"}

	// Button colors
	ButtonTextColor           = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor      = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonPrimaryFocusBgColor = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	ButtonDisabledBgColor     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#2D2D2D"}

	// Form colors
	FormTextInputLabelColor        = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#8C8C8C"}
	FormTextInputFocusedLabelColor = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#FFF"}

	// Overlay colors
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#8C8C8C"}

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FECA57"}

	// Loading spinner color
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#FFF"}
)

// Styles built from the colors above. rebuildStyles refreshes them after a
// theme is applied.
var (
	TitleStyle              lipgloss.Style
	SubtitleStyle           lipgloss.Style
	SelectionIndicatorStyle lipgloss.Style
	LabelStyle              lipgloss.Style
	LabelFocusedStyle       lipgloss.Style
	RequiredMarkStyle       lipgloss.Style
	FieldErrorStyle         lipgloss.Style
	ErrorBannerStyle        lipgloss.Style
	HintStyle               lipgloss.Style
	OptionStyle             lipgloss.Style
	OptionSelectedStyle     lipgloss.Style

	PrimaryButtonStyle        lipgloss.Style
	PrimaryButtonFocusedStyle lipgloss.Style
	DisabledButtonStyle       lipgloss.Style
)

func init() {
	rebuildStyles()
}
