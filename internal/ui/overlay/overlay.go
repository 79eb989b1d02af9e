// Package overlay draws toasts and panels on top of the form without
// clearing the screen.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kachijames/intake/internal/ui/styles"
)

// Position specifies where to place the overlay content.
type Position int

const (
	// Center places the overlay in the middle of the viewport.
	Center Position = iota
	// Top places the overlay at the top center.
	Top
	// Bottom places the overlay at the bottom center.
	Bottom
	// TopRight places the overlay in the top right corner.
	TopRight
)

// Config controls overlay placement.
type Config struct {
	Width    int
	Height   int
	Position Position
	// PadX is the gap from the right edge for TopRight.
	PadX int
	// PadY is the gap from the top or bottom edge.
	PadY int
}

// Place renders fg on top of bg. Both may carry ANSI styling.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	startX, startY := calculatePosition(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		bgY := startY + i
		if bgY >= len(bgLines) {
			break
		}

		bgLine := bgLines[bgY]

		leftPart := ansi.Truncate(bgLine, startX, "")
		if w := ansi.StringWidth(leftPart); w < startX {
			leftPart += strings.Repeat(" ", startX-w)
		}

		var rightPart string
		endX := startX + ansi.StringWidth(fgLine)
		if endX < ansi.StringWidth(bgLine) {
			rightPart = ansi.TruncateLeft(bgLine, endX, "")
		}

		bgLines[bgY] = leftPart + fgLine + rightPart
	}

	return strings.Join(bgLines, "\n")
}

func calculatePosition(cfg Config, fgWidth, fgHeight int) (x, y int) {
	switch cfg.Position {
	case Top:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.PadY
	case Bottom:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.Height - fgHeight - cfg.PadY
	case TopRight:
		x = cfg.Width - fgWidth - cfg.PadX
		y = cfg.PadY
	default:
		x = (cfg.Width - fgWidth) / 2
		y = (cfg.Height - fgHeight) / 2
	}
	return max(x, 0), max(y, 0)
}

// Panel frames body in a rounded border with title and an optional footer
// hint, at most maxWidth cells wide.
func Panel(title, body, hint string, maxWidth int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(0, 1)
	if maxWidth > 4 {
		box = box.MaxWidth(maxWidth)
	}

	parts := []string{titleStyle.Render(title), "", strings.TrimRight(body, "\n")}
	if hint != "" {
		parts = append(parts, "", styles.HintStyle.Render(hint))
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
