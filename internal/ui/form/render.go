package form

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kachijames/intake/internal/registration"
	"github.com/kachijames/intake/internal/ui/styles"
)

const (
	zoneSubmit     = "form-submit"
	maxFormWidth   = 100
	checklistCellW = 18
)

func fieldZoneID(f registration.Field) string {
	return "form-field-" + string(f)
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return min(m.width, maxFormWidth)
}

// View renders the header, the scrollable body and the footer.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) header() string {
	return styles.TitleStyle.Render(m.config.Title) + "\n" +
		styles.SubtitleStyle.Render(m.config.Subtitle)
}

func (m Model) footer() string {
	var parts []string
	if msg := m.errors.Get(registration.FieldGeneral); msg != "" {
		width := m.contentWidth() - 4
		parts = append(parts, styles.ErrorBannerStyle.Width(width+2).Render(styles.Wrap(msg, width)))
	}

	var button string
	switch {
	case m.Busy():
		button = styles.DisabledButtonStyle.Render(submittingLabel) + " " + m.spinner.View()
	case m.focus == len(m.fields):
		button = styles.PrimaryButtonFocusedStyle.Render(submitLabel)
	default:
		button = styles.PrimaryButtonStyle.Render(submitLabel)
	}
	parts = append(parts, zone.Mark(zoneSubmit, button))
	parts = append(parts, m.help.View(m.keys))
	return strings.Join(parts, "\n")
}

// refresh re-renders the body into the viewport. When follow is true the
// viewport scrolls to keep the focused control visible.
func (m *Model) refresh(follow bool) {
	width := m.contentWidth()
	m.help.Width = width

	body, tops, bottoms := m.renderBody(width)
	m.fieldTop, m.fieldBottom = tops, bottoms

	chrome := lipgloss.Height(m.header()) + lipgloss.Height(m.footer())
	height := m.height
	if height <= 0 {
		height = 40
	}
	m.viewport.Width = width
	m.viewport.Height = max(height-chrome, 3)
	m.viewport.SetContent(body)

	if follow {
		m.ensureFocusVisible()
	}
}

func (m *Model) ensureFocusVisible() {
	if m.focus >= len(m.fields) {
		m.viewport.GotoBottom()
		return
	}
	top, bottom := m.fieldTop[m.focus], m.fieldBottom[m.focus]
	if m.focus == 0 {
		top = 0
	}
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height + 1)
	}
}

// renderBody renders all sections and returns the first and last line of
// each field within the result.
func (m Model) renderBody(width int) (string, []int, []int) {
	d := m.store.Draft()
	tops := make([]int, len(m.fields))
	bottoms := make([]int, len(m.fields))

	var out []string
	for si, sec := range sections {
		var rows []string
		focused := false
		for i := range m.fields {
			if m.fields[i].section != si {
				continue
			}
			if i == m.focus {
				focused = true
			}
			if len(rows) > 0 {
				rows = append(rows, "")
			}
			lines := m.renderField(i, d, width-4)
			// +1 for the section's top border.
			tops[i] = len(out) + 1 + len(rows)
			bottoms[i] = tops[i] + len(lines) - 1
			rows = append(rows, lines...)
		}
		for j, r := range rows {
			rows[j] = " " + r
		}
		out = append(out, strings.Split(styles.RenderFormSection(rows, sec.title, "", width, focused, styles.BorderHighlightFocusColor), "\n")...)
		out = append(out, "")
	}
	return strings.Join(out, "\n"), tops, bottoms
}

func (m Model) renderField(i int, d registration.Draft, width int) []string {
	fs := &m.fields[i]
	focused := i == m.focus

	label := styles.LabelStyle.Render(fs.def.label)
	indicator := "  "
	if focused {
		label = styles.LabelFocusedStyle.Render(fs.def.label)
		indicator = styles.SelectionIndicatorStyle.Render(">") + " "
	}
	if fs.def.field.IsRequired() {
		label += styles.RequiredMarkStyle.Render(" *")
	}
	lines := []string{zone.Mark(fieldZoneID(fs.def.field), indicator+label)}

	switch fs.def.kind {
	case kindText:
		lines = append(lines, "  "+fs.input.View())
	case kindSelect:
		lines = append(lines, m.renderSelect(fs, d, focused)...)
	case kindChecklist:
		lines = append(lines, m.renderChecklist(fs, d, focused, width)...)
	}

	if msg := m.errors.Get(fs.def.field); msg != "" {
		for _, l := range strings.Split(styles.Wrap(msg, max(width-2, 10)), "\n") {
			lines = append(lines, "  "+styles.FieldErrorStyle.Render(l))
		}
	}
	return lines
}

func (m Model) renderSelect(fs *fieldState, d registration.Draft, focused bool) []string {
	current := d.Value(fs.def.field)
	if !focused {
		if label := fs.selectedLabel(d); label != "" {
			return []string{"  " + styles.OptionSelectedStyle.Render(label)}
		}
		return []string{"  " + styles.HintStyle.Render(fs.def.placeholder+" ▾")}
	}

	rows := make([]string, 0, len(fs.options))
	for j, opt := range fs.options {
		prefix := "  "
		if j == fs.cursor {
			prefix = " " + styles.SelectionIndicatorStyle.Render(">")
		}
		radio, style := "( )", styles.OptionStyle
		if opt.Value == current {
			radio, style = "(•)", styles.OptionSelectedStyle
		}
		rows = append(rows, prefix+" "+style.Render(radio+" "+opt.Label))
	}
	return rows
}

func (m Model) renderChecklist(fs *fieldState, d registration.Draft, focused bool, width int) []string {
	selected := d.Skills(fs.def.field)
	cols := max((width-2)/checklistCellW, 1)

	var rows []string
	var row strings.Builder
	for j, opt := range fs.options {
		prefix := " "
		if focused && j == fs.cursor {
			prefix = styles.SelectionIndicatorStyle.Render(">")
		}
		box, style := "[ ]", styles.OptionStyle
		if selected.Has(opt.Value) {
			box, style = "[x]", styles.OptionSelectedStyle
		}
		label := styles.TruncateString(opt.Label, checklistCellW-6)
		cell := prefix + style.Render(box+" "+label)
		if pad := checklistCellW - lipgloss.Width(cell); pad > 0 {
			cell += strings.Repeat(" ", pad)
		}
		row.WriteString(cell)
		if (j+1)%cols == 0 {
			rows = append(rows, " "+strings.TrimRight(row.String(), " "))
			row.Reset()
		}
	}
	if row.Len() > 0 {
		rows = append(rows, " "+strings.TrimRight(row.String(), " "))
	}
	return rows
}
