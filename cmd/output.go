package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/kachijames/intake/internal/log"
	"github.com/kachijames/intake/internal/registration"
	"github.com/kachijames/intake/internal/store"
	"github.com/kachijames/intake/internal/ui/styles"
)

// printNotification writes n as one line, the CLI rendition of a toast.
func printNotification(w io.Writer, n store.Notification) {
	icon, style := "•", lipgloss.NewStyle().Foreground(styles.ToastBorderInfoColor)
	switch n.Level {
	case store.LevelSuccess:
		icon, style = "✓", lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)
	case store.LevelError:
		icon, style = "✗", lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
	}
	fmt.Fprintln(w, style.Render(icon+" "+n.Message))
}

// notifier returns a store option that prints notifications to w.
func notifier(w io.Writer) store.Option {
	return store.WithNotifier(func(n store.Notification) {
		printNotification(w, n)
	})
}

// printFieldErrors lists annotations in form order.
func printFieldErrors(w io.Writer, errs registration.FieldErrors) {
	for _, f := range registration.AllFields {
		if msg := errs.Get(f); msg != "" {
			fmt.Fprintf(w, "  %-30s %s\n", string(f)+":", styles.FieldErrorStyle.Render(msg))
		}
	}
}

// loadDraft reads a draft from a YAML or JSON file keyed by field name.
// Unknown keys are reported on w and otherwise ignored.
func loadDraft(path string, w io.Writer) (registration.Draft, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the user's draft file
	if err != nil {
		return registration.Draft{}, fmt.Errorf("reading draft: %w", err)
	}

	// YAML is a superset of JSON, so one decoder reads both.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return registration.Draft{}, fmt.Errorf("parsing draft %s: %w", path, err)
	}

	var d registration.Draft
	unused, err := d.Merge(registration.Patch(raw))
	if err != nil {
		return registration.Draft{}, fmt.Errorf("decoding draft %s: %w", path, err)
	}
	if len(unused) > 0 {
		slices.Sort(unused)
		log.Warn(log.CatForm, "draft has unknown fields", "path", path, "fields", unused)
		fmt.Fprintf(w, "ignoring unknown fields: %s\n", strings.Join(unused, ", "))
	}
	return d, nil
}
