package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kachijames/intake/internal/ui/statsview"
)

var (
	statsMarkdown bool
	statsWidth    int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show registration statistics",
	Long: `Fetch registration statistics from the service and print them as
rendered tables. Use --markdown to print the Markdown source instead.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsMarkdown, "markdown", false, "print Markdown instead of rendering it")
	statsCmd.Flags().IntVarP(&statsWidth, "width", "w", 80, "wrap width for rendered output")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	st := newStore()
	defer st.Close()

	res := st.GetRegistrationStats(cmd.Context())
	if !res.Success {
		return errors.New(res.Err)
	}

	if statsMarkdown {
		fmt.Fprint(cmd.OutOrStdout(), statsview.Document(res.Data))
		return nil
	}

	style := cfg.UI.MarkdownStyle
	if noColor {
		style = "notty"
	}
	out, err := statsview.Render(res.Data, statsWidth, style)
	if err != nil {
		return fmt.Errorf("rendering stats: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
