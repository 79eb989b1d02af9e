package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kachijames/intake/internal/submission"
)

var submitFile string

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Validate, duplicate-check and submit a draft file",
	Long: `Run the same sequence as the form's submit button on a draft file:
validate it, check the email against existing registrations and submit it.
Stops at the first failure.

Example:
  intake submit -f draft.yaml`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitFile, "file", "f", "", "draft file (YAML or JSON)")
	_ = submitCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	d, err := loadDraft(submitFile, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	st := newStore(notifier(cmd.ErrOrStderr()))
	defer st.Close()

	res, err := submission.NewRunner(st).Submit(cmd.Context(), d)
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		printFieldErrors(cmd.ErrOrStderr(), res.FieldErrors)
		if res.Retryable {
			return fmt.Errorf("%s (retryable)", res.Message)
		}
		return errors.New(res.Message)
	}

	out := cmd.OutOrStdout()
	for _, k := range res.Registration.Keys() {
		fmt.Fprintf(out, "%s: %s\n", k, res.Registration.String(k))
	}
	return nil
}
