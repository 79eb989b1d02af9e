package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kachijames/intake/internal/registration"
)

// errInvalidDraft is returned when a draft file fails validation.
var errInvalidDraft = errors.New("draft is invalid")

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a draft file without contacting the service",
	Long: `Validate a registration draft stored as YAML or JSON. Keys are the
field names used by the service (first_name, email, programming_languages...).

Example:
  intake validate -f draft.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "draft file (YAML or JSON)")
	_ = validateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	d, err := loadDraft(validateFile, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	res := registration.Validate(d)
	if !res.Valid {
		out := cmd.ErrOrStderr()
		fmt.Fprintln(out, res.Message)
		printFieldErrors(out, res.Errors)
		return errInvalidDraft
	}
	fmt.Fprintln(cmd.OutOrStdout(), "draft is valid")
	return nil
}
