package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kachijames/intake/internal/registration"
)

var checkCmd = &cobra.Command{
	Use:   "check <email>",
	Short: "Check whether an email is already registered",
	Long: `Ask the registration service whether an applicant with this email
already exists. Exits non-zero when the service cannot be reached.

Example:
  intake check ada@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(args[0])
	if !registration.ValidEmail(email) {
		return errors.New(registration.MsgInvalidEmail)
	}

	st := newStore(notifier(cmd.ErrOrStderr()))
	defer st.Close()

	res := st.CheckUserExists(cmd.Context(), email)
	if !res.Success {
		return errors.New(res.Err)
	}
	if res.Exists {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is already registered\n", email)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is available\n", email)
	return nil
}
