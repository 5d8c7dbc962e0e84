package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/profilecache/internal/domain/values"
)

// fieldValidators maps the validate subcommand's field names to validators.
var fieldValidators = map[string]values.Validator[string]{
	"username": values.ValidateUsername,
	"email":    values.ValidateEmail,
}

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "validate <username|email> <value>",
		Short:     "Check a value against a profile field's rules",
		Example:   `  profilectl validate email john@example.com`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"username", "email"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

// runValidate prints "valid" or returns the validator's error.
func runValidate(w io.Writer, field, value string) error {
	validate, ok := fieldValidators[field]
	if !ok {
		return fmt.Errorf("unknown field: %s (supported: username, email)", field)
	}

	if _, err := validate(value); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%s %q is valid\n", field, value)
	return err
}
