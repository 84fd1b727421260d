package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Verify a version list.
func Verify(deps *Deps) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		online, _ := cmd.Flags().GetBool("verify-download")
		watch, _ := cmd.Flags().GetBool("watch")

		if watch {
			path := deps.config().File
			if path == "" {
				return usageError(cmd, errors.New("--watch needs a file to watch, set one with --file"))
			}
			if err := watchDocument(cmd.Context(), deps, path, cmd.OutOrStdout(), online); err != nil {
				return failure(fmt.Errorf("watching %q: %w", path, err))
			}
			return nil
		}

		o, err := verifyDocument(cmd.Context(), deps, cmd.InOrStdin(), online)
		if err != nil {
			return failure(err)
		}
		if !o.ok {
			return failure(errors.New(failureMessage(o.reason)))
		}

		printSuccess(cmd.OutOrStdout(), o)
		return nil
	}
}
