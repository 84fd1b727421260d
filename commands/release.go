package commands

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codingconcepts/versionlist/state"
)

// Release adds a version to a version list. A version list file that doesn't
// exist yet is created; one that does must verify before it's changed.
func Release(deps *Deps) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		code := args[0]
		name := args[1]
		changelog := args[2:]

		downloadURL, _ := cmd.Flags().GetString("download-url")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		cfg := deps.config()
		logger := deps.logger()

		doc, existed, err := state.ReadDocumentOrEmpty(cfg.File, cmd.InOrStdin())
		if err != nil {
			return failure(err)
		}

		var before bytes.Buffer
		if err = doc.Serialize(&before); err != nil {
			return failure(err)
		}

		// Applied before verifying so a list missing its URL can be repaired.
		if downloadURL != "" {
			if err = doc.SetDownloadURL(downloadURL); err != nil {
				return failure(err)
			}
		}

		// Nothing to verify in a file that's only just being created.
		if existed {
			res, err := deps.validator().Verify(cmd.Context(), doc, false)
			if err != nil {
				return failure(fmt.Errorf("verifying version list: %w", err))
			}
			if !res.OK {
				return failure(errors.New(failureMessage(res.Reason)))
			}
		} else {
			logger.Info("version list not found, starting a new one", "file", cfg.File)
			if downloadURL == "" {
				logger.Warn("new version list has no download url, set one with --download-url")
			}
		}

		if err = doc.AddRelease(code, name, changelog); err != nil {
			return failure(err)
		}
		logger.Debug("added release", "name", name, "code", code, "changes", len(changelog))

		if dryRun {
			var after bytes.Buffer
			if err = doc.Serialize(&after); err != nil {
				return failure(err)
			}
			if err = writePatch(cmd.OutOrStdout(), before.Bytes(), after.Bytes()); err != nil {
				return failure(err)
			}
			return nil
		}

		if err = state.WriteDocument(cfg.File, cmd.OutOrStdout(), doc); err != nil {
			return failure(err)
		}

		if cfg.File != "" {
			logger.Info("release added", "name", name, "file", cfg.File)
		}
		return nil
	}
}
