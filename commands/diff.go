package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wI2L/jsondiff"
)

// writePatch writes the JSON Patch (RFC 6902) that turns before into after.
func writePatch(w io.Writer, before, after []byte) error {
	patch, err := jsondiff.CompareJSON(before, after)
	if err != nil {
		return fmt.Errorf("comparing version lists: %w", err)
	}

	if len(patch) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no changes"))
		return nil
	}

	out, err := json.MarshalIndent(patch, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling patch: %w", err)
	}

	if _, err = fmt.Fprintln(w, string(out)); err != nil {
		return fmt.Errorf("writing patch: %w", err)
	}
	return nil
}
