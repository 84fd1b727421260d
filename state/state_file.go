package state

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/codingconcepts/versionlist/models"
)

// ReadDocument reads a version list from path, or from stdin if path is
// empty.
func ReadDocument(path string, stdin io.Reader) (*models.Document, error) {
	if path == "" {
		doc, err := models.Load(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading version list from stdin: %w", err)
		}
		return doc, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening version list %q: %w", path, err)
	}
	defer f.Close()

	doc, err := models.Load(f)
	if err != nil {
		return nil, fmt.Errorf("reading version list %q: %w", path, err)
	}

	return doc, nil
}

// ReadDocumentOrEmpty behaves like ReadDocument but returns an empty
// document, and false, if path doesn't exist yet.
func ReadDocumentOrEmpty(path string, stdin io.Reader) (*models.Document, bool, error) {
	doc, err := ReadDocument(path, stdin)
	if err != nil {
		if path != "" && errors.Is(err, fs.ErrNotExist) {
			return models.Empty(), false, nil
		}
		return nil, false, err
	}

	return doc, true, nil
}

// WriteDocument writes the version list to path, or to stdout if path is
// empty. Files are replaced atomically: the document is written to a
// temporary file in the same directory which is then renamed over path, so
// a failed write leaves the previous contents untouched.
func WriteDocument(path string, stdout io.Writer, doc *models.Document) error {
	if path == "" {
		if err := doc.Serialize(stdout); err != nil {
			return fmt.Errorf("writing version list to stdout: %w", err)
		}
		return nil
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file for %q: %w", path, err)
	}
	tmpName := tmp.Name()

	// Cleans up after any failure before the rename.
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err = doc.Serialize(tmp); err != nil {
		return fmt.Errorf("writing version list %q: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing version list %q: %w", path, err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("setting mode of version list %q: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing version list %q: %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing version list %q: %w", path, err)
	}
	committed = true

	return nil
}
