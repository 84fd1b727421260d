package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/codingconcepts/versionlist/config"
	"github.com/codingconcepts/versionlist/models"
	"github.com/codingconcepts/versionlist/state"
	"github.com/codingconcepts/versionlist/validate"
)

// Deps holds what every command needs. It's filled in once flags have been
// parsed and before any RunE is called.
type Deps struct {
	Config *config.Config
	Logger *log.Logger

	// Client overrides the HTTP client used for online checks.
	Client *http.Client
}

func (d *Deps) config() config.Config {
	if d.Config == nil {
		return config.Default()
	}
	return *d.Config
}

func (d *Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

func (d *Deps) validator() *validate.Validator {
	cfg := d.config()

	opts := []validate.Option{
		validate.WithLogger(d.logger()),
		validate.WithTimeout(cfg.Timeout),
		validate.WithMinContentLength(cfg.MinContentLength),
		validate.WithContentType(cfg.ContentType),
	}
	if d.Client != nil {
		opts = append(opts, validate.WithHTTPClient(d.Client))
	}

	return validate.New(opts...)
}

// outcome summarises one verification run for display.
type outcome struct {
	ok     bool
	reason string

	// latest is nil when the document lists no versions.
	latest *models.Release
}

// verifyDocument reads the configured version list and verifies it. A
// document that can't be parsed as a JSON object is a failed outcome rather
// than an error; only I/O and usage problems are returned as errors.
func verifyDocument(ctx context.Context, deps *Deps, stdin io.Reader, online bool) (outcome, error) {
	doc, err := state.ReadDocument(deps.config().File, stdin)
	if err != nil {
		var formatErr *models.FormatError
		if errors.As(err, &formatErr) {
			return outcome{reason: formatErr.Error()}, nil
		}
		return outcome{}, err
	}

	res, err := deps.validator().Verify(ctx, doc, online)
	if err != nil {
		return outcome{}, fmt.Errorf("verifying version list: %w", err)
	}
	if !res.OK {
		return outcome{reason: res.Reason}, nil
	}

	latest, err := doc.LatestVersion()
	switch {
	case errors.Is(err, models.ErrNoVersions):
		return outcome{ok: true}, nil
	case err != nil:
		return outcome{}, fmt.Errorf("finding latest version: %w", err)
	}

	return outcome{ok: true, latest: &latest}, nil
}

func printSuccess(w io.Writer, o outcome) {
	fmt.Fprintln(w, successStyle.Render("verification succeeded: no errors found"))
	if o.latest == nil {
		fmt.Fprintln(w, mutedStyle.Render("no versions listed"))
		return
	}
	fmt.Fprintf(w, "Latest version is %s (%d)\n", o.latest.Name, o.latest.Entry.VersionCode)
}

func failureMessage(reason string) string {
	return "verification failed: " + reason
}
