// Package validate checks that a version list is well formed and, on
// request, that its download URL serves something that looks like a package.
package validate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/codingconcepts/versionlist/models"
)

const (
	// DefaultMinContentLength is the smallest artifact accepted by the
	// online check, in bytes.
	DefaultMinContentLength = 4000

	// DefaultContentType is the media type a package download should carry.
	DefaultContentType = "application/vnd.android.package-archive"

	// DefaultTimeout bounds the online check's HEAD request.
	DefaultTimeout = 10 * time.Second
)

// Result is the outcome of a verification. Reason is empty when OK is true.
type Result struct {
	OK     bool
	Reason string

	// Artifact is set once the online check got a response.
	Artifact *models.Artifact
}

func pass() Result {
	return Result{OK: true}
}

func fail(reason string) Result {
	return Result{Reason: reason}
}

// Validator checks version list documents.
type Validator struct {
	client           *http.Client
	logger           *log.Logger
	minContentLength int64
	contentType      string
	timeout          time.Duration
}

// Option configures a Validator.
type Option func(*Validator)

// WithHTTPClient sets the client used for the online check.
func WithHTTPClient(c *http.Client) Option {
	return func(v *Validator) {
		v.client = c
	}
}

// WithLogger sets where online check diagnostics are written.
func WithLogger(l *log.Logger) Option {
	return func(v *Validator) {
		v.logger = l
	}
}

// WithMinContentLength sets the smallest acceptable artifact size.
func WithMinContentLength(n int64) Option {
	return func(v *Validator) {
		v.minContentLength = n
	}
}

// WithContentType sets the expected artifact media type.
func WithContentType(ct string) Option {
	return func(v *Validator) {
		v.contentType = ct
	}
}

// WithTimeout bounds the online check. Zero or negative values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(v *Validator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// New returns a Validator with the default thresholds, a discarding logger
// and an HTTP client bounded by the timeout.
func New(opts ...Option) *Validator {
	v := &Validator{
		logger:           log.New(io.Discard),
		minContentLength: DefaultMinContentLength,
		contentType:      DefaultContentType,
		timeout:          DefaultTimeout,
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.client == nil {
		v.client = &http.Client{
			Timeout: v.timeout,
		}
	}

	return v
}

// Verify checks the document's structure and, if online is set, its
// download URL. Validation failures are reported in the Result; an error is
// only returned if the document was never loaded.
func (v *Validator) Verify(ctx context.Context, doc *models.Document, online bool) (Result, error) {
	if !doc.Loaded() {
		return Result{}, models.NewStateError("must load a version list file first")
	}

	if res := v.checkStructure(doc); !res.OK {
		return res, nil
	}

	v.lintOrdering(doc)

	if online {
		url, err := doc.DownloadURL()
		if err != nil {
			return fail(err.Error()), nil
		}
		return v.VerifyOnline(ctx, url), nil
	}

	return pass(), nil
}

func (v *Validator) checkStructure(doc *models.Document) Result {
	if !doc.IsObject() {
		return fail("Document is not a JSON object")
	}

	if res := checkPackage(doc); !res.OK {
		return res
	}

	for _, name := range doc.Versions() {
		value, _ := doc.Version(name)
		if res := checkVersion(name, value); !res.OK {
			return res
		}
	}

	return pass()
}

func checkPackage(doc *models.Document) Result {
	pkg, ok := doc.Package()
	if !ok || pkg.Kind() == models.KindNull {
		return fail(fmt.Sprintf("missing %s key", models.KeyPackage))
	}

	members, err := pkg.AsObject()
	if err != nil {
		return fail(fmt.Sprintf("%s is not a JSON object", models.KeyPackage))
	}

	url, ok := members[models.KeyDownloadURL]
	if !ok {
		return fail(fmt.Sprintf("missing %s key in %s object", models.KeyDownloadURL, models.KeyPackage))
	}
	if _, err := url.AsString(); err != nil {
		return fail(fmt.Sprintf("%s in %s object is not a string", models.KeyDownloadURL, models.KeyPackage))
	}

	return pass()
}

func checkVersion(name string, value models.Value) Result {
	members, err := value.AsObject()
	if err != nil {
		return fail(fmt.Sprintf("value for version '%s' is not a JSON object", name))
	}

	if _, err := members[models.KeyVersionCode].AsInt(); err != nil {
		return fail(fmt.Sprintf("version code in key %s of version '%s' is not an int", models.KeyVersionCode, name))
	}

	changelog, err := members[models.KeyChangelog].AsSequence()
	if err != nil {
		return fail(fmt.Sprintf("key %s in version '%s' is not a list", models.KeyChangelog, name))
	}
	for i, line := range changelog {
		if _, err := line.AsString(); err != nil {
			return fail(fmt.Sprintf("changelog entry %d in version '%s' is not a string", i, name))
		}
	}

	return pass()
}
