package validate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/codingconcepts/versionlist/models"
)

// VerifyOnline makes a single HEAD request to the download URL and checks
// that it answers 200 with a large enough body. A content type other than
// the expected one is logged as a warning only. Transport errors, including
// timeouts, are reported as a failed Result.
func (v *Validator) VerifyOnline(ctx context.Context, downloadURL string) Result {
	u, err := url.Parse(downloadURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return fail(fmt.Sprintf("download url %q is not an absolute http(s) url", downloadURL))
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, downloadURL, nil)
	if err != nil {
		return fail(fmt.Sprintf("creating HEAD request: %v", err))
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fail(fmt.Sprintf("HEAD %s: %v", downloadURL, err))
	}
	defer resp.Body.Close()

	artifact := &models.Artifact{
		URL:         downloadURL,
		StatusCode:  resp.StatusCode,
		Status:      statusText(resp),
		ContentType: models.MediaType(resp.Header),
	}

	if resp.StatusCode != http.StatusOK {
		res := fail(fmt.Sprintf("%d %s", resp.StatusCode, artifact.Status))
		res.Artifact = artifact
		return res
	}

	v.logger.Info("HEAD returned", "url", downloadURL, "status", fmt.Sprintf("%d %s", resp.StatusCode, artifact.Status))

	if artifact.ContentType != v.contentType {
		v.logger.Warn("unexpected content type", "url", downloadURL, "want", v.contentType, "got", artifact.ContentType)
	}

	if lastModified, ok := models.ParseLastModified(resp.Header); ok {
		artifact.LastModified = lastModified
		v.logger.Info("last modified", "time", lastModified)
	} else {
		v.logger.Info("last modified", "time", "unknown")
	}

	size, ok := models.ParseContentLength(resp.Header)
	if !ok && resp.ContentLength >= 0 {
		size, ok = resp.ContentLength, true
	}
	artifact.Size = size

	if !ok {
		res := fail(fmt.Sprintf("content length of %s is missing", downloadURL))
		res.Artifact = artifact
		return res
	}
	if size < v.minContentLength {
		res := fail(fmt.Sprintf("content length of %s was %d bytes, less than %d", downloadURL, size, v.minContentLength))
		res.Artifact = artifact
		return res
	}

	return Result{OK: true, Artifact: artifact}
}

// statusText returns the reason phrase the server sent, or the standard one
// for the code when the server sent none.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}
