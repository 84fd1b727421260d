package models

import (
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ParseLastModified parses a response's Last-Modified header. It returns
// false if the header is missing or isn't a valid HTTP date.
func ParseLastModified(h http.Header) (time.Time, bool) {
	raw := h.Get("Last-Modified")
	if raw == "" {
		return time.Time{}, false
	}

	t, err := http.ParseTime(raw)
	if err != nil {
		return time.Time{}, false
	}

	return t.UTC(), true
}

// ParseContentLength parses a response's Content-Length header as an
// integer. It returns false if the header is missing, malformed or negative.
func ParseContentLength(h http.Header) (int64, bool) {
	raw := strings.TrimSpace(h.Get("Content-Length"))
	if raw == "" {
		return 0, false
	}

	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || size < 0 {
		return 0, false
	}

	return size, true
}

// MediaType returns the media type of a response's Content-Type header with
// any parameters stripped, lowercased. It returns the raw header value if it
// can't be parsed.
func MediaType(h http.Header) string {
	raw := h.Get("Content-Type")
	if raw == "" {
		return ""
	}

	mt, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return raw
	}

	return mt
}
