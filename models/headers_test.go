package models

import (
	"net/http"
	"testing"
	"time"
)

func TestParseContentLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   int64
		wantOK bool
	}{
		{header: "4000", want: 4000, wantOK: true},
		{header: " 12 ", want: 12, wantOK: true},
		{header: ""},
		{header: "big"},
		{header: "-1"},
	}

	for _, tt := range tests {
		h := http.Header{}
		if tt.header != "" {
			h.Set("Content-Length", tt.header)
		}

		got, ok := ParseContentLength(h)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("%q: got (%d, %t), want (%d, %t)", tt.header, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseLastModified(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	h.Set("Last-Modified", "Wed, 21 Oct 2015 07:28:00 GMT")

	got, ok := ParseLastModified(h)
	if !ok {
		t.Fatal("expected header to parse")
	}
	if want := time.Date(2015, time.October, 21, 7, 28, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}

	h.Set("Last-Modified", "yesterday")
	if _, ok := ParseLastModified(h); ok {
		t.Error("expected invalid date to be rejected")
	}
}

func TestMediaType(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	h.Set("Content-Type", "Application/Vnd.Android.Package-Archive; charset=binary")

	if got := MediaType(h); got != "application/vnd.android.package-archive" {
		t.Errorf("got %q", got)
	}
}
