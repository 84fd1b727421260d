package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/codingconcepts/versionlist/config"
	"github.com/codingconcepts/versionlist/models"
)

const validList = `{
  "package": {"downloadUrl": "https://example.com/app.apk"},
  "1.0": {"versionCode": 1, "changelog": ["first"]},
  "1.1": {"versionCode": 2, "changelog": ["second"]}
}`

func depsFor(file string) *Deps {
	cfg := config.Default()
	cfg.File = file
	return &Deps{Config: &cfg}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "plain error", err: errors.New("boom"), want: ExitFailure},
		{name: "usage", err: &ExitError{Code: ExitUsage}, want: ExitUsage},
		{name: "wrapped", err: errors.Join(errors.New("context"), failure(errors.New("x"))), want: ExitFailure},
	}

	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestUsageArgs(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	cmd := &cobra.Command{Use: "release CODE NAME"}
	cmd.SetErr(&stderr)

	err := UsageArgs(cobra.MinimumNArgs(2))(cmd, []string{"1"})
	if ExitCode(err) != ExitUsage {
		t.Fatalf("expected usage exit code, got %v", err)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Errorf("expected usage to be printed, got %q", stderr.String())
	}

	if err := UsageArgs(cobra.MinimumNArgs(2))(cmd, []string{"1", "1.0"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVerifyDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	writeFile(t, good, validList)

	empty := filepath.Join(dir, "empty.json")
	writeFile(t, empty, `{"package": {"downloadUrl": "https://example.com/app.apk"}}`)

	notObject := filepath.Join(dir, "array.json")
	writeFile(t, notObject, `[]`)

	o, err := verifyDocument(context.Background(), depsFor(good), nil, false)
	if err != nil || !o.ok {
		t.Fatalf("good: unexpected result %+v, %v", o, err)
	}
	if o.latest == nil || o.latest.Name != "1.1" {
		t.Errorf("good: latest got %+v", o.latest)
	}

	o, err = verifyDocument(context.Background(), depsFor(empty), nil, false)
	if err != nil || !o.ok || o.latest != nil {
		t.Errorf("empty: unexpected result %+v, %v", o, err)
	}

	o, err = verifyDocument(context.Background(), depsFor(notObject), nil, false)
	if err != nil || o.ok {
		t.Fatalf("array: unexpected result %+v, %v", o, err)
	}
	if !strings.Contains(o.reason, "not a JSON object") {
		t.Errorf("array: reason %q", o.reason)
	}

	if _, err = verifyDocument(context.Background(), depsFor(filepath.Join(dir, "missing.json")), nil, false); err == nil {
		t.Error("missing: expected error")
	}
}

func TestVerifyDocument_OnlineUsesClient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "versions.json")
	writeFile(t, path, `{"package": {"downloadUrl": "`+srv.URL+`/app.apk"}, "1.0": {"versionCode": 1, "changelog": []}}`)

	deps := depsFor(path)
	deps.Client = srv.Client()

	o, err := verifyDocument(context.Background(), deps, nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ok || !strings.Contains(o.reason, "404") {
		t.Errorf("expected 404 failure, got %+v", o)
	}
}

func TestPrintSuccess(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printSuccess(&buf, outcome{ok: true, latest: &models.Release{Name: "2.0", Entry: models.ReleaseEntry{VersionCode: 20}}})

	out := buf.String()
	if !strings.Contains(out, "verification succeeded: no errors found") {
		t.Errorf("missing success line: %q", out)
	}
	if !strings.Contains(out, "Latest version is 2.0 (20)") {
		t.Errorf("missing latest line: %q", out)
	}
}

func TestWritePatch(t *testing.T) {
	t.Parallel()

	before := []byte(`{"package": {"downloadUrl": "https://example.com/app.apk"}}`)
	after := []byte(`{"package": {"downloadUrl": "https://example.com/app.apk"}, "1.0": {"versionCode": 1, "changelog": []}}`)

	var buf bytes.Buffer
	if err := writePatch(&buf, before, after); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ops []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &ops); err != nil {
		t.Fatalf("patch is not JSON: %v\n%s", err, buf.String())
	}
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %v", ops)
	}
	if ops[0]["op"] != "add" || ops[0]["path"] != "/1.0" {
		t.Errorf("unexpected operation %v", ops[0])
	}
}

func TestWritePatch_NoChanges(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"a": 1}`)

	var buf bytes.Buffer
	if err := writePatch(&buf, doc, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "no changes") {
		t.Errorf("got %q", buf.String())
	}
}

// syncBuffer is a bytes.Buffer safe to read while the watcher writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, out *syncBuffer, want string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q, output so far:\n%s", want, out.String())
}

func TestWatchDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "versions.json")
	writeFile(t, path, validList)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- watchDocument(ctx, depsFor(path), path, &out, false)
	}()

	waitFor(t, &out, "Latest version is 1.1 (2)")

	writeFile(t, path, `{
  "package": {"downloadUrl": "https://example.com/app.apk"},
  "1.0": {"versionCode": 1, "changelog": ["first"]},
  "2.0": {"versionCode": 5, "changelog": ["big"]}
}`)
	waitFor(t, &out, "Latest version is 2.0 (5)")

	writeFile(t, path, `{"1.0": {"versionCode": 1, "changelog": []}}`)
	waitFor(t, &out, "verification failed: missing package key")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
