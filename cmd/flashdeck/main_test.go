package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conorfennell/flashdeck/internal/storage"
	"github.com/conorfennell/flashdeck/internal/web"
)

func newBackend(t *testing.T) string {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "cli.db"))
	if err != nil {
		t.Fatalf("storage.Open() returned an unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ts := httptest.NewServer(web.NewServer(db, slog.New(slog.NewTextHandler(io.Discard, nil)), nil))
	t.Cleanup(ts.Close)
	return ts.URL
}

// flashdeck runs the CLI against backend and returns exit code, stdout and stderr.
func flashdeck(t *testing.T, backend, stdin string, args ...string) (int, string, string) {
	t.Helper()
	full := append([]string{}, args[0], "--config", "", "--backend.url", backend, "--log.level", "error")
	full = append(full, args[1:]...)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestUsage(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{name: "no args", args: nil, wantCode: 0},
		{name: "help", args: []string{"help"}, wantCode: 0},
		{name: "unknown command", args: []string{"frobnicate"}, wantCode: 2},
		{name: "bad flag", args: []string{"list", "--nope"}, wantCode: 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tc.args, strings.NewReader(""), &stdout, &stderr)
			if code != tc.wantCode {
				t.Errorf("Expected exit code %d, but got %d (stderr %s)", tc.wantCode, code, stderr.String())
			}
			if !strings.Contains(stdout.String()+stderr.String(), "Usage: flashdeck") && tc.wantCode != 2 {
				t.Errorf("Expected usage text, but got '%s'", stdout.String())
			}
		})
	}
}

func TestCardLifecycle(t *testing.T) {
	backend := newBackend(t)

	code, out, errOut := flashdeck(t, backend, "", "add", "--question", "What is 2+2?", "--answer", "Four is the answer")
	if code != 0 {
		t.Fatalf("add exited %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Flashcard added successfully!") {
		t.Errorf("Expected success notification, but got '%s'", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	id := strings.TrimSpace(lines[len(lines)-1])
	if id == "" {
		t.Fatal("Expected add to print the new id")
	}

	code, out, errOut = flashdeck(t, backend, "", "list")
	if code != 0 {
		t.Fatalf("list exited %d: %s", code, errOut)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "What is 2+2?") {
		t.Errorf("Expected the card in list output, but got '%s'", out)
	}

	code, out, errOut = flashdeck(t, backend, "", "edit", id, "--answer", "Four, without doubt")
	if code != 0 {
		t.Fatalf("edit exited %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Flashcard updated successfully!") {
		t.Errorf("Expected update notification, but got '%s'", out)
	}

	code, out, _ = flashdeck(t, backend, "f\nn\nq\n", "study")
	if code != 0 {
		t.Fatalf("study exited %d", code)
	}
	if !strings.Contains(out, "Question: What is 2+2?") || !strings.Contains(out, "Answer: Four, without doubt") {
		t.Errorf("Expected both sides of the card, but got '%s'", out)
	}

	code, out, _ = flashdeck(t, backend, "n\n", "rm", id)
	if code != 0 {
		t.Fatalf("rm exited %d", code)
	}
	if !strings.Contains(out, "Are you sure?") || !strings.Contains(out, "Cancelled.") {
		t.Errorf("Expected a declined prompt, but got '%s'", out)
	}

	code, out, _ = flashdeck(t, backend, "y\n", "rm", id)
	if code != 0 {
		t.Fatalf("rm exited %d", code)
	}
	if !strings.Contains(out, "Flashcard deleted successfully!") {
		t.Errorf("Expected delete notification, but got '%s'", out)
	}

	_, out, _ = flashdeck(t, backend, "", "study")
	if !strings.Contains(out, "No flashcards to study.") {
		t.Errorf("Expected empty deck message, but got '%s'", out)
	}
}

func TestAddRejectsInvalidCard(t *testing.T) {
	backend := newBackend(t)

	code, out, _ := flashdeck(t, backend, "", "add", "--question", "Hi", "--answer", "Four is the answer")
	if code != 1 {
		t.Errorf("Expected exit code 1, but got %d", code)
	}
	if !strings.Contains(out, "Question must be at least 5 characters long.") {
		t.Errorf("Expected validation message, but got '%s'", out)
	}
}

func TestEditUnknownCard(t *testing.T) {
	backend := newBackend(t)

	if code, _, _ := flashdeck(t, backend, "", "edit", "missing", "--answer", "Does not matter at all"); code != 1 {
		t.Errorf("Expected exit code 1, but got %d", code)
	}
}

func TestRemoveWithYes(t *testing.T) {
	backend := newBackend(t)

	_, out, _ := flashdeck(t, backend, "", "add", "--question", "Largest planet?", "--answer", "Jupiter by far")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	id := lines[len(lines)-1]

	code, out, _ := flashdeck(t, backend, "", "rm", id, "--yes")
	if code != 0 {
		t.Fatalf("rm exited %d", code)
	}
	if strings.Contains(out, "Are you sure?") {
		t.Errorf("Expected no prompt with --yes, but got '%s'", out)
	}
}

func TestImportDirectory(t *testing.T) {
	backend := newBackend(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.md"), "Q: What is a goroutine?\nA: A lightweight thread of execution\n---\nQ: What is a channel?\nA: A typed conduit between goroutines\n")

	code, out, errOut := flashdeck(t, backend, "", "import", dir)
	if code != 0 {
		t.Fatalf("import exited %d: %s", code, errOut)
	}
	if !strings.Contains(out, "2 added, 0 duplicates") {
		t.Errorf("Unexpected report: %s", out)
	}

	_, out, _ = flashdeck(t, backend, "", "import", dir)
	if !strings.Contains(out, "0 added, 2 duplicates") {
		t.Errorf("Expected the second import to find duplicates, but got: %s", out)
	}
}

func TestOneLine(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "short", want: "short"},
		{in: "two\nlines", want: "two lines"},
		{in: strings.Repeat("x", 70), want: strings.Repeat("x", 57) + "..."},
	}
	for _, tc := range testCases {
		if got := oneLine(tc.in); got != tc.want {
			t.Errorf("oneLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
