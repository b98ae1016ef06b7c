package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/conorfennell/flashdeck/internal/deck"
)

var (
	_ deck.Confirmer = (*Terminal)(nil)
	_ deck.Notifier  = (*Terminal)(nil)
)

func TestConfirm(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full yes", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty line", input: "\n", want: false},
		{name: "end of input", input: "", want: false},
		{name: "yes without newline", input: "y", want: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			term := New(strings.NewReader(tc.input), &out)
			got, err := term.Confirm(context.Background(), deck.Prompt{Title: "Are you sure?", Text: "Really.", ConfirmLabel: "Yes"})
			if err != nil {
				t.Fatalf("Confirm() returned an unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %v, but got %v", tc.want, got)
			}
			if !strings.Contains(out.String(), "Are you sure?") {
				t.Errorf("Expected the prompt to be printed, but got %q", out.String())
			}
		})
	}
}

func TestConfirmCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	term := New(strings.NewReader("y\n"), &bytes.Buffer{})
	if _, err := term.Confirm(ctx, deck.Prompt{}); err == nil {
		t.Error("Expected an error for a cancelled context")
	}
}

func TestNotify(t *testing.T) {
	var out bytes.Buffer
	term := New(strings.NewReader(""), &out)
	term.Notify(deck.Notification{Level: deck.Success, Message: "Flashcard added successfully!"})
	term.Notify(deck.Notification{Level: deck.Failure, Message: "Failed to add flashcard."})

	want := "[ok] Flashcard added successfully!\n[error] Failed to add flashcard.\n"
	if out.String() != want {
		t.Errorf("Expected %q, but got %q", want, out.String())
	}
}
