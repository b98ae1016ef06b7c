// Package console is the terminal side of the CLI: it asks yes/no
// questions, prints notifications and reads commands.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/conorfennell/flashdeck/internal/deck"
)

// Terminal reads answers from in and writes to out.
type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// New creates a Terminal.
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// ReadLine reads one trimmed line. It returns io.EOF when input is exhausted.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Printf writes formatted output.
func (t *Terminal) Printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// Confirm prints the prompt and waits for y/yes. Anything else, including
// an empty line, is a no. End of input counts as no.
func (t *Terminal) Confirm(ctx context.Context, p deck.Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	t.Printf("%s %s\n%s [y/N] ", p.Title, p.Text, p.ConfirmLabel)

	answer, err := t.ReadLine()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Notify prints a notification on its own line.
func (t *Terminal) Notify(n deck.Notification) {
	mark := "ok"
	if n.Level == deck.Failure {
		mark = "error"
	}
	t.Printf("[%s] %s\n", mark, n.Message)
}
