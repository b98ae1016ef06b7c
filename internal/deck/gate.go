package deck

import "context"

// Prompt is what the user is asked before a destructive operation runs.
type Prompt struct {
	Title        string
	Text         string
	ConfirmLabel string
}

var removePrompt = Prompt{
	Title:        "Are you sure?",
	Text:         "This action cannot be undone.",
	ConfirmLabel: "Yes, delete it!",
}

// Confirmer asks the user a yes/no question and blocks the calling
// operation until they answer.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}
