package domain

import "errors"

// Card is a single question/answer study unit. ID is empty until the
// remote collection assigns one.
type Card struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question" validate:"trimmin=5"`
	Answer   string `json:"answer" validate:"trimmin=10"`
}

// HasID reports whether the card has been assigned a remote identifier.
func (c Card) HasID() bool {
	return c.ID != ""
}

// ErrNotFound is returned when no card exists for an identifier.
var ErrNotFound = errors.New("card not found")

// ValidationError describes the first content rule a card failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
