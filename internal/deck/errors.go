package deck

import (
	"errors"
	"fmt"
)

// ErrMissingID is returned when an update or remove targets a card that was
// never assigned a remote identifier.
var ErrMissingID = errors.New("deck: card has no id")

// FetchError reports that loading the collection failed. The local deck
// keeps its previous contents; calling Load again retries.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch flashcards: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Op names the mutation a SyncError belongs to.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
)

// SyncError reports that a mutation was rejected by, or never reached, the
// remote collection. The local deck is unchanged.
type SyncError struct {
	Op  Op
	ID  string
	Err error
}

func (e *SyncError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("failed to %s flashcard: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s flashcard %s: %v", e.Op, e.ID, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
