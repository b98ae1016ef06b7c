// Package review runs a study session over a shuffled snapshot of a deck.
//
// A session is cyclic: stepping past the last card returns to the first and
// stepping back from the first lands on the last. It never ends on its own.
package review

import (
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/conorfennell/flashdeck/internal/domain"
)

var (
	// ErrEmptyDeck is returned by Start when there is nothing to study.
	ErrEmptyDeck = errors.New("review: deck is empty")

	// ErrNoSnapshot is returned by navigation before a successful Start.
	ErrNoSnapshot = errors.New("review: session not started")
)

// Direction records which way the cursor last moved.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Cursor is the position within the snapshot and whether the card shows its answer.
type Cursor struct {
	Position  int
	Flipped   bool
	Direction Direction
}

// Session holds one shuffled snapshot and a cursor over it. It is safe for
// concurrent use.
type Session struct {
	mu       sync.Mutex
	rng      *rand.Rand
	snapshot []domain.Card
	cursor   Cursor
}

// New returns a session with no snapshot. A nil src seeds from the runtime's
// random source; pass a fixed source to get a reproducible order.
func New(src rand.Source) *Session {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Session{rng: rand.New(src)}
}

// Start takes a shuffled copy of deck and puts the cursor on its first card.
// Later changes to deck do not reach the session. Starting over an empty
// deck discards any previous snapshot and returns ErrEmptyDeck.
func (s *Session) Start(deck []domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor = Cursor{}
	if len(deck) == 0 {
		s.snapshot = nil
		return ErrEmptyDeck
	}

	snapshot := make([]domain.Card, len(deck))
	copy(snapshot, deck)
	s.rng.Shuffle(len(snapshot), func(i, j int) {
		snapshot[i], snapshot[j] = snapshot[j], snapshot[i]
	})
	s.snapshot = snapshot
	return nil
}

// Ready reports whether a snapshot is loaded.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot != nil
}

// Len returns the snapshot size.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshot)
}

// Snapshot returns a copy of the shuffled cards.
func (s *Session) Snapshot() []domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Card, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Current returns the card under the cursor together with the cursor.
func (s *Session) Current() (domain.Card, Cursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return domain.Card{}, Cursor{}, ErrNoSnapshot
	}
	return s.snapshot[s.cursor.Position], s.cursor, nil
}

// Flip turns the current card over.
func (s *Session) Flip() (Cursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return Cursor{}, ErrNoSnapshot
	}
	s.cursor.Flipped = !s.cursor.Flipped
	return s.cursor, nil
}

// Next moves to the following card, wrapping to the first, question side up.
func (s *Session) Next() (Cursor, error) {
	return s.step(Forward, 1)
}

// Previous moves to the preceding card, wrapping to the last, question side up.
func (s *Session) Previous() (Cursor, error) {
	return s.step(Backward, -1)
}

func (s *Session) step(dir Direction, delta int) (Cursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return Cursor{}, ErrNoSnapshot
	}
	n := len(s.snapshot)
	s.cursor = Cursor{
		Position:  (s.cursor.Position + delta + n) % n,
		Flipped:   false,
		Direction: dir,
	}
	return s.cursor, nil
}
