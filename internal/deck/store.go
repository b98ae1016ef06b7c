// Package deck keeps a local copy of the flashcard collection in step with
// the remote store. Local state changes only after the remote side has
// confirmed a mutation, so a failed call never leaves the deck half-updated.
package deck

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/validate"
)

// Remote is the authoritative card collection.
type Remote interface {
	List(ctx context.Context) ([]domain.Card, error)
	Create(ctx context.Context, card domain.Card) (domain.Card, error)
	Update(ctx context.Context, card domain.Card) error
	Delete(ctx context.Context, id string) error
}

// Store owns the local deck. It is safe for concurrent use.
type Store struct {
	remote  Remote
	confirm Confirmer
	notify  Notifier
	logger  *slog.Logger

	mu    sync.RWMutex
	cards []domain.Card
	draft domain.Card

	ids keyedMutex
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets where operation outcomes are reported.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notify = n }
}

// WithLogger sets the logger used for remote failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty Store. Every Remove is put to confirm before the
// remote call is made; with a nil confirm every Remove is declined.
func New(remote Remote, confirm Confirmer, opts ...Option) *Store {
	s := &Store{
		remote:  remote,
		confirm: confirm,
		notify:  NotifierFunc(func(Notification) {}),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "deck")
	return s
}

// Cards returns a copy of the deck in its current order.
func (s *Store) Cards() []domain.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Len returns the number of cards in the deck.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards)
}

// Draft returns the card currently being composed.
func (s *Store) Draft() domain.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// SetDraft replaces the card currently being composed.
func (s *Store) SetDraft(c domain.Card) {
	s.mu.Lock()
	s.draft = c
	s.mu.Unlock()
}

// Load replaces the deck with the remote collection. On failure the deck
// keeps whatever it held before and a *FetchError is returned.
func (s *Store) Load(ctx context.Context) error {
	cards, err := s.remote.List(ctx)
	if err != nil {
		s.logger.Error("failed to load flashcards", "error", err)
		s.fail(msgLoadFailed)
		return &FetchError{Err: err}
	}

	if cards == nil {
		cards = []domain.Card{}
	}
	s.mu.Lock()
	s.cards = cards
	s.mu.Unlock()

	s.logger.Debug("flashcards loaded", "count", len(cards))
	return nil
}

// Add validates candidate, creates it remotely and appends the created card
// to the deck. The appended card carries the id the remote assigned; the
// draft buffer is cleared on success.
func (s *Store) Add(ctx context.Context, candidate domain.Card) (domain.Card, error) {
	if err := s.check(candidate); err != nil {
		return domain.Card{}, err
	}

	candidate.ID = ""
	created, err := s.remote.Create(ctx, candidate)
	if err != nil {
		s.logger.Error("failed to add flashcard", "error", err)
		s.fail(msgAddFailed)
		return domain.Card{}, &SyncError{Op: OpAdd, Err: err}
	}

	// Some servers only echo the id.
	if created.Question == "" && created.Answer == "" {
		created.Question = candidate.Question
		created.Answer = candidate.Answer
	}
	if !created.HasID() {
		s.logger.Warn("remote did not assign an id to the new flashcard")
	}

	s.mu.Lock()
	s.cards = append(s.cards, created)
	s.draft = domain.Card{}
	s.mu.Unlock()

	s.succeed(msgAdded)
	return created, nil
}

// AddDraft adds the card held in the draft buffer.
func (s *Store) AddDraft(ctx context.Context) (domain.Card, error) {
	return s.Add(ctx, s.Draft())
}

// Update validates edited, sends it to the remote and then swaps it in for
// the card with the same id, keeping its position in the deck.
func (s *Store) Update(ctx context.Context, edited domain.Card) error {
	if err := s.check(edited); err != nil {
		return err
	}
	if !edited.HasID() {
		s.fail(msgUpdateFailed)
		return ErrMissingID
	}

	unlock := s.ids.lock(edited.ID)
	defer unlock()

	if err := s.remote.Update(ctx, edited); err != nil {
		s.logger.Error("failed to update flashcard", "id", edited.ID, "error", err)
		s.fail(msgUpdateFailed)
		return &SyncError{Op: OpUpdate, ID: edited.ID, Err: err}
	}

	s.mu.Lock()
	replaced := false
	for i := range s.cards {
		if s.cards[i].ID == edited.ID {
			s.cards[i] = edited
			replaced = true
		}
	}
	s.mu.Unlock()

	if !replaced {
		s.logger.Warn("updated flashcard is no longer in the local deck", "id", edited.ID)
	}
	s.succeed(msgUpdated)
	return nil
}

// Remove asks for confirmation and, if granted, deletes the card remotely
// and then drops it from the deck. It reports false with a nil error when
// the user declines. Waiting for the answer does not hold any lock.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	if id == "" {
		s.fail(msgDeleteFailed)
		return false, ErrMissingID
	}

	if s.confirm == nil {
		s.logger.Warn("no confirmer configured, declining delete", "id", id)
		return false, nil
	}
	ok, err := s.confirm.Confirm(ctx, removePrompt)
	if err != nil {
		s.logger.Warn("confirmation failed, abandoning delete", "id", id, "error", err)
		return false, err
	}
	if !ok {
		s.logger.Debug("delete declined", "id", id)
		return false, nil
	}

	unlock := s.ids.lock(id)
	defer unlock()

	if err := s.remote.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete flashcard", "id", id, "error", err)
		s.fail(msgDeleteFailed)
		return false, &SyncError{Op: OpRemove, ID: id, Err: err}
	}

	s.mu.Lock()
	kept := make([]domain.Card, 0, len(s.cards))
	for _, c := range s.cards {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.cards = kept
	s.mu.Unlock()

	s.succeed(msgDeleted)
	return true, nil
}

func (s *Store) check(c domain.Card) error {
	err := validate.Card(c)
	if err == nil {
		return nil
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		s.fail(vErr.Message)
	} else {
		s.fail(err.Error())
	}
	return err
}

func (s *Store) succeed(msg string) {
	s.notify.Notify(Notification{Level: Success, Message: msg})
}

func (s *Store) fail(msg string) {
	s.notify.Notify(Notification{Level: Failure, Message: msg})
}
