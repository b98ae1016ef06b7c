package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/conorfennell/flashdeck/internal/domain"
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// ListCards returns every card in insertion order.
func (db *DB) ListCards(ctx context.Context) ([]domain.Card, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, question, answer
		FROM flashcards ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := []domain.Card{}
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.Question, &c.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card rows: %w", err)
	}
	return cards, nil
}

// FindCard retrieves a card by id. It returns nil, nil when no card matches.
func (db *DB) FindCard(ctx context.Context, id string) (*domain.Card, error) {
	var c domain.Card
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, question, answer
		FROM flashcards WHERE id = ?
	`, id).Scan(&c.ID, &c.Question, &c.Answer)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Card not found
		}
		return nil, fmt.Errorf("failed to find card %s: %w", id, err)
	}
	return &c, nil
}

// InsertCard stores a new card under a freshly assigned id and returns it.
// Any id already on card is ignored.
func (db *DB) InsertCard(ctx context.Context, card domain.Card) (domain.Card, error) {
	card.ID = ulid.Make().String()
	now := time.Now().UTC()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO flashcards (id, question, answer, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		card.ID,
		card.Question,
		card.Answer,
		now,
		now,
	)
	if err != nil {
		return domain.Card{}, fmt.Errorf("failed to insert card: %w", err)
	}
	return card, nil
}

// UpdateCard overwrites the question and answer of an existing card.
// It returns domain.ErrNotFound when the id is unknown.
func (db *DB) UpdateCard(ctx context.Context, card domain.Card) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE flashcards
		SET question = ?, answer = ?, updated_at = ?
		WHERE id = ?
	`,
		card.Question,
		card.Answer,
		time.Now().UTC(),
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card %s: %w", card.ID, err)
	}
	return affectedOne(res, card.ID)
}

// DeleteCard removes a card by id. It returns domain.ErrNotFound when the
// id is unknown.
func (db *DB) DeleteCard(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `
		DELETE FROM flashcards
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card %s: %w", id, err)
	}
	return affectedOne(res, id)
}

func affectedOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for card %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
