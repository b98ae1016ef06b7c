// Package parser reads flashcards written in markdown as "Q:" and "A:"
// blocks. A block runs until the next prefix, a "---" line or end of file;
// a new "Q:" always starts a new card.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	separator      = "---"
)

type field int

const (
	none field = iota
	question
	answer
)

// cardBuilder accumulates the lines of the card being read.
type cardBuilder struct {
	cards   []domain.Card
	current domain.Card
	into    field
	lines   []string
}

// flushBlock stores the buffered lines in the field being read.
func (b *cardBuilder) flushBlock() {
	text := strings.TrimRight(strings.Join(b.lines, "\n"), "\n ")
	switch b.into {
	case question:
		b.current.Question = text
	case answer:
		b.current.Answer = text
	}
	b.lines = nil
}

// finish closes the current card; cards without a question are dropped.
func (b *cardBuilder) finish() {
	b.flushBlock()
	if strings.TrimSpace(b.current.Question) != "" {
		b.cards = append(b.cards, b.current)
	}
	b.current = domain.Card{}
	b.into = none
}

func (b *cardBuilder) start(f field, rest string) {
	b.flushBlock()
	b.into = f
	b.lines = append(b.lines, strings.TrimPrefix(rest, " "))
}

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards.
func Parse(r io.Reader) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var b cardBuilder

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		switch {
		case line == separator:
			b.finish()
		case strings.HasPrefix(line, questionPrefix):
			if b.into != none {
				b.finish()
			}
			b.start(question, line[len(questionPrefix):])
		case strings.HasPrefix(line, answerPrefix):
			b.start(answer, line[len(answerPrefix):])
		case b.into != none:
			b.lines = append(b.lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	b.finish()

	return b.cards, nil
}
