// Package knol fingerprints card content so the same card typed twice, or
// imported twice, can be recognised regardless of case and spacing.
package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// Normalize joins the card's question and answer after lowercasing,
// trimming and normalizing line endings. The id is not part of it.
func Normalize(card domain.Card) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return strings.TrimSpace(p)
	}

	// Newline separator keeps "ab"+"c" distinct from "a"+"bc".
	return normalizePart(card.Question) + "\n" + normalizePart(card.Answer)
}

// Hash returns the SHA-256 of the normalized card as a hex string.
func Hash(card domain.Card) string {
	sum := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", sum)
}

// Set returns the hashes of cards.
func Set(cards []domain.Card) map[string]struct{} {
	set := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		set[Hash(c)] = struct{}{}
	}
	return set
}
