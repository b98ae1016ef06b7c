package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestCardHasID(t *testing.T) {
	if (Card{}).HasID() {
		t.Error("Expected a fresh card to have no ID")
	}
	if !(Card{ID: "01J"}).HasID() {
		t.Error("Expected a card with an ID to report HasID")
	}
}

func TestValidationErrorAs(t *testing.T) {
	err := fmt.Errorf("add: %w", &ValidationError{Field: "Question", Message: "Question must be at least 5 characters long."})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatal("Expected errors.As to find the ValidationError")
	}
	if vErr.Field != "Question" {
		t.Errorf("Expected field 'Question', but got '%s'", vErr.Field)
	}
	if err.Error() != "add: Question must be at least 5 characters long." {
		t.Errorf("Unexpected error text: %s", err.Error())
	}
}
