// Package validate checks cards against the deck's content rules.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/flashdeck/internal/domain"
)

var v = New()

// New returns a validator with the card rules registered. Callers that
// validate their own structs (config, request bodies) can share it.
func New() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// trimmin=N: at least N characters once leading and trailing whitespace is removed.
	if err := val.RegisterValidation("trimmin", trimMin); err != nil {
		panic(fmt.Sprintf("failed to register trimmin validation: %v", err))
	}
	return val
}

func trimMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

// Card checks the question first, then the answer, and returns a
// *domain.ValidationError for the first rule that fails. A nil return
// means the card is acceptable.
func Card(card domain.Card) error {
	err := v.Struct(card)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate card: %w", err)
	}

	fe := fieldErrs[0]
	return &domain.ValidationError{
		Field:   fe.StructField(),
		Message: message(fe),
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "trimmin":
		return fmt.Sprintf("%s must be at least %s characters long.", fe.StructField(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", fe.StructField())
	}
}
