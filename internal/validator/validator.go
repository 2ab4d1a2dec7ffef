package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidRequest = errors.New("invalid request")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct - validates request DTOs; failures wrap ErrInvalidRequest and name the offending fields.
func Struct(request any) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		messages = append(messages, fmt.Sprintf("%s failed on %s", fieldError.Field(), fieldError.Tag()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(messages, ", "))
}
