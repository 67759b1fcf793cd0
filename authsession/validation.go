package authsession

import (
	"errors"
	"fmt"
	"strings"

	"github.com/commercekit/go-storefront-session/apperrors"
	"github.com/go-playground/validator/v10"
)

// validateInput runs struct validation and converts failures into a
// ClientValidationFailed error carrying a field -> message map. Validation
// happens before any network call, so these errors never reach Classify's
// provider rules.
func (s *Service) validateInput(data any, context string) error {
	err := s.validate.Struct(data)
	if err == nil {
		s.log.Debug().Str("input", context).Msg("input passed validation")
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		s.log.Error().Err(err).Str("input", context).Msg("unexpected validation failure")
		return apperrors.NewUnknown(err.Error())
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		name := fieldName(fieldErr)
		if _, ok := fields[name]; !ok {
			fields[name] = fieldMessage(fieldErr)
		}
	}
	s.log.Warn().Str("input", context).Interface("fields", fields).Msg("input failed validation")
	return apperrors.NewClientValidation(fields)
}

// fieldName strips the root struct name from the namespace, keeping nested
// paths like "ShippingAddress.City".
func fieldName(fieldErr validator.FieldError) string {
	namespace := fieldErr.Namespace()
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return fieldErr.Field()
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "iso3166_1_alpha2":
		return "must be a two-letter country code"
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}
