package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ParseValidationErrors converts binding errors on query parameters into the
// {field: message} shape the lead routes use for their details. Errors that
// are not validation errors (e.g. a non-numeric lat) are reported under
// "query".
func ParseValidationErrors(err error) map[string]string {
	details := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		details["query"] = "Malformed query parameters"
		return details
	}

	for _, fe := range validationErrors {
		details[strings.ToLower(fe.Field())] = getErrorMessage(fe)
	}
	return details
}

func getErrorMessage(fe validator.FieldError) string {
	param := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return param + " is required"
	case "max":
		return param + " must not exceed " + fe.Param() + " characters"
	case "latitude":
		return param + " must be a latitude between -90 and 90"
	case "longitude":
		return param + " must be a longitude between -180 and 180"
	default:
		return param + " is invalid"
	}
}
