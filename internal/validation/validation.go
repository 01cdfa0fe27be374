// Package validation decodes request bodies and turns validator errors into
// per-field messages.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/saulo-duarte/cyberaware-lambda/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode reads a JSON body into dst and validates it. Failures are returned
// as apperr validation errors carrying message.
func Decode(r *http.Request, dst interface{}, message string) error {
	if err := DecodeJSON(r, dst, message); err != nil {
		return err
	}
	return Struct(dst, message)
}

// DecodeJSON reads a JSON body into dst without validating it.
func DecodeJSON(r *http.Request, dst interface{}, message string) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation(message, map[string]string{"body": "Invalid JSON body."})
	}
	return nil
}

func Struct(v interface{}, message string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("validation failed", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperr.Validation(message, fields)
}

// Slice validates every element of items. Field names are prefixed with
// the element index, as in "0.question".
func Slice[T any](items []T, message string) error {
	fields := make(map[string]string)
	for i := range items {
		err := validate.Struct(&items[i])
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperr.Internal("validation failed", err)
		}
		for _, fe := range verrs {
			fields[fmt.Sprintf("%d.%s", i, fe.Field())] = fieldMessage(fe)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperr.Validation(message, fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "len":
		return fmt.Sprintf("Ensure this field has exactly %s characters.", fe.Param())
	case "numeric":
		return "This field must contain only digits."
	case "oneof":
		return "Must be one of: " + fe.Param() + "."
	default:
		return "Invalid value."
	}
}
