package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

type requestValidator struct {
	v *validator.Validate
}

// NewValidator returns the echo.Validator used for request bodies. Field
// names in messages follow the JSON tags so they match what the caller sent.
func NewValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	msgs := make([]string, len(fields))
	for i, fe := range fields {
		msgs[i] = describe(fe)
	}
	return domain.Validation("%s", strings.Join(msgs, "; "))
}

var tagMessages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email",
	"gte":      "%s must be at least %s",
	"min":      "%s must be at least %s characters long",
	"max":      "%s cannot exceed %s characters",
	"oneof":    "%s must be one of: %s",
}

func describe(fe validator.FieldError) string {
	format, ok := tagMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
	if strings.Count(format, "%s") == 1 {
		return fmt.Sprintf(format, fe.Field())
	}
	return fmt.Sprintf(format, fe.Field(), fe.Param())
}
