package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/task-scheduler/internal/models"
	"github.com/yukikurage/task-scheduler/internal/repository"
)

// invalid builds a single-field repository.ValidationError.
func invalid(field, rule string) error {
	return &repository.ValidationError{Fields: []repository.FieldError{{Field: field, Rule: rule}}}
}

const maxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	must(v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("resource_type", func(fl validator.FieldLevel) bool {
		return models.ResourceType(fl.Field().String()).Valid()
	}))
	// max counts runes; bcrypt rejects passwords longer than 72 bytes.
	must(v.RegisterValidation("bcrypt_len", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// validateInput runs struct tag validation and converts failures into a ValidationError.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", repository.ErrValidation, err)
	}

	out := &repository.ValidationError{Fields: make([]repository.FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		out.Fields[i] = repository.FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		}
	}
	return out
}
