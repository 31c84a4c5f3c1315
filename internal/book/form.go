package book

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("notblank", validateNotBlank)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Form is a new-book submission.
type Form struct {
	Author      string `validate:"max=200"`
	Title       string `validate:"notblank,max=300"`
	Genre       string `validate:"max=100"`
	Contributor string `validate:"notblank,max=100"`
	Review      string `validate:"omitempty,url,max=500"`
}

// FieldError describes one invalid form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when a submission fails validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "invalid form: " + strings.Join(names, ", ")
}

// ByField indexes the messages by field name, for templates.
func (e *ValidationError) ByField() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}

// Validate checks the form. When members is non-empty the contributor must
// be one of them.
func (f Form) Validate(members []string) *ValidationError {
	var fields []FieldError
	if err := validate.Struct(f); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			fields = append(fields, FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: fieldMessage(fe),
			})
		}
	}

	if len(members) > 0 && f.Contributor != "" && !slices.Contains(members, f.Contributor) {
		fields = append(fields, FieldError{
			Field:   "contributor",
			Message: "Wybierz osobę z listy",
		})
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return "Proszę wypełnić pole"
	case "url":
		return "Podaj poprawny link"
	case "max":
		return fmt.Sprintf("Maksymalnie %s znaków", fe.Param())
	default:
		return "Niepoprawna wartość"
	}
}

// Book builds the record to store for this submission.
func (f Form) Book() Book {
	return Book{
		Author:      f.Author,
		Title:       f.Title,
		Genre:       f.Genre,
		Contributor: f.Contributor,
		Review:      f.Review,
	}
}
