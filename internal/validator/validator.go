package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/ayvazoglu/title-catalog/internal/domain"
	"github.com/go-playground/validator/v10"
)

const (
	// MinReleaseYear is the lower bound for release_year.
	MinReleaseYear = 1900
	// MaxYearSlack allows titles announced up to five years ahead.
	MaxYearSlack = 5
)

const (
	ErrRequired    = "is required"
	ErrMinLength   = "must be at least %s characters long"
	ErrMaxLength   = "must be at most %s characters long"
	ErrMinValue    = "must be at least %s"
	ErrMaxValue    = "must be at most %s"
	ErrTitleType   = `must be either "Movie" or "TV Show"`
	ErrReleaseYear = "must be between %d and %d"
	ErrImmutable   = "is immutable"
)

// NewValidator builds the shared validator. The release_year bound depends
// on the calendar year, so the current time comes from the injected clock
// rather than an ambient call.
func NewValidator(now func() time.Time) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their json names so API errors match the wire format
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("title_type", validateTitleType)
	v.RegisterValidation("release_year", validateReleaseYear(now))

	return v
}

func validateTitleType(fl validator.FieldLevel) bool {
	t := fl.Field().String()

	return t == domain.TypeMovie || t == domain.TypeTVShow
}

func validateReleaseYear(now func() time.Time) validator.Func {
	return func(fl validator.FieldLevel) bool {
		year := fl.Field().Int()

		return year >= MinReleaseYear && year <= int64(now().Year()+MaxYearSlack)
	}
}

// ValidationMessage converts validator errors into readable messages.
func ValidationMessage(err validator.FieldError, now func() time.Time) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf(ErrMinLength, err.Param())
		}
		return fmt.Sprintf(ErrMinValue, err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf(ErrMaxLength, err.Param())
		}
		return fmt.Sprintf(ErrMaxValue, err.Param())
	case "title_type":
		return ErrTitleType
	case "release_year":
		return fmt.Sprintf(ErrReleaseYear, MinReleaseYear, now().Year()+MaxYearSlack)
	default:
		return "is invalid"
	}
}
