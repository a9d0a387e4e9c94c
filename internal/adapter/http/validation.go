package http

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// CustomValidator plugs go-playground/validator into echo.
type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()
	// report fields by their JSON name so clients can match them
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("dec2", isCents)
	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// isCents accepts money with at most two decimal places.
func isCents(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return math.Abs(f-(math.Round(f*100)/100)) < 1e-9
}

var tagMessages = map[string]string{
	"required": "is required",
	"dec2":     "must have at most 2 decimal places",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"max":      "must be at most %s characters",
}

func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		msg, ok := tagMessages[e.Tag()]
		if !ok {
			msg = e.Tag() + " validation failed"
		}
		out = append(out, FieldError{Field: e.Field(), Message: strings.Replace(msg, "%s", e.Param(), 1)})
	}
	return out
}
