package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrInvalid matches every *Error through errors.Is.
var ErrInvalid = errors.New("validation failed")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is a human readable failure for a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries one message per failing field. No state is mutated when it is returned.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func New(field, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

func (e *Error) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Message returns the message recorded for field, or "" when the field passed.
func (e *Error) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}

	return ""
}

// Err returns nil when no field failed.
func (e *Error) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}

	return e
}

// IsEmail reports whether s looks like local@domain.tld.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		if name == "" {
			return fld.Name
		}

		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}

		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	_ = v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})

	return v
}

// Struct validates s against its `validate` tags and converts failures into *Error.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating %T: %w", s, err)
	}

	out := &Error{}
	for _, fe := range verrs {
		out.Add(fe.Field(), message(fe))
	}

	return out
}

func message(fe validator.FieldError) string {
	text := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		if text {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}

		return "must be at least " + fe.Param()
	case "max":
		if text {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}

		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "basic_email":
		return "must be a valid email address"
	case "eqfield":
		return "must match " + strings.ToLower(fe.Param())
	default:
		return "is invalid"
	}
}
