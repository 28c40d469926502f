package middlewares

import (
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type validator struct {
	validate *playground.Validate
}

// NewValidator returns a struct validator based on `validate` tags.
// Decimals are validated as float64.
func NewValidator() echo.Validator {
	validate := playground.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	return &validator{
		validate: validate,
	}
}

// Validate implements the echo.Validator interface.
func (v *validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "could not validate params")
	}

	messages := make([]string, 0, len(verrs))
	for _, ferr := range verrs {
		messages = append(messages, message(ferr))
	}
	return apierror.InvalidParameters(strings.Join(messages, ", "))
}

func message(ferr playground.FieldError) string {
	field := ferr.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch ferr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, ferr.Param())
	case "lt":
		return fmt.Sprintf("%s must be lower than %s", field, ferr.Param())
	case "min", "max":
		return fmt.Sprintf("%s must be between the allowed bounds", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
