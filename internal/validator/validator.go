package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// phoneRe accepts Iranian mobile numbers: optional +98 or 0, then 9 and
// nine digits.
var phoneRe = regexp.MustCompile(`^(\+98|0)?9\d{9}$`)

func IsPhoneNumber(s string) bool {
	return phoneRe.MatchString(s)
}

// Validator wraps go-playground/validator with the rules this service
// registers on top, and reports failures keyed by json field name.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("ir_phone", func(fl validator.FieldLevel) bool {
		return IsPhoneNumber(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate satisfies echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// FieldErrors turns a validation failure into messages per field. Other
// errors land under "non_field_errors".
func FieldErrors(err error) map[string][]string {
	out := make(map[string][]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["non_field_errors"] = []string{err.Error()}
		return out
	}

	for _, fe := range verrs {
		field := fieldPath(fe)
		out[field] = append(out[field], message(fe))
	}
	return out
}

// fieldPath drops the root struct name: "req.items[0].count" -> "items[0].count".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Ensure this field has at least %s elements.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "ir_phone":
		return "Enter a valid phone number"
	case "numeric":
		return "Enter a numeric value."
	case "len":
		return fmt.Sprintf("Ensure this field has exactly %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Failed on %s validation.", fe.Tag())
	}
}
