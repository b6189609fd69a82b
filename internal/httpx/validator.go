package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// ShelfStatuses are the accepted values of the shelf_status tag.
var ShelfStatuses = []string{"reading", "completed", "want_to_read", "paused", "dropped"}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("isbn13", validateISBN13)
	_ = v.RegisterValidation("shelf_status", validateShelfStatus)
	_ = v.RegisterValidation("password_strength", validatePasswordStrength)
	return v
}

// NormalizeISBN strips hyphens and spaces.
func NormalizeISBN(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// IsISBN13 checks length, digits and the EAN-13 check digit.
func IsISBN13(s string) bool {
	s = NormalizeISBN(s)
	if len(s) != 13 {
		return false
	}
	sum := 0
	for i, c := range s {
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}

func validateISBN13(fl validator.FieldLevel) bool {
	return IsISBN13(fl.Field().String())
}

func validateShelfStatus(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, st := range ShelfStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func validatePasswordStrength(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if len(p) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// ValidateStruct runs the struct tags and converts failures to envelope details.
func ValidateStruct(s any) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, param)
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", field, param)
		case "lte":
			message = fmt.Sprintf("%s must be less than or equal to %s", field, param)
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, param)
		case "isbn13":
			message = fmt.Sprintf("%s must be a valid 13-digit ISBN", field)
		case "shelf_status":
			message = fmt.Sprintf("%s must be one of: %s", field, strings.Join(ShelfStatuses, ", "))
		case "password_strength":
			message = fmt.Sprintf("%s must be at least 8 characters with uppercase, lowercase, number, and special character", field)
		case "datetime":
			message = fmt.Sprintf("%s must be a date in %s format", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, ErrorDetail{Field: field, Message: message})
	}
	return details
}
