// Package validation holds the client-side checks that run before any
// request reaches the backend: comment length, event forms and top-up
// amounts.  A failed check never produces a network call.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Comment length bounds, counted in characters after trimming.
const (
	CommentMinLen = 5
	CommentMaxLen = 500
)

// Top-up bounds in whole rupiah.
const (
	MinTopUp int64 = 10_000
	MaxTopUp int64 = 10_000_000
)

// TopUpPresets are the fixed amounts offered next to the custom input.
var TopUpPresets = []int64{50_000, 100_000, 250_000, 500_000, 1_000_000}

// Errors maps a JSON field name to a human readable message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e[k])
	}
	return strings.Join(parts, "; ")
}

// AsErrors unwraps err into field errors.
func AsErrors(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Validator wraps go-playground validator with the ticketing rules.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with all custom tags registered.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("trimmed_min", validateTrimmedMin)
	_ = v.RegisterValidation("trimmed_max", validateTrimmedMax)
	_ = v.RegisterValidation("event_date", validateEventDate)
	_ = v.RegisterValidation("positive_decimal", validatePositiveDecimal)
	_ = v.RegisterValidation("topup_amount", validateTopUpAmount)
	return &Validator{validate: v}
}

var std = New()

// Struct validates s and converts failures into Errors.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := Errors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "trimmed_min":
		if fe.Param() == "1" {
			return field + " is required"
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "trimmed_max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "event_date":
		return field + " must be a valid date and time"
	case "positive_decimal":
		return field + " must be greater than zero"
	case "topup_amount":
		return fmt.Sprintf("%s must be between %d and %d", field, MinTopUp, MaxTopUp)
	}
	return field + " is invalid"
}

type commentInput struct {
	Message string `json:"message" validate:"trimmed_min=5,trimmed_max=500"`
}

// Comment checks a report comment.  The message is trimmed before its
// length is counted.
func Comment(message string) error {
	return std.Struct(commentInput{Message: message})
}

// Struct validates s with the package-level validator.
func Struct(s interface{}) error { return std.Struct(s) }

// TopUpAmount checks amount against the top-up bounds.
func TopUpAmount(amount int64) error {
	if amount < MinTopUp || amount > MaxTopUp {
		return Errors{"amount": fmt.Sprintf("amount must be between %d and %d", MinTopUp, MaxTopUp)}
	}
	return nil
}

// ParseEventDate accepts RFC 3339 and the HTML datetime-local layout.
func ParseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid event date %q", s)
}

func trimmedLen(fl validator.FieldLevel) (int, int, bool) {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return 0, 0, false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())), limit, true
}

func validateTrimmedMin(fl validator.FieldLevel) bool {
	n, limit, ok := trimmedLen(fl)
	return ok && n >= limit
}

func validateTrimmedMax(fl validator.FieldLevel) bool {
	n, limit, ok := trimmedLen(fl)
	return ok && n <= limit
}

func validateEventDate(fl validator.FieldLevel) bool {
	_, err := ParseEventDate(fl.Field().String())
	return err == nil
}

func validatePositiveDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

func validateTopUpAmount(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= MinTopUp && n <= MaxTopUp
}
