package validation

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// First returns one violation message for flash display, field first.
func (v Violations) First() string {
	for field, msg := range v {
		return field + ": " + msg
	}
	return ""
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// Positive rejects zero and negative amounts (hours, quantities, payments).
func Positive(field string, val decimal.Decimal, v Violations) {
	if !val.IsPositive() {
		v[field] = "must_be_positive"
	}
}

// NonNegative rejects negative amounts (rates, unit costs).
func NonNegative(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v[field] = "must_not_be_negative"
	}
}
