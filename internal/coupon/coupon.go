// Package coupon resolves coupon codes against a fixed discount table.
package coupon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCode   = errors.New("empty coupon code")
	ErrInvalidCode = errors.New("invalid coupon code")
)

// Policy is an accepted coupon and the fraction it takes off the total
type Policy struct {
	Code     string          `json:"code"`
	Fraction decimal.Decimal `json:"fraction"`
}

// Percent returns the discount as a whole percentage, e.g. 15
func (p Policy) Percent() int64 {
	return p.Fraction.Shift(2).Round(0).IntPart()
}

// DefaultRules is the storefront coupon table. New coupons are added here.
var DefaultRules = map[string]decimal.Decimal{
	"SAVE15": decimal.RequireFromString("0.15"),
}

type Resolver struct {
	rules map[string]decimal.Decimal
}

// NewResolver copies rules, upper-casing the codes. Nil means DefaultRules.
func NewResolver(rules map[string]decimal.Decimal) *Resolver {
	if rules == nil {
		rules = DefaultRules
	}
	r := &Resolver{rules: make(map[string]decimal.Decimal, len(rules))}
	for code, fraction := range rules {
		r.rules[Normalize(code)] = fraction
	}
	return r
}

// Resolve matches the trimmed, upper-cased code against the table
func (r *Resolver) Resolve(raw string) (Policy, error) {
	code := Normalize(raw)
	if code == "" {
		return Policy{}, ErrEmptyCode
	}

	fraction, ok := r.rules[code]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	return Policy{Code: code, Fraction: fraction}, nil
}

func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
