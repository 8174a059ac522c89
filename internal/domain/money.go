package domain

import (
	"bytes"
	"strconv"

	"github.com/shopspring/decimal"
)

// Money is an exact fixed-point amount with two fractional digits. It wraps
// decimal.Decimal so arithmetic never goes through floats, and serializes as
// a quoted decimal string like "1000.00".
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal value as Money.
func NewMoney(d decimal.Decimal) Money {
	return Money{d}
}

// ParseMoney parses a decimal string such as "12.34" into Money.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{m.Decimal.Sub(o.Decimal)}
}

// HasCentPrecision reports whether m has no more than two fractional digits.
func (m Money) HasCentPrecision() bool {
	return m.Decimal.Equal(m.Decimal.Round(2))
}

// MarshalJSON renders the amount with exactly two fractional digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.StringFixed(2))), nil
}

// UnmarshalJSON accepts both quoted decimal strings and bare JSON numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.Decimal = d
	return nil
}
