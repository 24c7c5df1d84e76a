// Package money provides the fixed-point amount used for every due, payment
// and balance in the club ledger.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places an Amount carries.
const Scale = 2

var (
	ErrInvalid    = errors.New("money: invalid amount")
	ErrTooPrecise = errors.New("money: more than two decimal places")
	ErrOutOfRange = errors.New("money: amount out of range")
)

// maxMajor bounds amounts well inside int64 minor units.
var maxMajor = decimal.New(1, 15)

// Amount is a monetary value in minor units (cents). All arithmetic is
// integer-only.
//
//	Amount(4900) = 49.00
type Amount int64

// Zero is the additive identity.
const Zero Amount = 0

// FromMinor builds an Amount from a count of minor units.
func FromMinor(cents int64) Amount { return Amount(cents) }

// Parse reads a decimal string such as "50", "50.5" or "50.00". Values with
// more than two decimal places are rejected rather than rounded.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return FromDecimal(d)
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal converts a decimal to an Amount, rejecting sub-cent precision.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if !d.Equal(d.Round(Scale)) {
		return Zero, ErrTooPrecise
	}
	if d.Abs().GreaterThanOrEqual(maxMajor) {
		return Zero, ErrOutOfRange
	}
	return Amount(d.Shift(Scale).IntPart()), nil
}

// Minor returns the raw number of minor units.
func (a Amount) Minor() int64 { return int64(a) }

// Decimal returns the amount as a decimal in major units.
func (a Amount) Decimal() decimal.Decimal { return decimal.New(int64(a), -Scale) }

func (a Amount) Add(other Amount) Amount { return a + other }
func (a Amount) Sub(other Amount) Amount { return a - other }

func (a Amount) IsZero() bool     { return a == 0 }
func (a Amount) IsPositive() bool { return a > 0 }
func (a Amount) IsNegative() bool { return a < 0 }

// String formats the amount in major units with exactly two decimals, e.g.
// "49.00" or "-20.50".
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// MarshalJSON encodes the amount as a decimal string so clients never see
// floating point values.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a decimal string ("12.50") or a JSON number.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	} else {
		raw = string(b)
	}

	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Sum adds up a list of amounts.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}
