// Package money implements fixed-point currency amounts stored as integer
// minor units (cents). Every conversion from a decimal or floating point
// source is rounded half away from zero to two places.
package money

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents.
type Money int64

// Zero is the zero amount.
const Zero Money = 0

const scale = 2

// MaxCents bounds every amount read from outside: 100 billion units.
// Sums of a few thousand such amounts stay far below the int64 limit.
const MaxCents Money = 100_000_000_000 * 100

// ErrOutOfRange is returned for amounts or products beyond MaxCents.
var ErrOutOfRange = errors.New("money: amount out of range")

var (
	hundred  = decimal.NewFromInt(100)
	maxValue = decimal.New(int64(MaxCents), -scale)
)

// FromCents wraps a raw minor-unit amount.
func FromCents(cents int64) Money {
	return Money(cents)
}

// FromDecimal rounds d to two decimal places and converts it to cents.
// d must be within MaxCents; use Parse for untrusted input.
func FromDecimal(d decimal.Decimal) Money {
	return Money(d.Round(scale).Shift(scale).IntPart())
}

// FromFloat converts a float using its shortest decimal representation,
// so 2.475 becomes 2.48 rather than drifting to 2.47.
func FromFloat(f float64) Money {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Parse reads a decimal string such as "12.5" or "-0.01".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return checked(d)
}

func checked(d decimal.Decimal) (Money, error) {
	if d.Abs().GreaterThan(maxValue) {
		return Zero, fmt.Errorf("%w: %s", ErrOutOfRange, d)
	}
	return FromDecimal(d), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the raw minor-unit value.
func (m Money) Cents() int64 {
	return int64(m)
}

// Decimal returns the exact decimal value of m.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -scale)
}

// Float64 is for display only; never feed it back into arithmetic.
func (m Money) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

func (m Money) Add(o Money) Money { return m + o }
func (m Money) Sub(o Money) Money { return m - o }

// Mul multiplies by an integer quantity. Operands must be in range;
// use CheckedMul for untrusted quantities.
func (m Money) Mul(qty int64) Money { return m * Money(qty) }

// CheckedMul multiplies by qty and fails if the product leaves MaxCents.
func (m Money) CheckedMul(qty int64) (Money, error) {
	if m.Abs() > MaxCents || qty > int64(MaxCents) || qty < -int64(MaxCents) {
		return Zero, ErrOutOfRange
	}
	if m == 0 || qty == 0 {
		return Zero, nil
	}
	p := m * Money(qty)
	if p/Money(qty) != m || p.Abs() > MaxCents {
		return Zero, ErrOutOfRange
	}
	return p, nil
}

// CheckedAdd adds o and fails if the sum leaves MaxCents.
func (m Money) CheckedAdd(o Money) (Money, error) {
	if m.Abs() > MaxCents || o.Abs() > MaxCents {
		return Zero, ErrOutOfRange
	}
	sum := m + o
	if sum.Abs() > MaxCents {
		return Zero, ErrOutOfRange
	}
	return sum, nil
}

// MulRate applies a percentage (8.25 means 8.25%) and rounds to cents.
func (m Money) MulRate(percent decimal.Decimal) Money {
	return FromDecimal(m.Decimal().Mul(percent).Div(hundred))
}

func (m Money) IsZero() bool     { return m == 0 }
func (m Money) IsNegative() bool { return m < 0 }
func (m Money) IsPositive() bool { return m > 0 }

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Within reports whether m and o differ by at most tolerance.
func (m Money) Within(o, tolerance Money) bool {
	return m.Sub(o).Abs() <= tolerance
}

// String formats the amount with exactly two decimals, e.g. "140.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(scale)
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("money: invalid amount %s: %w", data, err)
	}
	parsed, err := checked(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalText lets Money be used as a JSON object key ("0.25").
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a key produced by MarshalText, or any decimal string.
func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
