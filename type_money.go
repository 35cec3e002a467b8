package twfolio

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the currency of every amount recorded in the ledger.
const Currency = "TWD"

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// TWD returns value as ledger currency money.
func TWD[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return M(value, Currency)
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, rounded to
// the currency fraction.
func (m Money) String() string {
	fraction := m.currency().Fraction
	return m.Round(int32(fraction)).Format(fraction)
}

// SignedString is String with an explicit sign. Zero is represented as "-".
func (m Money) SignedString() string {
	fraction := m.currency().Fraction
	return m.Round(int32(fraction)).SignedFormat(fraction)
}

// Format formats the money value with the currency symbol and separators and
// fraction digits, the remaining digits being truncated.
func (m Money) Format(fraction int) string {
	cur := m.currency()
	f := money.NewFormatter(fraction, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return f.Format(m.units(fraction))
}

// SignedFormat is Format with an explicit sign. An amount that formats as
// zero is represented as "-".
func (m Money) SignedFormat(fraction int) string {
	switch u := m.units(fraction); {
	case u == 0:
		return "-"
	case u > 0:
		return "+" + m.Format(fraction)
	default:
		return m.Format(fraction)
	}
}

// units returns the value in 10^-fraction units, truncated.
func (m Money) units(fraction int) int64 { return m.value.Shift(int32(fraction)).IntPart() }

// Simple wrapper around decimal.Decimal

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Div(n Quantity) Money            { return Money{value: m.value.Div(n.value), cur: m.cur} }
func (m Money) Scale(r decimal.Decimal) Money   { return Money{value: m.value.Mul(r), cur: m.cur} }

// Round rounds to places decimal places (half away from zero).
func (m Money) Round(places int32) Money { return Money{value: m.value.Round(places), cur: m.cur} }

// Truncate drops the fractional part.
func (m Money) Truncate() Money { return Money{value: m.value.Truncate(0), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// Max returns the greater of m and n.
func (m Money) Max(n Money) Money {
	if n.GreaterThan(m) {
		return Money{value: n.value, cur: cur(m, n)}
	}
	return Money{value: m.value, cur: cur(m, n)}
}

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// InexactFloat64 is meant for display only.
func (m Money) InexactFloat64() float64 { return m.value.InexactFloat64() }

// MarshalJSON writes the amount as a bare JSON number, the currency being
// implied by the ledger.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	m.cur = Currency
	return m.value.UnmarshalJSON(b)
}
