package twfolio

import (
	"fmt"
	"strings"

	"github.com/etnz/twfolio/date"
	"github.com/shopspring/decimal"
)

// Brokerage rules for trades entered by hand.
var (
	// LotSize is the trading unit: entered quantities are whole lots.
	LotSize = Q(1000)
	// FeeRate is the brokerage commission rate.
	FeeRate = decimal.RequireFromString("0.001425")
	// MinFee is the minimum commission per trade.
	MinFee = TWD(20)
	// TaxRate is the securities transaction tax, charged on sells only.
	TaxRate = decimal.RequireFromString("0.003")
)

// DefaultName is recorded when a trade is entered without a security name.
const DefaultName = "未知股票"

// NewEntry creates a transaction from a hand entered trade. It enforces the
// lot size and computes fee and tax from the brokerage rules.
func NewEntry(on date.Date, base, name string, market Market, side Side, quantity Quantity, price Money) (Transaction, error) {
	base = strings.TrimSpace(base)
	switch {
	case base == "":
		return Transaction{}, fmt.Errorf("%w: security code is missing", ErrMalformed)
	case !quantity.IsPositive():
		return Transaction{}, fmt.Errorf("%w: quantity must be positive, got %s", ErrMalformed, quantity)
	case !quantity.IsMultipleOf(LotSize):
		return Transaction{}, fmt.Errorf("%w: quantity must be a multiple of %s, got %s", ErrMalformed, LotSize, quantity)
	case !price.IsPositive():
		return Transaction{}, fmt.Errorf("%w: price must be positive, got %s", ErrMalformed, price.Decimal())
	}
	if on.IsZero() {
		on = date.Today()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}

	gross := price.Mul(quantity)
	tx := Transaction{
		Date:     on,
		Code:     FullCode(base, market),
		Name:     name,
		Side:     side,
		Quantity: quantity,
		Price:    price,
		Fee:      gross.Scale(FeeRate).Max(MinFee),
		Tax:      TWD(0),
	}
	if side == Sell {
		tx.Tax = gross.Scale(TaxRate)
	}
	return tx, nil
}

// ParseEntry is NewEntry for textual input, such as form or flag values. An
// empty date means today.
func ParseEntry(on, base, name, market, side, quantity, price string) (Transaction, error) {
	var day date.Date
	if strings.TrimSpace(on) != "" {
		d, err := date.Parse(strings.TrimSpace(on))
		if err != nil {
			return Transaction{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		day = d
	}
	m, err := ParseMarket(market)
	if err != nil {
		return Transaction{}, err
	}
	s, err := ParseSide(side)
	if err != nil {
		return Transaction{}, err
	}
	q, err := parseDecimal("quantity", quantity)
	if err != nil {
		return Transaction{}, err
	}
	p, err := parseDecimal("price", price)
	if err != nil {
		return Transaction{}, err
	}
	return NewEntry(day, base, name, m, s, Q(q), TWD(p))
}

// parseDecimal parses a user supplied number, tolerating thousands separators.
func parseDecimal(field, s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %s is missing", ErrMalformed, field)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", ErrMalformed, field, s)
	}
	return v, nil
}
