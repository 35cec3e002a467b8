package twfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/twfolio/date"
)

// Side is the direction of a trade.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return "unknown"
	}
}

// ParseSide parses "Buy" or "Sell", case insensitive.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("%w: unknown transaction type %q", ErrMalformed, s)
	}
}

func (s Side) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Side) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v, err := ParseSide(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Transaction is a single buy or sell recorded in the ledger. Transactions
// are values: once created they are never modified.
type Transaction struct {
	Date     date.Date
	Code     string // full security code, e.g. "2330.TW"
	Name     string
	Side     Side
	Quantity Quantity
	Price    Money // per share
	Fee      Money
	Tax      Money
}

// Gross is quantity times unit price.
func (tx Transaction) Gross() Money { return tx.Price.Mul(tx.Quantity) }

// Charges is fee plus tax.
func (tx Transaction) Charges() Money { return tx.Fee.Add(tx.Tax) }

// BaseCode returns the code without its market suffix.
func (tx Transaction) BaseCode() string {
	base, _ := ParseCode(tx.Code)
	return base
}

// Validate checks the structural preconditions the ledger relies on. It does
// not enforce lot sizes: replayed or imported transactions may hold any
// positive quantity.
func (tx Transaction) Validate() error {
	var errs []error
	if strings.TrimSpace(tx.Code) == "" {
		errs = append(errs, errors.New("security code is missing"))
	}
	if !tx.Quantity.IsPositive() {
		errs = append(errs, fmt.Errorf("quantity must be positive, got %s", tx.Quantity))
	}
	if !tx.Price.IsPositive() {
		errs = append(errs, fmt.Errorf("price must be positive, got %s", tx.Price.Decimal()))
	}
	if tx.Fee.IsNegative() {
		errs = append(errs, fmt.Errorf("fee must not be negative, got %s", tx.Fee.Decimal()))
	}
	if tx.Tax.IsNegative() {
		errs = append(errs, fmt.Errorf("tax must not be negative, got %s", tx.Tax.Decimal()))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrMalformed, errors.Join(errs...))
	}
	return nil
}

func (tx Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", tx.Date)
	w.Append("code", tx.Code)
	w.Optional("name", tx.Name)
	w.Append("side", tx.Side)
	w.Append("quantity", tx.Quantity)
	w.Append("price", tx.Price)
	w.Append("fee", tx.Fee)
	w.Append("tax", tx.Tax)
	return w.MarshalJSON()
}

func (tx *Transaction) UnmarshalJSON(b []byte) error {
	var temp struct {
		Date     date.Date `json:"date"`
		Code     string    `json:"code"`
		Name     string    `json:"name"`
		Side     Side      `json:"side"`
		Quantity Quantity  `json:"quantity"`
		Price    Money     `json:"price"`
		Fee      Money     `json:"fee"`
		Tax      Money     `json:"tax"`
	}
	// missing amounts still need the ledger currency
	temp.Fee, temp.Tax = TWD(0), TWD(0)
	if err := json.Unmarshal(b, &temp); err != nil {
		return err
	}
	*tx = Transaction(temp)
	return nil
}
