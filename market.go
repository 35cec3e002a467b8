package twfolio

import (
	"fmt"
	"strings"
)

// Market is the venue a security is listed on.
type Market int

const (
	// TWSE is the Taiwan Stock Exchange (listed securities, ".TW" codes).
	TWSE Market = iota
	// TWO is the Taipei Exchange (over-the-counter securities, ".TWO" codes).
	TWO
)

const (
	listedSuffix = ".TW"
	otcSuffix    = ".TWO"
)

func (m Market) String() string {
	switch m {
	case TWSE:
		return "TWSE"
	case TWO:
		return "TWO"
	default:
		return "unknown"
	}
}

// Suffix returns the code suffix of the market.
func (m Market) Suffix() string {
	if m == TWO {
		return otcSuffix
	}
	return listedSuffix
}

// ParseMarket parses a market name. The empty string is TWSE.
func ParseMarket(s string) (Market, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "TWSE", "TW":
		return TWSE, nil
	case "TWO", "OTC", "TPEX":
		return TWO, nil
	default:
		return 0, fmt.Errorf("%w: unknown market %q", ErrMalformed, s)
	}
}

// ParseCode splits a full security code into its base code and market.
// Codes without a known suffix are listed codes.
func ParseCode(full string) (base string, market Market) {
	full = strings.TrimSpace(full)
	if strings.HasSuffix(full, otcSuffix) {
		return strings.TrimSuffix(full, otcSuffix), TWO
	}
	if strings.HasSuffix(full, listedSuffix) {
		return strings.TrimSuffix(full, listedSuffix), TWSE
	}
	base, _, _ = strings.Cut(full, ".")
	return base, TWSE
}

// FullCode returns the market qualified code of base.
func FullCode(base string, market Market) string {
	return strings.TrimSpace(base) + market.Suffix()
}

// NormalizeCode adds the listed suffix to codes lacking a market suffix.
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if strings.HasSuffix(code, listedSuffix) || strings.HasSuffix(code, otcSuffix) {
		return code
	}
	return code + listedSuffix
}

// IsOTC reports whether the code is traded over the counter.
func IsOTC(code string) bool { return strings.HasSuffix(strings.TrimSpace(code), otcSuffix) }
