package twfolio

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// UnknownName is the display name of a security missing from the directory.
const UnknownName = "未知名稱"

// NameKey is the primary key of the security directory.
type NameKey struct {
	Code   string // base code, without market suffix
	Market Market
}

// DirectorySource loads the whole security directory.
type DirectorySource interface {
	Load(ctx context.Context) (map[NameKey]string, error)
}

// StockDirectory resolves display names of securities. The source is
// reloaded on every lookup, so edits to it are picked up without restart.
type StockDirectory struct {
	src DirectorySource
	log zerolog.Logger
}

// NewStockDirectory returns a directory over src.
func NewStockDirectory(src DirectorySource, log zerolog.Logger) *StockDirectory {
	return &StockDirectory{src: src, log: log.With().Str("component", "directory").Logger()}
}

// load returns the directory, or an empty one if the source is unavailable.
func (d *StockDirectory) load(ctx context.Context) map[NameKey]string {
	if d == nil || d.src == nil {
		return nil
	}
	names, err := d.src.Load(ctx)
	if err != nil {
		d.log.Error().Err(err).Msg("security directory unavailable")
		return nil
	}
	return names
}

// Exact returns the name registered for (base, market).
func (d *StockDirectory) Exact(ctx context.Context, base string, market Market) (string, bool) {
	name, ok := d.load(ctx)[NameKey{Code: strings.TrimSpace(base), Market: market}]
	return name, ok && name != ""
}

// Name is Exact, with UnknownName for missing securities.
func (d *StockDirectory) Name(ctx context.Context, base string, market Market) string {
	if name, ok := d.Exact(ctx, base, market); ok {
		return name
	}
	return UnknownName
}

// Lookup finds a name for a code typed by a user. After the exact key it
// tries, for OTC codes ending in "B" (bonds), the code without the trailing
// "B", and at last the same code on any market.
func (d *StockDirectory) Lookup(ctx context.Context, base string, market Market) (string, bool) {
	base = strings.TrimSpace(base)
	names := d.load(ctx)
	if name := names[NameKey{Code: base, Market: market}]; name != "" {
		return name, true
	}
	if market == TWO && strings.HasSuffix(base, "B") {
		if name := names[NameKey{Code: strings.TrimRight(base, "B"), Market: market}]; name != "" {
			d.log.Debug().Str("code", base).Msg("name found without bond suffix")
			return name, true
		}
	}
	keys := make([]NameKey, 0, len(names))
	for k := range names {
		if k.Code == base {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b NameKey) int { return cmp.Compare(a.Market, b.Market) })
	for _, k := range keys {
		if name := names[k]; name != "" {
			d.log.Debug().Str("code", base).Stringer("market", k.Market).Msg("name found on another market")
			return name, true
		}
	}
	return "", false
}

// IsLatin reports whether name contains no Han ideograph.
func IsLatin(name string) bool {
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			return false
		}
	}
	return true
}
