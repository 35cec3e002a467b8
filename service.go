package twfolio

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Store is the ledger storage. Transactions are listed in append order and
// deleted by their position in that order.
type Store interface {
	List(ctx context.Context) ([]Transaction, error)
	Append(ctx context.Context, tx Transaction) error
	Delete(ctx context.Context, index int) error
}

// Service runs the portfolio workflows over a ledger store. It is safe for
// concurrent use when its store is.
type Service struct {
	store      Store
	resolver   *PriceResolver
	dir        *StockDirectory
	summarizer *Summarizer
	log        zerolog.Logger
}

// NewService wires the portfolio workflows.
func NewService(store Store, resolver *PriceResolver, dir *StockDirectory, log zerolog.Logger) *Service {
	var pricer Pricer
	if resolver != nil {
		pricer = resolver
	}
	return &Service{
		store:      store,
		resolver:   resolver,
		dir:        dir,
		summarizer: NewSummarizer(pricer),
		log:        log.With().Str("component", "service").Logger(),
	}
}

// Transactions returns the ledger. An unavailable store yields an empty
// ledger.
func (s *Service) Transactions(ctx context.Context) []Transaction {
	txs, err := s.store.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("ledger unavailable, reporting no transactions")
		return nil
	}
	return txs
}

// Summary values the current ledger. It also returns the transactions it
// was computed from.
func (s *Service) Summary(ctx context.Context) (*Summary, []Transaction) {
	txs := s.Transactions(ctx)
	return s.summarizer.Summarize(ctx, txs), txs
}

// Add appends tx to the ledger.
func (s *Service) Add(ctx context.Context, tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := s.store.Append(ctx, tx); err != nil {
		return fmt.Errorf("cannot append transaction: %w", err)
	}
	s.log.Info().Str("code", tx.Code).Stringer("side", tx.Side).Str("quantity", tx.Quantity.String()).Msg("transaction added")
	return nil
}

// Delete removes the index-th transaction of the ledger.
func (s *Service) Delete(ctx context.Context, index int) error {
	if err := s.store.Delete(ctx, index); err != nil {
		return fmt.Errorf("cannot delete transaction %d: %w", index, err)
	}
	s.log.Info().Int("index", index).Msg("transaction deleted")
	return nil
}

// RefreshPrices reloads the price snapshot and drops every cached price.
func (s *Service) RefreshPrices(ctx context.Context) error {
	if s.resolver == nil {
		return nil
	}
	return s.resolver.RefreshAll(ctx)
}

// StockName finds the name of a security typed by a user. latin reports a
// name without Han characters.
func (s *Service) StockName(ctx context.Context, base string, market Market) (name string, latin bool, err error) {
	name, ok := s.dir.Lookup(ctx, base, market)
	if !ok {
		return "", false, fmt.Errorf("%w: %s on %s", ErrUnknownSecurity, base, market)
	}
	return name, IsLatin(name), nil
}

// Export writes the ledger as CSV.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	txs, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("cannot list transactions: %w", err)
	}
	return ExportCSV(w, txs)
}

// Import appends the valid transactions of a CSV stream. It returns how many
// were appended along with the errors of the rejected rows.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	txs, rowErr := ImportCSV(r)
	n := 0
	for _, tx := range txs {
		if err := s.store.Append(ctx, tx); err != nil {
			return n, fmt.Errorf("cannot append imported transaction: %w", err)
		}
		n++
	}
	s.log.Info().Int("count", n).Msg("transactions imported")
	return n, rowErr
}
