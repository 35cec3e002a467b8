package twfolio

import (
	"context"
	"sync"
	"time"

	"github.com/etnz/twfolio/date"
	"github.com/shopspring/decimal"
)

// buy is a helper for test to create a buy transaction from consts
func buy(code string, quantity, price, fee float64) Transaction {
	return Transaction{
		Date:     date.New(2025, 1, 2),
		Code:     code,
		Name:     code,
		Side:     Buy,
		Quantity: Q(quantity),
		Price:    TWD(price),
		Fee:      TWD(fee),
		Tax:      TWD(0),
	}
}

// sell is a helper for test to create a sell transaction from consts
func sell(code string, quantity, price, fee, tax float64) Transaction {
	return Transaction{
		Date:     date.New(2025, 1, 3),
		Code:     code,
		Name:     code,
		Side:     Sell,
		Quantity: Q(quantity),
		Price:    TWD(price),
		Fee:      TWD(fee),
		Tax:      TWD(tax),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock { return &clock{t: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeQuotes is a QuoteProvider counting its calls.
type fakeQuotes struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	err    error
	calls  int
}

func (f *fakeQuotes) LatestClose(_ context.Context, code string) (decimal.Decimal, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return decimal.Zero, false, f.err
	}
	p, ok := f.prices[code]
	return p, ok, nil
}

func (f *fakeQuotes) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeSnapshot is a SnapshotSource.
type fakeSnapshot struct {
	prices map[string]decimal.Decimal
	err    error
	calls  int
}

func (f *fakeSnapshot) Refresh(context.Context) (map[string]decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.prices, nil
}

// staticNames is a DirectorySource.
type staticNames map[NameKey]string

func (s staticNames) Load(context.Context) (map[NameKey]string, error) { return s, nil }

// fixedPrices is a Pricer.
type fixedPrices map[string]float64

func (f fixedPrices) Resolve(_ context.Context, code string) Quote {
	return Quote{Code: code, Price: TWD(f[code]), Source: SourceSnapshot}
}

// memStore is an in memory Store.
type memStore struct {
	mu  sync.Mutex
	txs []Transaction
	err error
}

func (m *memStore) List(context.Context) ([]Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]Transaction(nil), m.txs...), nil
}

func (m *memStore) Append(_ context.Context, tx Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.txs = append(m.txs, tx)
	return nil
}

func (m *memStore) Delete(_ context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if index < 0 || index >= len(m.txs) {
		return ErrIndexOutOfRange
	}
	m.txs = append(m.txs[:index], m.txs[index+1:]...)
	return nil
}

// assertMoney checks that got is exactly the decimal want.
func assertMoney(t interface {
	Helper()
	Errorf(string, ...any)
}, want string, got Money, msgAndArgs ...any) {
	t.Helper()
	if !got.Decimal().Equal(dec(want)) {
		t.Errorf("got %s, want %s %v", got.Decimal(), want, msgAndArgs)
	}
}

// sameTransaction checks that got and want hold equal values.
func sameTransaction(t interface {
	Helper()
	Errorf(string, ...any)
}, want, got Transaction) {
	t.Helper()
	if got.Date != want.Date || got.Code != want.Code || got.Name != want.Name || got.Side != want.Side ||
		!got.Quantity.Equal(want.Quantity) || !got.Price.Equal(want.Price) ||
		!got.Fee.Equal(want.Fee) || !got.Tax.Equal(want.Tax) {
		t.Errorf("got transaction %+v, want %+v", got, want)
	}
}
