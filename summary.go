package twfolio

import "context"

// Pricer resolves current quotes. *PriceResolver is the production Pricer.
type Pricer interface {
	Resolve(ctx context.Context, code string) Quote
}

// Line is the report of one security of the ledger.
type Line struct {
	Code        string // base code
	FullCode    string
	Name        string
	Quantity    Quantity
	AverageCost Money
	Price       Money // current price, zero when nothing is held
	CostBasis   Money // AverageCost * Quantity, zero when nothing is held
	MarketValue Money
	Unrealized  Money
	Realized    Money
	PriceSource string
}

// Summary is the portfolio report: one line per security with any history,
// and the portfolio totals. Each total is the sum of the matching line field.
type Summary struct {
	Lines            []Line
	TotalQuantity    Quantity
	TotalCost        Money
	TotalMarketValue Money
	TotalUnrealized  Money
	TotalRealized    Money
}

// Summarizer values a ledger.
type Summarizer struct {
	prices Pricer
}

// NewSummarizer returns a summarizer pricing holdings with prices.
func NewSummarizer(prices Pricer) *Summarizer { return &Summarizer{prices: prices} }

// Summarize replays txs and values every position still held. Positions at
// or below zero are not valued: they only carry their realized profit.
func (s *Summarizer) Summarize(ctx context.Context, txs []Transaction) *Summary {
	sum := &Summary{
		TotalCost:        TWD(0),
		TotalMarketValue: TWD(0),
		TotalUnrealized:  TWD(0),
		TotalRealized:    TWD(0),
	}
	for p := range Reduce(txs).All() {
		line := s.line(ctx, p)
		sum.Lines = append(sum.Lines, line)
		sum.TotalQuantity = sum.TotalQuantity.Add(line.Quantity)
		sum.TotalCost = sum.TotalCost.Add(line.CostBasis)
		sum.TotalMarketValue = sum.TotalMarketValue.Add(line.MarketValue)
		sum.TotalUnrealized = sum.TotalUnrealized.Add(line.Unrealized)
		sum.TotalRealized = sum.TotalRealized.Add(line.Realized)
	}
	return sum
}

func (s *Summarizer) line(ctx context.Context, p *Position) Line {
	base, _ := ParseCode(p.Code)
	l := Line{
		Code:        base,
		FullCode:    p.Code,
		Name:        p.Name,
		Quantity:    p.Quantity,
		AverageCost: p.AverageCost(),
		Price:       TWD(0),
		CostBasis:   TWD(0),
		MarketValue: TWD(0),
		Unrealized:  TWD(0),
		Realized:    p.Realized,
		PriceSource: SourceNone,
	}
	if !p.Quantity.IsPositive() {
		return l
	}
	if s.prices != nil {
		q := s.prices.Resolve(ctx, p.Code)
		if l.Name == "" {
			l.Name = q.Name
		}
		l.Price = q.Price
		l.PriceSource = q.Source
	}
	l.CostBasis = l.AverageCost.Mul(p.Quantity)
	l.MarketValue = l.Price.Mul(p.Quantity)
	l.Unrealized = l.Price.Sub(l.AverageCost).Mul(p.Quantity)
	return l
}
