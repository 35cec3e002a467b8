package twfolio

import "iter"

// Position is the running state of one security, rebuilt from the ledger on
// every summarization.
//
// Cumulative fields only ever grow in transaction order: a later transaction
// never revises what an earlier sell realized.
type Position struct {
	Code string
	Name string // display name from the first transaction of the security
	OTC  bool

	Quantity     Quantity // signed, a net short position is negative
	BuyCost      Money    // sum of quantity*price + fee + tax over buys
	BuyQuantity  Quantity
	SellRevenue  Money // sum of quantity*price - fee - tax over sells
	SellQuantity Quantity
	Realized     Money
}

func newPosition(tx Transaction) *Position {
	return &Position{
		Code:        tx.Code,
		Name:        tx.Name,
		OTC:         IsOTC(tx.Code),
		BuyCost:     TWD(0),
		SellRevenue: TWD(0),
		Realized:    TWD(0),
	}
}

// AverageCost is the moving average buy price: the cost of every buy so far
// divided by every share bought so far, fees and taxes included. It is zero
// when nothing was bought.
func (p *Position) AverageCost() Money {
	if !p.BuyQuantity.IsPositive() {
		return TWD(0)
	}
	return p.BuyCost.Div(p.BuyQuantity)
}

// apply folds one transaction into the position.
func (p *Position) apply(tx Transaction) {
	switch tx.Side {
	case Buy:
		p.Quantity = p.Quantity.Add(tx.Quantity)
		p.BuyCost = p.BuyCost.Add(tx.Gross()).Add(tx.Charges())
		p.BuyQuantity = p.BuyQuantity.Add(tx.Quantity)
	case Sell:
		p.Quantity = p.Quantity.Sub(tx.Quantity)
		p.SellRevenue = p.SellRevenue.Add(tx.Gross()).Sub(tx.Charges())
		p.SellQuantity = p.SellQuantity.Add(tx.Quantity)
		gain := tx.Price.Sub(p.AverageCost()).Mul(tx.Quantity).Sub(tx.Charges())
		p.Realized = p.Realized.Add(gain)
	}
}

// Positions holds the positions of a ledger, in the order securities first
// appear in it.
type Positions struct {
	codes  []string
	byCode map[string]*Position
}

// Reduce replays transactions in order and returns the resulting positions.
func Reduce(txs []Transaction) *Positions {
	ps := &Positions{byCode: make(map[string]*Position)}
	for _, tx := range txs {
		p, ok := ps.byCode[tx.Code]
		if !ok {
			p = newPosition(tx)
			ps.byCode[tx.Code] = p
			ps.codes = append(ps.codes, tx.Code)
		}
		p.apply(tx)
	}
	return ps
}

// Len returns the number of securities.
func (ps *Positions) Len() int { return len(ps.codes) }

// Codes returns the security codes in first appearance order.
func (ps *Positions) Codes() []string { return append([]string(nil), ps.codes...) }

// Get returns the position of code, or nil.
func (ps *Positions) Get(code string) *Position { return ps.byCode[code] }

// All iterates over the positions in first appearance order.
func (ps *Positions) All() iter.Seq[*Position] {
	return func(yield func(*Position) bool) {
		for _, code := range ps.codes {
			if !yield(ps.byCode[code]) {
				return
			}
		}
	}
}
