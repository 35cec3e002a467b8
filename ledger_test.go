package twfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce_RoundTrip(t *testing.T) {
	ps := Reduce([]Transaction{
		buy("2330.TW", 1000, 10, 20),
		sell("2330.TW", 1000, 12, 20, 36),
	})
	require.Equal(t, 1, ps.Len())
	p := ps.Get("2330.TW")
	require.NotNil(t, p)

	assertMoney(t, "10.02", p.AverageCost())
	assertMoney(t, "1924", p.Realized)
	assert.True(t, p.Quantity.IsZero())
	assertMoney(t, "10020", p.BuyCost)
	assertMoney(t, "11944", p.SellRevenue)
	assert.Equal(t, "1000", p.SellQuantity.String())
}

func TestReduce_MovingAverage(t *testing.T) {
	ps := Reduce([]Transaction{
		buy("2330.TW", 1000, 100, 0),
		buy("2330.TW", 1000, 200, 0),
		sell("2330.TW", 1000, 180, 0, 0),
		buy("2330.TW", 2000, 120, 0),
	})
	p := ps.Get("2330.TW")
	assert.Equal(t, "3000", p.Quantity.String())
	// (100000+200000+240000)/4000
	assertMoney(t, "135", p.AverageCost())
	// the sell is booked against the average at the time: 150
	assertMoney(t, "30000", p.Realized)
}

func TestReduce_CumulativeNeverDecrease(t *testing.T) {
	txs := []Transaction{
		buy("2330.TW", 1000, 500, 712),
		sell("2330.TW", 500, 520, 370, 780),
		buy("2330.TW", 2000, 480, 1368),
		sell("2330.TW", 2500, 600, 2137, 4500),
	}
	var prev *Position
	for i := range txs {
		p := Reduce(txs[:i+1]).Get("2330.TW")
		if prev != nil {
			assert.True(t, p.BuyCost.GreaterThanOrEqual(prev.BuyCost), "buy cost at %d", i)
			assert.False(t, p.BuyQuantity.LessThan(prev.BuyQuantity), "buy quantity at %d", i)
			assert.True(t, p.SellRevenue.GreaterThanOrEqual(prev.SellRevenue), "sell revenue at %d", i)
			assert.False(t, p.SellQuantity.LessThan(prev.SellQuantity), "sell quantity at %d", i)
		}
		prev = p
	}
}

func TestReduce_LaterTransactionsKeepRealized(t *testing.T) {
	txs := []Transaction{
		buy("2330.TW", 1000, 500, 712),
		sell("2330.TW", 500, 520, 370, 780),
		buy("2330.TW", 1000, 450, 641),
	}
	afterSell := Reduce(txs[:2]).Get("2330.TW")
	final := Reduce(txs).Get("2330.TW")

	// (520 - 500.712) * 500 - 1150
	assertMoney(t, "8494", afterSell.Realized)
	assertMoney(t, afterSell.Realized.Decimal().String(), final.Realized, "a later buy must not change past realized profit")
	assert.False(t, afterSell.AverageCost().Equal(final.AverageCost()), "the later buy moves the average cost")
}

func TestReduce_ShortAndOrder(t *testing.T) {
	ps := Reduce([]Transaction{
		sell("6488.TWO", 1000, 50, 20, 150),
		buy("2330.TW", 1000, 10, 20),
		buy("6488.TWO", 500, 40, 20),
	})
	assert.Equal(t, []string{"6488.TWO", "2330.TW"}, ps.Codes())

	short := ps.Get("6488.TWO")
	assert.True(t, short.OTC)
	assert.Equal(t, "-500", short.Quantity.String())
	// sold before any buy: the average cost was zero
	assertMoney(t, "49830", short.Realized)

	var codes []string
	for p := range ps.All() {
		codes = append(codes, p.Code)
	}
	assert.Equal(t, ps.Codes(), codes)
	assert.Nil(t, ps.Get("0050.TW"))
}

func TestPosition_AverageCostNoBuy(t *testing.T) {
	p := Reduce([]Transaction{sell("2330.TW", 1000, 10, 0, 0)}).Get("2330.TW")
	assert.True(t, p.AverageCost().IsZero())
}
