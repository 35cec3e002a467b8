package twfolio

import (
	"testing"

	"github.com/etnz/twfolio/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry_Charges(t *testing.T) {
	on := date.New(2025, 3, 4)

	tx, err := NewEntry(on, "2330", "台積電", TWSE, Buy, Q(1000), TWD(10))
	require.NoError(t, err)
	assert.Equal(t, "2330.TW", tx.Code)
	assert.Equal(t, on, tx.Date)
	assertMoney(t, "20", tx.Fee, "minimum fee")
	assertMoney(t, "0", tx.Tax, "no tax on buys")

	tx, err = NewEntry(on, "6488", "", TWO, Sell, Q(2000), TWD(600))
	require.NoError(t, err)
	assert.Equal(t, "6488.TWO", tx.Code)
	assert.Equal(t, DefaultName, tx.Name)
	assertMoney(t, "1710", tx.Fee)
	assertMoney(t, "3600", tx.Tax)
	assert.NoError(t, tx.Validate())
}

func TestNewEntry_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		quantity Quantity
		price    Money
	}{
		{"missing code", " ", Q(1000), TWD(10)},
		{"odd lot", "2330", Q(1500), TWD(10)},
		{"zero quantity", "2330", Q(0), TWD(10)},
		{"negative quantity", "2330", Q(-1000), TWD(10)},
		{"zero price", "2330", Q(1000), TWD(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntry(date.Date{}, tt.base, "", TWSE, Buy, tt.quantity, tt.price)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestNewEntry_Today(t *testing.T) {
	tx, err := NewEntry(date.Date{}, "2330", "台積電", TWSE, Buy, Q(1000), TWD(10))
	require.NoError(t, err)
	assert.False(t, tx.Date.IsZero())
}

func TestParseEntry(t *testing.T) {
	tx, err := ParseEntry("2025/3/4", "2330", "台積電", "otc", "sell", "1,000", "612.5")
	require.NoError(t, err)
	assert.Equal(t, date.New(2025, 3, 4), tx.Date)
	assert.Equal(t, "2330.TWO", tx.Code)
	assert.Equal(t, Sell, tx.Side)
	assertMoney(t, "612.5", tx.Price)
	// 612500 * 0.001425
	assertMoney(t, "872.8125", tx.Fee)
	assertMoney(t, "1837.5", tx.Tax)

	for _, bad := range [][7]string{
		{"2025-13-40", "2330", "", "", "buy", "1000", "10"},
		{"", "2330", "", "NYSE", "buy", "1000", "10"},
		{"", "2330", "", "", "hold", "1000", "10"},
		{"", "2330", "", "", "buy", "many", "10"},
		{"", "2330", "", "", "buy", "1000", ""},
	} {
		_, err := ParseEntry(bad[0], bad[1], bad[2], bad[3], bad[4], bad[5], bad[6])
		assert.ErrorIs(t, err, ErrMalformed, "%v", bad)
	}
}

func TestTransaction_Validate(t *testing.T) {
	assert.NoError(t, buy("2330.TW", 1, 10, 0).Validate(), "lot size is not enforced")

	bad := sell("", 0, -1, -1, 0)
	err := bad.Validate()
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorContains(t, err, "security code is missing")
	assert.ErrorContains(t, err, "fee must not be negative")
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		full   string
		base   string
		market Market
	}{
		{"2330.TW", "2330", TWSE},
		{"6488.TWO", "6488", TWO},
		{"2330", "2330", TWSE},
		{" 00679B.TWO ", "00679B", TWO},
	}
	for _, tt := range tests {
		base, m := ParseCode(tt.full)
		assert.Equal(t, tt.base, base, tt.full)
		assert.Equal(t, tt.market, m, tt.full)
	}
	assert.Equal(t, "2330.TW", NormalizeCode("2330"))
	assert.Equal(t, "6488.TWO", NormalizeCode("6488.TWO"))
	assert.True(t, IsOTC("6488.TWO"))
	assert.False(t, IsOTC("2330.TW"))

	m, err := ParseMarket("tpex")
	require.NoError(t, err)
	assert.Equal(t, TWO, m)
	_, err = ParseMarket("nasdaq")
	assert.ErrorIs(t, err, ErrMalformed)
}
