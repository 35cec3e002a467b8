package twfolio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Arithmetic(t *testing.T) {
	a := TWD(10.02)
	assertMoney(t, "10020", a.Mul(Q(1000)))
	assertMoney(t, "5.01", a.Div(Q(2)))
	assertMoney(t, "-10.02", a.Neg())
	assertMoney(t, "10", a.Truncate())
	assertMoney(t, "1.24", TWD(1.235).Round(2), "half away from zero")
	assertMoney(t, "-1.24", TWD(-1.235).Round(2))
	assertMoney(t, "20", TWD(14.25).Max(MinFee))
	assert.True(t, TWD(1).LessThan(TWD(2)))

	// an untyped zero adopts the other currency
	assert.Equal(t, Currency, Money{}.Add(a).Currency())
	assert.Panics(t, func() { M(1, "USD").Add(a) })
}

func TestMoney_Format(t *testing.T) {
	for _, tc := range []struct {
		m                  Money
		str, signed        string
		whole, signedWhole string
	}{
		{TWD(601522.4), "NT$601,522.40", "+NT$601,522.40", "NT$601,522", "+NT$601,522"},
		{TWD(-19478.999), "-NT$19,479.00", "-NT$19,479.00", "-NT$19,478", "-NT$19,478"},
		{TWD(0), "NT$0.00", "-", "NT$0", "-"},
		{TWD(0.4), "NT$0.40", "+NT$0.40", "NT$0", "-"},
		{TWD(10.005), "NT$10.01", "+NT$10.01", "NT$10", "+NT$10"},
	} {
		t.Run(tc.str, func(t *testing.T) {
			assert.Equal(t, tc.str, tc.m.String())
			assert.Equal(t, tc.signed, tc.m.SignedString())
			assert.Equal(t, tc.whole, tc.m.Truncate().Format(0))
			assert.Equal(t, tc.signedWhole, tc.m.Truncate().SignedFormat(0))
		})
	}
}

func TestMoney_JSON(t *testing.T) {
	b, err := json.Marshal(TWD(600.5))
	require.NoError(t, err)
	assert.Equal(t, "600.5", string(b))

	var m Money
	require.NoError(t, json.Unmarshal([]byte("12.75"), &m))
	assert.Equal(t, Currency, m.Currency())
	assertMoney(t, "12.75", m)
}

func TestQuantity(t *testing.T) {
	assert.True(t, Q(3000).IsMultipleOf(LotSize))
	assert.False(t, Q(1500).IsMultipleOf(LotSize))
	assert.False(t, Q(1000).IsMultipleOf(Q(0)))
	assert.Equal(t, int64(2), Q(2.7).Shares())
	assert.True(t, Q(1).Sub(Q(2)).IsNegative())

	var q Quantity
	require.NoError(t, json.Unmarshal([]byte("1000"), &q))
	assert.Equal(t, "1000", q.String())
}
