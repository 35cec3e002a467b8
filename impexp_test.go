package twfolio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/etnz/twfolio/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	tx := buy("2330.TW", 1000, 580.5, 827.21)
	tx.Name = "台積電"
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, []Transaction{tx}))

	want := "\ufeffDate,Stock_Code,Stock_Name,Type,Quantity,Price,Fee,Tax\n" +
		"2025-01-02,2330.TW,台積電,Buy,1000,580.5,827.21,0\n"
	assert.Equal(t, want, buf.String())

	back, err := ImportCSV(&buf)
	require.NoError(t, err)
	require.Len(t, back, 1)
	sameTransaction(t, tx, back[0])
}

func TestImportCSV(t *testing.T) {
	input := "stock_code,Date,Type,Quantity,Price,Stock_Name,Fee,Tax\n" +
		"2330.TW,2025/1/2,buy,\"1,000\",600,台積電,855,\n" +
		"6488.TWO,2025-01-03,Sell,500,300,環球晶,20,450\n" +
		" 2317 ,2025-01-03,Buy,1000,100,鴻海,20,0\n"
	txs, err := ImportCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, date.New(2025, 1, 2), txs[0].Date)
	assert.Equal(t, Buy, txs[0].Side)
	assert.Equal(t, "1000", txs[0].Quantity.String())
	assertMoney(t, "0", txs[0].Tax)
	assert.Equal(t, "環球晶", txs[1].Name)
	assert.Equal(t, "500", txs[1].Quantity.String(), "odd lots are accepted")
	assert.Equal(t, "6488.TWO", txs[1].Code)
	assert.Equal(t, "2317.TW", txs[2].Code, "codes without suffix are listed codes")
}

func TestImportCSV_BadRows(t *testing.T) {
	input := "Date,Stock_Code,Stock_Name,Type,Quantity,Price,Fee,Tax\n" +
		"2025-01-02,2330.TW,台積電,Buy,1000,600,855,0\n" +
		"yesterday,2330.TW,台積電,Buy,1000,600,855,0\n" +
		"2025-01-02,2330.TW,台積電,Hold,1000,600,855,0\n" +
		"2025-01-02,2330.TW,台積電,Sell,1000,-1,855,0\n"
	txs, err := ImportCSV(strings.NewReader(input))
	assert.Len(t, txs, 1)
	require.ErrorIs(t, err, ErrMalformed)
	assert.ErrorContains(t, err, "line 3")
	assert.ErrorContains(t, err, "line 4")
	assert.ErrorContains(t, err, "line 5")
}

func TestImportCSV_MissingColumn(t *testing.T) {
	_, err := ImportCSV(strings.NewReader("Date,Stock_Code,Type\n2025-01-02,2330.TW,Buy\n"))
	assert.ErrorIs(t, err, ErrMalformed)

	txs, err := ImportCSV(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, txs)
}
