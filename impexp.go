package twfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/twfolio/date"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// this file contains the CSV import/export format shared with spreadsheets.

// csvHeader is the column layout of exported transactions.
var csvHeader = []string{"Date", "Stock_Code", "Stock_Name", "Type", "Quantity", "Price", "Fee", "Tax"}

// ExportCSV writes txs as CSV, UTF-8 with a byte order mark so spreadsheet
// tools detect the encoding.
func ExportCSV(w io.Writer, txs []Transaction) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return fmt.Errorf("cannot write CSV: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}
	for _, tx := range txs {
		record := []string{
			tx.Date.String(),
			tx.Code,
			tx.Name,
			tx.Side.String(),
			tx.Quantity.String(),
			tx.Price.Decimal().String(),
			tx.Fee.Decimal().String(),
			tx.Tax.Decimal().String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV reads transactions in the ExportCSV format. A byte order mark is
// optional and columns are matched by header name. Quantities are not checked
// against the lot size. Every malformed row is reported; the returned error
// wraps ErrMalformed.
func ImportCSV(r io.Reader) ([]Transaction, error) {
	// drop an optional UTF-8 BOM and decode as UTF-8.
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, h := range csvHeader {
		if _, ok := cols[strings.ToLower(h)]; !ok {
			return nil, fmt.Errorf("%w: CSV header lacks column %q", ErrMalformed, h)
		}
	}

	var txs []Transaction
	var errs []error
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read CSV line %d: %w", line, err)
		}
		field := func(name string) string {
			i := cols[strings.ToLower(name)]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		tx, err := parseRecord(field)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		txs = append(txs, tx)
	}
	if len(errs) > 0 {
		return txs, errors.Join(errs...)
	}
	return txs, nil
}

func parseRecord(field func(string) string) (Transaction, error) {
	on, err := date.Parse(field("Date"))
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	side, err := ParseSide(field("Type"))
	if err != nil {
		return Transaction{}, err
	}
	code := field("Stock_Code")
	if code != "" {
		code = NormalizeCode(code)
	}
	tx := Transaction{
		Date: on,
		Code: code,
		Name: field("Stock_Name"),
		Side: side,
	}
	quantity, err := parseDecimal("quantity", field("Quantity"))
	if err != nil {
		return Transaction{}, err
	}
	tx.Quantity = Q(quantity)
	amounts := []struct {
		name     string
		dst      *Money
		optional bool
	}{
		{"Price", &tx.Price, false},
		{"Fee", &tx.Fee, true},
		{"Tax", &tx.Tax, true},
	}
	for _, a := range amounts {
		raw := field(a.name)
		if raw == "" && a.optional {
			*a.dst = TWD(0)
			continue
		}
		v, err := parseDecimal(strings.ToLower(a.name), raw)
		if err != nil {
			return Transaction{}, err
		}
		*a.dst = TWD(v)
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}
