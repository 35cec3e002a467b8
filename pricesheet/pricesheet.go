// Package pricesheet reads bulk prices from a spreadsheet published as CSV.
//
// The sheet has a header row naming at least a "code" and a "price" column;
// other columns are ignored. Codes without a market suffix are listed codes.
package pricesheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/etnz/twfolio"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source is a price sheet, published at URL or stored at Path. URL wins when
// both are set.
type Source struct {
	URL  string
	Path string

	client *http.Client
	log    zerolog.Logger
}

// New returns a sheet source.
func New(url, path string, log zerolog.Logger) *Source {
	return &Source{
		URL:    url,
		Path:   path,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log.With().Str("component", "pricesheet").Logger(),
	}
}

// Refresh reads the whole sheet.
func (s *Source) Refresh(ctx context.Context) (map[string]decimal.Decimal, error) {
	r, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	prices, err := s.parse(r)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("prices", len(prices)).Msg("price sheet read")
	return prices, nil
}

func (s *Source) open(ctx context.Context) (io.ReadCloser, error) {
	switch {
	case s.URL != "":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
		if err != nil {
			return nil, err
		}
		client := s.client
		if client == nil {
			client = http.DefaultClient
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("cannot fetch price sheet: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("cannot fetch price sheet: unexpected status %s", resp.Status)
		}
		return resp.Body, nil
	case s.Path != "":
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("cannot open price sheet: %w", err)
		}
		return f, nil
	default:
		return nil, errors.New("price sheet has neither URL nor path")
	}
}

func (s *Source) parse(r io.Reader) (map[string]decimal.Decimal, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read price sheet header: %w", err)
	}
	codeCol, priceCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "code":
			codeCol = i
		case "price":
			priceCol = i
		}
	}
	if codeCol < 0 || priceCol < 0 {
		return nil, fmt.Errorf("%w: price sheet header lacks code or price: %v", twfolio.ErrMalformed, header)
	}

	prices := make(map[string]decimal.Decimal)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read price sheet: %w", err)
		}
		if codeCol >= len(record) || priceCol >= len(record) {
			continue
		}
		code := strings.TrimSpace(record[codeCol])
		if code == "" {
			continue
		}
		raw := strings.ReplaceAll(strings.TrimSpace(record[priceCol]), ",", "")
		p, err := decimal.NewFromString(raw)
		if err != nil {
			s.log.Warn().Str("code", code).Str("price", raw).Msg("cannot parse price, skipped")
			continue
		}
		if !p.IsPositive() {
			continue
		}
		prices[twfolio.NormalizeCode(code)] = p
	}
	return prices, nil
}
