// Package yahoo fetches latest closes from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// DefaultBaseURL is the public chart API endpoint.
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	resultPath     = "$.chart.result"
	closePath      = "$.chart.result[0].indicators.quote[0].close"
)

// Client queries the chart API. Its zero value is not usable, use New.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// New returns a client of the chart API at baseURL, DefaultBaseURL if empty.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "yahoo").Logger(),
	}
}

// LatestClose returns the last non null daily close of code, e.g. "2330.TW".
// ok is false when Yahoo has no close for it.
func (c *Client) LatestClose(ctx context.Context, code string) (decimal.Decimal, bool, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(code))
	var jobj any
	if err := c.jwget(ctx, addr, &jobj); err != nil {
		return decimal.Zero, false, fmt.Errorf("error retrieving %q: %w", code, err)
	}

	// unknown symbols come back with a null result
	result, err := jsonpath.Get(resultPath, jobj)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("error parsing %q: %q %w", code, resultPath, err)
	}
	if list, ok := result.([]any); !ok || len(list) == 0 {
		c.log.Debug().Str("code", code).Msg("no chart result")
		return decimal.Zero, false, nil
	}

	jval, err := jsonpath.Get(closePath, jobj)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("error parsing %q: %q %w", code, closePath, err)
	}
	closes, ok := jval.([]any)
	if !ok {
		return decimal.Zero, false, fmt.Errorf("error parsing %q: %q is not a list: %v", code, closePath, jval)
	}
	// jsonpath may wrap a single answer in a list
	if len(closes) == 1 {
		if inner, ok := closes[0].([]any); ok {
			closes = inner
		}
	}
	for i := len(closes) - 1; i >= 0; i-- {
		if v, ok := closes[i].(float64); ok {
			return decimal.NewFromFloat(v), true, nil
		}
	}
	return decimal.Zero, false, nil
}

// jwget gets addr and decodes its JSON body into v.
func (c *Client) jwget(ctx context.Context, addr string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.Debug().Str("url", addr).Int("status", resp.StatusCode).Msg("chart request")
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
