package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/etnz/twfolio"
	"github.com/etnz/twfolio/date"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "twfolio",
	})
}

type lineResponse struct {
	Code        string           `json:"code"`
	FullCode    string           `json:"full_code"`
	Name        string           `json:"name"`
	Quantity    twfolio.Quantity `json:"quantity"`
	AverageCost twfolio.Money    `json:"average_cost"`
	Price       twfolio.Money    `json:"price"`
	PriceSource string           `json:"price_source"`
	CostBasis   twfolio.Money    `json:"cost_basis"`
	MarketValue twfolio.Money    `json:"market_value"`
	Unrealized  twfolio.Money    `json:"unrealized"`
	Realized    twfolio.Money    `json:"realized"`
}

type summaryResponse struct {
	Lines            []lineResponse   `json:"lines"`
	TotalQuantity    twfolio.Quantity `json:"total_quantity"`
	TotalCost        twfolio.Money    `json:"total_cost"`
	TotalMarketValue twfolio.Money    `json:"total_market_value"`
	TotalUnrealized  twfolio.Money    `json:"total_unrealized"`
	TotalRealized    twfolio.Money    `json:"total_realized"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, _ := s.service.Summary(r.Context())
	resp := summaryResponse{
		Lines:            make([]lineResponse, 0, len(sum.Lines)),
		TotalQuantity:    sum.TotalQuantity,
		TotalCost:        sum.TotalCost,
		TotalMarketValue: sum.TotalMarketValue,
		TotalUnrealized:  sum.TotalUnrealized,
		TotalRealized:    sum.TotalRealized,
	}
	for _, l := range sum.Lines {
		resp.Lines = append(resp.Lines, lineResponse{
			Code:        l.Code,
			FullCode:    l.FullCode,
			Name:        l.Name,
			Quantity:    l.Quantity,
			AverageCost: l.AverageCost,
			Price:       l.Price,
			PriceSource: l.PriceSource,
			CostBasis:   l.CostBasis,
			MarketValue: l.MarketValue,
			Unrealized:  l.Unrealized,
			Realized:    l.Realized,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type indexedTransaction struct {
	Index int `json:"index"`
	twfolio.Transaction
}

// MarshalJSON inlines the transaction fields next to the index.
func (t indexedTransaction) MarshalJSON() ([]byte, error) {
	tx, err := json.Marshal(t.Transaction)
	if err != nil {
		return nil, err
	}
	return append([]byte(fmt.Sprintf(`{"index":%d,`, t.Index)), tx[1:]...), nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.service.Transactions(r.Context())
	resp := make([]indexedTransaction, 0, len(txs))
	for i, tx := range txs {
		resp = append(resp, indexedTransaction{Index: i, Transaction: tx})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// field is a form value sent either as a JSON string or number.
type field string

func (f *field) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = field(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = field(n.String())
	return nil
}

type entryRequest struct {
	Date     field `json:"date"`
	Code     field `json:"code"`
	Name     field `json:"name"`
	Market   field `json:"market"`
	Type     field `json:"type"`
	Quantity field `json:"quantity"`
	Price    field `json:"price"`
}

func (s *Server) readEntry(r *http.Request) (entryRequest, error) {
	var req entryRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("%w: invalid JSON body: %w", twfolio.ErrMalformed, err)
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("%w: invalid form: %w", twfolio.ErrMalformed, err)
	}
	for dst, key := range map[*field]string{
		&req.Date: "date", &req.Code: "code", &req.Name: "name", &req.Market: "market",
		&req.Type: "type", &req.Quantity: "quantity", &req.Price: "price",
	} {
		*dst = field(r.PostForm.Get(key))
	}
	return req, nil
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := s.readEntry(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	side := strings.TrimSpace(string(req.Type))
	if side == "" {
		side = twfolio.Buy.String()
	}
	tx, err := twfolio.ParseEntry(string(req.Date), string(req.Code), string(req.Name), string(req.Market),
		side, string(req.Quantity), string(req.Price))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.service.Add(r.Context(), tx); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	if err := s.service.Delete(r.Context(), index); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefreshPrices(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RefreshPrices(r.Context()); err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func (s *Server) handleStockName(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	market, err := twfolio.ParseMarket(r.URL.Query().Get("market"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, latin, err := s.service.StockName(r.Context(), code, market)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"name": name, "is_english": latin})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.service.Export(r.Context(), &buf); err != nil {
		s.writeServiceError(w, err)
		return
	}
	filename := fmt.Sprintf("exported_transactions_%s.csv", date.Of(s.now()).Compact())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// writeServiceError maps service errors to HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, twfolio.ErrMalformed):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, twfolio.ErrIndexOutOfRange), errors.Is(err, twfolio.ErrUnknownSecurity):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
