package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestClose(t *testing.T) {
	bodies := map[string]string{
		"/v8/finance/chart/2330.TW":  `{"chart":{"result":[{"meta":{"symbol":"2330.TW"},"indicators":{"quote":[{"close":[598.0,601.5,null]}]}}],"error":null}}`,
		"/v8/finance/chart/0000.TW":  `{"chart":{"result":null,"error":{"code":"Not Found"}}}`,
		"/v8/finance/chart/6488.TWO": `{"chart":{"result":[{"indicators":{"quote":[{"close":[null]}]}}],"error":null}}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.UserAgent(), "Mozilla") || r.URL.Query().Get("interval") != "1d" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, zerolog.Nop())
	ctx := context.Background()

	p, ok, err := c.LatestClose(ctx, "2330.TW")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "601.5", p.String())

	_, ok, err = c.LatestClose(ctx, "0000.TW")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.LatestClose(ctx, "6488.TWO")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = c.LatestClose(ctx, "9999.TW")
	assert.Error(t, err)
}

func TestLatestClose_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, err := New(srv.URL, time.Minute, zerolog.Nop()).LatestClose(ctx, "2330.TW")
	assert.Error(t, err)
}
