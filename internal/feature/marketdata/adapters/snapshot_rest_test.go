package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_sync/internal/feature/marketdata/domain"
	"market_sync/internal/feature/marketdata/domain/entity"
)

// fakePostgREST keeps rows keyed by symbol|date the way a table with a
// unique (symbol, date) constraint would under merge-duplicates.
type fakePostgREST struct {
	mu       sync.Mutex
	rows     map[string]map[string]any
	requests []*http.Request
	bodies   [][]byte
}

func newFakePostgREST() *fakePostgREST {
	return &fakePostgREST{rows: map[string]map[string]any{}}
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	f.requests = append(f.requests, r)
	f.bodies = append(f.bodies, body)

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid body"}`))
		return
	}
	for _, row := range rows {
		f.rows[row["symbol"].(string)+"|"+row["date"].(string)] = row
	}
	w.WriteHeader(http.StatusCreated)
}

func TestSnapshotREST_Upsert_Request(t *testing.T) {
	t.Parallel()

	fake := newFakePostgREST()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	store := NewSnapshotREST(srv.URL+"/", "service-key", srv.Client())
	err := store.Upsert(context.Background(), snapshot("AAPL", baseDate, 150.25))
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/rest/v1/daily_market_data", req.URL.Path)
	assert.Equal(t, "symbol,date", req.URL.Query().Get("on_conflict"))
	assert.Contains(t, req.Header.Get("Prefer"), "resolution=merge-duplicates")
	assert.Equal(t, "service-key", req.Header.Get("apikey"))
	assert.Equal(t, "Bearer service-key", req.Header.Get("Authorization"))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(fake.bodies[0], &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "AAPL", rows[0]["symbol"])
	assert.Equal(t, "2024-01-02", rows[0]["date"])
	assert.Equal(t, "Technology", rows[0]["sector"])
	assert.Equal(t, "yahoo-finance", rows[0]["source"])
}

func TestSnapshotREST_Upsert_NullsAreExplicit(t *testing.T) {
	t.Parallel()

	fake := newFakePostgREST()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	store := NewSnapshotREST(srv.URL, "k", srv.Client())
	err := store.Upsert(context.Background(), &entity.MarketSnapshot{
		Symbol: "MSFT",
		Date:   baseDate,
		Price:  num(400),
		Source: "yahoo-finance",
	})
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(fake.bodies[0], &rows))
	row := rows[0]
	for _, key := range []string{"market_cap", "volume_avg", "pe_ratio", "eps", "sector", "industry"} {
		v, present := row[key]
		assert.True(t, present, "%s must be present", key)
		assert.Nil(t, v, "%s must be null", key)
	}
	assert.Equal(t, map[string]any{}, row["raw_profile"])
}

func TestSnapshotREST_Upsert_Idempotent(t *testing.T) {
	t.Parallel()

	fake := newFakePostgREST()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	store := NewSnapshotREST(srv.URL, "k", srv.Client())
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, snapshot("AAPL", baseDate, 150)))
	require.NoError(t, store.Upsert(ctx, snapshot("AAPL", baseDate, 151)))

	assert.Len(t, fake.rows, 1)
	assert.Equal(t, "151", fake.rows["AAPL|2024-01-02"]["price"])
}

func TestSnapshotREST_Upsert_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantSubstr string
	}{
		{"api error message", http.StatusConflict, `{"message":"duplicate key value violates unique constraint","code":"23505"}`, "duplicate key value"},
		{"unauthorized", http.StatusUnauthorized, `{"message":"Invalid API key"}`, "Invalid API key"},
		{"no body", http.StatusBadGateway, ``, "store http 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.body != "" {
					w.Header().Set("Content-Type", "application/json")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			store := NewSnapshotREST(srv.URL, "k", srv.Client())
			err := store.Upsert(context.Background(), snapshot("AAPL", baseDate, 150))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantSubstr)
		})
	}
}

func TestSnapshotREST_FindLatest(t *testing.T) {
	t.Parallel()

	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"symbol": "AAPL",
			"date": "2024-01-03",
			"price": 152.5,
			"market_cap": 2400000000000,
			"volume_avg": null,
			"pe_ratio": 25.1,
			"eps": 6.07,
			"sector": "Technology",
			"industry": null,
			"source": "yahoo-finance",
			"raw_profile": {"country": "United States"}
		}]`))
	}))
	defer srv.Close()

	store := NewSnapshotREST(srv.URL, "k", srv.Client())
	got, err := store.FindLatest(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, []string{"eq.AAPL"}, query["symbol"])
	assert.Equal(t, []string{"date.desc"}, query["order"])
	assert.Equal(t, []string{"1"}, query["limit"])

	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, baseDate.AddDate(0, 0, 1), got.Date)
	assert.True(t, got.Price.Decimal.Equal(decimal.RequireFromString("152.5")))
	assert.False(t, got.VolumeAvg.Valid)
	require.NotNil(t, got.Sector)
	assert.Equal(t, "Technology", *got.Sector)
	assert.Nil(t, got.Industry)
	assert.Equal(t, "United States", got.RawProfile["country"])
}

func TestSnapshotREST_FindByDate_NotFound(t *testing.T) {
	t.Parallel()

	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	store := NewSnapshotREST(srv.URL, "k", srv.Client())
	_, err := store.FindByDate(context.Background(), "AAPL", baseDate)

	assert.True(t, errors.Is(err, domain.ErrSnapshotNotFound))
	assert.Equal(t, []string{"eq.2024-01-02"}, query["date"])
}
