package adapters

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"market_sync/internal/feature/marketdata/domain"
	"market_sync/internal/feature/marketdata/domain/entity"
	"market_sync/internal/feature/marketdata/usecase"
)

const (
	restTable     = "daily_market_data"
	restDateField = "2006-01-02"
)

// snapshotREST stores snapshots through a PostgREST endpoint (Supabase).
type snapshotREST struct {
	client *resty.Client
}

var _ usecase.SnapshotStore = (*snapshotREST)(nil)

// NewSnapshotREST returns a store for the PostgREST API under baseURL,
// authenticating with serviceKey as both apikey and bearer token.
func NewSnapshotREST(baseURL, serviceKey string, httpClient *http.Client) *snapshotREST {
	c := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/rest/v1").
		SetHeader("apikey", serviceKey).
		SetAuthToken(serviceKey).
		SetHeader("Accept", "application/json")
	return &snapshotREST{client: c}
}

// restRow is the wire shape of a daily_market_data row. No field is
// omitempty so absent values are sent as null.
type restRow struct {
	Symbol     string              `json:"symbol"`
	Date       string              `json:"date"`
	Price      decimal.NullDecimal `json:"price"`
	MarketCap  decimal.NullDecimal `json:"market_cap"`
	VolumeAvg  decimal.NullDecimal `json:"volume_avg"`
	PERatio    decimal.NullDecimal `json:"pe_ratio"`
	EPS        decimal.NullDecimal `json:"eps"`
	Sector     *string             `json:"sector"`
	Industry   *string             `json:"industry"`
	Source     string              `json:"source"`
	RawProfile map[string]any      `json:"raw_profile"`
}

// restError is the PostgREST error body.
type restError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func toRow(s *entity.MarketSnapshot) restRow {
	profile := s.RawProfile
	if profile == nil {
		profile = map[string]any{}
	}
	return restRow{
		Symbol:     s.Symbol,
		Date:       entity.DateOf(s.Date).Format(restDateField),
		Price:      s.Price,
		MarketCap:  s.MarketCap,
		VolumeAvg:  s.VolumeAvg,
		PERatio:    s.PERatio,
		EPS:        s.EPS,
		Sector:     s.Sector,
		Industry:   s.Industry,
		Source:     s.Source,
		RawProfile: profile,
	}
}

func fromRow(r restRow) (*entity.MarketSnapshot, error) {
	d, err := time.Parse(restDateField, r.Date)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", r.Date, err)
	}
	profile := r.RawProfile
	if profile == nil {
		profile = map[string]any{}
	}
	return &entity.MarketSnapshot{
		Symbol:     r.Symbol,
		Date:       d,
		Price:      r.Price,
		MarketCap:  r.MarketCap,
		VolumeAvg:  r.VolumeAvg,
		PERatio:    r.PERatio,
		EPS:        r.EPS,
		Sector:     r.Sector,
		Industry:   r.Industry,
		Source:     r.Source,
		RawProfile: profile,
	}, nil
}

// Upsert posts s with merge-duplicates resolution on (symbol, date).
func (r *snapshotREST) Upsert(ctx context.Context, s *entity.MarketSnapshot) error {
	var apiErr restError
	res, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("on_conflict", "symbol,date").
		SetHeader("Prefer", "resolution=merge-duplicates,return=minimal").
		SetHeader("Content-Type", "application/json").
		SetBody([]restRow{toRow(s)}).
		SetError(&apiErr).
		Post("/" + restTable)
	if err != nil {
		return err
	}
	if res.IsError() {
		return statusError(res, apiErr)
	}
	return nil
}

func (r *snapshotREST) FindLatest(ctx context.Context, symbol string) (*entity.MarketSnapshot, error) {
	return r.findOne(ctx, map[string]string{
		"symbol": "eq." + symbol,
		"order":  "date.desc",
	})
}

func (r *snapshotREST) FindByDate(ctx context.Context, symbol string, date time.Time) (*entity.MarketSnapshot, error) {
	return r.findOne(ctx, map[string]string{
		"symbol": "eq." + symbol,
		"date":   "eq." + entity.DateOf(date).Format(restDateField),
	})
}

func (r *snapshotREST) findOne(ctx context.Context, params map[string]string) (*entity.MarketSnapshot, error) {
	var (
		rows   []restRow
		apiErr restError
	)
	res, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("select", "*").
		SetQueryParam("limit", "1").
		SetResult(&rows).
		SetError(&apiErr).
		Get("/" + restTable)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, statusError(res, apiErr)
	}
	if len(rows) == 0 {
		return nil, domain.ErrSnapshotNotFound
	}
	return fromRow(rows[0])
}

func statusError(res *resty.Response, apiErr restError) error {
	if apiErr.Message != "" {
		return fmt.Errorf("store http %d: %s", res.StatusCode(), apiErr.Message)
	}
	return fmt.Errorf("store http %d", res.StatusCode())
}
