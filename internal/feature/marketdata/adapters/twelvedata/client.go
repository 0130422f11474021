package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"market_sync/internal/feature/marketdata/adapters/twelvedata/dto"
	"market_sync/internal/feature/marketdata/domain/entity"
	"market_sync/internal/feature/marketdata/usecase"
)

// Source is stored on every snapshot this provider produces.
const Source = "twelve-data"

// Client はTwelve Data外部APIから銘柄の相場情報を取得するQuoteProvider実装です。
type Client struct {
	cfg    Config
	client *resty.Client
	log    *zap.SugaredLogger
}

// Clientがusecase.QuoteProviderを実装していることをコンパイル時に検証します。
var _ usecase.QuoteProvider = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, httpClient *http.Client, log *zap.SugaredLogger) *Client {
	c := resty.NewWithClient(httpClient).
		SetBaseURL(cfg.BaseURL).
		SetQueryParam("apikey", cfg.APIKey).
		SetHeader("Accept", "application/json")
	return &Client{cfg: cfg, client: c, log: log}
}

func (c *Client) Source() string { return Source }

// QuoteSummary fetches /quote and /statistics for symbol. The quote is
// required; statistics are plan-dependent, so a failure there leaves the
// valuation fields null instead of failing the attempt.
func (c *Client) QuoteSummary(ctx context.Context, symbol string) (*entity.QuoteSummary, error) {
	var quote dto.QuoteResponse
	if err := c.get(ctx, "/quote", symbol, &quote, &quote.ErrorEnvelope); err != nil {
		return nil, err
	}

	var stats dto.StatisticsResponse
	if err := c.get(ctx, "/statistics", symbol, &stats, &stats.ErrorEnvelope); err != nil {
		c.log.Warnw("twelvedata statistics unavailable", "symbol", symbol, "error", err)
		stats = dto.StatisticsResponse{}
	}

	return toEntity(quote, stats), nil
}

func (c *Client) get(ctx context.Context, path, symbol string, out any, env *dto.ErrorEnvelope) error {
	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		Get(path)
	if err != nil {
		return err
	}
	if res.StatusCode() >= 400 {
		return fmt.Errorf("twelvedata http %d", res.StatusCode())
	}

	// JSONレスポンスをDTOにデコード
	if err := json.Unmarshal(res.Body(), out); err != nil {
		return fmt.Errorf("twelvedata: decode %s: %w", path, err)
	}
	if env.Status == "error" {
		return fmt.Errorf("twelvedata: %s", env.Message)
	}
	return nil
}

func toEntity(q dto.QuoteResponse, s dto.StatisticsResponse) *entity.QuoteSummary {
	st := s.Statistics
	profile := map[string]any{}
	for k, v := range map[string]string{"name": q.Name, "exchange": q.Exchange, "currency": q.Currency} {
		if v != "" {
			profile[k] = v
		}
	}

	return &entity.QuoteSummary{
		Price: &entity.PriceModule{
			RegularMarketPrice:      q.Close.NullDecimal,
			MarketCap:               st.ValuationsMetrics.MarketCapitalization.NullDecimal,
			AverageDailyVolume10Day: st.StockStatistics.Avg10Volume.NullDecimal,
		},
		SummaryDetail: &entity.SummaryDetailModule{
			AverageVolume: q.AverageVolume.NullDecimal,
		},
		KeyStatistics: &entity.KeyStatisticsModule{
			TrailingEps: st.Financials.IncomeStatement.DilutedEPSTTM.NullDecimal,
			TrailingPE:  st.ValuationsMetrics.TrailingPE.NullDecimal,
		},
		AssetProfile: profile,
	}
}
