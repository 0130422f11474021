package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"market_sync/internal/feature/marketdata/adapters/yahoo/dto"
	"market_sync/internal/feature/marketdata/domain/entity"
	"market_sync/internal/feature/marketdata/usecase"
)

// Source is stored on every snapshot this provider produces.
const Source = "yahoo-finance"

const modules = "price,summaryDetail,defaultKeyStatistics,assetProfile"

var errEmptyCrumb = errors.New("yahoo: empty crumb")

// Client fetches quote summaries. It is safe for concurrent use; the crumb
// is fetched once and reused until Yahoo rejects it.
type Client struct {
	cfg    Config
	client *resty.Client
	log    *zap.SugaredLogger

	mu    sync.Mutex
	crumb string
}

// Clientがusecase.QuoteProviderを実装していることをコンパイル時に検証します。
var _ usecase.QuoteProvider = (*Client)(nil)

// NewClient wraps httpClient, which must carry a cookie jar for the
// cookie/crumb handshake.
func NewClient(cfg Config, httpClient *http.Client, log *zap.SugaredLogger) *Client {
	c := resty.NewWithClient(httpClient).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json,text/plain,*/*")
	return &Client{cfg: cfg, client: c, log: log}
}

func (c *Client) Source() string { return Source }

// QuoteSummary fetches the price, summaryDetail, defaultKeyStatistics and
// assetProfile modules for symbol.
func (c *Client) QuoteSummary(ctx context.Context, symbol string) (*entity.QuoteSummary, error) {
	crumb, err := c.ensureCrumb(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"modules": modules,
			"crumb":   crumb,
		}).
		Get(c.cfg.BaseURL + "/v10/finance/quoteSummary/" + url.PathEscape(symbol))
	if err != nil {
		return nil, err
	}

	if res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusForbidden {
		c.resetCrumb()
	}

	var body dto.QuoteSummaryResponse
	decodeErr := json.Unmarshal(res.Body(), &body)

	if res.StatusCode() >= 400 {
		if decodeErr == nil && body.QuoteSummary.Error != nil {
			return nil, fmt.Errorf("yahoo http %d: %s", res.StatusCode(), body.QuoteSummary.Error.Description)
		}
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode())
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("yahoo: decode quoteSummary: %w", decodeErr)
	}
	if e := body.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("yahoo: %s: %s", e.Code, e.Description)
	}
	if len(body.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no quoteSummary result for %s", symbol)
	}

	return toEntity(body.QuoteSummary.Result[0]), nil
}

// ensureCrumb holds mu across the cookie and crumb requests, so concurrent
// callers wait for a single handshake instead of each starting their own.
// A stalled handshake delays them by at most the HTTP client timeout.
func (c *Client) ensureCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" {
		return c.crumb, nil
	}

	// Cookie page answers 404 but still sets the session cookie
	if _, err := c.client.R().SetContext(ctx).Get(c.cfg.CookieURL); err != nil {
		c.log.Warnw("yahoo cookie request failed", "error", err)
	}

	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get(c.cfg.BaseURL + "/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("yahoo: fetch crumb: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("yahoo: fetch crumb: http %d", res.StatusCode())
	}
	crumb := strings.TrimSpace(res.String())
	if crumb == "" {
		return "", errEmptyCrumb
	}

	c.crumb = crumb
	return crumb, nil
}

func (c *Client) resetCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

func toEntity(r dto.QuoteSummaryResult) *entity.QuoteSummary {
	q := &entity.QuoteSummary{AssetProfile: r.AssetProfile}
	if p := r.Price; p != nil {
		q.Price = &entity.PriceModule{
			RegularMarketPrice:      p.RegularMarketPrice.Raw,
			MarketCap:               p.MarketCap.Raw,
			AverageDailyVolume10Day: p.AverageDailyVolume10Day.Raw,
		}
	}
	if d := r.SummaryDetail; d != nil {
		q.SummaryDetail = &entity.SummaryDetailModule{
			AverageVolume: d.AverageVolume.Raw,
			TrailingPE:    d.TrailingPE.Raw,
		}
	}
	if s := r.DefaultKeyStatistics; s != nil {
		q.KeyStatistics = &entity.KeyStatisticsModule{
			TrailingEps: s.TrailingEps.Raw,
			TrailingPE:  s.TrailingPE.Raw,
		}
	}
	return q
}
