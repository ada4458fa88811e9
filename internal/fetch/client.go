package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rdhawan/nifty-screener/internal/marketdata"
	"github.com/rdhawan/nifty-screener/pkg/config"
	"github.com/rdhawan/nifty-screener/pkg/httputil"
	"github.com/rdhawan/nifty-screener/pkg/logger"
)

// Client fetches daily bars from the chart-data provider. All provider
// calls go through here, throttled by a shared rate limiter so a full
// universe fetch stays under the provider's request budget.
type Client struct {
	http    *httputil.Client
	baseURL string
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewClient creates a provider client from config.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	rps := cfg.Provider.RequestsPerSec
	if rps <= 0 {
		rps = 2.0
	}

	return &Client{
		http:    httputil.New(cfg, log),
		baseURL: cfg.Provider.BaseURL,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  log,
	}
}

// FetchBars fetches daily bars for one symbol over a date range.
func (c *Client) FetchBars(ctx context.Context, symbol string, from, to time.Time) ([]marketdata.Bar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	fullURL := fmt.Sprintf("%s?symbol=%s&startTime=%s&endTime=%s&timeframe=day",
		c.baseURL,
		url.QueryEscape(symbol),
		from.Format("20060102"),
		to.Format("20060102"),
	)

	resp, err := c.http.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status code %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", symbol, err)
	}

	bars, err := parseChartResponse(body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
	}).Debug("Fetched bars")

	return bars, nil
}

// parseChartResponse parses the provider's chart payload: a JSON array of
// rows, the first being a header, the rest [date, open, high, low, close,
// volume]. Rows that do not parse are skipped.
func parseChartResponse(body []byte) ([]marketdata.Bar, error) {
	text := strings.TrimSpace(string(body))
	text = strings.ReplaceAll(text, "'", "\"")

	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(text), &rawData); err != nil {
		return nil, fmt.Errorf("parse chart response: %w", err)
	}

	var bars []marketdata.Bar
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue // header or short row
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		dateStr = strings.Trim(dateStr, "\"")
		if len(dateStr) == 8 {
			dateStr = dateStr[:4] + "-" + dateStr[4:6] + "-" + dateStr[6:8]
		}
		tradeDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		bars = append(bars, marketdata.Bar{
			Date:   marketdata.Day(tradeDate),
			Open:   toFloat(row[1]),
			High:   toFloat(row[2]),
			Low:    toFloat(row[3]),
			Close:  toFloat(row[4]),
			Volume: int64(toFloat(row[5])),
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no data returned")
	}
	return bars, nil
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%f", &f); err == nil {
			return f
		}
	}
	return 0
}
