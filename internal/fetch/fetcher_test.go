package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdhawan/nifty-screener/internal/marketdata"
	"github.com/rdhawan/nifty-screener/internal/strategy"
	"github.com/rdhawan/nifty-screener/pkg/config"
	"github.com/rdhawan/nifty-screener/pkg/logger"
)

func TestFetcherRun(t *testing.T) {
	payloads := map[string]string{
		// The first benchmark alias answers empty, the second has data.
		"NIFTY 500": `[]`,
		"NIFTY500": `[['date','open','high','low','close','volume'],
['20240102',1000,1010,990,1005,0],
['20240103',1005,1020,1000,1015,0]]`,
		"RELIANCE": `[['date','open','high','low','close','volume'],
['20240102',100,105,99,104,600000],
['20240103',104,110,103,108,550000]]`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := payloads[r.URL.Query().Get("symbol")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	cfg := &config.Config{
		LogLevel:  "error",
		LogFormat: "json",
		Provider: config.ProviderConfig{
			BaseURL:        srv.URL,
			Timeout:        5 * time.Second,
			RequestsPerSec: 100,
		},
	}
	log := logger.New(cfg)

	strat := strategy.Default()
	strat.Universe.Symbols = []string{"RELIANCE", "DELISTED"}
	strat.Universe.BenchmarkAliases = []string{"NIFTY 500", "NIFTY500"}

	dataDir := t.TempDir()
	fetcher := NewFetcher(NewClient(cfg, log), strat, dataDir, log)

	summary, err := fetcher.Run(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, []string{"RELIANCE"}, summary.Fetched)
	assert.Equal(t, []string{"DELISTED"}, summary.Failed)
	assert.Equal(t, "NIFTY500", summary.BenchmarkAlias)

	// The benchmark lands under its canonical name, not the alias.
	bench, err := marketdata.ReadSeriesCSV(filepath.Join(dataDir, "NIFTY500_INDEX.csv"), "NIFTY500_INDEX")
	require.NoError(t, err)
	assert.Equal(t, 2, bench.Len())

	stock, err := marketdata.ReadSeriesCSV(filepath.Join(dataDir, "RELIANCE.csv"), "RELIANCE")
	require.NoError(t, err)
	assert.Equal(t, 2, stock.Len())
	assert.Equal(t, 108.0, stock.Bar(1).Close)

	report, err := os.ReadFile(filepath.Join(dataDir, "summary_report.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "Symbol,Total_Bars,Start_Date,End_Date,First_Close,Last_Close,Change_%")
	assert.Contains(t, string(report), "RELIANCE,2,2024-01-02,2024-01-03,104,108,3.85")
}

func TestFetcherRunNothingFetched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := &config.Config{
		LogLevel:  "error",
		LogFormat: "json",
		Provider: config.ProviderConfig{
			BaseURL:        srv.URL,
			Timeout:        5 * time.Second,
			RequestsPerSec: 100,
		},
	}
	log := logger.New(cfg)

	strat := strategy.Default()
	strat.Universe.Symbols = []string{"GHOST"}

	fetcher := NewFetcher(NewClient(cfg, log), strat, t.TempDir(), log)

	_, err := fetcher.Run(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing fetched")
}
