package rank

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rdhawan/nifty-screener/internal/marketdata"
)

// WriteRows persists the ranked watchlist: one row per month-end with the
// stocks column formatted "SYMBOL (ratio)" in rank order, ratio to two
// decimals, empty string when the date produced nothing.
func WriteRows(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "stocks"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			marketdata.DateKey(row.Date),
			formatEntries(row.Entries),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func formatEntries(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s (%.2f)", e.Symbol, e.Ratio)
	}
	return strings.Join(parts, ", ")
}
