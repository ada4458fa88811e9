package screen

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rdhawan/nifty-screener/internal/marketdata"
)

// Stage outputs are exchanged between passes as CSV files, one row per
// month-end: date (ISO), stocks (", "-joined ascending list, empty when
// none), count. A missing or structurally broken file is a hard error for
// the consuming stage; per-row oddities are not silently repaired.

// WriteCandidates persists a candidate set.
func WriteCandidates(path string, cs *CandidateSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "stocks", "count"}); err != nil {
		return err
	}
	for _, row := range cs.Rows() {
		record := []string{
			marketdata.DateKey(row.Date),
			strings.Join(row.Symbols, ", "),
			strconv.Itoa(row.Count()),
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

// ReadCandidates loads a persisted candidate set. The date and stocks
// columns are required; count is recomputed from the symbol list.
func ReadCandidates(path string) (*CandidateSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stage input %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse stage input %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("stage input %s is empty", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	dateIdx, ok := col["date"]
	if !ok {
		return nil, fmt.Errorf("stage input %s: missing date column", path)
	}
	stocksIdx, ok := col["stocks"]
	if !ok {
		return nil, fmt.Errorf("stage input %s: missing stocks column", path)
	}

	cs := NewCandidateSet()
	for line, record := range records[1:] {
		if dateIdx >= len(record) || stocksIdx >= len(record) {
			return nil, fmt.Errorf("stage input %s: short row %d", path, line+2)
		}

		date, err := marketdata.ParseDate(record[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("stage input %s row %d: %w", path, line+2, err)
		}

		cs.Append(date, splitSymbols(record[stocksIdx]))
	}
	return cs, nil
}

// splitSymbols parses a ", "-joined symbol list, tolerating stray spaces.
func splitSymbols(field string) []string {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if sym := strings.TrimSpace(p); sym != "" {
			out = append(out, sym)
		}
	}
	return out
}
