package marketdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rdhawan/nifty-screener/pkg/logger"
)

// Bar CSVs use the provider's export shape: a datetime column plus OHLCV.
// Only datetime, close and volume are required; open/high/low pass through
// and default to zero when a file omits them.
const barHeader = "datetime,open,high,low,close,volume"

// dateLayouts accepted when parsing the datetime column. Provider exports
// sometimes carry a time-of-day component; it is discarded.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseBarDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ReadSeriesCSV loads one symbol's bar history from a CSV file.
func ReadSeriesCSV(path, symbol string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"datetime", "close", "volume"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%s: missing %s column", path, required)
		}
	}

	field := func(row []string, name string) float64 {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return 0
		}
		return v
	}

	bars := make([]Bar, 0, len(records)-1)
	for _, row := range records[1:] {
		date, err := parseBarDate(row[col["datetime"]])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		closeStr := strings.TrimSpace(row[col["close"]])
		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad close %q at %s", path, closeStr, DateKey(date))
		}

		volStr := strings.TrimSpace(row[col["volume"]])
		volume, err := strconv.ParseFloat(volStr, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad volume %q at %s", path, volStr, DateKey(date))
		}

		bars = append(bars, Bar{
			Date:   date,
			Open:   field(row, "open"),
			High:   field(row, "high"),
			Low:    field(row, "low"),
			Close:  closePrice,
			Volume: int64(volume),
		})
	}

	return NewSeries(symbol, bars)
}

// WriteSeriesCSV writes one symbol's bar history to a CSV file.
func WriteSeriesCSV(path string, s *Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(strings.Split(barHeader, ",")); err != nil {
		return err
	}
	for i := 0; i < s.Len(); i++ {
		b := s.Bar(i)
		row := []string{
			DateKey(b.Date),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatInt(b.Volume, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadDir loads every *.csv in a directory as one symbol series, keyed by
// file stem. Names in exclude are skipped (index and report files share the
// directory with stock data). A file that fails to parse is skipped with a
// warning; only an entirely unreadable or empty directory is an error.
func LoadDir(dir string, exclude []string, log *logger.Logger) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %s: %w", dir, err)
	}

	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ".csv")
		if excluded[stem] {
			continue
		}
		names = append(names, stem)
	}
	sort.Strings(names)

	store := NewStore()
	for _, stem := range names {
		s, err := ReadSeriesCSV(filepath.Join(dir, stem+".csv"), stem)
		if err != nil {
			log.WithFields(map[string]interface{}{
				"symbol": stem,
				"error":  err.Error(),
			}).Warn("Skipping unreadable series")
			continue
		}
		store.Add(s)
	}

	if store.Len() == 0 {
		return nil, fmt.Errorf("no readable series in %s", dir)
	}

	log.WithFields(map[string]interface{}{
		"dir":     dir,
		"symbols": store.Len(),
	}).Info("Loaded symbol histories")

	return store, nil
}
