package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prasetyo/sentra/internal/contracts"
)

// Logical fields and their ordered header candidates, first-match-wins.
// Alias resolution happens once per file, here, so the evaluator only
// ever sees normalized records.
var fieldAliases = map[string][]string{
	"date":               {"date"},
	"region":             {"region", "city"},
	"product":            {"product", "product_line"},
	"total_sales":        {"total_sales", "sales"},
	"target_daily":       {"target_daily"},
	"delta_vs_target":    {"delta_vs_target"},
	"delta_vs_yesterday": {"delta_vs_yesterday"},
	"avg_7d_sales":       {"avg_7d_sales"},
	"day_name":           {"day_name"},
	"is_weekend":         {"is_weekend"},
}

// Date layouts tried in order: ISO 8601 first, then locale fallbacks.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
}

// ParseError reports a malformed cell. Field-level absence is never an
// error (defaults apply); a non-empty cell that fails to parse is.
type ParseError struct {
	Row   int // 1-based data row number, excluding the header
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: invalid %s value %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads the daily sales CSV at path into an immutable snapshot.
// A missing file is returned as an error wrapping fs.ErrNotExist; callers
// that want soft-fail semantics substitute Empty().
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	snapshot, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return snapshot, nil
}

// Read parses CSV content from r into a snapshot.
func Read(r io.Reader) (*Snapshot, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := resolveColumns(header)

	var records []contracts.SalesRecord
	row := 0
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++

		rec, err := parseRecord(cols, fields, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return NewSnapshot(records), nil
}

// columns maps logical field names to resolved column indexes (-1 = absent).
type columns map[string]int

func resolveColumns(header []string) columns {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cols := make(columns, len(fieldAliases))
	for field, aliases := range fieldAliases {
		cols[field] = -1
		for _, alias := range aliases {
			if i, ok := index[alias]; ok {
				cols[field] = i
				break
			}
		}
	}
	return cols
}

func parseRecord(cols columns, fields []string, row int) (contracts.SalesRecord, error) {
	rec := contracts.SalesRecord{
		Region:  cell(cols, fields, "region", "Unknown"),
		Product: cell(cols, fields, "product", "Unknown"),
		DayName: cell(cols, fields, "day_name", ""),
	}

	var err error
	if rec.Date, err = parseDate(cols, fields, row); err != nil {
		return rec, err
	}
	if rec.TotalSales, err = parseFloat(cols, fields, "total_sales", 0, row); err != nil {
		return rec, err
	}
	if rec.TargetDaily, err = parseFloat(cols, fields, "target_daily", 0, row); err != nil {
		return rec, err
	}
	if rec.DeltaVsTarget, err = parseFloat(cols, fields, "delta_vs_target", 0, row); err != nil {
		return rec, err
	}
	if rec.DeltaVsYesterday, err = parseFloat(cols, fields, "delta_vs_yesterday", 0, row); err != nil {
		return rec, err
	}

	// Missing 7-day average means "assume normal": defaulting to the day's
	// sales makes the trend ratio exactly 1.0, which never violates R3.
	if rec.Avg7dSales, err = parseFloat(cols, fields, "avg_7d_sales", rec.TotalSales, row); err != nil {
		return rec, err
	}

	if rec.IsWeekend, err = parseBool(cols, fields, "is_weekend", row); err != nil {
		return rec, err
	}

	return rec, nil
}

// cell returns the raw cell for a logical field, or def when the column is
// absent or the cell is empty.
func cell(cols columns, fields []string, field, def string) string {
	i := cols[field]
	if i < 0 || i >= len(fields) {
		return def
	}
	v := strings.TrimSpace(fields[i])
	if v == "" {
		return def
	}
	return v
}

func parseDate(cols columns, fields []string, row int) (time.Time, error) {
	raw := cell(cols, fields, "date", "")
	if raw == "" {
		return time.Time{}, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ParseError{Row: row, Field: "date", Value: raw,
		Err: fmt.Errorf("unrecognized date format")}
}

func parseFloat(cols columns, fields []string, field string, def float64, row int) (float64, error) {
	raw := cell(cols, fields, field, "")
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{Row: row, Field: field, Value: raw, Err: err}
	}
	return v, nil
}

func parseBool(cols columns, fields []string, field string, row int) (bool, error) {
	raw := cell(cols, fields, field, "")
	if raw == "" {
		return false, nil
	}

	switch strings.ToLower(raw) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ParseError{Row: row, Field: field, Value: raw, Err: err}
	}
	return v, nil
}
