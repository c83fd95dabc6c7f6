// Package convert turns a raw retail transactions CSV into the
// normalized daily sales dataset the agent consumes. It aggregates
// transactions per day/region/product and derives the target, trend and
// delta columns the rule engine evaluates.
package convert

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prasetyo/sentra/pkg/logger"
)

// Options controls the conversion.
type Options struct {
	// Regions are assigned to transactions that carry no region of their
	// own. Assignment is seeded so repeated runs produce the same file.
	Regions []string
	Seed    int64

	// TargetMultiplier sets target_daily as a multiple of the expanding
	// historical mean.
	TargetMultiplier float64

	// TrendWindow is the rolling window (days) for avg_7d_sales.
	TrendWindow int

	// KeepDays limits the output to the most recent N days.
	KeepDays int
}

// DefaultOptions returns the standard conversion settings.
func DefaultOptions() Options {
	return Options{
		Regions:          []string{"Jakarta", "Bandung", "Surabaya"},
		Seed:             42,
		TargetMultiplier: 1.15,
		TrendWindow:      7,
		KeepDays:         30,
	}
}

// Converter converts raw retail data to the daily sales format.
type Converter struct {
	opts   Options
	logger *logger.Logger
}

// New creates a new converter.
func New(opts Options, log *logger.Logger) *Converter {
	return &Converter{opts: opts, logger: log}
}

// ConvertFile converts inPath and writes the dataset to outPath,
// returning the number of output rows.
func (c *Converter) ConvertFile(inPath, outPath string) (int, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	rows, err := c.Convert(in, out)
	if err != nil {
		return 0, fmt.Errorf("convert %s: %w", inPath, err)
	}
	return rows, nil
}

// transaction is one raw input row.
type transaction struct {
	date     time.Time
	region   string
	product  string
	quantity int
	amount   float64
}

// daily is one aggregated region/product/day row.
type daily struct {
	date             time.Time
	region           string
	product          string
	totalSales       float64
	quantity         int
	transactionCount int

	// Derived columns
	dayName          string
	isWeekend        bool
	targetDaily      float64
	salesYesterday   float64
	avg7dSales       float64
	deltaVsYesterday float64
	deltaVsTarget    float64
}

// Convert reads raw transactions from r and writes the normalized daily
// sales CSV to w.
func (c *Converter) Convert(r io.Reader, w io.Writer) (int, error) {
	transactions, err := c.readTransactions(r)
	if err != nil {
		return 0, err
	}

	rows := c.aggregate(transactions)
	c.derive(rows)
	rows = c.cutoff(rows)

	if err := c.write(w, rows); err != nil {
		return 0, err
	}

	if c.logger != nil {
		c.logger.WithField("rows", len(rows)).Info("Converted retail dataset")
	}
	return len(rows), nil
}

var rawDateLayouts = []string{"1/2/2006", "01/02/2006", "2006-01-02"}

func (c *Converter) readTransactions(r io.Reader) ([]transaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	col := func(names ...string) int {
		for _, name := range names {
			if i, ok := index[name]; ok {
				return i
			}
		}
		return -1
	}

	dateCol := col("date")
	productCol := col("product category", "product")
	quantityCol := col("quantity")
	amountCol := col("total amount", "total_sales", "amount")
	regionCol := col("region", "city")

	if dateCol < 0 || productCol < 0 || amountCol < 0 {
		return nil, fmt.Errorf("input is missing required columns (date, product category, total amount)")
	}

	rng := rand.New(rand.NewSource(c.opts.Seed))

	var transactions []transaction
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

		tx := transaction{product: strings.TrimSpace(fields[productCol])}

		raw := strings.TrimSpace(fields[dateCol])
		for _, layout := range rawDateLayouts {
			if t, perr := time.Parse(layout, raw); perr == nil {
				tx.date = t
				break
			}
		}
		if tx.date.IsZero() {
			return nil, fmt.Errorf("row %d: unrecognized date %q", row, raw)
		}

		if tx.amount, err = strconv.ParseFloat(strings.TrimSpace(fields[amountCol]), 64); err != nil {
			return nil, fmt.Errorf("row %d: invalid amount %q", row, fields[amountCol])
		}
		if quantityCol >= 0 {
			tx.quantity, _ = strconv.Atoi(strings.TrimSpace(fields[quantityCol]))
		}

		if regionCol >= 0 && strings.TrimSpace(fields[regionCol]) != "" {
			tx.region = strings.TrimSpace(fields[regionCol])
		} else {
			tx.region = c.opts.Regions[rng.Intn(len(c.opts.Regions))]
		}

		transactions = append(transactions, tx)
	}

	return transactions, nil
}

// aggregate groups transactions per date/region/product and orders the
// result by region, product, date so derived series line up.
func (c *Converter) aggregate(transactions []transaction) []*daily {
	type key struct {
		date    time.Time
		region  string
		product string
	}

	groups := make(map[key]*daily)
	for _, tx := range transactions {
		k := key{date: tx.date, region: tx.region, product: tx.product}
		d, ok := groups[k]
		if !ok {
			d = &daily{
				date:      tx.date,
				region:    tx.region,
				product:   tx.product,
				dayName:   tx.date.Weekday().String(),
				isWeekend: tx.date.Weekday() == time.Saturday || tx.date.Weekday() == time.Sunday,
			}
			groups[k] = d
		}
		d.totalSales += tx.amount
		d.quantity += tx.quantity
		d.transactionCount++
	}

	rows := make([]*daily, 0, len(groups))
	for _, d := range groups {
		rows = append(rows, d)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].region != rows[j].region {
			return rows[i].region < rows[j].region
		}
		if rows[i].product != rows[j].product {
			return rows[i].product < rows[j].product
		}
		return rows[i].date.Before(rows[j].date)
	})

	return rows
}

// derive fills the target, trend and delta columns per region/product
// series. Each series is already date-ordered after aggregate.
func (c *Converter) derive(rows []*daily) {
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || rows[i].region != rows[start].region || rows[i].product != rows[start].product {
			c.deriveSeries(rows[start:i])
			start = i
		}
	}
}

func (c *Converter) deriveSeries(series []*daily) {
	// Overall mean backs the first row, which has no history yet
	var total float64
	for _, d := range series {
		total += d.totalSales
	}
	overallMean := total / float64(len(series))

	var runningSum float64
	for i, d := range series {
		if i == 0 {
			d.targetDaily = overallMean * c.opts.TargetMultiplier
			d.salesYesterday = d.totalSales
			d.avg7dSales = d.totalSales
		} else {
			// Expanding mean of all prior days
			d.targetDaily = runningSum / float64(i) * c.opts.TargetMultiplier
			d.salesYesterday = series[i-1].totalSales

			// Rolling window mean, shifted one day back
			window := i
			if window > c.opts.TrendWindow {
				window = c.opts.TrendWindow
			}
			var windowSum float64
			for j := i - window; j < i; j++ {
				windowSum += series[j].totalSales
			}
			d.avg7dSales = windowSum / float64(window)
		}
		runningSum += d.totalSales

		if i > 0 && d.salesYesterday != 0 {
			d.deltaVsYesterday = (d.totalSales - d.salesYesterday) / d.salesYesterday * 100
		}
		// First rows carry a real target delta too; only the yesterday
		// delta has no meaning without a prior day.
		if d.targetDaily != 0 {
			d.deltaVsTarget = (d.totalSales - d.targetDaily) / d.targetDaily * 100
		}
	}
}

// cutoff keeps only the most recent KeepDays of data.
func (c *Converter) cutoff(rows []*daily) []*daily {
	if len(rows) == 0 || c.opts.KeepDays <= 0 {
		return rows
	}

	var latest time.Time
	for _, d := range rows {
		if d.date.After(latest) {
			latest = d.date
		}
	}
	from := latest.AddDate(0, 0, -c.opts.KeepDays)

	kept := make([]*daily, 0, len(rows))
	for _, d := range rows {
		if !d.date.Before(from) {
			kept = append(kept, d)
		}
	}
	return kept
}

var outputHeader = []string{
	"date", "region", "product", "total_sales", "target_daily",
	"sales_yesterday", "avg_7d_sales", "delta_vs_yesterday", "delta_vs_target",
	"day_name", "is_weekend", "quantity", "transaction_count",
}

func (c *Converter) write(w io.Writer, rows []*daily) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(outputHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, d := range rows {
		record := []string{
			d.date.Format("2006-01-02"),
			d.region,
			d.product,
			money(d.totalSales),
			money(d.targetDaily),
			money(d.salesYesterday),
			money(d.avg7dSales),
			pct(d.deltaVsYesterday),
			pct(d.deltaVsTarget),
			d.dayName,
			strconv.FormatBool(d.isWeekend),
			strconv.Itoa(d.quantity),
			strconv.Itoa(d.transactionCount),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// money rounds a currency amount to a whole number.
func money(v float64) string {
	return decimal.NewFromFloat(v).Round(0).String()
}

// pct rounds a percentage to one decimal place.
func pct(v float64) string {
	return decimal.NewFromFloat(v).Round(1).String()
}
