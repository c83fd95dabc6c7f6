package convert

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawSample = `Date,Product Category,Quantity,Total Amount,Region
2026-08-01,Beverages,2,1000,Jakarta
2026-08-01,Beverages,3,500,Jakarta
2026-08-02,Beverages,1,1200,Jakarta
2026-08-03,Beverages,4,900,Jakarta
`

func convertString(t *testing.T, input string, opts Options) [][]string {
	t.Helper()

	var out bytes.Buffer
	c := New(opts, nil)
	_, err := c.Convert(strings.NewReader(input), &out)
	require.NoError(t, err)

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	return records
}

func TestConvertAggregatesPerDay(t *testing.T) {
	records := convertString(t, rawSample, DefaultOptions())

	require.Len(t, records, 4) // header + 3 days
	assert.Equal(t, outputHeader, records[0])

	// Two August 1 transactions collapse into one row
	first := records[1]
	assert.Equal(t, "2026-08-01", first[0])
	assert.Equal(t, "Jakarta", first[1])
	assert.Equal(t, "Beverages", first[2])
	assert.Equal(t, "1500", first[3])
	assert.Equal(t, "5", first[11])
	assert.Equal(t, "2", first[12])
}

func TestConvertDerivedColumns(t *testing.T) {
	records := convertString(t, rawSample, DefaultOptions())

	// First row of a series backs onto the overall mean: the target delta
	// is real, only the yesterday delta defaults to 0
	first := records[1]
	assert.Equal(t, "1380", first[4]) // overall mean 1200 * 1.15
	assert.Equal(t, "1500", first[5]) // sales_yesterday
	assert.Equal(t, "1500", first[6]) // avg_7d_sales
	assert.Equal(t, "0", first[7])
	assert.Equal(t, "8.7", first[8]) // (1500-1380)/1380

	// Second day: yesterday is day one, target is expanding mean * 1.15
	second := records[2]
	assert.Equal(t, "1500", second[5])
	assert.Equal(t, "1725", second[4]) // 1500 * 1.15
	assert.Equal(t, "-20", second[7])  // (1200-1500)/1500
	assert.Equal(t, "Sunday", second[9])
	assert.Equal(t, "true", second[10])

	// Third day: expanding mean of days one and two, rounded to whole currency
	third := records[3]
	assert.Equal(t, "1350", third[6]) // (1500+1200)/2
	assert.Equal(t, "1553", third[4]) // 1350 * 1.15 = 1552.5
}

func TestConvertAssignsRegionsDeterministically(t *testing.T) {
	input := `Date,Product Category,Quantity,Total Amount
2026-08-01,Beverages,1,100
2026-08-01,Snacks,1,200
2026-08-02,Beverages,1,300
`
	one := convertString(t, input, DefaultOptions())
	two := convertString(t, input, DefaultOptions())
	assert.Equal(t, one, two)

	regions := DefaultOptions().Regions
	for _, rec := range one[1:] {
		assert.Contains(t, regions, rec[1])
	}
}

func TestConvertCutoffKeepsRecentDays(t *testing.T) {
	input := `Date,Product Category,Quantity,Total Amount,Region
2026-01-01,Beverages,1,100,Jakarta
2026-08-01,Beverages,1,200,Jakarta
2026-08-10,Beverages,1,300,Jakarta
`
	opts := DefaultOptions()
	opts.KeepDays = 30
	records := convertString(t, input, opts)

	require.Len(t, records, 3) // header + 2 recent rows
	assert.Equal(t, "2026-08-01", records[1][0])
	assert.Equal(t, "2026-08-10", records[2][0])
}

func TestConvertMissingColumns(t *testing.T) {
	var out bytes.Buffer
	c := New(DefaultOptions(), nil)
	_, err := c.Convert(strings.NewReader("Date,Quantity\n2026-08-01,1\n"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestConvertInvalidDate(t *testing.T) {
	var out bytes.Buffer
	c := New(DefaultOptions(), nil)
	input := "Date,Product Category,Quantity,Total Amount\nnot-a-date,Beverages,1,100\n"
	_, err := c.Convert(strings.NewReader(input), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized date")
}
