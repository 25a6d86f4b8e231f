package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ contract.TableLoader = &FileLoader{}

const sampleCSV = `date,product_id,product_type,price,discount_pct,effective_price,competitor_price,interest_score,hesitation_time,scroll_depth,revisit_score,add_to_cart_rate,discount_pref,quality_score,brand_score,perceived_value,season_factor,demand,revenue
2023-01-31,P1,Standard,52.1,4.5,49.76,51.2,0.61,11.4,0.44,0.13,0.0812,0.19,0.62,0.48,0.589,1,1950,97032
2023-02-28,P2,Premium,91,0,91,88,0.7,7,0.6,0.08,0.04,0.1,0.85,0.7,0.775,1,1180,107380
`

func sampleTable() schema.Table {
	return schema.Table{
		{
			Date: "2023-01-31", ProductID: "P1", ProductType: schema.StandardCategory,
			Price: 52.1, DiscountPct: 4.5, EffectivePrice: 49.76, CompetitorPrice: 51.2,
			InterestScore: 0.61, HesitationTime: 11.4, ScrollDepth: 0.44, RevisitScore: 0.13,
			AddToCartRate: 0.0812, DiscountPref: 0.19, QualityScore: 0.62, BrandScore: 0.48,
			PerceivedValue: 0.589, SeasonFactor: 1, Demand: 1950, Revenue: 97032,
		},
		{
			Date: "2023-02-28", ProductID: "P2", ProductType: schema.PremiumCategory,
			Price: 91, EffectivePrice: 91, CompetitorPrice: 88, InterestScore: 0.7,
			HesitationTime: 7, ScrollDepth: 0.6, RevisitScore: 0.08, AddToCartRate: 0.04,
			DiscountPref: 0.1, QualityScore: 0.85, BrandScore: 0.7, PerceivedValue: 0.775,
			SeasonFactor: 1, Demand: 1180, Revenue: 107380,
		},
	}
}

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), table)
}

func TestReadCSV_ColumnOrderIsFree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable(), false))

	// Move the first column to the end of every line.
	var reordered []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		first, rest, _ := strings.Cut(line, ",")
		reordered = append(reordered, rest+","+first)
	}

	table, err := ReadCSV(strings.NewReader(strings.Join(reordered, "\n")))
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), table)
}

func TestReadCSV_Errors(t *testing.T) {
	header := strings.Join(Columns, ",")
	row := func(replace map[int]string) string {
		fields := strings.Split(strings.Split(sampleCSV, "\n")[1], ",")
		for i, v := range replace {
			fields[i] = v
		}
		return strings.Join(fields, ",")
	}

	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"empty input", "", "missing header"},
		{"missing column", strings.Replace(header, ",revenue", "", 1) + "\n", `missing required column "revenue"`},
		{"unparsable number", header + "\n" + row(map[int]string{3: "abc"}), "row 1 column price"},
		{"empty numeric cell", header + "\n" + row(map[int]string{18: ""}), "row 1 column revenue"},
		{"bad product type", header + "\n" + row(map[int]string{2: "Luxury"}), "ProductType"},
		{"bad date", header + "\n" + row(map[int]string{0: "31/01/2023"}), "Date"},
		{"missing product id", header + "\n" + row(map[int]string{1: ""}), "ProductID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestWriteCSV_Scored(t *testing.T) {
	table := sampleTable()
	table[0].VPS = 0.5125
	table[1].VPS = 0.7

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table, true))
	firstLine, _, _ := strings.Cut(buf.String(), "\n")
	assert.True(t, strings.HasSuffix(firstLine, ",vps"))

	loaded, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, table, loaded)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"data.csv", "data.parquet"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, sampleTable(), false))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, sampleTable(), loaded)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	loader := NewFileLoader()
	table, err := loader.LoadTable(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, table, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = loader.LoadTable(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsParquet(t *testing.T) {
	assert.True(t, IsParquet("out/data.parquet"))
	assert.True(t, IsParquet("DATA.PARQUET"))
	assert.False(t, IsParquet("data.csv"))
	assert.False(t, IsParquet("data"))
}
