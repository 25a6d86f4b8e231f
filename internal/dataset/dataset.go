// Package dataset loads and saves behavioral observation tables.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/fairprice/internal/parquet"
	"github.com/huangsam/fairprice/schema"
)

// VPSColumn is the optional derived column written for scored tables.
const VPSColumn = "vps"

// numericColumn binds a CSV header name to an Observation field.
type numericColumn struct {
	name  string
	field func(o *schema.Observation) *float64
}

var numericColumns = []numericColumn{
	{"price", func(o *schema.Observation) *float64 { return &o.Price }},
	{"discount_pct", func(o *schema.Observation) *float64 { return &o.DiscountPct }},
	{"effective_price", func(o *schema.Observation) *float64 { return &o.EffectivePrice }},
	{"competitor_price", func(o *schema.Observation) *float64 { return &o.CompetitorPrice }},
	{"interest_score", func(o *schema.Observation) *float64 { return &o.InterestScore }},
	{"hesitation_time", func(o *schema.Observation) *float64 { return &o.HesitationTime }},
	{"scroll_depth", func(o *schema.Observation) *float64 { return &o.ScrollDepth }},
	{"revisit_score", func(o *schema.Observation) *float64 { return &o.RevisitScore }},
	{"add_to_cart_rate", func(o *schema.Observation) *float64 { return &o.AddToCartRate }},
	{"discount_pref", func(o *schema.Observation) *float64 { return &o.DiscountPref }},
	{"quality_score", func(o *schema.Observation) *float64 { return &o.QualityScore }},
	{"brand_score", func(o *schema.Observation) *float64 { return &o.BrandScore }},
	{"perceived_value", func(o *schema.Observation) *float64 { return &o.PerceivedValue }},
	{"season_factor", func(o *schema.Observation) *float64 { return &o.SeasonFactor }},
	{"demand", func(o *schema.Observation) *float64 { return &o.Demand }},
	{"revenue", func(o *schema.Observation) *float64 { return &o.Revenue }},
}

// Columns is the fixed dataset header in canonical order.
var Columns = func() []string {
	cols := []string{"date", "product_id", "product_type"}
	for _, c := range numericColumns {
		cols = append(cols, c.name)
	}
	return cols
}()

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateObservation checks the identity fields of one row.
func ValidateObservation(o schema.Observation) error {
	if err := getValidator().Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s failed %s validation (value %v)", schema.ErrInvalidInput, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", schema.ErrInvalidInput, err)
	}
	return nil
}

// ValidateTable checks every row of a table.
func ValidateTable(table schema.Table) error {
	for i, o := range table {
		if err := ValidateObservation(o); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

// ReadCSV parses a dataset from CSV. Columns are looked up by header name.
func ReadCSV(r io.Reader) (schema.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", schema.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: %v", schema.ErrInvalidInput, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range Columns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", schema.ErrInvalidInput, name)
		}
	}
	vpsIdx, hasVPS := index[VPSColumn]

	var table schema.Table
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", schema.ErrInvalidInput, row, err)
		}

		o := schema.Observation{
			Date:        strings.TrimSpace(record[index["date"]]),
			ProductID:   strings.TrimSpace(record[index["product_id"]]),
			ProductType: schema.Category(strings.TrimSpace(record[index["product_type"]])),
		}
		for _, c := range numericColumns {
			v, err := parseNumber(record[index[c.name]])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %s: %v", schema.ErrInvalidInput, row, c.name, err)
			}
			*c.field(&o) = v
		}
		if hasVPS && strings.TrimSpace(record[vpsIdx]) != "" {
			v, err := parseNumber(record[vpsIdx])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %s: %v", schema.ErrInvalidInput, row, VPSColumn, err)
			}
			o.VPS = v
		}
		if err := ValidateObservation(o); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		table = append(table, o)
	}
	return table, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

// WriteCSV writes a dataset as CSV with the canonical header.
// The vps column is appended for scored tables.
func WriteCSV(w io.Writer, table schema.Table, scored bool) error {
	writer := csv.NewWriter(w)

	header := Columns
	if scored {
		header = append(append([]string{}, Columns...), VPSColumn)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range table {
		o := table[i]
		record := make([]string, 0, len(header))
		record = append(record, o.Date, o.ProductID, string(o.ProductType))
		for _, c := range numericColumns {
			record = append(record, formatNumber(*c.field(&o)))
		}
		if scored {
			record = append(record, formatNumber(o.VPS))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsParquet reports whether the path names a Parquet file.
func IsParquet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".parquet")
}

// Load reads a dataset from disk. The format follows the file extension.
func Load(path string) (schema.Table, error) {
	if IsParquet(path) {
		table, err := parquet.ReadObservationsParquet(path)
		if err != nil {
			return nil, err
		}
		if err := ValidateTable(table); err != nil {
			return nil, err
		}
		return table, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadCSV(file)
}

// Save writes a dataset to disk. The format follows the file extension.
func Save(path string, table schema.Table, scored bool) error {
	if IsParquet(path) {
		return parquet.WriteObservationsParquet(table, scored, path)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset: %w", err)
	}
	if err := WriteCSV(file, table, scored); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// FileLoader loads datasets from the local filesystem.
type FileLoader struct{}

// NewFileLoader returns a loader for CSV and Parquet files.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// LoadTable reads the dataset at path.
func (l *FileLoader) LoadTable(ctx context.Context, path string) (schema.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(path)
}
