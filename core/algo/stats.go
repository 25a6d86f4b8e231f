package algo

import (
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/fairprice/schema"
	"github.com/shopspring/decimal"
)

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: mean of no values", schema.ErrUndefinedStatistic)
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// Median returns the 50th percentile of values.
func Median(values []float64) (float64, error) {
	return Quantile(values, 0.5)
}

// Quantile returns the q-th quantile of values using linear interpolation
// between the closest ranks, at position q*(n-1) of the sorted values.
// The input slice is not modified.
func Quantile(values []float64, q float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: quantile of no values", schema.ErrUndefinedStatistic)
	}
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, fmt.Errorf("%w: quantile %v outside [0,1]", schema.ErrConfiguration, q)
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, nil
}

// exactExponent is below every binary exponent of a float64, so decimal
// expands the stored value exactly instead of its shortest decimal form.
const exactExponent = -1074

// Round rounds the exact binary value of v to the given number of decimals,
// ties to even. 2.675 is stored just below the tie and rounds to 2.67.
func Round(v float64, decimals int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloatWithExponent(v, exactExponent).RoundBank(decimals).InexactFloat64()
}

// RoundInt rounds v to the nearest integer, ties to even.
func RoundInt(v float64) int {
	return int(math.RoundToEven(v))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// requireFinite checks that every value is a usable number.
func requireFinite(field string, values ...float64) error {
	for i, v := range values {
		if !finite(v) {
			return fmt.Errorf("%w: %s at row %d is %v", schema.ErrInvalidInput, field, i, v)
		}
	}
	return nil
}
