package insights

import (
	"math"

	"github.com/shopspring/decimal"
)

// floatToDecimal converts an aggregated daily total back to money, rounded to
// cents.
func floatToDecimal(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// zScores returns the standard score of each point against the series mean.
// A flat series has no spread, so every score is zero.
func zScores(series []float64) []float64 {
	out := make([]float64, len(series))
	if len(series) < 2 {
		return out
	}

	var sum float64
	for _, v := range series {
		sum += v
	}
	mean := sum / float64(len(series))

	var sq float64
	for _, v := range series {
		d := v - mean
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(len(series)))
	if stddev == 0 {
		return out
	}

	for i, v := range series {
		out[i] = (v - mean) / stddev
	}
	return out
}
