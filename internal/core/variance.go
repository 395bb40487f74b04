package core

import "github.com/shopspring/decimal"

// VariancePct computes the percentage variance of actual against objective:
// (actual - objective) / objective * 100. Positive means growth over the
// objective, negative a shortfall. When the objective is zero or negative
// the variance is defined as 0, never an arithmetic fault or ±Inf/NaN.
func VariancePct(objective, actual decimal.Decimal) float64 {
	if objective.Sign() <= 0 {
		return 0
	}
	v, _ := actual.Sub(objective).Div(objective).Mul(decimal.NewFromInt(100)).Float64()
	return v
}
