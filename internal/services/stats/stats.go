package stats

import (
	"math"

	"QuadSig/internal/domain/models"
)

// TradingDaysPerYear is the annualization base for daily-return volatility.
const TradingDaysPerYear = 252

// Momentum computes the trailing percent price change over `days`:
// (close[-1] - close[-1-days]) / close[-1-days] * 100.
// Returns 0 when fewer than days+1 points exist or the base close is 0.
func Momentum(s models.PriceSeries, days int) float64 {
	if days <= 0 || len(s) < days+1 {
		return 0
	}
	cur := s[len(s)-1].Close
	past := s[len(s)-1-days].Close
	if past == 0 {
		return 0
	}
	return (cur - past) / past * 100
}

// AnnualizedVolatility computes the standard deviation of simple daily
// returns over the trailing days+1 points, scaled by sqrt(252).
// Returns 0 on insufficient history: short-history instruments are
// excluded downstream rather than given a placeholder volatility.
func AnnualizedVolatility(s models.PriceSeries, days int) float64 {
	if days <= 1 || len(s) < days+1 {
		return 0
	}
	recent := s[len(s)-days-1:]
	returns := make([]float64, 0, days)
	for i := 1; i < len(recent); i++ {
		prev := recent[i-1].Close
		if prev == 0 {
			return 0
		}
		returns = append(returns, (recent[i].Close-prev)/prev)
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance) * math.Sqrt(TradingDaysPerYear)
}

// EMA computes the classic exponential moving average over the whole
// series, seeded with the first close:
// ema = (price - ema) * (2/(period+1)) + ema.
// Returns 0 as the "undefined" sentinel when fewer than period points exist.
func EMA(s models.PriceSeries, period int) float64 {
	if period <= 0 || len(s) < period {
		return 0
	}
	multiplier := 2.0 / float64(period+1)
	ema := s[0].Close
	for i := 1; i < len(s); i++ {
		ema = (s[i].Close-ema)*multiplier + ema
	}
	return ema
}
