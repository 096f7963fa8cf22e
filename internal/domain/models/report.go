package models

import "time"

// Signal direction labels.
const (
	SignalBullish = "BULLISH"
	SignalNeutral = "NEUTRAL"
)

// Conviction tiers derived from allocation size.
const (
	ConvictionHigh   = "high"
	ConvictionMedium = "medium"
	ConvictionLow    = "low"
)

// Position is one instrument's final target allocation. Never mutated
// after construction; zero-weight instruments are never emitted.
type Position struct {
	Asset            string  `json:"asset"`
	Signal           string  `json:"signal"`
	TargetAllocation float64 `json:"targetAllocation"`
	Conviction       string  `json:"conviction"`
	Category         string  `json:"category"`
	Quadrant         string  `json:"quadrant"`
}

// ExcludedAsset records an instrument dropped by the EMA trend filter,
// with the weight it would have received. Informational only.
type ExcludedAsset struct {
	Price         float64 `json:"price"`
	EMA           float64 `json:"ema"`
	WouldBeWeight float64 `json:"wouldBeWeight"`
}

// SignalReport is the immutable pipeline output consumed by the API/UI
// layer: regime classification plus the ranked position list.
type SignalReport struct {
	Regime           RegimeState              `json:"regime"`
	Positions        []Position               `json:"positions"`
	TotalLeverage    float64                  `json:"totalLeverage"`
	ExcludedBelowEMA map[string]ExcludedAsset `json:"excludedBelowEma"`
	GeneratedAt      time.Time                `json:"generatedAt"`
}
