package models

import "time"

// RegimeState is the ranked-quadrant output of a scoring pass. It is
// recomputed fresh on every signal-generation call.
type RegimeState struct {
	PrimaryQuadrant    string             `json:"primaryQuadrant"`
	SecondaryQuadrant  string             `json:"secondaryQuadrant"`
	GrowthDirection    string             `json:"growthDirection"`
	InflationDirection string             `json:"inflationDirection"`
	Confidence         float64            `json:"confidence"`
	Timestamp          time.Time          `json:"timestamp"`
	QuadrantScores     map[string]float64 `json:"quadrantScores"`
}
