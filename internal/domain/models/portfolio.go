package models

import "time"

// PortfolioPosition is one sized position in a dollar portfolio view.
type PortfolioPosition struct {
	Asset        string  `json:"asset"`
	Allocation   float64 `json:"allocation"`
	DollarAmount float64 `json:"dollarAmount"`
	Signal       string  `json:"signal"`
	Conviction   string  `json:"conviction"`
	Category     string  `json:"category"`
	Quadrant     string  `json:"quadrant"`
}

// PortfolioView sizes the current signal report against a dollar amount.
type PortfolioView struct {
	PortfolioSize       float64             `json:"portfolioSize"`
	TotalLeverage       float64             `json:"totalLeverage"`
	NumPositions        int                 `json:"numPositions"`
	Positions           []PortfolioPosition `json:"positions"`
	CategoryAllocations map[string]float64  `json:"categoryAllocations"`
	Regime              struct {
		PrimaryQuadrant   string `json:"primaryQuadrant"`
		SecondaryQuadrant string `json:"secondaryQuadrant"`
	} `json:"regime"`
	Timestamp time.Time `json:"timestamp"`
}
