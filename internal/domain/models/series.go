package models

import "time"

// PricePoint is one daily close observation.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries is an ordered sequence of daily closes, ascending by date,
// no duplicate dates, every close > 0. Built once at ingestion and never
// mutated; cache refreshes replace it wholesale.
type PriceSeries []PricePoint

// Last returns the most recent close, or 0 for an empty series.
func (s PriceSeries) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// Len reports the number of observations.
func (s PriceSeries) Len() int { return len(s) }
