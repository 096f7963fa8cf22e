package models

import "errors"

// ErrNoMarketData is the only pipeline-level failure: a refresh yielded
// nothing and no prior cache snapshot exists. Every other failure mode is
// absorbed into a degraded-but-valid report.
var ErrNoMarketData = errors.New("market data unavailable")
