package models

// Requests for the signals HTTP endpoints. Defined in domain for consistency and reuse.

type PortfolioRequest struct {
	Size float64 `query:"size" json:"size" default:"10000" validate:"gt=0,lte=1000000000"`
}

type HistoryRequest struct {
	From  string `query:"from" json:"from"`
	To    string `query:"to" json:"to"`
	Limit int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=500"`
}
