package models

// Requests for chart HTTP endpoints. Defined in domain for consistency and reuse.

type ChartRequest struct {
	Window  string  `query:"window" json:"window" default:"7d" validate:"oneof=1d 7d all"`
	Epsilon float64 `query:"epsilon" json:"epsilon" default:"0.5" validate:"gte=0,lte=25"`
}
