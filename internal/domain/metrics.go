package domain

import "github.com/shopspring/decimal"

// PerformanceMetrics is the aggregate result of a performance calculation.
// Pointer fields are absent when the quantity is not computable from the
// available data; absence is never encoded as zero.
type PerformanceMetrics struct {
	IRR *float64 `json:"irr,omitempty"`

	TVPI *decimal.Decimal `json:"tvpi,omitempty"`
	DPI  *decimal.Decimal `json:"dpi,omitempty"`
	RVPI *decimal.Decimal `json:"rvpi,omitempty"`

	TotalContributions decimal.Decimal  `json:"totalContributions"`
	TotalDistributions decimal.Decimal  `json:"totalDistributions"`
	CurrentNAV         *decimal.Decimal `json:"currentNav,omitempty"`
	TotalValue         *decimal.Decimal `json:"totalValue,omitempty"`

	TrailingYield       *float64         `json:"trailingYield,omitempty"`
	ForwardYield        *float64         `json:"forwardYield,omitempty"`
	YieldFrequency      string           `json:"yieldFrequency,omitempty"`
	TrailingYieldAmount *decimal.Decimal `json:"trailingYieldAmount,omitempty"`
	LatestYieldAmount   *decimal.Decimal `json:"latestYieldAmount,omitempty"`
}
