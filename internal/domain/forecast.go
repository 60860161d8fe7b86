package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastSource identifies where a unified timeline entry came from.
type ForecastSource string

const (
	SourceActual      ForecastSource = "actual"
	SourceManual      ForecastSource = "manual"
	SourcePacingModel ForecastSource = "pacing_model"
)

// Confidence grades a unified timeline entry. Recorded history is fact,
// a manual future entry is stated intent, a model projection is a guess.
type Confidence string

const (
	ConfidenceActual Confidence = "actual"
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// InvestmentFlow is a cash-flow row joined with its investment, the shape
// the forecast sources return.
type InvestmentFlow struct {
	ID             string          `json:"id"`
	InvestmentID   string          `json:"investmentId"`
	InvestmentName string          `json:"investmentName"`
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Type           FlowType        `json:"type"`
}

// PacingForecastRecord is a precomputed model projection for one
// investment over one forecast period.
type PacingForecastRecord struct {
	InvestmentID           string          `json:"investmentId"`
	InvestmentName         string          `json:"investmentName"`
	PeriodStart            time.Time       `json:"forecastPeriodStart"`
	PeriodEnd              time.Time       `json:"forecastPeriodEnd"`
	ProjectedCalls         decimal.Decimal `json:"projectedCalls"`
	ProjectedDistributions decimal.Decimal `json:"projectedDistributions"`
	Scenario               string          `json:"scenario"`
}

// UnifiedCashFlow is one entry of the merged forecast timeline.
// Constructed transiently per request; never persisted.
type UnifiedCashFlow struct {
	ID             string          `json:"id"`
	Date           time.Time       `json:"date"`
	InvestmentID   string          `json:"investmentId"`
	InvestmentName string          `json:"investmentName"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Source         ForecastSource  `json:"source"`
	Confidence     Confidence      `json:"confidence"`
	IsForecast     bool            `json:"isForecast"`
}

// DailyCashFlowAggregate buckets one calendar day of the merged timeline.
type DailyCashFlowAggregate struct {
	Date         time.Time         `json:"date"`
	TotalInflow  decimal.Decimal   `json:"totalInflow"`
	TotalOutflow decimal.Decimal   `json:"totalOutflow"`
	NetAmount    decimal.Decimal   `json:"netAmount"`
	Transactions []UnifiedCashFlow `json:"transactions"`
}
