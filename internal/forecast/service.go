// Package forecast merges three cash-flow sources — recorded history,
// manually entered future flows, and pacing-model projections — into a
// single date-sorted timeline with source and confidence tags, plus a
// per-day aggregated view of the same range.
package forecast

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/altvest/perfstat/internal/domain"
)

// ActualFlowSource lists recorded flows dated on or before asOf within
// the range.
type ActualFlowSource interface {
	ListActualFlows(ctx context.Context, start, end, asOf time.Time) ([]domain.InvestmentFlow, error)
}

// ManualFlowSource lists user-entered flows dated strictly after asOf
// within the range.
type ManualFlowSource interface {
	ListManualFutureFlows(ctx context.Context, start, end, asOf time.Time) ([]domain.InvestmentFlow, error)
}

// PacingSource lists model projections for a scenario.
type PacingSource interface {
	ListPacingForecasts(ctx context.Context, scenario string) ([]domain.PacingForecastRecord, error)
}

// Query bounds one unified-forecast request.
type Query struct {
	Start         time.Time
	End           time.Time
	AsOf          time.Time // boundary between history and future
	IncludeManual bool
	IncludePacing bool
	Scenario      string
}

// Service merges the three sources. The sources are collaborators; all
// merge, spread, and aggregation logic lives here and is pure over
// their results.
type Service struct {
	actual ActualFlowSource
	manual ManualFlowSource
	pacing PacingSource
}

// NewService creates a forecast Service. All sources are required.
func NewService(actual ActualFlowSource, manual ManualFlowSource, pacing PacingSource) *Service {
	if actual == nil {
		panic("forecast.NewService: actual source is nil")
	}
	if manual == nil {
		panic("forecast.NewService: manual source is nil")
	}
	if pacing == nil {
		panic("forecast.NewService: pacing source is nil")
	}
	return &Service{actual: actual, manual: manual, pacing: pacing}
}

// Unified returns the merged timeline for the query, sorted by
// (date, investment name). Recorded history is always present; the
// manual and pacing layers join per the query toggles.
func (s *Service) Unified(ctx context.Context, q Query) ([]domain.UnifiedCashFlow, error) {
	actual, err := s.actual.ListActualFlows(ctx, q.Start, q.End, q.AsOf)
	if err != nil {
		return nil, fmt.Errorf("listing actual flows: %w", err)
	}

	merged := tagActual(actual)

	if q.IncludeManual {
		manual, err := s.manual.ListManualFutureFlows(ctx, q.Start, q.End, q.AsOf)
		if err != nil {
			return nil, fmt.Errorf("listing manual future flows: %w", err)
		}
		merged = append(merged, tagManual(manual)...)
	}

	if q.IncludePacing {
		forecasts, err := s.pacing.ListPacingForecasts(ctx, q.Scenario)
		if err != nil {
			return nil, fmt.Errorf("listing pacing forecasts: %w", err)
		}
		merged = append(merged, spreadPacing(forecasts, q)...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.Before(merged[j].Date)
		}
		return merged[i].InvestmentName < merged[j].InvestmentName
	})

	return merged, nil
}

// DailyAggregates buckets the merged timeline by calendar day over the
// whole [start, end] range, zero-activity days included.
func (s *Service) DailyAggregates(ctx context.Context, q Query) ([]domain.DailyCashFlowAggregate, error) {
	merged, err := s.Unified(ctx, q)
	if err != nil {
		return nil, err
	}
	return bucketByDay(merged, q.Start, q.End), nil
}
