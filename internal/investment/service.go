package investment

import (
	"context"
	"fmt"
	"time"

	"github.com/altvest/perfstat/internal/analytics"
	"github.com/altvest/perfstat/internal/domain"
)

// AggregationMethod picks how portfolio figures are combined.
type AggregationMethod string

const (
	// AggregationWeighted averages per-investment IRRs by contribution
	// weight. Fast, and wrong whenever timelines overlap unevenly.
	AggregationWeighted AggregationMethod = "weighted"
	// AggregationTrue solves one IRR over the pooled cash flows.
	AggregationTrue AggregationMethod = "true"
)

// Service computes performance metrics from stored records.
type Service struct {
	repo Repository
}

// NewService creates a performance service. The repository is required.
func NewService(repo Repository) *Service {
	if repo == nil {
		panic("investment.NewService: repo is nil")
	}
	return &Service{repo: repo}
}

// Performance computes the metric set for one investment as of the
// given date.
func (s *Service) Performance(ctx context.Context, investmentID string, asOf time.Time) (domain.PerformanceMetrics, error) {
	if _, err := s.repo.Get(ctx, investmentID); err != nil {
		return domain.PerformanceMetrics{}, err
	}

	contribs, dists, err := s.loadSplitFlows(ctx, investmentID)
	if err != nil {
		return domain.PerformanceMetrics{}, err
	}
	valuations, err := s.repo.ListValuations(ctx, investmentID)
	if err != nil {
		return domain.PerformanceMetrics{}, err
	}

	return analytics.ComputePerformance(contribs, dists, valuations, asOf), nil
}

// PortfolioPerformance combines every investment's metrics with the
// requested aggregation method.
func (s *Service) PortfolioPerformance(ctx context.Context, asOf time.Time, method AggregationMethod) (domain.PerformanceMetrics, error) {
	investments, err := s.repo.List(ctx)
	if err != nil {
		return domain.PerformanceMetrics{}, err
	}

	var metrics []domain.PerformanceMetrics
	var pooled []domain.CashFlowEvent
	for _, inv := range investments {
		contribs, dists, err := s.loadSplitFlows(ctx, inv.ID)
		if err != nil {
			return domain.PerformanceMetrics{}, fmt.Errorf("loading flows for %s: %w", inv.ID, err)
		}
		valuations, err := s.repo.ListValuations(ctx, inv.ID)
		if err != nil {
			return domain.PerformanceMetrics{}, fmt.Errorf("loading valuations for %s: %w", inv.ID, err)
		}

		m := analytics.ComputePerformance(contribs, dists, valuations, asOf)
		metrics = append(metrics, m)

		if method == AggregationTrue {
			pooled = append(pooled, irrFlowSet(contribs, dists, m, asOf)...)
		}
	}

	if method == AggregationTrue {
		return analytics.TrueAggregate(pooled, metrics), nil
	}
	return analytics.Aggregate(metrics), nil
}

// loadSplitFlows partitions an investment's flows by the capability
// table. Excluded types participate in neither side.
func (s *Service) loadSplitFlows(ctx context.Context, investmentID string) (contribs, dists []domain.FlowRecord, err error) {
	flows, err := s.repo.ListFlows(ctx, investmentID)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range flows {
		switch domain.CapabilityFor(f.Type).Direction {
		case domain.DirectionOutflow:
			contribs = append(contribs, f)
		case domain.DirectionInflow:
			dists = append(dists, f)
		}
	}
	return contribs, dists, nil
}

// irrFlowSet rebuilds the IRR cash-flow set for pooling: past flows
// plus the NAV terminal inflow dated asOf, matching what the
// per-investment calculation used.
func irrFlowSet(contribs, dists []domain.FlowRecord, m domain.PerformanceMetrics, asOf time.Time) []domain.CashFlowEvent {
	var events []domain.CashFlowEvent
	for _, f := range append(append([]domain.FlowRecord{}, contribs...), dists...) {
		if !f.Date.After(asOf) {
			events = append(events, f.Event())
		}
	}
	if m.CurrentNAV != nil && m.CurrentNAV.IsPositive() {
		events = append(events, domain.CashFlowEvent{Date: asOf, Amount: *m.CurrentNAV})
	}
	return events
}
