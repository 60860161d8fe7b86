// Package export assembles performance reports and writes them to
// spreadsheet destinations.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/altvest/perfstat/internal/domain"
	"github.com/altvest/perfstat/internal/investment"
)

// PerformanceRow is one investment's metrics prepared for a report.
type PerformanceRow struct {
	Name      string
	AssetType string
	Metrics   domain.PerformanceMetrics
}

// Report is a full portfolio report as of a date.
type Report struct {
	AsOf      time.Time
	Rows      []PerformanceRow
	Portfolio domain.PerformanceMetrics
}

// ReportWriter writes an assembled report to a destination.
type ReportWriter interface {
	Write(ctx context.Context, report Report) error
}

// Service computes per-investment and portfolio metrics and delegates
// writing to the configured writers.
type Service struct {
	investments investment.Repository
	performance *investment.Service
	writers     []ReportWriter
}

// NewService creates a new export Service.
func NewService(investments investment.Repository, performance *investment.Service, writers ...ReportWriter) *Service {
	if investments == nil {
		panic("export.NewService: investments repository is nil")
	}
	if performance == nil {
		panic("export.NewService: performance service is nil")
	}
	return &Service{
		investments: investments,
		performance: performance,
		writers:     writers,
	}
}

// Export builds the report for asOf and writes it to every writer.
// Implements worker's report trigger and the API's on-demand endpoint.
func (s *Service) Export(ctx context.Context, asOf time.Time) error {
	report, err := s.build(ctx, asOf)
	if err != nil {
		return err
	}

	for _, w := range s.writers {
		if err := w.Write(ctx, report); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}

func (s *Service) build(ctx context.Context, asOf time.Time) (Report, error) {
	investments, err := s.investments.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("listing investments: %w", err)
	}

	rows := make([]PerformanceRow, 0, len(investments))
	for _, inv := range investments {
		metrics, err := s.performance.Performance(ctx, inv.ID, asOf)
		if err != nil {
			return Report{}, fmt.Errorf("computing performance for %s: %w", inv.ID, err)
		}
		rows = append(rows, PerformanceRow{
			Name:      inv.Name,
			AssetType: inv.AssetType,
			Metrics:   metrics,
		})
	}

	portfolio, err := s.performance.PortfolioPerformance(ctx, asOf, investment.AggregationTrue)
	if err != nil {
		return Report{}, fmt.Errorf("computing portfolio performance: %w", err)
	}

	return Report{AsOf: asOf, Rows: rows, Portfolio: portfolio}, nil
}

// performanceHeader is the column set shared by all writers.
var performanceHeader = []any{
	"Name", "Asset Type", "IRR", "TVPI", "DPI", "RVPI",
	"Contributions", "Distributions", "NAV", "Total Value",
	"Trailing Yield", "Forward Yield", "Yield Frequency",
}

// performanceValues flattens a row into the shared column order.
// Missing metrics stay nil so destinations render empty cells.
func performanceValues(name, assetType string, m domain.PerformanceMetrics) []any {
	return []any{
		name, assetType,
		ratePct(m.IRR),
		decFloat(m.TVPI), decFloat(m.DPI), decFloat(m.RVPI),
		mustFloat(m.TotalContributions), mustFloat(m.TotalDistributions),
		decFloat(m.CurrentNAV), decFloat(m.TotalValue),
		ratePct(m.TrailingYield), ratePct(m.ForwardYield),
		m.YieldFrequency,
	}
}

func ratePct(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func decFloat(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return f
}

func mustFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
