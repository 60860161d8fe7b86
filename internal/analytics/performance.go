package analytics

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/altvest/perfstat/internal/domain"
)

// ComputePerformance assembles the full metric set for one investment
// from its contribution and distribution records and NAV snapshots.
// Only flows dated on or before asOf feed the totals, the IRR set, and
// the yield figures; future-dated entries stay invisible until their
// date arrives. Contribution and distribution totals are reported as
// magnitudes.
func ComputePerformance(contributions, distributions []domain.FlowRecord, valuations []domain.ValuationRecord, asOf time.Time) domain.PerformanceMetrics {
	pastContrib := flowsUpTo(contributions, asOf)
	pastDist := flowsUpTo(distributions, asOf)

	totalContrib := sumFlows(pastContrib).Abs()
	totalDist := sumFlows(pastDist).Abs()

	m := domain.PerformanceMetrics{
		TotalContributions: totalContrib,
		TotalDistributions: totalDist,
	}

	nav := latestNAV(valuations)
	if nav != nil {
		m.CurrentNAV = nav
		totalValue := nav.Add(totalDist)
		m.TotalValue = &totalValue
	}

	if totalContrib.IsPositive() {
		dpi := totalDist.Div(totalContrib)
		m.DPI = &dpi

		navOrZero := decimal.Zero
		if nav != nil {
			navOrZero = *nav
			rvpi := nav.Div(totalContrib)
			m.RVPI = &rvpi
		}
		tvpi := navOrZero.Add(totalDist).Div(totalContrib)
		m.TVPI = &tvpi
	}

	irrFlows := make([]domain.CashFlowEvent, 0, len(pastContrib)+len(pastDist)+1)
	for _, f := range pastContrib {
		irrFlows = append(irrFlows, f.Event())
	}
	for _, f := range pastDist {
		irrFlows = append(irrFlows, f.Event())
	}
	// A positive NAV enters as a terminal inflow dated asOf rather than
	// at its own snapshot date, so elapsed time since the last valuation
	// still counts toward the rate.
	if nav != nil && nav.IsPositive() {
		irrFlows = append(irrFlows, domain.CashFlowEvent{Date: asOf, Amount: *nav})
	}
	if rate, ok := SolveIRR(irrFlows); ok {
		m.IRR = &rate
	}

	allFlows := append(append([]domain.FlowRecord{}, contributions...), distributions...)
	yield := ComputeYield(allFlows, nav, totalContrib, asOf)
	m.TrailingYield = yield.Trailing
	m.ForwardYield = yield.Forward
	m.YieldFrequency = yield.FrequencyLabel
	m.TrailingYieldAmount = yield.TrailingAmount
	m.LatestYieldAmount = yield.LatestAmount

	return m
}

func flowsUpTo(flows []domain.FlowRecord, asOf time.Time) []domain.FlowRecord {
	return lo.Filter(flows, func(f domain.FlowRecord, _ int) bool {
		return !f.Date.After(asOf)
	})
}

func sumFlows(flows []domain.FlowRecord) decimal.Decimal {
	return lo.Reduce(flows, func(acc decimal.Decimal, f domain.FlowRecord, _ int) decimal.Decimal {
		return acc.Add(f.Amount)
	}, decimal.Zero)
}

// latestNAV picks the most recent valuation by date. No age cutoff:
// a stale NAV is still the best available estimate for the rate math.
func latestNAV(valuations []domain.ValuationRecord) *decimal.Decimal {
	if len(valuations) == 0 {
		return nil
	}
	latest := valuations[0]
	for _, v := range valuations[1:] {
		if v.Date.After(latest.Date) {
			latest = v
		}
	}
	nav := latest.NAVValue
	return &nav
}
