package analytics

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/altvest/perfstat/internal/domain"
)

// MixedFrequencies is reported when investments disagree on cadence.
const MixedFrequencies = "Mixed frequencies"

// Aggregate combines per-investment metrics into portfolio figures.
// The portfolio IRR here is a contribution-weighted average of the
// per-investment IRRs: cheap, but it ignores cash-flow timing overlap
// across investments. Use TrueAggregate when the pooled flows are
// available. Empty and single-element inputs are fine; whatever cannot
// be computed comes back absent.
func Aggregate(metrics []domain.PerformanceMetrics) domain.PerformanceMetrics {
	agg := domain.PerformanceMetrics{
		TotalContributions: decimal.Zero,
		TotalDistributions: decimal.Zero,
	}

	var navSum decimal.Decimal
	navSeen := false
	for _, m := range metrics {
		agg.TotalContributions = agg.TotalContributions.Add(m.TotalContributions.Abs())
		agg.TotalDistributions = agg.TotalDistributions.Add(m.TotalDistributions.Abs())
		if m.CurrentNAV != nil {
			navSum = navSum.Add(*m.CurrentNAV)
			navSeen = true
		}
	}
	if navSeen {
		nav := navSum
		agg.CurrentNAV = &nav
		totalValue := navSum.Add(agg.TotalDistributions)
		agg.TotalValue = &totalValue
	}

	fillRatios(&agg)

	agg.IRR = weightedRate(metrics, func(m domain.PerformanceMetrics) *float64 { return m.IRR })
	agg.TrailingYield = weightedRate(metrics, func(m domain.PerformanceMetrics) *float64 { return m.TrailingYield })
	agg.ForwardYield = weightedRate(metrics, func(m domain.PerformanceMetrics) *float64 { return m.ForwardYield })

	agg.TrailingYieldAmount = sumOptional(metrics, func(m domain.PerformanceMetrics) *decimal.Decimal { return m.TrailingYieldAmount })
	agg.LatestYieldAmount = sumOptional(metrics, func(m domain.PerformanceMetrics) *decimal.Decimal { return m.LatestYieldAmount })

	agg.YieldFrequency = consensusLabel(metrics)

	return agg
}

// TrueAggregate computes the economically correct portfolio IRR by
// solving over the pooled cash flows of every investment instead of
// averaging per-investment rates. Totals come from the per-investment
// metrics, absolute-valued to survive sign inconsistencies upstream.
func TrueAggregate(allFlows []domain.CashFlowEvent, metrics []domain.PerformanceMetrics) domain.PerformanceMetrics {
	agg := Aggregate(metrics)

	agg.IRR = nil
	if rate, ok := SolveIRR(allFlows); ok {
		agg.IRR = &rate
	}
	return agg
}

func fillRatios(m *domain.PerformanceMetrics) {
	if !m.TotalContributions.IsPositive() {
		return
	}
	dpi := m.TotalDistributions.Div(m.TotalContributions)
	m.DPI = &dpi

	navOrZero := decimal.Zero
	if m.CurrentNAV != nil {
		navOrZero = *m.CurrentNAV
		rvpi := m.CurrentNAV.Div(m.TotalContributions)
		m.RVPI = &rvpi
	}
	tvpi := navOrZero.Add(m.TotalDistributions).Div(m.TotalContributions)
	m.TVPI = &tvpi
}

// weightedRate averages a per-investment rate weighted by that
// investment's absolute contribution total. Investments without the
// rate carry no weight.
func weightedRate(metrics []domain.PerformanceMetrics, pick func(domain.PerformanceMetrics) *float64) *float64 {
	var weighted, totalWeight float64
	seen := false
	for _, m := range metrics {
		rate := pick(m)
		if rate == nil {
			continue
		}
		w := m.TotalContributions.Abs().InexactFloat64()
		if w <= 0 {
			continue
		}
		weighted += *rate * w
		totalWeight += w
		seen = true
	}
	if !seen || totalWeight == 0 {
		return nil
	}
	avg := weighted / totalWeight
	return &avg
}

func sumOptional(metrics []domain.PerformanceMetrics, pick func(domain.PerformanceMetrics) *decimal.Decimal) *decimal.Decimal {
	sum := decimal.Zero
	seen := false
	for _, m := range metrics {
		if v := pick(m); v != nil {
			sum = sum.Add(*v)
			seen = true
		}
	}
	if !seen {
		return nil
	}
	return &sum
}

func consensusLabel(metrics []domain.PerformanceMetrics) string {
	labels := lo.Uniq(lo.FilterMap(metrics, func(m domain.PerformanceMetrics, _ int) (string, bool) {
		return m.YieldFrequency, m.YieldFrequency != ""
	}))
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	default:
		return MixedFrequencies
	}
}
