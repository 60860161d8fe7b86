package analytics

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/altvest/perfstat/internal/domain"
)

// avgDaysPerMonth is the divisor the remaining-time estimate uses. The
// forward cycle end itself is calendar arithmetic (same month/day one
// year out); the two conventions intentionally coexist and can disagree
// near month and year boundaries.
const avgDaysPerMonth = 30.44

// YieldResult carries the yield figures for one investment. Rates are
// nil when no base (NAV or contributions) or no qualifying payments
// exist; amounts are nil when there are no payments to sum.
type YieldResult struct {
	Trailing       *float64
	Forward        *float64
	FrequencyLabel string
	TrailingAmount *decimal.Decimal
	LatestAmount   *decimal.Decimal
}

// ComputeYield derives trailing 12-month and forward yield from the
// yield-type flows dated on or before asOf. Future-dated or projected
// payments never count. The rate base is currentNAV when positive,
// otherwise the absolute contribution total.
func ComputeYield(flows []domain.FlowRecord, currentNAV *decimal.Decimal, totalContributions decimal.Decimal, asOf time.Time) YieldResult {
	payments := lo.Filter(flows, func(f domain.FlowRecord, _ int) bool {
		return domain.CapabilityFor(f.Type).Yield && !f.Date.After(asOf)
	})
	if len(payments) == 0 {
		return YieldResult{}
	}

	sort.Slice(payments, func(i, j int) bool {
		return payments[i].Date.Before(payments[j].Date)
	})

	base := decimal.Zero
	if currentNAV != nil && currentNAV.IsPositive() {
		base = *currentNAV
	} else {
		base = totalContributions.Abs()
	}

	result := YieldResult{}

	latest := payments[len(payments)-1]
	latestAmount := latest.Amount
	result.LatestAmount = &latestAmount

	// Trailing 12 months.
	windowStart := asOf.AddDate(0, 0, -365)
	windowSum := decimal.Zero
	inWindow := false
	for _, p := range payments {
		if !p.Date.Before(windowStart) {
			windowSum = windowSum.Add(p.Amount)
			inWindow = true
		}
	}
	if inWindow {
		sum := windowSum
		result.TrailingAmount = &sum
		if base.IsPositive() {
			trailing := windowSum.Div(base).InexactFloat64()
			result.Trailing = &trailing
		}
	}

	if len(payments) == 1 {
		result.FrequencyLabel = FreqSinglePayment
		return result
	}

	events := lo.Map(payments, func(f domain.FlowRecord, _ int) domain.CashFlowEvent {
		return f.Event()
	})
	mult, label := DetectFrequency(events)
	result.FrequencyLabel = label
	if mult == nil || !base.IsPositive() {
		return result
	}

	// Forward: project the latest payment over the rest of its implied
	// 12-month cycle, or annualize it outright once the cycle has lapsed.
	cycleEnd := yieldCycleEnd(latest.Date)
	var annual decimal.Decimal
	if asOf.Before(cycleEnd) {
		remainingMonths := cycleEnd.Sub(asOf).Hours() / 24 / avgDaysPerMonth
		monthsPerInterval := 12 / *mult
		estRemaining := remainingMonths / monthsPerInterval
		annual = latest.Amount.Mul(decimal.NewFromFloat(estRemaining))
	} else {
		annual = latest.Amount.Mul(decimal.NewFromFloat(*mult))
	}

	forward := annual.Div(base).InexactFloat64()
	result.Forward = &forward
	return result
}

// yieldCycleEnd returns the same month/day one year after the payment.
// Dates that do not exist in the following year (Feb 29) clamp to Dec 31.
func yieldCycleEnd(paid time.Time) time.Time {
	end := time.Date(paid.Year()+1, paid.Month(), paid.Day(), 0, 0, 0, 0, paid.Location())
	if end.Month() != paid.Month() {
		return time.Date(paid.Year()+1, time.December, 31, 0, 0, 0, 0, paid.Location())
	}
	return end
}
