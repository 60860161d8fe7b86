package analytics

import (
	"github.com/montanaflynn/stats"

	"github.com/altvest/perfstat/internal/domain"
)

// Frequency labels reported by DetectFrequency.
const (
	FreqMonthly          = "Monthly"
	FreqMonthlyEstimated = "Monthly (estimated)"
	FreqQuarterly        = "Quarterly"
	FreqSemiAnnual       = "Semi-Annual"
	FreqAnnual           = "Annual"
	FreqIrregular        = "Irregular"
	FreqInsufficient     = "insufficient data"
	FreqSinglePayment    = "single payment only"
)

// DetectFrequency infers the payment cadence of a yield series from the
// median gap between consecutive payment dates. The multiplier is the
// number of payments per year (nil when fewer than two dated payments
// are available). The median keeps one late or early payment from
// reclassifying the whole series.
func DetectFrequency(yieldFlows []domain.CashFlowEvent) (*float64, string) {
	if len(yieldFlows) < 2 {
		return nil, FreqInsufficient
	}

	sorted := sortEventsByDate(yieldFlows)

	var gaps []float64
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Date.Sub(sorted[i-1].Date).Hours() / 24
		if gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) == 0 {
		return nil, FreqInsufficient
	}

	median, err := stats.Median(gaps)
	if err != nil {
		return nil, FreqInsufficient
	}

	switch {
	case median >= 25 && median <= 35:
		return multiplier(12), FreqMonthly
	case median >= 85 && median <= 95:
		return multiplier(4), FreqQuarterly
	case median >= 175 && median <= 190:
		return multiplier(2), FreqSemiAnnual
	case median >= 350 && median <= 380:
		return multiplier(1), FreqAnnual
	case median < 25:
		// Tighter-than-monthly gaps: treat as monthly rather than
		// annualizing an aggressive sub-monthly cadence.
		return multiplier(12), FreqMonthlyEstimated
	}

	// No band matched: estimate the average cadence over the full span.
	span := sorted[len(sorted)-1].Date.Sub(sorted[0].Date).Hours() / 24
	if span <= 0 {
		return nil, FreqInsufficient
	}
	avg := float64(len(sorted)-1) * daysPerYear / span
	return &avg, FreqIrregular
}

func multiplier(perYear float64) *float64 {
	return &perYear
}
