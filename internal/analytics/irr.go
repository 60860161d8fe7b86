// Package analytics implements the performance calculation core:
// IRR and multiples per investment, yield cadence detection, and
// portfolio-level aggregation. Every function is a pure transform from
// input collections to a result value; quantities that cannot be
// computed from the available data come back absent, not as errors.
package analytics

import (
	"math"
	"sort"

	"github.com/altvest/perfstat/internal/domain"
)

const (
	irrInitialGuess = 0.1
	irrMaxIter      = 1000
	irrTolerance    = 1e-6
	irrMinDeriv     = 1e-10
	irrFloor        = -0.99
	irrCeiling      = 10.0

	daysPerYear = 365.25
)

// SolveIRR finds the annualized internal rate of return of a cash-flow
// set via Newton-Raphson on NPV(r) = Σ amount_i / (1+r)^t_i, with t_i
// the actual/365.25 year fraction from the earliest flow. The reported
// ok is false when IRR is undefined for the input: fewer than two
// flows, a vanishing derivative, or no convergence within the iteration
// budget (all same-sign flows being the common case).
func SolveIRR(flows []domain.CashFlowEvent) (float64, bool) {
	if len(flows) < 2 {
		return 0, false
	}

	t0 := flows[0].Date
	for _, f := range flows[1:] {
		if f.Date.Before(t0) {
			t0 = f.Date
		}
	}

	years := make([]float64, len(flows))
	amounts := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = f.Date.Sub(t0).Hours() / 24 / daysPerYear
		amounts[i] = f.Amount.InexactFloat64()
	}

	r := irrInitialGuess
	for iter := 0; iter < irrMaxIter; iter++ {
		var npv, deriv float64
		for i := range amounts {
			disc := math.Pow(1+r, years[i])
			npv += amounts[i] / disc
			deriv += -years[i] * amounts[i] / (disc * (1 + r))
		}

		if math.Abs(npv) < irrTolerance {
			return r, true
		}
		if math.Abs(deriv) < irrMinDeriv {
			return 0, false
		}

		r = clampRate(r - npv/deriv)
	}

	return 0, false
}

func clampRate(r float64) float64 {
	if r < irrFloor {
		return irrFloor
	}
	if r > irrCeiling {
		return irrCeiling
	}
	return r
}

// sortEventsByDate returns a date-ascending copy, leaving the input alone.
func sortEventsByDate(flows []domain.CashFlowEvent) []domain.CashFlowEvent {
	sorted := make([]domain.CashFlowEvent, len(flows))
	copy(sorted, flows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
