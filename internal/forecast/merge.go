package forecast

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/altvest/perfstat/internal/domain"
)

// pacingFloor suppresses model noise: monthly projection slices under
// $100 are not worth a timeline entry.
var pacingFloor = decimal.NewFromInt(100)

func tagActual(flows []domain.InvestmentFlow) []domain.UnifiedCashFlow {
	return lo.Map(flows, func(f domain.InvestmentFlow, _ int) domain.UnifiedCashFlow {
		return domain.UnifiedCashFlow{
			ID:             f.ID,
			Date:           f.Date,
			InvestmentID:   f.InvestmentID,
			InvestmentName: f.InvestmentName,
			Type:           f.Type.Display(),
			Amount:         f.Amount,
			Source:         domain.SourceActual,
			Confidence:     domain.ConfidenceActual,
			IsForecast:     false,
		}
	})
}

// tagManual keeps only forecastable types: a future fee entry is a
// bookkeeping note, not an expected cash movement. A manual entry is a
// statement of intent, so it carries high confidence and is not marked
// as a model forecast.
func tagManual(flows []domain.InvestmentFlow) []domain.UnifiedCashFlow {
	forecastable := lo.Filter(flows, func(f domain.InvestmentFlow, _ int) bool {
		return domain.CapabilityFor(f.Type).Forecastable
	})
	return lo.Map(forecastable, func(f domain.InvestmentFlow, _ int) domain.UnifiedCashFlow {
		return domain.UnifiedCashFlow{
			ID:             f.ID,
			Date:           f.Date,
			InvestmentID:   f.InvestmentID,
			InvestmentName: f.InvestmentName,
			Type:           f.Type.Display(),
			Amount:         f.Amount,
			Source:         domain.SourceManual,
			Confidence:     domain.ConfidenceHigh,
			IsForecast:     false,
		}
	})
}

// spreadPacing expands each forecast period into one entry per covered
// calendar month, dated the 15th, with the period total split evenly.
// Calls come out negative, distributions positive. Months outside the
// query range or behind asOf (already superseded by actuals) drop out.
func spreadPacing(forecasts []domain.PacingForecastRecord, q Query) []domain.UnifiedCashFlow {
	var out []domain.UnifiedCashFlow
	for _, f := range forecasts {
		months := monthsCovered(f.PeriodStart, f.PeriodEnd)
		if len(months) == 0 {
			continue
		}
		n := decimal.NewFromInt(int64(len(months)))

		monthlyCalls := f.ProjectedCalls.Abs().Div(n).Neg()
		monthlyDists := f.ProjectedDistributions.Abs().Div(n)

		for _, month := range months {
			day := time.Date(month.Year(), month.Month(), 15, 0, 0, 0, 0, time.UTC)
			if day.Before(q.Start) || day.After(q.End) || !day.After(q.AsOf) {
				continue
			}
			if monthlyCalls.Abs().GreaterThanOrEqual(pacingFloor) {
				out = append(out, pacingEntry(f, day, "Capital Call", monthlyCalls))
			}
			if monthlyDists.Abs().GreaterThanOrEqual(pacingFloor) {
				out = append(out, pacingEntry(f, day, "Distribution", monthlyDists))
			}
		}
	}
	return out
}

func pacingEntry(f domain.PacingForecastRecord, day time.Time, typ string, amount decimal.Decimal) domain.UnifiedCashFlow {
	return domain.UnifiedCashFlow{
		ID:             uuid.NewString(),
		Date:           day,
		InvestmentID:   f.InvestmentID,
		InvestmentName: f.InvestmentName,
		Type:           typ,
		Amount:         amount,
		Source:         domain.SourcePacingModel,
		Confidence:     domain.ConfidenceMedium,
		IsForecast:     true,
	}
}

// monthsCovered returns the first day of every calendar month the
// period touches, inclusive on both ends.
func monthsCovered(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}
	var months []time.Time
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		months = append(months, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}

// bucketByDay groups the merged timeline into per-day aggregates across
// the entire range. Inflow/outflow is decided by the display-type
// heuristic the timeline labels follow; entries matching neither family
// fall back to their sign.
func bucketByDay(flows []domain.UnifiedCashFlow, start, end time.Time) []domain.DailyCashFlowAggregate {
	byDay := lo.GroupBy(flows, func(f domain.UnifiedCashFlow) string {
		return f.Date.Format("2006-01-02")
	})

	var out []domain.DailyCashFlowAggregate
	for day := truncateDay(start); !day.After(truncateDay(end)); day = day.AddDate(0, 0, 1) {
		agg := domain.DailyCashFlowAggregate{
			Date:         day,
			TotalInflow:  decimal.Zero,
			TotalOutflow: decimal.Zero,
			NetAmount:    decimal.Zero,
			Transactions: []domain.UnifiedCashFlow{},
		}
		for _, f := range byDay[day.Format("2006-01-02")] {
			if isInflowLabel(f.Type, f.Amount) {
				agg.TotalInflow = agg.TotalInflow.Add(f.Amount.Abs())
			} else {
				agg.TotalOutflow = agg.TotalOutflow.Add(f.Amount.Abs())
			}
			agg.Transactions = append(agg.Transactions, f)
		}
		agg.NetAmount = agg.TotalInflow.Sub(agg.TotalOutflow)
		out = append(out, agg)
	}
	return out
}

func isInflowLabel(label string, amount decimal.Decimal) bool {
	switch {
	case strings.Contains(label, "Distribution"),
		strings.Contains(label, "Yield"),
		strings.Contains(label, "Return of Principal"):
		return true
	case strings.Contains(label, "Call"),
		strings.Contains(label, "Contribution"):
		return false
	}
	return amount.IsPositive()
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
