package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/altvest/perfstat/internal/domain"
)

func metricsWithIRR(contributions float64, irr float64) domain.PerformanceMetrics {
	return domain.PerformanceMetrics{
		IRR:                &irr,
		TotalContributions: dec(contributions),
	}
}

func TestAggregateWeightedIRR(t *testing.T) {
	metrics := []domain.PerformanceMetrics{
		metricsWithIRR(100000, 0.10),
		metricsWithIRR(300000, 0.30),
	}

	agg := Aggregate(metrics)

	if agg.IRR == nil {
		t.Fatal("IRR = nil, want weighted average")
	}
	// (0.10*100k + 0.30*300k) / 400k = 0.25
	if math.Abs(*agg.IRR-0.25) > 1e-9 {
		t.Errorf("IRR = %f, want 0.25", *agg.IRR)
	}
}

func TestAggregateSkipsMissingIRR(t *testing.T) {
	metrics := []domain.PerformanceMetrics{
		metricsWithIRR(100000, 0.10),
		{TotalContributions: dec(900000)}, // IRR not computable here
	}

	agg := Aggregate(metrics)

	if agg.IRR == nil {
		t.Fatal("IRR = nil, want the one known rate")
	}
	if math.Abs(*agg.IRR-0.10) > 1e-9 {
		t.Errorf("IRR = %f, want 0.10 (absent rates carry no weight)", *agg.IRR)
	}
}

func TestAggregateTotalsAndRatios(t *testing.T) {
	nav1, nav2 := dec(500000), dec(300000)
	metrics := []domain.PerformanceMetrics{
		{TotalContributions: dec(1000000), TotalDistributions: dec(200000), CurrentNAV: &nav1},
		{TotalContributions: dec(600000), TotalDistributions: dec(120000), CurrentNAV: &nav2},
	}

	agg := Aggregate(metrics)

	if !agg.TotalContributions.Equal(dec(1600000)) {
		t.Errorf("TotalContributions = %s, want 1600000", agg.TotalContributions)
	}
	if agg.CurrentNAV == nil || !agg.CurrentNAV.Equal(dec(800000)) {
		t.Errorf("CurrentNAV = %v, want 800000", agg.CurrentNAV)
	}
	if agg.DPI == nil || !agg.DPI.Equal(dec(0.2)) {
		t.Errorf("DPI = %v, want 0.20", agg.DPI)
	}
	if agg.RVPI == nil || !agg.RVPI.Equal(dec(0.5)) {
		t.Errorf("RVPI = %v, want 0.50", agg.RVPI)
	}
	if agg.TVPI == nil || !agg.TVPI.Equal(dec(0.7)) {
		t.Errorf("TVPI = %v, want 0.70", agg.TVPI)
	}
}

func TestAggregateEmptyAndSingle(t *testing.T) {
	empty := Aggregate(nil)
	if empty.IRR != nil || empty.TVPI != nil || empty.CurrentNAV != nil {
		t.Errorf("empty aggregate carries values: %+v", empty)
	}
	if !empty.TotalContributions.Equal(decimal.Zero) {
		t.Errorf("TotalContributions = %s, want 0", empty.TotalContributions)
	}

	single := Aggregate([]domain.PerformanceMetrics{metricsWithIRR(100000, 0.15)})
	if single.IRR == nil || math.Abs(*single.IRR-0.15) > 1e-9 {
		t.Errorf("single aggregate IRR = %v, want 0.15", single.IRR)
	}
}

func TestAggregateFrequencyLabels(t *testing.T) {
	unanimous := Aggregate([]domain.PerformanceMetrics{
		{YieldFrequency: FreqQuarterly},
		{YieldFrequency: FreqQuarterly},
	})
	if unanimous.YieldFrequency != FreqQuarterly {
		t.Errorf("YieldFrequency = %q, want %q", unanimous.YieldFrequency, FreqQuarterly)
	}

	mixed := Aggregate([]domain.PerformanceMetrics{
		{YieldFrequency: FreqQuarterly},
		{YieldFrequency: FreqMonthly},
	})
	if mixed.YieldFrequency != MixedFrequencies {
		t.Errorf("YieldFrequency = %q, want %q", mixed.YieldFrequency, MixedFrequencies)
	}

	none := Aggregate([]domain.PerformanceMetrics{{}, {}})
	if none.YieldFrequency != "" {
		t.Errorf("YieldFrequency = %q, want empty", none.YieldFrequency)
	}
}

func TestAggregateAbsoluteValueDefence(t *testing.T) {
	// An upstream sign slip must not produce negative portfolio totals.
	metrics := []domain.PerformanceMetrics{
		{TotalContributions: dec(-250000), TotalDistributions: dec(100000)},
		{TotalContributions: dec(750000), TotalDistributions: dec(-50000)},
	}

	agg := Aggregate(metrics)

	if !agg.TotalContributions.Equal(dec(1000000)) {
		t.Errorf("TotalContributions = %s, want 1000000", agg.TotalContributions)
	}
	if !agg.TotalDistributions.Equal(dec(150000)) {
		t.Errorf("TotalDistributions = %s, want 150000", agg.TotalDistributions)
	}
}

// With non-overlapping cash-flow timing the pooled IRR and the
// contribution-weighted average answer different questions; they must
// not coincide.
func TestTrueAggregateDiffersFromWeighted(t *testing.T) {
	invA := []domain.CashFlowEvent{
		{Date: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), Amount: dec(-100000)},
		{Date: time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC), Amount: dec(150000)},
	}
	invB := []domain.CashFlowEvent{
		{Date: time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC), Amount: dec(-100000)},
		{Date: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), Amount: dec(120000)},
	}

	irrA, okA := SolveIRR(invA)
	irrB, okB := SolveIRR(invB)
	if !okA || !okB {
		t.Fatal("per-investment IRRs must solve")
	}

	metrics := []domain.PerformanceMetrics{
		{IRR: &irrA, TotalContributions: dec(100000), TotalDistributions: dec(150000)},
		{IRR: &irrB, TotalContributions: dec(100000), TotalDistributions: dec(120000)},
	}

	pooled := append(append([]domain.CashFlowEvent{}, invA...), invB...)
	trueAgg := TrueAggregate(pooled, metrics)
	weighted := Aggregate(metrics)

	if trueAgg.IRR == nil || weighted.IRR == nil {
		t.Fatal("both aggregate IRRs must be computable")
	}
	if math.Abs(*trueAgg.IRR-*weighted.IRR) < 0.005 {
		t.Errorf("pooled IRR %f and weighted IRR %f should diverge on non-overlapping timelines", *trueAgg.IRR, *weighted.IRR)
	}
	if !trueAgg.TotalContributions.Equal(dec(200000)) {
		t.Errorf("TotalContributions = %s, want 200000", trueAgg.TotalContributions)
	}
}

func TestTrueAggregateEmptyFlows(t *testing.T) {
	agg := TrueAggregate(nil, nil)
	if agg.IRR != nil {
		t.Errorf("IRR = %v, want nil with no flows", *agg.IRR)
	}
}
