package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/altvest/perfstat/internal/domain"
)

type fakeSources struct {
	actual    []domain.InvestmentFlow
	manual    []domain.InvestmentFlow
	pacing    []domain.PacingForecastRecord
	actualErr error

	manualCalled bool
	pacingCalled bool
	scenarioSeen string
}

func (f *fakeSources) ListActualFlows(_ context.Context, _, _, _ time.Time) ([]domain.InvestmentFlow, error) {
	return f.actual, f.actualErr
}

func (f *fakeSources) ListManualFutureFlows(_ context.Context, _, _, _ time.Time) ([]domain.InvestmentFlow, error) {
	f.manualCalled = true
	return f.manual, nil
}

func (f *fakeSources) ListPacingForecasts(_ context.Context, scenario string) ([]domain.PacingForecastRecord, error) {
	f.pacingCalled = true
	f.scenarioSeen = scenario
	return f.pacing, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func flow(id, invID, invName string, d time.Time, amount float64, t domain.FlowType) domain.InvestmentFlow {
	return domain.InvestmentFlow{ID: id, InvestmentID: invID, InvestmentName: invName, Date: d, Amount: dec(amount), Type: t}
}

func baseQuery() Query {
	return Query{
		Start:         date(2024, time.January, 1),
		End:           date(2025, time.December, 31),
		AsOf:          date(2024, time.June, 15),
		IncludeManual: true,
		IncludePacing: true,
		Scenario:      "base",
	}
}

func TestUnifiedActualAlwaysIncluded(t *testing.T) {
	src := &fakeSources{
		actual: []domain.InvestmentFlow{
			flow("a1", "inv1", "Fund A", date(2024, time.March, 1), -50000, domain.FlowTypeCapitalCall),
		},
		manual: []domain.InvestmentFlow{
			flow("m1", "inv1", "Fund A", date(2024, time.September, 1), 20000, domain.FlowTypeDistribution),
		},
	}
	svc := NewService(src, src, src)

	q := baseQuery()
	q.IncludeManual = false
	q.IncludePacing = false

	merged, err := svc.Unified(context.Background(), q)
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}

	if len(merged) != 1 {
		t.Fatalf("merged count = %d, want 1 (actuals survive disabled toggles)", len(merged))
	}
	if merged[0].Source != domain.SourceActual || merged[0].Confidence != domain.ConfidenceActual {
		t.Errorf("tag = (%s, %s), want (actual, actual)", merged[0].Source, merged[0].Confidence)
	}
	if merged[0].IsForecast {
		t.Error("actual flow marked as forecast")
	}
	if src.manualCalled || src.pacingCalled {
		t.Error("disabled sources were queried")
	}
}

func TestUnifiedManualTagging(t *testing.T) {
	src := &fakeSources{
		manual: []domain.InvestmentFlow{
			flow("m1", "inv1", "Fund A", date(2024, time.September, 1), 20000, domain.FlowTypeDistribution),
			flow("m2", "inv1", "Fund A", date(2024, time.October, 1), -500, domain.FlowTypeManagementFee),
		},
	}
	svc := NewService(src, src, src)

	q := baseQuery()
	q.IncludePacing = false

	merged, err := svc.Unified(context.Background(), q)
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}

	if len(merged) != 1 {
		t.Fatalf("merged count = %d, want 1 (fee entries are not forecastable)", len(merged))
	}
	m := merged[0]
	if m.Source != domain.SourceManual || m.Confidence != domain.ConfidenceHigh {
		t.Errorf("tag = (%s, %s), want (manual, high)", m.Source, m.Confidence)
	}
	if m.IsForecast {
		t.Error("manual entry marked as model forecast; it is stated intent")
	}
	if m.Type != "Distribution" {
		t.Errorf("type = %q, want Distribution", m.Type)
	}
}

func TestUnifiedPacingSpreadAcrossMonths(t *testing.T) {
	src := &fakeSources{
		pacing: []domain.PacingForecastRecord{{
			InvestmentID:           "inv1",
			InvestmentName:         "Fund A",
			PeriodStart:            date(2025, time.January, 1),
			PeriodEnd:              date(2025, time.March, 31),
			ProjectedCalls:         dec(30000),
			ProjectedDistributions: dec(9000),
			Scenario:               "base",
		}},
	}
	svc := NewService(src, src, src)

	q := baseQuery()
	q.IncludeManual = false

	merged, err := svc.Unified(context.Background(), q)
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}
	if src.scenarioSeen != "base" {
		t.Errorf("scenario = %q, want base", src.scenarioSeen)
	}

	// 3 months x (call + distribution).
	if len(merged) != 6 {
		t.Fatalf("merged count = %d, want 6", len(merged))
	}
	for _, f := range merged {
		if f.Date.Day() != 15 {
			t.Errorf("pacing entry dated day %d, want the 15th", f.Date.Day())
		}
		if f.Source != domain.SourcePacingModel || f.Confidence != domain.ConfidenceMedium || !f.IsForecast {
			t.Errorf("tag = (%s, %s, forecast=%v), want (pacing_model, medium, true)", f.Source, f.Confidence, f.IsForecast)
		}
		if f.ID == "" {
			t.Error("pacing entry missing generated id")
		}
		switch f.Type {
		case "Capital Call":
			if !f.Amount.Equal(dec(-10000)) {
				t.Errorf("call slice = %s, want -10000", f.Amount)
			}
		case "Distribution":
			if !f.Amount.Equal(dec(3000)) {
				t.Errorf("distribution slice = %s, want 3000", f.Amount)
			}
		default:
			t.Errorf("unexpected pacing type %q", f.Type)
		}
	}
}

func TestUnifiedPacingFloorSuppressesNoise(t *testing.T) {
	src := &fakeSources{
		pacing: []domain.PacingForecastRecord{{
			InvestmentID:           "inv1",
			InvestmentName:         "Fund A",
			PeriodStart:            date(2025, time.January, 1),
			PeriodEnd:              date(2025, time.December, 31),
			ProjectedCalls:         dec(600), // $50/month, under the floor
			ProjectedDistributions: dec(2400),
			Scenario:               "base",
		}},
	}
	svc := NewService(src, src, src)

	q := baseQuery()
	q.IncludeManual = false

	merged, err := svc.Unified(context.Background(), q)
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}

	for _, f := range merged {
		if f.Type == "Capital Call" {
			t.Errorf("sub-$100 monthly call slice emitted: %s", f.Amount)
		}
		if f.Amount.Abs().LessThan(dec(100)) {
			t.Errorf("entry %s below $100 floor", f.Amount)
		}
	}
	// 12 distribution slices of $200 survive.
	if len(merged) != 12 {
		t.Errorf("merged count = %d, want 12", len(merged))
	}
}

func TestUnifiedPacingBehindAsOfDropped(t *testing.T) {
	src := &fakeSources{
		pacing: []domain.PacingForecastRecord{{
			InvestmentID:           "inv1",
			InvestmentName:         "Fund A",
			PeriodStart:            date(2024, time.April, 1),
			PeriodEnd:              date(2024, time.September, 30),
			ProjectedCalls:         dec(60000),
			ProjectedDistributions: decimal.Zero,
			Scenario:               "base",
		}},
	}
	svc := NewService(src, src, src)

	q := baseQuery()
	q.IncludeManual = false

	merged, err := svc.Unified(context.Background(), q)
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}

	// asOf is 2024-06-15: April, May, and June slices are history's
	// business now; only Jul/Aug/Sep project forward.
	if len(merged) != 3 {
		t.Fatalf("merged count = %d, want 3", len(merged))
	}
	for _, f := range merged {
		if !f.Date.After(q.AsOf) {
			t.Errorf("pacing entry %s not after asOf", f.Date.Format("2006-01-02"))
		}
	}
}

func TestUnifiedSortedByDateThenName(t *testing.T) {
	sameDay := date(2024, time.March, 1)
	src := &fakeSources{
		actual: []domain.InvestmentFlow{
			flow("a1", "inv2", "Zeta Fund", sameDay, -100000, domain.FlowTypeCapitalCall),
			flow("a2", "inv1", "Alpha Fund", sameDay, -50000, domain.FlowTypeCapitalCall),
			flow("a3", "inv1", "Alpha Fund", date(2024, time.February, 1), -25000, domain.FlowTypeCapitalCall),
		},
	}
	svc := NewService(src, src, src)

	merged, err := svc.Unified(context.Background(), baseQuery())
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}

	if len(merged) != 3 {
		t.Fatalf("merged count = %d, want 3", len(merged))
	}
	if merged[0].ID != "a3" || merged[1].ID != "a2" || merged[2].ID != "a1" {
		t.Errorf("order = %s, %s, %s; want a3, a2, a1", merged[0].ID, merged[1].ID, merged[2].ID)
	}
}

func TestUnifiedSourceError(t *testing.T) {
	src := &fakeSources{actualErr: errors.New("connection refused")}
	svc := NewService(src, src, src)

	if _, err := svc.Unified(context.Background(), baseQuery()); err == nil {
		t.Error("Unified returned nil error, want wrapped source error")
	}
}

func TestNewServiceNilSourcePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewService with nil source did not panic")
		}
	}()
	NewService(nil, nil, nil)
}
