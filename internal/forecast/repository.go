package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/altvest/perfstat/internal/domain"
)

// PgSourceRepository implements the three forecast sources with
// PostgreSQL.
type PgSourceRepository struct {
	pool *pgxpool.Pool
}

// NewPgSourceRepository creates a new PostgreSQL forecast source repository.
func NewPgSourceRepository(pool *pgxpool.Pool) *PgSourceRepository {
	return &PgSourceRepository{pool: pool}
}

func (r *PgSourceRepository) ListActualFlows(ctx context.Context, start, end, asOf time.Time) ([]domain.InvestmentFlow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cf.id, cf.investment_id, i.name, cf.flow_date, cf.amount, cf.flow_type
		 FROM cash_flows cf
		 JOIN investments i ON i.id = cf.investment_id
		 WHERE cf.flow_date <= $1 AND cf.flow_date >= $2 AND cf.flow_date <= $3
		 ORDER BY cf.flow_date, i.name`, asOf, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing actual flows: %w", err)
	}
	return scanInvestmentFlows(rows)
}

func (r *PgSourceRepository) ListManualFutureFlows(ctx context.Context, start, end, asOf time.Time) ([]domain.InvestmentFlow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cf.id, cf.investment_id, i.name, cf.flow_date, cf.amount, cf.flow_type
		 FROM cash_flows cf
		 JOIN investments i ON i.id = cf.investment_id
		 WHERE cf.flow_date > $1 AND cf.flow_date >= $2 AND cf.flow_date <= $3
		 ORDER BY cf.flow_date, i.name`, asOf, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing manual future flows: %w", err)
	}
	return scanInvestmentFlows(rows)
}

func (r *PgSourceRepository) ListPacingForecasts(ctx context.Context, scenario string) ([]domain.PacingForecastRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT pf.investment_id, i.name, pf.period_start, pf.period_end,
		        pf.projected_calls, pf.projected_distributions, pf.scenario
		 FROM pacing_forecasts pf
		 JOIN investments i ON i.id = pf.investment_id
		 WHERE pf.scenario = $1
		 ORDER BY pf.period_start, i.name`, scenario)
	if err != nil {
		return nil, fmt.Errorf("listing pacing forecasts for scenario %s: %w", scenario, err)
	}
	defer rows.Close()

	var forecasts []domain.PacingForecastRecord
	for rows.Next() {
		var f domain.PacingForecastRecord
		if err := rows.Scan(&f.InvestmentID, &f.InvestmentName, &f.PeriodStart, &f.PeriodEnd,
			&f.ProjectedCalls, &f.ProjectedDistributions, &f.Scenario); err != nil {
			return nil, fmt.Errorf("scanning pacing forecast: %w", err)
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, rows.Err()
}

type pgRows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

func scanInvestmentFlows(rows pgRows) ([]domain.InvestmentFlow, error) {
	defer rows.Close()

	var flows []domain.InvestmentFlow
	for rows.Next() {
		var f domain.InvestmentFlow
		var flowType string
		if err := rows.Scan(&f.ID, &f.InvestmentID, &f.InvestmentName, &f.Date, &f.Amount, &flowType); err != nil {
			return nil, fmt.Errorf("scanning flow: %w", err)
		}
		f.Type = domain.FlowType(flowType)
		flows = append(flows, f)
	}
	return flows, rows.Err()
}
