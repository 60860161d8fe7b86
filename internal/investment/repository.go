// Package investment bridges stored investment records to the
// analytics core.
package investment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/altvest/perfstat/internal/domain"
)

// ErrNotFound indicates that the requested investment was not found.
var ErrNotFound = errors.New("investment not found")

// Investment is a holding row read from storage.
type Investment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AssetType string    `json:"assetType"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository defines read access to investments and their records.
type Repository interface {
	Get(ctx context.Context, id string) (Investment, error)
	List(ctx context.Context) ([]Investment, error)
	ListFlows(ctx context.Context, investmentID string) ([]domain.FlowRecord, error)
	ListValuations(ctx context.Context, investmentID string) ([]domain.ValuationRecord, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL investment repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Get(ctx context.Context, id string) (Investment, error) {
	var inv Investment
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, asset_type, created_at FROM investments WHERE id = $1`,
		id).Scan(&inv.ID, &inv.Name, &inv.AssetType, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Investment{}, ErrNotFound
		}
		return Investment{}, fmt.Errorf("getting investment %s: %w", id, err)
	}
	return inv, nil
}

func (r *PgRepository) List(ctx context.Context) ([]Investment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, asset_type, created_at FROM investments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing investments: %w", err)
	}
	defer rows.Close()

	var investments []Investment
	for rows.Next() {
		var inv Investment
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.AssetType, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning investment: %w", err)
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

func (r *PgRepository) ListFlows(ctx context.Context, investmentID string) ([]domain.FlowRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, flow_date, amount, flow_type
		 FROM cash_flows
		 WHERE investment_id = $1
		 ORDER BY flow_date`, investmentID)
	if err != nil {
		return nil, fmt.Errorf("listing flows for %s: %w", investmentID, err)
	}
	defer rows.Close()

	var flows []domain.FlowRecord
	for rows.Next() {
		var f domain.FlowRecord
		var flowType string
		if err := rows.Scan(&f.ID, &f.Date, &f.Amount, &flowType); err != nil {
			return nil, fmt.Errorf("scanning flow: %w", err)
		}
		f.Type = domain.FlowType(flowType)
		flows = append(flows, f)
	}
	return flows, rows.Err()
}

func (r *PgRepository) ListValuations(ctx context.Context, investmentID string) ([]domain.ValuationRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT valuation_date, nav_value
		 FROM valuations
		 WHERE investment_id = $1
		 ORDER BY valuation_date`, investmentID)
	if err != nil {
		return nil, fmt.Errorf("listing valuations for %s: %w", investmentID, err)
	}
	defer rows.Close()

	var valuations []domain.ValuationRecord
	for rows.Next() {
		var v domain.ValuationRecord
		if err := rows.Scan(&v.Date, &v.NAVValue); err != nil {
			return nil, fmt.Errorf("scanning valuation: %w", err)
		}
		valuations = append(valuations, v)
	}
	return valuations, rows.Err()
}
