package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/sanitee2/rentease-app-sub002/internal/domain"
)

type leaseRepository struct {
	db *sqlx.DB
}

func NewLeaseRepository(db *sqlx.DB) LeaseRepository {
	return &leaseRepository{db: db}
}

func (r *leaseRepository) Create(ctx context.Context, lease *domain.Lease) error {
	query := `
		INSERT INTO leases (id, lease_id, property_name, tenant_name, status, start_date, monthly_due_day, rent_amount, outstanding_balance, reconciled_through, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		lease.ID,
		lease.LeaseID,
		lease.PropertyName,
		lease.TenantName,
		lease.Status,
		lease.StartDate,
		lease.MonthlyDueDay,
		lease.RentAmount,
		lease.OutstandingBalance,
		lease.ReconciledThrough,
		lease.CreatedAt,
		lease.UpdatedAt,
	)

	return err
}

func (r *leaseRepository) GetByLeaseID(ctx context.Context, leaseID string) (*domain.Lease, error) {
	query := `
		SELECT id, lease_id, property_name, tenant_name, status, start_date, monthly_due_day, rent_amount, outstanding_balance, reconciled_through, created_at, updated_at
		FROM leases
		WHERE lease_id = $1
	`

	var lease domain.Lease
	err := r.db.GetContext(ctx, &lease, query, leaseID)
	if err != nil {
		return nil, err
	}

	return &lease, nil
}

func (r *leaseRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Lease, error) {
	query := `
		SELECT id, lease_id, property_name, tenant_name, status, start_date, monthly_due_day, rent_amount, outstanding_balance, reconciled_through, created_at, updated_at
		FROM leases
		WHERE status = $1
		ORDER BY lease_id
	`

	var leases []*domain.Lease
	err := r.db.SelectContext(ctx, &leases, query, status)
	if err != nil {
		return nil, err
	}

	return leases, nil
}

func (r *leaseRepository) UpdateBalance(ctx context.Context, leaseID string, balance decimal.Decimal, reconciledThrough time.Time) error {
	query := `
		UPDATE leases
		SET outstanding_balance = $2, reconciled_through = $3, updated_at = $4
		WHERE lease_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, leaseID, balance, reconciledThrough, time.Now())
	return err
}

func (r *leaseRepository) MarkReconciled(ctx context.Context, leaseID string, reconciledThrough time.Time) error {
	query := `
		UPDATE leases
		SET reconciled_through = $2, updated_at = $3
		WHERE lease_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, leaseID, reconciledThrough, time.Now())
	return err
}
