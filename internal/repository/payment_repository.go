package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanitee2/rentease-app-sub002/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, lease_id, amount, status, method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.LeaseID,
		payment.Amount,
		payment.Status,
		payment.Method,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) ListByLeaseID(ctx context.Context, leaseID string) ([]*domain.Payment, error) {
	query := `
		SELECT id, lease_id, amount, status, method, created_at
		FROM payments
		WHERE lease_id = $1
		ORDER BY created_at DESC
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, leaseID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListCompletedInRange(ctx context.Context, leaseID string, from, to time.Time) ([]*domain.Payment, error) {
	query := `
		SELECT id, lease_id, amount, status, method, created_at
		FROM payments
		WHERE lease_id = $1 AND status = $2 AND created_at >= $3 AND created_at < $4
		ORDER BY created_at
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, leaseID, domain.PaymentStatusCompleted, from, to)
	if err != nil {
		return nil, err
	}

	return payments, nil
}
