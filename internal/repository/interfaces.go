package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sanitee2/rentease-app-sub002/internal/domain"
)

// LeaseRepository defines the interface for lease data operations
type LeaseRepository interface {
	// Create creates a new lease
	Create(ctx context.Context, lease *domain.Lease) error

	// GetByLeaseID retrieves a lease by its lease ID
	GetByLeaseID(ctx context.Context, leaseID string) (*domain.Lease, error)

	// ListByStatus retrieves all leases with the given status
	ListByStatus(ctx context.Context, status string) ([]*domain.Lease, error)

	// UpdateBalance writes a lease's new outstanding balance together with
	// the end of the period that produced it, in one statement
	UpdateBalance(ctx context.Context, leaseID string, balance decimal.Decimal, reconciledThrough time.Time) error

	// MarkReconciled records that a period closed with no balance change
	MarkReconciled(ctx context.Context, leaseID string, reconciledThrough time.Time) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// ListByLeaseID retrieves all payments for a lease, newest first
	ListByLeaseID(ctx context.Context, leaseID string) ([]*domain.Payment, error)

	// ListCompletedInRange retrieves the completed payments for a lease
	// created within [from, to)
	ListCompletedInRange(ctx context.Context, leaseID string, from, to time.Time) ([]*domain.Payment, error)
}
