package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sanitee2/rentease-app-sub002/internal/domain"
)

type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) Create(ctx context.Context, lease *domain.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) GetByLeaseID(ctx context.Context, leaseID string) (*domain.Lease, error) {
	args := m.Called(ctx, leaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lease), args.Error(1)
}

func (m *MockLeaseRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Lease, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Lease), args.Error(1)
}

func (m *MockLeaseRepository) UpdateBalance(ctx context.Context, leaseID string, balance decimal.Decimal, reconciledThrough time.Time) error {
	args := m.Called(ctx, leaseID, balance, reconciledThrough)
	return args.Error(0)
}

func (m *MockLeaseRepository) MarkReconciled(ctx context.Context, leaseID string, reconciledThrough time.Time) error {
	args := m.Called(ctx, leaseID, reconciledThrough)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByLeaseID(ctx context.Context, leaseID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, leaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListCompletedInRange(ctx context.Context, leaseID string, from, to time.Time) ([]*domain.Payment, error) {
	args := m.Called(ctx, leaseID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}
