package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sanitee2/rentease-app-sub002/internal/domain"
	"github.com/sanitee2/rentease-app-sub002/internal/repository"
	apperrors "github.com/sanitee2/rentease-app-sub002/pkg/errors"
)

// LeaseService backs the HTTP surface the surrounding platform calls:
// lease registration, payment recording and balance reads.
type LeaseService struct {
	leaseRepo   repository.LeaseRepository
	paymentRepo repository.PaymentRepository
	cache       *redis.Client
	log         *logrus.Logger
	cacheTTL    time.Duration
}

func NewLeaseService(
	leaseRepo repository.LeaseRepository,
	paymentRepo repository.PaymentRepository,
	cache *redis.Client,
	log *logrus.Logger,
	cacheTTL time.Duration,
) *LeaseService {
	return &LeaseService{
		leaseRepo:   leaseRepo,
		paymentRepo: paymentRepo,
		cache:       cache,
		log:         log,
		cacheTTL:    cacheTTL,
	}
}

// CreateLease registers a lease with the engine.
func (s *LeaseService) CreateLease(ctx context.Context, request *domain.CreateLeaseRequest) (*domain.Lease, error) {
	existing, err := s.leaseRepo.GetByLeaseID(ctx, request.LeaseID)
	if err == nil && existing != nil {
		return nil, apperrors.WrapLeaseAlreadyExists(request.LeaseID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapDatabaseError(err)
	}

	startDate, err := time.Parse("2006-01-02", request.StartDate)
	if err != nil {
		return nil, apperrors.WrapInvalidStartDate(request.StartDate)
	}

	status := request.Status
	if status == "" {
		status = domain.LeaseStatusPending
	}

	now := time.Now()
	lease := &domain.Lease{
		ID:                 uuid.New(),
		LeaseID:            request.LeaseID,
		PropertyName:       request.PropertyName,
		TenantName:         request.TenantName,
		Status:             status,
		StartDate:          startDate,
		MonthlyDueDay:      request.MonthlyDueDay,
		RentAmount:         request.RentAmount,
		OutstandingBalance: decimal.Zero,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.leaseRepo.Create(ctx, lease); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.log.WithFields(logrus.Fields{
		"lease_id":   lease.LeaseID,
		"status":     lease.Status,
		"start_date": lease.StartDate.Format("2006-01-02"),
	}).Info("lease registered")

	return lease, nil
}

// RecordPayment stores a completed rent payment against an active lease.
// Pending gateway submissions are written by the platform's own payment
// flow; this surface only takes settled amounts.
func (s *LeaseService) RecordPayment(ctx context.Context, leaseID string, request *domain.RecordPaymentRequest) (*domain.Payment, error) {
	lease, err := s.leaseRepo.GetByLeaseID(ctx, leaseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapLeaseNotFound(leaseID)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if lease.Status != domain.LeaseStatusActive {
		return nil, apperrors.WrapLeaseNotActive(leaseID, lease.Status)
	}

	payment := &domain.Payment{
		ID:        uuid.New(),
		LeaseID:   leaseID,
		Amount:    request.Amount,
		Status:    domain.PaymentStatusCompleted,
		Method:    request.Method,
		CreatedAt: time.Now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return payment, nil
}

// GetOutstanding returns a lease's running balance, serving from the redis
// cache when the reconciler has populated it.
func (s *LeaseService) GetOutstanding(ctx context.Context, leaseID string) (decimal.Decimal, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, balanceCacheKey(leaseID)).Result()
		if err == nil {
			if balance, parseErr := decimal.NewFromString(cached); parseErr == nil {
				return balance, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.WithError(err).WithField("lease_id", leaseID).Warn("balance cache read failed")
		}
	}

	lease, err := s.leaseRepo.GetByLeaseID(ctx, leaseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, apperrors.WrapLeaseNotFound(leaseID)
		}
		return decimal.Zero, apperrors.WrapDatabaseError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, balanceCacheKey(leaseID), lease.OutstandingBalance.String(), s.cacheTTL).Err(); err != nil {
			s.log.WithError(err).WithField("lease_id", leaseID).Warn("balance cache write failed")
		}
	}

	return lease.OutstandingBalance, nil
}

// ListPayments returns a lease's payment history, newest first.
func (s *LeaseService) ListPayments(ctx context.Context, leaseID string) ([]*domain.Payment, error) {
	if _, err := s.leaseRepo.GetByLeaseID(ctx, leaseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapLeaseNotFound(leaseID)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	payments, err := s.paymentRepo.ListByLeaseID(ctx, leaseID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return payments, nil
}
