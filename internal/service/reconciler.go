package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sanitee2/rentease-app-sub002/internal/domain"
	"github.com/sanitee2/rentease-app-sub002/internal/repository"
	"github.com/sanitee2/rentease-app-sub002/pkg/dates"
	apperrors "github.com/sanitee2/rentease-app-sub002/pkg/errors"
)

// BalanceReconciler folds each active lease's just-closed billing period
// into its running outstanding balance. One pass per day is the intended
// cadence; overlapping runs are the caller's problem (the scheduler takes a
// lock, the one-shot binary trusts cron).
type BalanceReconciler struct {
	leaseRepo   repository.LeaseRepository
	paymentRepo repository.PaymentRepository
	cache       *redis.Client
	log         *logrus.Logger
	loc         *time.Location
	cacheTTL    time.Duration
}

func NewBalanceReconciler(
	leaseRepo repository.LeaseRepository,
	paymentRepo repository.PaymentRepository,
	cache *redis.Client,
	log *logrus.Logger,
	loc *time.Location,
	cacheTTL time.Duration,
) *BalanceReconciler {
	return &BalanceReconciler{
		leaseRepo:   leaseRepo,
		paymentRepo: paymentRepo,
		cache:       cache,
		log:         log,
		loc:         loc,
		cacheTTL:    cacheTTL,
	}
}

// Location returns the business timezone reconciliation days are evaluated
// in. Callers accepting date input should parse it here so every invocation
// surface names the same calendar day.
func (r *BalanceReconciler) Location() *time.Location {
	return r.loc
}

// ReconcileAll runs one reconciliation pass over every active lease as of
// the given instant (zero means now). Per-lease failures are collected in
// the report and do not stop the pass; only a failure to list the active
// leases aborts the run.
func (r *BalanceReconciler) ReconcileAll(ctx context.Context, asOf time.Time) (*domain.ReconciliationReport, error) {
	started := time.Now()
	if asOf.IsZero() {
		asOf = started
	}
	asOfDay := dates.DayOf(asOf, r.loc)

	leases, err := r.leaseRepo.ListByStatus(ctx, domain.LeaseStatusActive)
	if err != nil {
		return nil, apperrors.WrapReconciliationAborted(err)
	}

	report := domain.NewReconciliationReport(asOfDay)
	for _, lease := range leases {
		r.reconcileLease(ctx, lease, asOfDay, report)
	}
	report.Duration = time.Since(started)

	r.log.WithFields(logrus.Fields{
		"as_of":    asOfDay.Format("2006-01-02"),
		"active":   len(leases),
		"updated":  len(report.Updated),
		"skipped":  len(report.Skipped),
		"failed":   len(report.Errors),
		"duration": report.Duration.String(),
	}).Info("balance reconciliation pass complete")

	return report, nil
}

// reconcileLease settles one lease's most recently closed billing period.
// Each lease depends only on its own records, so processing order does not
// matter and one lease's failure never touches another.
func (r *BalanceReconciler) reconcileLease(ctx context.Context, lease *domain.Lease, asOfDay time.Time, report *domain.ReconciliationReport) {
	start := dates.FromDateFields(lease.StartDate, r.loc)
	if asOfDay.Before(start) {
		report.AddSkip(lease.LeaseID, domain.SkipNotStarted)
		return
	}
	// a lease is never billed on its own start date
	if dates.SameDay(asOfDay, start) {
		report.AddSkip(lease.LeaseID, domain.SkipStartDate)
		return
	}

	// The settled period is the most recent one that has fully closed. When
	// the due date lands on the last day of a month there is no later day in
	// that month, so that period only becomes reachable once the next month
	// starts.
	periodEnd := dates.DueDate(asOfDay.Year(), asOfDay.Month(), lease.MonthlyDueDay, r.loc)
	if !asOfDay.After(periodEnd) {
		prev := dates.PreviousDueDate(periodEnd, lease.MonthlyDueDay)
		if !dates.IsMonthEnd(prev) {
			report.AddSkip(lease.LeaseID, domain.SkipPeriodOpen)
			return
		}
		periodEnd = prev
	}
	// the lease's first period has not closed until a due date past the start
	if !periodEnd.After(start) {
		report.AddSkip(lease.LeaseID, domain.SkipPeriodOpen)
		return
	}
	if lease.ReconciledThrough != nil {
		settled := dates.FromDateFields(*lease.ReconciledThrough, r.loc)
		if !settled.Before(periodEnd) {
			report.AddSkip(lease.LeaseID, domain.SkipAlreadySettled)
			return
		}
	}

	periodStart := dates.PreviousDueDate(periodEnd, lease.MonthlyDueDay)
	payments, err := r.paymentRepo.ListCompletedInRange(ctx, lease.LeaseID, periodStart, periodEnd)
	if err != nil {
		report.AddError(lease.LeaseID, apperrors.WrapDatabaseError(err))
		return
	}

	totalPaid := decimal.Zero
	for _, payment := range payments {
		totalPaid = totalPaid.Add(payment.Amount)
	}

	// shortfall raises what is owed, surplus carries forward as credit
	delta := lease.RentAmount.Sub(totalPaid)
	if delta.IsZero() {
		if err := r.leaseRepo.MarkReconciled(ctx, lease.LeaseID, periodEnd); err != nil {
			report.AddError(lease.LeaseID, apperrors.WrapDatabaseError(err))
			return
		}
		report.AddSkip(lease.LeaseID, domain.SkipNoChange)
		return
	}

	newBalance := lease.OutstandingBalance.Add(delta)
	if err := r.leaseRepo.UpdateBalance(ctx, lease.LeaseID, newBalance, periodEnd); err != nil {
		report.AddError(lease.LeaseID, apperrors.WrapDatabaseError(err))
		return
	}

	r.log.WithFields(logrus.Fields{
		"lease_id":         lease.LeaseID,
		"previous_balance": lease.OutstandingBalance.String(),
		"new_balance":      newBalance.String(),
		"total_paid":       totalPaid.String(),
		"rent_due":         lease.RentAmount.String(),
		"period_start":     periodStart.Format("2006-01-02"),
		"period_end":       periodEnd.Format("2006-01-02"),
	}).Info("lease balance updated")

	r.cacheBalance(ctx, lease.LeaseID, newBalance)

	report.AddUpdate(domain.BalanceUpdate{
		LeaseID:         lease.LeaseID,
		PreviousBalance: lease.OutstandingBalance,
		NewBalance:      newBalance,
		TotalPaid:       totalPaid,
		RentDue:         lease.RentAmount,
	})
}

// cacheBalance refreshes the dashboard-facing balance cache. A cache miss
// is served from the database, so failures here only cost a warning.
func (r *BalanceReconciler) cacheBalance(ctx context.Context, leaseID string, balance decimal.Decimal) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, balanceCacheKey(leaseID), balance.String(), r.cacheTTL).Err(); err != nil {
		r.log.WithError(err).WithField("lease_id", leaseID).Warn("failed to cache lease balance")
	}
}

func balanceCacheKey(leaseID string) string {
	return "lease:balance:" + leaseID
}
