package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reasons a lease is passed over without a balance change during a run.
type SkipReason string

const (
	SkipNotStarted     SkipReason = "not_started"
	SkipStartDate      SkipReason = "start_date"
	SkipPeriodOpen     SkipReason = "period_open"
	SkipAlreadySettled SkipReason = "already_settled"
	SkipNoChange       SkipReason = "settled_no_change"
)

// BalanceUpdate records one lease whose outstanding balance was adjusted.
type BalanceUpdate struct {
	LeaseID         string          `json:"lease_id"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	RentDue         decimal.Decimal `json:"rent_due"`
}

type LeaseSkip struct {
	LeaseID string     `json:"lease_id"`
	Reason  SkipReason `json:"reason"`
}

type LeaseError struct {
	LeaseID string `json:"lease_id"`
	Cause   string `json:"cause"`
}

// ReconciliationReport summarizes one reconciliation pass.
type ReconciliationReport struct {
	AsOf     time.Time       `json:"as_of"`
	Updated  []BalanceUpdate `json:"updated"`
	Skipped  []LeaseSkip     `json:"skipped"`
	Errors   []LeaseError    `json:"errors"`
	Duration time.Duration   `json:"duration_ns"`
}

func NewReconciliationReport(asOf time.Time) *ReconciliationReport {
	return &ReconciliationReport{AsOf: asOf}
}

func (r *ReconciliationReport) AddUpdate(update BalanceUpdate) {
	r.Updated = append(r.Updated, update)
}

func (r *ReconciliationReport) AddSkip(leaseID string, reason SkipReason) {
	r.Skipped = append(r.Skipped, LeaseSkip{LeaseID: leaseID, Reason: reason})
}

func (r *ReconciliationReport) AddError(leaseID string, err error) {
	r.Errors = append(r.Errors, LeaseError{LeaseID: leaseID, Cause: err.Error()})
}

func (r *ReconciliationReport) HasErrors() bool {
	return len(r.Errors) > 0
}
