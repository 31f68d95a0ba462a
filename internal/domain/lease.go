package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LeaseStatusPending   = "pending"
	LeaseStatusActive    = "active"
	LeaseStatusRejected  = "rejected"
	LeaseStatusInactive  = "inactive"
	LeaseStatusCancelled = "cancelled"
)

// Lease represents a rental agreement. OutstandingBalance is a running
// accumulator: positive means the tenant owes money, negative means the
// tenant carries a credit. ReconciledThrough marks the end of the last
// billing period already folded into the balance.
type Lease struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	LeaseID            string          `json:"lease_id" db:"lease_id"`
	PropertyName       string          `json:"property_name" db:"property_name"`
	TenantName         string          `json:"tenant_name" db:"tenant_name"`
	Status             string          `json:"status" db:"status"`
	StartDate          time.Time       `json:"start_date" db:"start_date"`
	MonthlyDueDay      int             `json:"monthly_due_day" db:"monthly_due_day"`
	RentAmount         decimal.Decimal `json:"rent_amount" db:"rent_amount"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance" db:"outstanding_balance"`
	ReconciledThrough  *time.Time      `json:"reconciled_through,omitempty" db:"reconciled_through"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateLeaseRequest struct {
	LeaseID       string          `json:"lease_id" validate:"required"`
	PropertyName  string          `json:"property_name" validate:"required"`
	TenantName    string          `json:"tenant_name" validate:"required"`
	StartDate     string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	MonthlyDueDay int             `json:"monthly_due_day" validate:"required,min=1,max=31"`
	RentAmount    decimal.Decimal `json:"rent_amount" validate:"required,decimal_gt=0"`
	Status        string          `json:"status" validate:"omitempty,oneof=pending active"`
}

type BalanceResponse struct {
	LeaseID            string          `json:"lease_id"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}
