package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

// Payment is a rent payment submitted against a lease. CreatedAt buckets the
// payment into a billing period; only completed payments settle obligations.
type Payment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	LeaseID   string          `json:"lease_id" db:"lease_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Status    string          `json:"status" db:"status"`
	Method    string          `json:"method" db:"method"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,decimal_gt=0"`
	Method string          `json:"method" validate:"omitempty,max=64"`
}
