package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/sanitee2/rentease-app-sub002/internal/domain"
	"github.com/sanitee2/rentease-app-sub002/internal/service"
	apperrors "github.com/sanitee2/rentease-app-sub002/pkg/errors"
	"github.com/sanitee2/rentease-app-sub002/pkg/response"
)

type LeaseHandler struct {
	leases     *service.LeaseService
	reconciler *service.BalanceReconciler
	validator  *validator.Validate
}

func NewLeaseHandler(leases *service.LeaseService, reconciler *service.BalanceReconciler) *LeaseHandler {
	v := validator.New()
	registerDecimalRules(v)

	return &LeaseHandler{
		leases:     leases,
		reconciler: reconciler,
		validator:  v,
	}
}

// registerDecimalRules teaches the validator the decimal_gt / decimal_gte
// tags used on money fields.
func registerDecimalRules(v *validator.Validate) {
	compare := func(fl validator.FieldLevel, strict bool) bool {
		value, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		if strict {
			return value.GreaterThan(bound)
		}
		return value.GreaterThanOrEqual(bound)
	}

	_ = v.RegisterValidation("decimal_gt", func(fl validator.FieldLevel) bool {
		return compare(fl, true)
	})
	_ = v.RegisterValidation("decimal_gte", func(fl validator.FieldLevel) bool {
		return compare(fl, false)
	})
}

// CreateLease handles POST /api/v1/leases
func (h *LeaseHandler) CreateLease(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	lease, err := h.leases.CreateLease(r.Context(), &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, lease)
}

// RecordPayment handles POST /api/v1/leases/{leaseId}/payments
func (h *LeaseHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	leaseID := mux.Vars(r)["leaseId"]

	var request domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	payment, err := h.leases.RecordPayment(r.Context(), leaseID, &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, payment)
}

// GetBalance handles GET /api/v1/leases/{leaseId}/balance
func (h *LeaseHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	leaseID := mux.Vars(r)["leaseId"]

	balance, err := h.leases.GetOutstanding(r.Context(), leaseID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, domain.BalanceResponse{
		LeaseID:            leaseID,
		OutstandingBalance: balance,
	})
}

// ListPayments handles GET /api/v1/leases/{leaseId}/payments
func (h *LeaseHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	leaseID := mux.Vars(r)["leaseId"]

	payments, err := h.leases.ListPayments(r.Context(), leaseID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, payments)
}

// RunReconciliation handles POST /api/v1/reconciliation/run. The optional
// as_of query parameter (YYYY-MM-DD) overrides the run date, mirroring the
// batch binary's -as-of flag.
func (h *LeaseHandler) RunReconciliation(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.reconciler.Location())
		if err != nil {
			response.BadRequest(w, "as_of must be a YYYY-MM-DD date", err)
			return
		}
		asOf = parsed
	}

	report, err := h.reconciler.ReconcileAll(r.Context(), asOf)
	if err != nil {
		response.InternalServerError(w, "reconciliation run aborted", err)
		return
	}

	response.Success(w, report)
}

// writeBusinessError maps the error taxonomy onto HTTP statuses.
func writeBusinessError(w http.ResponseWriter, err error) {
	var businessErr *apperrors.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "unexpected error", err)
		return
	}

	switch businessErr.Code {
	case apperrors.ErrCodeLeaseNotFound:
		response.NotFound(w, businessErr.Message)
	case apperrors.ErrCodeLeaseAlreadyExists:
		response.Conflict(w, businessErr.Message, businessErr.Err)
	case apperrors.ErrCodeLeaseNotActive, apperrors.ErrCodeInvalidStartDate, apperrors.ErrCodeInvalidPaymentAmount:
		response.BadRequest(w, businessErr.Message, businessErr.Err)
	default:
		response.InternalServerError(w, businessErr.Message, businessErr.Err)
	}
}
