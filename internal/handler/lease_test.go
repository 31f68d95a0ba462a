package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanitee2/rentease-app-sub002/internal/domain"
	"github.com/sanitee2/rentease-app-sub002/internal/service"
	"github.com/sanitee2/rentease-app-sub002/tests/mocks"
)

func newTestRouter(leaseRepo *mocks.MockLeaseRepository, paymentRepo *mocks.MockPaymentRepository) *mux.Router {
	log := logrus.New()
	log.SetOutput(io.Discard)

	leases := service.NewLeaseService(leaseRepo, paymentRepo, nil, log, time.Hour)
	reconciler := service.NewBalanceReconciler(leaseRepo, paymentRepo, nil, log, time.UTC, time.Hour)
	h := NewLeaseHandler(leases, reconciler)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/leases", h.CreateLease).Methods("POST")
	api.HandleFunc("/leases/{leaseId}/balance", h.GetBalance).Methods("GET")
	api.HandleFunc("/leases/{leaseId}/payments", h.RecordPayment).Methods("POST")
	api.HandleFunc("/reconciliation/run", h.RunReconciliation).Methods("POST")
	return router
}

func TestCreateLease_RejectsInvalidBody(t *testing.T) {
	router := newTestRouter(&mocks.MockLeaseRepository{}, &mocks.MockPaymentRepository{})

	// monthly_due_day out of range and rent_amount non-positive
	body := `{"lease_id":"L-1","property_name":"A","tenant_name":"B","start_date":"2024-01-01","monthly_due_day":42,"rent_amount":"0"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leases", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLease_Conflict(t *testing.T) {
	leaseRepo := &mocks.MockLeaseRepository{}
	existing := &domain.Lease{ID: uuid.New(), LeaseID: "L-2", Status: domain.LeaseStatusActive}
	leaseRepo.On("GetByLeaseID", mock.Anything, "L-2").Return(existing, nil)

	router := newTestRouter(leaseRepo, &mocks.MockPaymentRepository{})

	body := `{"lease_id":"L-2","property_name":"A","tenant_name":"B","start_date":"2024-01-01","monthly_due_day":1,"rent_amount":"8000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leases", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetBalance_NotFound(t *testing.T) {
	leaseRepo := &mocks.MockLeaseRepository{}
	leaseRepo.On("GetByLeaseID", mock.Anything, "L-3").Return(nil, sql.ErrNoRows)

	router := newTestRouter(leaseRepo, &mocks.MockPaymentRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leases/L-3/balance", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBalance_ReturnsOutstanding(t *testing.T) {
	leaseRepo := &mocks.MockLeaseRepository{}
	lease := &domain.Lease{
		ID:                 uuid.New(),
		LeaseID:            "L-4",
		Status:             domain.LeaseStatusActive,
		OutstandingBalance: decimal.NewFromInt(4500),
	}
	leaseRepo.On("GetByLeaseID", mock.Anything, "L-4").Return(lease, nil)

	router := newTestRouter(leaseRepo, &mocks.MockPaymentRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leases/L-4/balance", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool                   `json:"success"`
		Data    domain.BalanceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "L-4", envelope.Data.LeaseID)
	assert.True(t, envelope.Data.OutstandingBalance.Equal(decimal.NewFromInt(4500)))
}

func TestRecordPayment_RejectsNonPositiveAmount(t *testing.T) {
	router := newTestRouter(&mocks.MockLeaseRepository{}, &mocks.MockPaymentRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leases/L-5/payments", bytes.NewBufferString(`{"amount":"-50"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunReconciliation_BadAsOf(t *testing.T) {
	router := newTestRouter(&mocks.MockLeaseRepository{}, &mocks.MockPaymentRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconciliation/run?as_of=yesterday", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunReconciliation_AsOfUsesBusinessTimezone(t *testing.T) {
	denver, err := time.LoadLocation("America/Denver")
	require.NoError(t, err)

	leaseRepo := &mocks.MockLeaseRepository{}
	leaseRepo.On("ListByStatus", mock.Anything, domain.LeaseStatusActive).Return([]*domain.Lease{}, nil)

	log := logrus.New()
	log.SetOutput(io.Discard)
	leases := service.NewLeaseService(leaseRepo, &mocks.MockPaymentRepository{}, nil, log, time.Hour)
	reconciler := service.NewBalanceReconciler(leaseRepo, &mocks.MockPaymentRepository{}, nil, log, denver, time.Hour)
	h := NewLeaseHandler(leases, reconciler)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/reconciliation/run", h.RunReconciliation).Methods("POST")

	// parsed as UTC, 2024-05-02 would fall back to May 1 west of UTC
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconciliation/run?as_of=2024-05-02", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data domain.ReconciliationReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	year, month, day := envelope.Data.AsOf.Date()
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.May, month)
	assert.Equal(t, 2, day)
}

func TestRunReconciliation_ReturnsReport(t *testing.T) {
	leaseRepo := &mocks.MockLeaseRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}

	lease := &domain.Lease{
		ID:                 uuid.New(),
		LeaseID:            "L-6",
		Status:             domain.LeaseStatusActive,
		StartDate:          time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		MonthlyDueDay:      1,
		RentAmount:         decimal.NewFromInt(5000),
		OutstandingBalance: decimal.Zero,
	}
	leaseRepo.On("ListByStatus", mock.Anything, domain.LeaseStatusActive).Return([]*domain.Lease{lease}, nil)
	paymentRepo.On("ListCompletedInRange", mock.Anything, "L-6", mock.Anything, mock.Anything).
		Return([]*domain.Payment{}, nil)
	leaseRepo.On("UpdateBalance", mock.Anything, "L-6", mock.Anything, mock.Anything).Return(nil)

	router := newTestRouter(leaseRepo, paymentRepo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconciliation/run?as_of=2024-05-02", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data domain.ReconciliationReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Updated, 1)
	assert.Equal(t, "L-6", envelope.Data.Updated[0].LeaseID)
}
