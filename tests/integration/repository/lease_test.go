package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanitee2/rentease-app-sub002/internal/config"
	"github.com/sanitee2/rentease-app-sub002/internal/domain"
	"github.com/sanitee2/rentease-app-sub002/internal/repository"
)

var testDB *sqlx.DB

const testDBName = "rentease_engine_test"

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	teardown()
	os.Exit(code)
}

func setup() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Connect to postgres database to create test database
	cfg.Database.URL = ""
	cfg.Database.Name = "postgres"
	adminDB, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to postgres database: %v", err))
	}
	defer adminDB.Close()

	adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", testDBName))
	if _, err = adminDB.Exec(fmt.Sprintf("CREATE DATABASE %s", testDBName)); err != nil {
		panic(fmt.Sprintf("Failed to create test database: %v", err))
	}

	cfg.Database.Name = testDBName
	testDB, err = sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}

	if err := executeInitSQL(testDB); err != nil {
		panic(fmt.Sprintf("Failed to initialize database schema: %v", err))
	}
}

func teardown() {
	if testDB != nil {
		testDB.Close()
	}

	cfg, err := config.Load()
	if err != nil {
		return
	}
	cfg.Database.URL = ""
	cfg.Database.Name = "postgres"

	adminDB, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return
	}
	defer adminDB.Close()

	adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", testDBName))
}

func executeInitSQL(db *sqlx.DB) error {
	schema, err := os.ReadFile("../../../deployments/init.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(schema))
	return err
}

func truncateTables(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec("TRUNCATE payments, leases")
	require.NoError(t, err)
}

func seedLease(t *testing.T, leaseID string, status string, dueDay int, rent, balance int64) *domain.Lease {
	t.Helper()

	lease := &domain.Lease{
		ID:                 uuid.New(),
		LeaseID:            leaseID,
		PropertyName:       "Unit 4A",
		TenantName:         "Tenant " + leaseID,
		Status:             status,
		StartDate:          time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		MonthlyDueDay:      dueDay,
		RentAmount:         decimal.NewFromInt(rent),
		OutstandingBalance: decimal.NewFromInt(balance),
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	repo := repository.NewLeaseRepository(testDB)
	require.NoError(t, repo.Create(context.Background(), lease))
	return lease
}

func TestLeaseRepository_CreateAndGet(t *testing.T) {
	truncateTables(t)
	seedLease(t, "LEASE-INT-001", domain.LeaseStatusActive, 15, 12000, 0)

	repo := repository.NewLeaseRepository(testDB)
	got, err := repo.GetByLeaseID(context.Background(), "LEASE-INT-001")

	require.NoError(t, err)
	assert.Equal(t, "LEASE-INT-001", got.LeaseID)
	assert.Equal(t, domain.LeaseStatusActive, got.Status)
	assert.Equal(t, 15, got.MonthlyDueDay)
	assert.True(t, got.RentAmount.Equal(decimal.NewFromInt(12000)))
	assert.Nil(t, got.ReconciledThrough)
}

func TestLeaseRepository_ListByStatusFiltersInactive(t *testing.T) {
	truncateTables(t)
	seedLease(t, "LEASE-INT-010", domain.LeaseStatusActive, 1, 10000, 0)
	seedLease(t, "LEASE-INT-011", domain.LeaseStatusActive, 1, 10000, 0)
	seedLease(t, "LEASE-INT-012", domain.LeaseStatusPending, 1, 10000, 0)
	seedLease(t, "LEASE-INT-013", domain.LeaseStatusCancelled, 1, 10000, 0)

	repo := repository.NewLeaseRepository(testDB)
	active, err := repo.ListByStatus(context.Background(), domain.LeaseStatusActive)

	require.NoError(t, err)
	require.Len(t, active, 2)
	// ordered by lease_id
	assert.Equal(t, "LEASE-INT-010", active[0].LeaseID)
	assert.Equal(t, "LEASE-INT-011", active[1].LeaseID)
}

func TestLeaseRepository_UpdateBalanceWritesMarker(t *testing.T) {
	truncateTables(t)
	seedLease(t, "LEASE-INT-020", domain.LeaseStatusActive, 1, 10000, 0)

	repo := repository.NewLeaseRepository(testDB)
	through := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	err := repo.UpdateBalance(context.Background(), "LEASE-INT-020", decimal.NewFromInt(2000), through)
	require.NoError(t, err)

	got, err := repo.GetByLeaseID(context.Background(), "LEASE-INT-020")
	require.NoError(t, err)
	assert.True(t, got.OutstandingBalance.Equal(decimal.NewFromInt(2000)))
	require.NotNil(t, got.ReconciledThrough)
	assert.Equal(t, through.Format("2006-01-02"), got.ReconciledThrough.Format("2006-01-02"))
}

func TestLeaseRepository_MarkReconciledLeavesBalance(t *testing.T) {
	truncateTables(t)
	seedLease(t, "LEASE-INT-030", domain.LeaseStatusActive, 1, 10000, 750)

	repo := repository.NewLeaseRepository(testDB)
	through := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	err := repo.MarkReconciled(context.Background(), "LEASE-INT-030", through)
	require.NoError(t, err)

	got, err := repo.GetByLeaseID(context.Background(), "LEASE-INT-030")
	require.NoError(t, err)
	assert.True(t, got.OutstandingBalance.Equal(decimal.NewFromInt(750)))
	require.NotNil(t, got.ReconciledThrough)
}
