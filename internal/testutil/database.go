// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"testing"

	"payday/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// allModels is the list of all GORM models to auto-migrate in tests.
var allModels = []interface{}{
	&models.Household{},
	&models.IncomeSource{},
	&models.PayCycle{},
	&models.Seed{},
	&models.Pot{},
	&models.Repayment{},
	&models.AuditLog{},
}

// cycleIndexes mirror the partial unique indexes of the SQL migrations.
var cycleIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_pay_cycles_household_start ON pay_cycles (household_id, start_date) WHERE status IN ('draft', 'active') AND deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_pay_cycles_one_draft ON pay_cycles (household_id) WHERE status = 'draft' AND deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_pay_cycles_one_active ON pay_cycles (household_id) WHERE status = 'active' AND deleted_at IS NULL`,
}

// SetupTestDB creates an in-memory SQLite database with all models migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	MigrateTestDB(t, db)

	return db
}

// MigrateTestDB creates the tables and the partial unique indexes of the
// SQL migrations on db.
func MigrateTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	for _, ddl := range cycleIndexes {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("failed to create index: %v", err)
		}
	}
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
