package services

import (
	"testing"

	"payday/internal/models"
	"payday/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	household, cycle := activeCycle(t, db)

	svc.Log(household.OwnerID, household.ID, "COMPLETE_CYCLE", "pay_cycle", cycle.ID, "127.0.0.1", map[string]any{"promoted": true})

	var entry models.AuditLog
	if err := db.Where("household_id = ?", household.ID).First(&entry).Error; err != nil {
		t.Fatalf("expected an audit entry: %v", err)
	}
	if entry.Changes != `{"promoted":true}` {
		t.Errorf("unexpected changes %q", entry.Changes)
	}
}
