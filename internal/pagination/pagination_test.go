package pagination_test

import (
	"testing"

	"payday/internal/models"
	"payday/internal/pagination"
	"payday/internal/testutil"
)

func TestDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   pagination.PageRequest
		want pagination.PageRequest
	}{
		{"empty", pagination.PageRequest{}, pagination.PageRequest{Page: 1, PageSize: 20}},
		{"kept", pagination.PageRequest{Page: 3, PageSize: 5}, pagination.PageRequest{Page: 3, PageSize: 5}},
		{"clamped", pagination.PageRequest{Page: 1, PageSize: 500}, pagination.PageRequest{Page: 1, PageSize: pagination.MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.Defaults()
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	page := pagination.NewPageResponse[int](nil, 1, 20, 41)
	if page.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", page.TotalPages)
	}
	if page.Data == nil {
		t.Error("expected an empty slice, not nil")
	}

	empty := pagination.NewPageResponse([]int{}, 1, 20, 0)
	if empty.TotalPages != 0 {
		t.Errorf("expected 0 pages, got %d", empty.TotalPages)
	}
}

func TestFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	household := testutil.CreateTestHousehold(t, db)
	other := testutil.CreateTestHousehold(t, db)
	for i := 0; i < 5; i++ {
		testutil.CreateTestPot(t, db, household.ID, "0", "100")
	}
	testutil.CreateTestPot(t, db, other.ID, "0", "100")

	q := db.Model(&models.Pot{}).Where("household_id = ?", household.ID)
	page, err := pagination.Find[models.Pot](q, pagination.PageRequest{Page: 2, PageSize: 2}, "created_at, id")
	testutil.AssertNoError(t, err)

	if page.TotalItems != 5 || page.TotalPages != 3 {
		t.Errorf("expected 5 items over 3 pages, got %d over %d", page.TotalItems, page.TotalPages)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 pots on page 2, got %d", len(page.Data))
	}
	for _, pot := range page.Data {
		if pot.HouseholdID != household.ID {
			t.Errorf("pot %s belongs to another household", pot.ID)
		}
	}

	last, err := pagination.Find[models.Pot](q, pagination.PageRequest{Page: 3, PageSize: 2}, "created_at, id")
	testutil.AssertNoError(t, err)
	if len(last.Data) != 1 {
		t.Errorf("expected 1 pot on the last page, got %d", len(last.Data))
	}
}
