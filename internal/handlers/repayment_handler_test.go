package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "payday/internal/errors"
	"payday/internal/models"
	"payday/internal/services"
)

// --- mock repayment service ---

type mockRepaymentService struct {
	createFn func(householdID string, in services.RepaymentInput) (*models.Repayment, error)
	getFn    func(householdID, repaymentID string) (*models.Repayment, error)
	listFn   func(householdID string, status *models.RepaymentStatus) ([]models.Repayment, error)
	updateFn func(householdID, repaymentID string, in services.RepaymentInput) (*models.Repayment, error)
	deleteFn func(householdID, repaymentID string) error
}

func (m *mockRepaymentService) CreateRepayment(householdID string, in services.RepaymentInput) (*models.Repayment, error) {
	if m.createFn != nil {
		return m.createFn(householdID, in)
	}
	return &models.Repayment{Name: *in.Name, StartingBalance: *in.StartingBalance}, nil
}

func (m *mockRepaymentService) GetRepayment(householdID, repaymentID string) (*models.Repayment, error) {
	if m.getFn != nil {
		return m.getFn(householdID, repaymentID)
	}
	return &models.Repayment{}, nil
}

func (m *mockRepaymentService) ListRepayments(householdID string, status *models.RepaymentStatus) ([]models.Repayment, error) {
	if m.listFn != nil {
		return m.listFn(householdID, status)
	}
	return []models.Repayment{}, nil
}

func (m *mockRepaymentService) UpdateRepayment(householdID, repaymentID string, in services.RepaymentInput) (*models.Repayment, error) {
	if m.updateFn != nil {
		return m.updateFn(householdID, repaymentID, in)
	}
	return &models.Repayment{}, nil
}

func (m *mockRepaymentService) DeleteRepayment(householdID, repaymentID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(householdID, repaymentID)
	}
	return nil
}

var _ services.RepaymentServicer = (*mockRepaymentService)(nil)

func setupRepaymentRouter(svc services.RepaymentServicer, audit *mockAuditService) *gin.Engine {
	handler := NewRepaymentHandler(svc, audit)

	r := gin.New()
	auth := r.Group("", injectAuth(testUserID, testHouseholdID))
	auth.POST("/repayments", handler.CreateRepayment)
	auth.GET("/repayments", handler.ListRepayments)
	auth.GET("/repayments/:id", handler.GetRepayment)
	auth.PUT("/repayments/:id", handler.UpdateRepayment)
	auth.DELETE("/repayments/:id", handler.DeleteRepayment)
	return r
}

func TestRepaymentHandler_CreateRepayment(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.RepaymentInput
		svc := &mockRepaymentService{
			createFn: func(_ string, in services.RepaymentInput) (*models.Repayment, error) {
				got = in
				return &models.Repayment{Base: models.Base{ID: testRepaymentID}, Name: *in.Name}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupRepaymentRouter(svc, audit)

		rec := doRequest(r, "POST", "/repayments",
			`{"name":"Credit card","starting_balance":"3000","interest_rate":"19.9"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.StartingBalance == nil || !got.StartingBalance.Equal(decimal.NewFromInt(3000)) {
			t.Errorf("expected starting balance 3000, got %v", got.StartingBalance)
		}
		if got.InterestRate == nil || !got.InterestRate.Equal(decimal.RequireFromString("19.9")) {
			t.Errorf("expected interest 19.9, got %v", got.InterestRate)
		}
		if got.CurrentBalance != nil {
			t.Error("expected current balance to default in the service")
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_REPAYMENT" {
			t.Errorf("expected CREATE_REPAYMENT audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 400 on interest above 100", func(t *testing.T) {
		r := setupRepaymentRouter(&mockRepaymentService{}, &mockAuditService{})

		rec := doRequest(r, "POST", "/repayments", `{"name":"Loan","starting_balance":500,"interest_rate":120}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on zero balance", func(t *testing.T) {
		r := setupRepaymentRouter(&mockRepaymentService{}, &mockAuditService{})

		rec := doRequest(r, "POST", "/repayments", `{"name":"Loan","starting_balance":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestRepaymentHandler_ListRepayments(t *testing.T) {
	t.Run("passes status filter", func(t *testing.T) {
		var gotStatus *models.RepaymentStatus
		svc := &mockRepaymentService{
			listFn: func(_ string, status *models.RepaymentStatus) ([]models.Repayment, error) {
				gotStatus = status
				return []models.Repayment{{Name: "Loan"}}, nil
			},
		}
		r := setupRepaymentRouter(svc, &mockAuditService{})

		rec := doRequest(r, "GET", "/repayments?status=paid", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotStatus == nil || *gotStatus != models.RepaymentStatusPaid {
			t.Errorf("expected paid filter, got %v", gotStatus)
		}
	})

	t.Run("returns 400 on pot status", func(t *testing.T) {
		r := setupRepaymentRouter(&mockRepaymentService{}, &mockAuditService{})

		rec := doRequest(r, "GET", "/repayments?status=complete", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_STATUS")
	})
}

func TestRepaymentHandler_GetRepayment(t *testing.T) {
	svc := &mockRepaymentService{
		getFn: func(string, string) (*models.Repayment, error) {
			return nil, apperrors.ErrRepaymentNotFound
		},
	}
	r := setupRepaymentRouter(svc, &mockAuditService{})

	rec := doRequest(r, "GET", "/repayments/"+testRepaymentID, "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "REPAYMENT_NOT_FOUND")
}

func TestRepaymentHandler_UpdateRepayment(t *testing.T) {
	var got services.RepaymentInput
	svc := &mockRepaymentService{
		updateFn: func(_, _ string, in services.RepaymentInput) (*models.Repayment, error) {
			got = in
			return &models.Repayment{}, nil
		},
	}
	audit := &mockAuditService{}
	r := setupRepaymentRouter(svc, audit)

	rec := doRequest(r, "PUT", "/repayments/"+testRepaymentID, `{"current_balance":"1250.40","target_date":"2027-06-30"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.CurrentBalance == nil || !got.CurrentBalance.Equal(decimal.RequireFromString("1250.4")) {
		t.Errorf("expected balance 1250.40, got %v", got.CurrentBalance)
	}
	if got.TargetDate == nil || got.TargetDate.Format(dateLayout) != "2027-06-30" {
		t.Errorf("expected target 2027-06-30, got %v", got.TargetDate)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "UPDATE_REPAYMENT" {
		t.Errorf("expected UPDATE_REPAYMENT audit entry, got %v", audit.actions)
	}
}

func TestRepaymentHandler_DeleteRepayment(t *testing.T) {
	var gotID string
	svc := &mockRepaymentService{
		deleteFn: func(_, repaymentID string) error {
			gotID = repaymentID
			return nil
		},
	}
	r := setupRepaymentRouter(svc, &mockAuditService{})

	rec := doRequest(r, "DELETE", "/repayments/"+testRepaymentID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != testRepaymentID {
		t.Errorf("expected %s, got %s", testRepaymentID, gotID)
	}
}
