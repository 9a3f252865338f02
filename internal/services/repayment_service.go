package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "payday/internal/errors"
	"payday/internal/models"
)

// repaymentService handles debt repayments.
type repaymentService struct {
	db *gorm.DB
}

// NewRepaymentService creates a new RepaymentServicer.
func NewRepaymentService(db *gorm.DB) RepaymentServicer {
	return &repaymentService{db: db}
}

// CreateRepayment creates a repayment. The current balance defaults to the
// starting balance and the status to active.
func (s *repaymentService) CreateRepayment(householdID string, in RepaymentInput) (*models.Repayment, error) {
	if _, err := findHousehold(s.db, householdID); err != nil {
		return nil, err
	}

	repayment := &models.Repayment{
		HouseholdID: householdID,
		Status:      models.RepaymentStatusActive,
	}
	applyRepaymentInput(repayment, in)
	if in.CurrentBalance == nil {
		repayment.CurrentBalance = repayment.StartingBalance
	}
	if err := validateRepayment(repayment); err != nil {
		return nil, err
	}

	if err := s.db.Create(repayment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return repayment, nil
}

// GetRepayment returns a repayment of the household.
func (s *repaymentService) GetRepayment(householdID, repaymentID string) (*models.Repayment, error) {
	return findRepayment(s.db, householdID, repaymentID)
}

// ListRepayments returns the household's repayments, optionally filtered by status.
func (s *repaymentService) ListRepayments(householdID string, status *models.RepaymentStatus) ([]models.Repayment, error) {
	q := s.db.Scopes(models.OwnedBy(householdID))
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var repayments []models.Repayment
	if err := q.Order("created_at, id").Find(&repayments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return repayments, nil
}

// UpdateRepayment changes the fields present in the input.
func (s *repaymentService) UpdateRepayment(householdID, repaymentID string, in RepaymentInput) (*models.Repayment, error) {
	repayment, err := findRepayment(s.db, householdID, repaymentID)
	if err != nil {
		return nil, err
	}

	applyRepaymentInput(repayment, in)
	if err := validateRepayment(repayment); err != nil {
		return nil, err
	}

	if err := s.db.Save(repayment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return repayment, nil
}

// DeleteRepayment soft-deletes a repayment and clears the links seeds hold to it.
func (s *repaymentService) DeleteRepayment(householdID, repaymentID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repayment, err := findRepayment(tx, householdID, repaymentID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Seed{}).
			Where("household_id = ? AND linked_repayment_id = ?", householdID, repayment.ID).
			Update("linked_repayment_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(repayment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func applyRepaymentInput(r *models.Repayment, in RepaymentInput) {
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.StartingBalance != nil {
		r.StartingBalance = *in.StartingBalance
	}
	if in.CurrentBalance != nil {
		r.CurrentBalance = *in.CurrentBalance
	}
	if in.TargetDate != nil {
		r.TargetDate = truncateDate(in.TargetDate)
	}
	if in.InterestRate != nil {
		r.InterestRate = decimal.NewNullDecimal(*in.InterestRate)
	}
	if in.Status != nil {
		r.Status = *in.Status
	}
}

func validateRepayment(r *models.Repayment) error {
	if r.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !r.StartingBalance.IsPositive() {
		return apperrors.ErrNonPositiveAmount
	}
	if r.CurrentBalance.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "current balance cannot be negative")
	}
	if r.InterestRate.Valid && r.InterestRate.Decimal.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "interest rate cannot be negative")
	}
	if !r.Status.Valid() {
		return apperrors.ErrInvalidStatus
	}
	return nil
}

func findRepayment(db *gorm.DB, householdID, repaymentID string) (*models.Repayment, error) {
	var repayment models.Repayment
	if err := db.Where("id = ? AND household_id = ?", repaymentID, householdID).First(&repayment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRepaymentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &repayment, nil
}
