package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "payday/internal/errors"
	"payday/internal/models"
)

// potService handles savings pots.
type potService struct {
	db *gorm.DB
}

// NewPotService creates a new PotServicer.
func NewPotService(db *gorm.DB) PotServicer {
	return &potService{db: db}
}

// CreatePot creates a savings pot. Status defaults to active.
func (s *potService) CreatePot(householdID string, in PotInput) (*models.Pot, error) {
	if _, err := findHousehold(s.db, householdID); err != nil {
		return nil, err
	}

	pot := &models.Pot{
		HouseholdID:   householdID,
		CurrentAmount: decimal.Zero,
		TargetAmount:  decimal.Zero,
		Status:        models.PotStatusActive,
	}
	applyPotInput(pot, in)
	if err := validatePot(pot); err != nil {
		return nil, err
	}

	if err := s.db.Create(pot).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pot, nil
}

// GetPot returns a pot of the household.
func (s *potService) GetPot(householdID, potID string) (*models.Pot, error) {
	return findPot(s.db, householdID, potID)
}

// ListPots returns the household's pots, optionally filtered by status.
func (s *potService) ListPots(householdID string, status *models.PotStatus) ([]models.Pot, error) {
	q := s.db.Scopes(models.OwnedBy(householdID))
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var pots []models.Pot
	if err := q.Order("created_at, id").Find(&pots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pots, nil
}

// UpdatePot changes the fields present in the input.
func (s *potService) UpdatePot(householdID, potID string, in PotInput) (*models.Pot, error) {
	pot, err := findPot(s.db, householdID, potID)
	if err != nil {
		return nil, err
	}

	applyPotInput(pot, in)
	if err := validatePot(pot); err != nil {
		return nil, err
	}

	if err := s.db.Save(pot).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pot, nil
}

// DeletePot soft-deletes a pot and clears the links seeds hold to it.
func (s *potService) DeletePot(householdID, potID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		pot, err := findPot(tx, householdID, potID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Seed{}).
			Where("household_id = ? AND linked_pot_id = ?", householdID, pot.ID).
			Update("linked_pot_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(pot).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func applyPotInput(pot *models.Pot, in PotInput) {
	if in.Name != nil {
		pot.Name = strings.TrimSpace(*in.Name)
	}
	if in.CurrentAmount != nil {
		pot.CurrentAmount = *in.CurrentAmount
	}
	if in.TargetAmount != nil {
		pot.TargetAmount = *in.TargetAmount
	}
	if in.TargetDate != nil {
		pot.TargetDate = truncateDate(in.TargetDate)
	}
	if in.Status != nil {
		pot.Status = *in.Status
	}
}

func validatePot(pot *models.Pot) error {
	if pot.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if pot.CurrentAmount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount cannot be negative")
	}
	if !pot.TargetAmount.IsPositive() {
		return apperrors.ErrNonPositiveAmount
	}
	if !pot.Status.Valid() {
		return apperrors.ErrInvalidStatus
	}
	return nil
}

func findPot(db *gorm.DB, householdID, potID string) (*models.Pot, error) {
	var pot models.Pot
	if err := db.Where("id = ? AND household_id = ?", potID, householdID).First(&pot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPotNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &pot, nil
}
