package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"payday/internal/cycledate"
	apperrors "payday/internal/errors"
	"payday/internal/models"
)

// incomeSourceService handles a household's recurring income.
type incomeSourceService struct {
	db *gorm.DB
}

// NewIncomeSourceService creates a new IncomeSourceServicer.
func NewIncomeSourceService(db *gorm.DB) IncomeSourceServicer {
	return &incomeSourceService{db: db}
}

// CreateIncomeSource adds an active income source to a household.
func (s *incomeSourceService) CreateIncomeSource(householdID string, in IncomeSourceInput) (*models.IncomeSource, error) {
	if _, err := findHousehold(s.db, householdID); err != nil {
		return nil, err
	}

	src := &models.IncomeSource{
		HouseholdID:   householdID,
		Name:          strings.TrimSpace(in.Name),
		Amount:        in.Amount,
		FrequencyRule: in.FrequencyRule,
		DayOfMonth:    in.DayOfMonth,
		AnchorDate:    truncateDate(in.AnchorDate),
		PaymentSource: in.PaymentSource,
		IsActive:      true,
	}
	if err := validateIncomeSource(src); err != nil {
		return nil, err
	}

	if err := s.db.Create(src).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return src, nil
}

// ListIncomeSources returns the household's income sources in creation order.
func (s *incomeSourceService) ListIncomeSources(householdID string, activeOnly bool) ([]models.IncomeSource, error) {
	q := s.db.Scopes(models.OwnedBy(householdID))
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var sources []models.IncomeSource
	if err := q.Order("created_at, id").Find(&sources).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sources, nil
}

// GetIncomeSource returns an income source of the household.
func (s *incomeSourceService) GetIncomeSource(householdID, sourceID string) (*models.IncomeSource, error) {
	var src models.IncomeSource
	if err := s.db.Where("id = ? AND household_id = ?", sourceID, householdID).First(&src).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeSourceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &src, nil
}

// UpdateIncomeSource changes an income source. The merged rule is validated
// as a whole.
func (s *incomeSourceService) UpdateIncomeSource(householdID, sourceID string, in IncomeSourceUpdate) (*models.IncomeSource, error) {
	src, err := s.GetIncomeSource(householdID, sourceID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		src.Name = strings.TrimSpace(*in.Name)
	}
	if in.Amount != nil {
		src.Amount = *in.Amount
	}
	if in.FrequencyRule != nil {
		src.FrequencyRule = *in.FrequencyRule
	}
	if in.DayOfMonth != nil {
		src.DayOfMonth = in.DayOfMonth
	}
	if in.AnchorDate != nil {
		src.AnchorDate = truncateDate(in.AnchorDate)
	}
	if in.PaymentSource != nil {
		src.PaymentSource = *in.PaymentSource
	}
	if in.IsActive != nil {
		src.IsActive = *in.IsActive
	}

	if err := validateIncomeSource(src); err != nil {
		return nil, err
	}

	if err := s.db.Save(src).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return src, nil
}

// DeactivateIncomeSource excludes an income source from future projections.
func (s *incomeSourceService) DeactivateIncomeSource(householdID, sourceID string) error {
	src, err := s.GetIncomeSource(householdID, sourceID)
	if err != nil {
		return err
	}
	if err := s.db.Model(src).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// validateIncomeSource requires day_of_month exactly for specific_date rules
// and anchor_date exactly for every_4_weeks rules.
func validateIncomeSource(src *models.IncomeSource) error {
	if src.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !src.Amount.IsPositive() {
		return apperrors.ErrNonPositiveAmount
	}
	if !src.PaymentSource.Valid() {
		return apperrors.ErrInvalidPaymentSource
	}
	if !src.FrequencyRule.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidIncomeRule, "unknown frequency rule")
	}
	if err := cycledate.FromIncomeSource(src).Validate(); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidIncomeRule, err.Error())
	}

	switch src.FrequencyRule {
	case models.PayCycleTypeSpecificDate:
		src.AnchorDate = nil
	case models.PayCycleTypeEvery4Weeks:
		src.DayOfMonth = nil
	default:
		src.DayOfMonth, src.AnchorDate = nil, nil
	}
	return nil
}
