package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"payday/internal/cycledate"
	apperrors "payday/internal/errors"
	"payday/internal/models"
	"payday/internal/split"
)

// DefaultPercentages is the category split of a new household when none is given.
var DefaultPercentages = CategoryPercentages{
	Needs:   decimal.NewFromInt(50),
	Wants:   decimal.NewFromInt(30),
	Savings: decimal.NewFromInt(10),
	Repay:   decimal.NewFromInt(10),
}

var percentTolerance = decimal.RequireFromString("0.01")

// householdService handles household configuration.
type householdService struct {
	db *gorm.DB
}

// NewHouseholdService creates a new HouseholdServicer.
func NewHouseholdService(db *gorm.DB) HouseholdServicer {
	return &householdService{db: db}
}

// CreateHousehold creates a household owned by ownerID. A user can belong to
// one household only.
func (s *householdService) CreateHousehold(ownerID string, in HouseholdInput) (*models.Household, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	household := &models.Household{
		Name:           name,
		OwnerID:        ownerID,
		PayCycleType:   in.PayCycleType,
		PayDay:         in.PayDay,
		PayCycleAnchor: truncateDate(in.PayCycleAnchor),
		JointRatio:     models.DefaultJointRatio,
	}
	if in.JointRatio != nil {
		household.JointRatio = *in.JointRatio
	}
	percentages := DefaultPercentages
	if in.Percentages != nil {
		percentages = *in.Percentages
	}
	setPercentages(household, percentages)

	if err := validateHousehold(household); err != nil {
		return nil, err
	}

	if existing, err := s.GetHouseholdForUser(ownerID); err == nil && existing != nil {
		return nil, apperrors.ErrHouseholdExists
	} else if err != nil && !errors.Is(err, apperrors.ErrHouseholdNotFound) {
		return nil, err
	}

	if err := s.db.Create(household).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrHouseholdExists
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return household, nil
}

// GetHousehold returns a household by ID.
func (s *householdService) GetHousehold(householdID string) (*models.Household, error) {
	return findHousehold(s.db, householdID)
}

// GetHouseholdForUser returns the household the user owns or is the partner of.
func (s *householdService) GetHouseholdForUser(userID string) (*models.Household, error) {
	var household models.Household
	if err := s.db.Where("owner_id = ? OR partner_user_id = ?", userID, userID).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHouseholdNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &household, nil
}

// UpdateHousehold changes a household's configuration. Existing cycles keep
// their dates; the new pay rule applies from the next cycle on.
func (s *householdService) UpdateHousehold(householdID string, in HouseholdUpdate) (*models.Household, error) {
	household, err := findHousehold(s.db, householdID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		household.Name = strings.TrimSpace(*in.Name)
		if household.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
		}
	}
	if in.PayCycleType != nil {
		household.PayCycleType = *in.PayCycleType
	}
	if in.PayDay != nil {
		household.PayDay = in.PayDay
	}
	if in.PayCycleAnchor != nil {
		household.PayCycleAnchor = truncateDate(in.PayCycleAnchor)
	}
	if in.JointRatio != nil {
		household.JointRatio = *in.JointRatio
	}
	if in.Percentages != nil {
		setPercentages(household, *in.Percentages)
	}

	if err := validateHousehold(household); err != nil {
		return nil, err
	}

	if err := s.db.Save(household).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return household, nil
}

// AddPartner seats a second member in the household.
func (s *householdService) AddPartner(householdID, partnerUserID string) (*models.Household, error) {
	household, err := findHousehold(s.db, householdID)
	if err != nil {
		return nil, err
	}
	if household.OwnerID == partnerUserID {
		return nil, apperrors.ErrOwnerCannotBePartner
	}
	if household.PartnerUserID != nil {
		if *household.PartnerUserID == partnerUserID {
			return household, nil
		}
		return nil, apperrors.ErrPartnerSeatTaken
	}

	if _, err := s.GetHouseholdForUser(partnerUserID); err == nil {
		return nil, apperrors.ErrHouseholdExists
	} else if !errors.Is(err, apperrors.ErrHouseholdNotFound) {
		return nil, err
	}

	if err := s.db.Model(household).Update("partner_user_id", partnerUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrHouseholdExists
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	household.PartnerUserID = &partnerUserID
	return household, nil
}

// RemovePartner frees the partner seat.
func (s *householdService) RemovePartner(householdID string) (*models.Household, error) {
	household, err := findHousehold(s.db, householdID)
	if err != nil {
		return nil, err
	}
	if household.PartnerUserID == nil {
		return household, nil
	}
	if err := s.db.Model(household).Update("partner_user_id", nil).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	household.PartnerUserID = nil
	return household, nil
}

func setPercentages(h *models.Household, p CategoryPercentages) {
	h.NeedsPercent = p.Needs
	h.WantsPercent = p.Wants
	h.SavingsPercent = p.Savings
	h.RepayPercent = p.Repay
}

// validateHousehold checks the pay rule, joint ratio and category split, and
// drops pay rule parameters the cycle type does not use.
func validateHousehold(h *models.Household) error {
	if !h.PayCycleType.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidPayCycleConfig, "unknown pay cycle type")
	}
	if err := cycledate.FromHousehold(h).Validate(); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidPayCycleConfig, err.Error())
	}
	switch h.PayCycleType {
	case models.PayCycleTypeSpecificDate:
		h.PayCycleAnchor = nil
	case models.PayCycleTypeEvery4Weeks:
		h.PayDay = nil
	default:
		h.PayDay, h.PayCycleAnchor = nil, nil
	}

	if !split.ValidRatio(h.JointRatio) {
		return apperrors.ErrInvalidJointRatio
	}
	return validatePercentages(CategoryPercentages{
		Needs:   h.NeedsPercent,
		Wants:   h.WantsPercent,
		Savings: h.SavingsPercent,
		Repay:   h.RepayPercent,
	})
}

func validatePercentages(p CategoryPercentages) error {
	for _, v := range []decimal.Decimal{p.Needs, p.Wants, p.Savings, p.Repay} {
		if v.IsNegative() {
			return apperrors.WithMessage(apperrors.ErrInvalidCategorySplit, "category percentages cannot be negative")
		}
	}
	sum := p.Needs.Add(p.Wants).Add(p.Savings).Add(p.Repay)
	if sum.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(percentTolerance) {
		return apperrors.ErrInvalidCategorySplit
	}
	return nil
}
