package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "payday/internal/errors"
	"payday/internal/models"
	"payday/internal/services"
)

// HouseholdHandler handles household configuration requests.
type HouseholdHandler struct {
	householdService services.HouseholdServicer
	auditService     services.AuditServicer
}

// NewHouseholdHandler creates a new HouseholdHandler.
func NewHouseholdHandler(householdService services.HouseholdServicer, auditService services.AuditServicer) *HouseholdHandler {
	return &HouseholdHandler{householdService: householdService, auditService: auditService}
}

// PercentagesRequest is the category split of a household. All four values
// are required together.
type PercentagesRequest struct {
	Needs   decimal.Decimal `json:"needs_percent" binding:"gte=0,lte=100"`
	Wants   decimal.Decimal `json:"wants_percent" binding:"gte=0,lte=100"`
	Savings decimal.Decimal `json:"savings_percent" binding:"gte=0,lte=100"`
	Repay   decimal.Decimal `json:"repay_percent" binding:"gte=0,lte=100"`
}

func (p *PercentagesRequest) toService() *services.CategoryPercentages {
	if p == nil {
		return nil
	}
	return &services.CategoryPercentages{Needs: p.Needs, Wants: p.Wants, Savings: p.Savings, Repay: p.Repay}
}

// CreateHouseholdRequest represents the request payload for creating a household.
type CreateHouseholdRequest struct {
	Name           string              `json:"name" binding:"required,min=1,max=100"`
	PayCycleType   models.PayCycleType `json:"pay_cycle_type" binding:"required,pay_cycle_type"`
	PayDay         *int                `json:"pay_day" binding:"omitempty,min=1,max=31"`
	PayCycleAnchor *string             `json:"pay_cycle_anchor" binding:"omitempty,datetime=2006-01-02"`
	JointRatio     *decimal.Decimal    `json:"joint_ratio" binding:"omitempty,gte=0,lte=1"`
	Percentages    *PercentagesRequest `json:"percentages"`
}

// UpdateHouseholdRequest represents the request payload for updating a household.
type UpdateHouseholdRequest struct {
	Name           *string              `json:"name" binding:"omitempty,min=1,max=100"`
	PayCycleType   *models.PayCycleType `json:"pay_cycle_type" binding:"omitempty,pay_cycle_type"`
	PayDay         *int                 `json:"pay_day" binding:"omitempty,min=1,max=31"`
	PayCycleAnchor *string              `json:"pay_cycle_anchor" binding:"omitempty,datetime=2006-01-02"`
	JointRatio     *decimal.Decimal     `json:"joint_ratio" binding:"omitempty,gte=0,lte=1"`
	Percentages    *PercentagesRequest  `json:"percentages"`
}

// AddPartnerRequest represents the request payload for seating a partner.
type AddPartnerRequest struct {
	PartnerUserID string `json:"partner_user_id" binding:"required,uuid"`
}

// CreateHousehold handles the creation of the caller's household.
// @Summary     Create household
// @Description Create a household owned by the authenticated user
// @Tags        household
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateHouseholdRequest true "Household details"
// @Success     201 {object} models.Household "Household created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "User already has a household"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /household [post]
func (h *HouseholdHandler) CreateHousehold(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	anchor, err := parseDate(req.PayCycleAnchor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	household, err := h.householdService.CreateHousehold(userID, services.HouseholdInput{
		Name:           req.Name,
		PayCycleType:   req.PayCycleType,
		PayDay:         req.PayDay,
		PayCycleAnchor: anchor,
		JointRatio:     req.JointRatio,
		Percentages:    req.Percentages.toService(),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, household.ID, "CREATE_HOUSEHOLD", "household", household.ID, c.ClientIP(),
		map[string]interface{}{"name": household.Name, "pay_cycle_type": household.PayCycleType})

	c.JSON(http.StatusCreated, gin.H{"household": household})
}

// GetHousehold handles retrieving the caller's household.
// @Summary     Get household
// @Description Get the household of the authenticated user
// @Tags        household
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Household "Household details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Household not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /household [get]
func (h *HouseholdHandler) GetHousehold(c *gin.Context) {
	householdID, err := getHouseholdID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	household, err := h.householdService.GetHousehold(householdID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"household": household})
}

// UpdateHousehold handles updating the caller's household.
// @Summary     Update household
// @Description Update the pay rule, joint ratio or category split. Existing cycles keep their dates.
// @Tags        household
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateHouseholdRequest true "Updated household details"
// @Success     200 {object} models.Household "Updated household"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Household not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /household [put]
func (h *HouseholdHandler) UpdateHousehold(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}

	var req UpdateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	anchor, err := parseDate(req.PayCycleAnchor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	household, err := h.householdService.UpdateHousehold(householdID, services.HouseholdUpdate{
		Name:           req.Name,
		PayCycleType:   req.PayCycleType,
		PayDay:         req.PayDay,
		PayCycleAnchor: anchor,
		JointRatio:     req.JointRatio,
		Percentages:    req.Percentages.toService(),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "UPDATE_HOUSEHOLD", "household", householdID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"household": household})
}

// AddPartner handles seating a partner in the caller's household.
// @Summary     Add partner
// @Description Seat a second member in the household. Only the owner can do this.
// @Tags        household
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddPartnerRequest true "Partner user"
// @Success     200 {object} models.Household "Updated household"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Caller is not the owner"
// @Failure     409 {object} ErrorResponse "Partner seat taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /household/partner [put]
func (h *HouseholdHandler) AddPartner(c *gin.Context) {
	userID, householdID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req AddPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	household, err := h.householdService.AddPartner(householdID, req.PartnerUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "ADD_PARTNER", "household", householdID, c.ClientIP(),
		map[string]interface{}{"partner_user_id": req.PartnerUserID})

	c.JSON(http.StatusOK, gin.H{"household": household})
}

// RemovePartner handles freeing the partner seat.
// @Summary     Remove partner
// @Description Remove the partner from the household. Only the owner can do this.
// @Tags        household
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Household "Updated household"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Caller is not the owner"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /household/partner [delete]
func (h *HouseholdHandler) RemovePartner(c *gin.Context) {
	userID, householdID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	household, err := h.householdService.RemovePartner(householdID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "REMOVE_PARTNER", "household", householdID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"household": household})
}

// requireOwner writes an error response and returns false unless the caller
// owns their household.
func (h *HouseholdHandler) requireOwner(c *gin.Context) (string, string, bool) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return "", "", false
	}

	household, err := h.householdService.GetHousehold(householdID)
	if err != nil {
		respondWithError(c, err)
		return "", "", false
	}
	if household.OwnerID != userID {
		respondWithError(c, apperrors.ErrForbidden)
		return "", "", false
	}
	return userID, householdID, true
}
