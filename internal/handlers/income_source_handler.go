package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "payday/internal/errors"
	"payday/internal/models"
	"payday/internal/services"
)

// IncomeSourceHandler handles income source requests.
type IncomeSourceHandler struct {
	incomeService services.IncomeSourceServicer
	auditService  services.AuditServicer
}

// NewIncomeSourceHandler creates a new IncomeSourceHandler.
func NewIncomeSourceHandler(incomeService services.IncomeSourceServicer, auditService services.AuditServicer) *IncomeSourceHandler {
	return &IncomeSourceHandler{incomeService: incomeService, auditService: auditService}
}

// CreateIncomeSourceRequest represents the request payload for creating an income source.
type CreateIncomeSourceRequest struct {
	Name          string               `json:"name" binding:"required,min=1,max=100"`
	Amount        decimal.Decimal      `json:"amount" binding:"gt=0"`
	FrequencyRule models.PayCycleType  `json:"frequency_rule" binding:"required,pay_cycle_type"`
	DayOfMonth    *int                 `json:"day_of_month" binding:"omitempty,min=1,max=31"`
	AnchorDate    *string              `json:"anchor_date" binding:"omitempty,datetime=2006-01-02"`
	PaymentSource models.PaymentSource `json:"payment_source" binding:"required,payment_source"`
}

// UpdateIncomeSourceRequest represents the request payload for updating an income source.
type UpdateIncomeSourceRequest struct {
	Name          *string               `json:"name" binding:"omitempty,min=1,max=100"`
	Amount        *decimal.Decimal      `json:"amount" binding:"omitempty,gt=0"`
	FrequencyRule *models.PayCycleType  `json:"frequency_rule" binding:"omitempty,pay_cycle_type"`
	DayOfMonth    *int                  `json:"day_of_month" binding:"omitempty,min=1,max=31"`
	AnchorDate    *string               `json:"anchor_date" binding:"omitempty,datetime=2006-01-02"`
	PaymentSource *models.PaymentSource `json:"payment_source" binding:"omitempty,payment_source"`
	IsActive      *bool                 `json:"is_active"`
}

// CreateIncomeSource handles adding an income source to the household.
// @Summary     Create income source
// @Description Add a recurring income to the household
// @Tags        income-sources
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateIncomeSourceRequest true "Income source details"
// @Success     201 {object} models.IncomeSource "Income source created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Household not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income-sources [post]
func (h *IncomeSourceHandler) CreateIncomeSource(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}

	var req CreateIncomeSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	anchor, err := parseDate(req.AnchorDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	src, err := h.incomeService.CreateIncomeSource(householdID, services.IncomeSourceInput{
		Name:          req.Name,
		Amount:        req.Amount,
		FrequencyRule: req.FrequencyRule,
		DayOfMonth:    req.DayOfMonth,
		AnchorDate:    anchor,
		PaymentSource: req.PaymentSource,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "CREATE_INCOME_SOURCE", "income_source", src.ID, c.ClientIP(),
		map[string]interface{}{"name": src.Name, "amount": src.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"income_source": src})
}

// ListIncomeSources handles listing the household's income sources.
// @Summary     List income sources
// @Description List income sources in creation order
// @Tags        income-sources
// @Produce     json
// @Security    BearerAuth
// @Param       active query bool false "Only active sources"
// @Success     200 {array}  models.IncomeSource "Income sources"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income-sources [get]
func (h *IncomeSourceHandler) ListIncomeSources(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}

	activeOnly := false
	switch c.Query("active") {
	case "", "false":
	case "true":
		activeOnly = true
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "active must be 'true' or 'false'"))
		return
	}

	sources, err := h.incomeService.ListIncomeSources(householdID, activeOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income_sources": sources})
}

// GetIncomeSource handles retrieving one income source.
// @Summary     Get income source
// @Tags        income-sources
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income source ID"
// @Success     200 {object} models.IncomeSource "Income source"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income source not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income-sources/{id} [get]
func (h *IncomeSourceHandler) GetIncomeSource(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	sourceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	src, err := h.incomeService.GetIncomeSource(householdID, sourceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income_source": src})
}

// UpdateIncomeSource handles updating an income source.
// @Summary     Update income source
// @Tags        income-sources
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Income source ID"
// @Param       request body UpdateIncomeSourceRequest true "Updated fields"
// @Success     200 {object} models.IncomeSource "Updated income source"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income source not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income-sources/{id} [put]
func (h *IncomeSourceHandler) UpdateIncomeSource(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	sourceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateIncomeSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	anchor, err := parseDate(req.AnchorDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	src, err := h.incomeService.UpdateIncomeSource(householdID, sourceID, services.IncomeSourceUpdate{
		Name:          req.Name,
		Amount:        req.Amount,
		FrequencyRule: req.FrequencyRule,
		DayOfMonth:    req.DayOfMonth,
		AnchorDate:    anchor,
		PaymentSource: req.PaymentSource,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "UPDATE_INCOME_SOURCE", "income_source", sourceID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"income_source": src})
}

// DeactivateIncomeSource handles excluding an income source from projections.
// @Summary     Deactivate income source
// @Description Soft-disable an income source; it no longer counts towards new cycles
// @Tags        income-sources
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income source ID"
// @Success     200 {object} MessageResponse "Income source deactivated"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income source not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income-sources/{id} [delete]
func (h *IncomeSourceHandler) DeactivateIncomeSource(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	sourceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.incomeService.DeactivateIncomeSource(householdID, sourceID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "DEACTIVATE_INCOME_SOURCE", "income_source", sourceID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Income source deactivated successfully"})
}
