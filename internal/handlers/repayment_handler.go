package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "payday/internal/errors"
	"payday/internal/models"
	"payday/internal/services"
)

// RepaymentHandler handles debt repayment requests.
type RepaymentHandler struct {
	repaymentService services.RepaymentServicer
	auditService     services.AuditServicer
}

// NewRepaymentHandler creates a new RepaymentHandler.
func NewRepaymentHandler(repaymentService services.RepaymentServicer, auditService services.AuditServicer) *RepaymentHandler {
	return &RepaymentHandler{repaymentService: repaymentService, auditService: auditService}
}

// CreateRepaymentRequest represents the request payload for creating a repayment.
// CurrentBalance defaults to StartingBalance.
type CreateRepaymentRequest struct {
	Name            string           `json:"name" binding:"required,min=1,max=100"`
	StartingBalance decimal.Decimal  `json:"starting_balance" binding:"gt=0"`
	CurrentBalance  *decimal.Decimal `json:"current_balance" binding:"omitempty,gte=0"`
	TargetDate      *string          `json:"target_date" binding:"omitempty,datetime=2006-01-02"`
	InterestRate    *decimal.Decimal `json:"interest_rate" binding:"omitempty,gte=0,lte=100"`
}

// UpdateRepaymentRequest represents the request payload for updating a repayment.
type UpdateRepaymentRequest struct {
	Name            *string                 `json:"name" binding:"omitempty,min=1,max=100"`
	StartingBalance *decimal.Decimal        `json:"starting_balance" binding:"omitempty,gt=0"`
	CurrentBalance  *decimal.Decimal        `json:"current_balance" binding:"omitempty,gte=0"`
	TargetDate      *string                 `json:"target_date" binding:"omitempty,datetime=2006-01-02"`
	InterestRate    *decimal.Decimal        `json:"interest_rate" binding:"omitempty,gte=0,lte=100"`
	Status          *models.RepaymentStatus `json:"status" binding:"omitempty,repayment_status"`
}

// CreateRepayment handles creating a repayment.
// @Summary     Create repayment
// @Tags        repayments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRepaymentRequest true "Repayment details"
// @Success     201 {object} models.Repayment "Repayment created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /repayments [post]
func (h *RepaymentHandler) CreateRepayment(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}

	var req CreateRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	repayment, err := h.repaymentService.CreateRepayment(householdID, services.RepaymentInput{
		Name:            &req.Name,
		StartingBalance: &req.StartingBalance,
		CurrentBalance:  req.CurrentBalance,
		TargetDate:      targetDate,
		InterestRate:    req.InterestRate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "CREATE_REPAYMENT", "repayment", repayment.ID, c.ClientIP(),
		map[string]interface{}{"name": repayment.Name, "starting_balance": repayment.StartingBalance.String()})

	c.JSON(http.StatusCreated, gin.H{"repayment": repayment})
}

// ListRepayments handles listing the household's repayments.
// @Summary     List repayments
// @Tags        repayments
// @Produce     json
// @Security    BearerAuth
// @Param       status query string false "Filter by status (active/paused/paid)"
// @Success     200 {array}  models.Repayment "Repayments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /repayments [get]
func (h *RepaymentHandler) ListRepayments(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}

	var status *models.RepaymentStatus
	if v := c.Query("status"); v != "" {
		s := models.RepaymentStatus(v)
		if !s.Valid() {
			respondWithError(c, apperrors.ErrInvalidStatus)
			return
		}
		status = &s
	}

	repayments, err := h.repaymentService.ListRepayments(householdID, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"repayments": repayments})
}

// GetRepayment handles retrieving one repayment.
// @Summary     Get repayment
// @Tags        repayments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Repayment ID"
// @Success     200 {object} models.Repayment "Repayment"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Repayment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /repayments/{id} [get]
func (h *RepaymentHandler) GetRepayment(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	repaymentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	repayment, err := h.repaymentService.GetRepayment(householdID, repaymentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"repayment": repayment})
}

// UpdateRepayment handles updating a repayment.
// @Summary     Update repayment
// @Tags        repayments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Repayment ID"
// @Param       request body UpdateRepaymentRequest true "Updated fields"
// @Success     200 {object} models.Repayment "Updated repayment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Repayment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /repayments/{id} [put]
func (h *RepaymentHandler) UpdateRepayment(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	repaymentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	repayment, err := h.repaymentService.UpdateRepayment(householdID, repaymentID, services.RepaymentInput{
		Name:            req.Name,
		StartingBalance: req.StartingBalance,
		CurrentBalance:  req.CurrentBalance,
		TargetDate:      targetDate,
		InterestRate:    req.InterestRate,
		Status:          req.Status,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "UPDATE_REPAYMENT", "repayment", repaymentID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"repayment": repayment})
}

// DeleteRepayment handles deleting a repayment. Seeds linked to it keep their
// amounts and lose the link.
// @Summary     Delete repayment
// @Tags        repayments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Repayment ID"
// @Success     200 {object} MessageResponse "Repayment deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Repayment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /repayments/{id} [delete]
func (h *RepaymentHandler) DeleteRepayment(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	repaymentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.repaymentService.DeleteRepayment(householdID, repaymentID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "DELETE_REPAYMENT", "repayment", repaymentID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Repayment deleted successfully"})
}
