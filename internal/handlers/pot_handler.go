package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "payday/internal/errors"
	"payday/internal/models"
	"payday/internal/services"
)

// PotHandler handles savings pot requests.
type PotHandler struct {
	potService   services.PotServicer
	auditService services.AuditServicer
}

// NewPotHandler creates a new PotHandler.
func NewPotHandler(potService services.PotServicer, auditService services.AuditServicer) *PotHandler {
	return &PotHandler{potService: potService, auditService: auditService}
}

// CreatePotRequest represents the request payload for creating a pot.
type CreatePotRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=100"`
	CurrentAmount *decimal.Decimal `json:"current_amount" binding:"omitempty,gte=0"`
	TargetAmount  decimal.Decimal  `json:"target_amount" binding:"gt=0"`
	TargetDate    *string          `json:"target_date" binding:"omitempty,datetime=2006-01-02"`
}

// UpdatePotRequest represents the request payload for updating a pot.
type UpdatePotRequest struct {
	Name          *string           `json:"name" binding:"omitempty,min=1,max=100"`
	CurrentAmount *decimal.Decimal  `json:"current_amount" binding:"omitempty,gte=0"`
	TargetAmount  *decimal.Decimal  `json:"target_amount" binding:"omitempty,gt=0"`
	TargetDate    *string           `json:"target_date" binding:"omitempty,datetime=2006-01-02"`
	Status        *models.PotStatus `json:"status" binding:"omitempty,pot_status"`
}

// CreatePot handles creating a savings pot.
// @Summary     Create pot
// @Tags        pots
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePotRequest true "Pot details"
// @Success     201 {object} models.Pot "Pot created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pots [post]
func (h *PotHandler) CreatePot(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}

	var req CreatePotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pot, err := h.potService.CreatePot(householdID, services.PotInput{
		Name:          &req.Name,
		CurrentAmount: req.CurrentAmount,
		TargetAmount:  &req.TargetAmount,
		TargetDate:    targetDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "CREATE_POT", "pot", pot.ID, c.ClientIP(),
		map[string]interface{}{"name": pot.Name, "target_amount": pot.TargetAmount.String()})

	c.JSON(http.StatusCreated, gin.H{"pot": pot})
}

// ListPots handles listing the household's pots.
// @Summary     List pots
// @Tags        pots
// @Produce     json
// @Security    BearerAuth
// @Param       status query string false "Filter by status (active/paused/complete)"
// @Success     200 {array}  models.Pot "Pots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pots [get]
func (h *PotHandler) ListPots(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}

	var status *models.PotStatus
	if v := c.Query("status"); v != "" {
		s := models.PotStatus(v)
		if !s.Valid() {
			respondWithError(c, apperrors.ErrInvalidStatus)
			return
		}
		status = &s
	}

	pots, err := h.potService.ListPots(householdID, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pots": pots})
}

// GetPot handles retrieving one pot.
// @Summary     Get pot
// @Tags        pots
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pot ID"
// @Success     200 {object} models.Pot "Pot"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pot not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pots/{id} [get]
func (h *PotHandler) GetPot(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	potID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	pot, err := h.potService.GetPot(householdID, potID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pot": pot})
}

// UpdatePot handles updating a pot.
// @Summary     Update pot
// @Tags        pots
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Pot ID"
// @Param       request body UpdatePotRequest true "Updated fields"
// @Success     200 {object} models.Pot "Updated pot"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pot not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pots/{id} [put]
func (h *PotHandler) UpdatePot(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	potID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pot, err := h.potService.UpdatePot(householdID, potID, services.PotInput{
		Name:          req.Name,
		CurrentAmount: req.CurrentAmount,
		TargetAmount:  req.TargetAmount,
		TargetDate:    targetDate,
		Status:        req.Status,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "UPDATE_POT", "pot", potID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"pot": pot})
}

// DeletePot handles deleting a pot. Seeds linked to it keep their amounts and
// lose the link.
// @Summary     Delete pot
// @Tags        pots
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pot ID"
// @Success     200 {object} MessageResponse "Pot deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pot not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pots/{id} [delete]
func (h *PotHandler) DeletePot(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	potID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.potService.DeletePot(householdID, potID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "DELETE_POT", "pot", potID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Pot deleted successfully"})
}
