package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "payday/internal/errors"
	"payday/internal/models"
	"payday/internal/pagination"
	"payday/internal/services"
)

// SeedHandler handles the budget lines of a pay cycle.
type SeedHandler struct {
	seedService  services.SeedServicer
	auditService services.AuditServicer
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(seedService services.SeedServicer, auditService services.AuditServicer) *SeedHandler {
	return &SeedHandler{seedService: seedService, auditService: auditService}
}

// CreateSeedRequest represents the request payload for creating a seed.
type CreateSeedRequest struct {
	Name              string               `json:"name" binding:"required,min=1,max=100"`
	Type              models.SeedType      `json:"type" binding:"required,seed_type"`
	Amount            decimal.Decimal      `json:"amount" binding:"gt=0"`
	PaymentSource     models.PaymentSource `json:"payment_source" binding:"required,payment_source"`
	SplitRatio        *decimal.Decimal     `json:"split_ratio" binding:"omitempty,gte=0,lte=1"`
	UsesJointAccount  bool                 `json:"uses_joint_account"`
	IsRecurring       bool                 `json:"is_recurring"`
	DueDate           *string              `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	LinkedPotID       *string              `json:"linked_pot_id" binding:"omitempty,uuid"`
	LinkedRepaymentID *string              `json:"linked_repayment_id" binding:"omitempty,uuid"`
}

// UpdateSeedRequest represents the request payload for updating a seed. The
// clear flags remove the split ratio, the due date or both links.
type UpdateSeedRequest struct {
	Name              *string               `json:"name" binding:"omitempty,min=1,max=100"`
	Type              *models.SeedType      `json:"type" binding:"omitempty,seed_type"`
	Amount            *decimal.Decimal      `json:"amount" binding:"omitempty,gt=0"`
	PaymentSource     *models.PaymentSource `json:"payment_source" binding:"omitempty,payment_source"`
	SplitRatio        *decimal.Decimal      `json:"split_ratio" binding:"omitempty,gte=0,lte=1"`
	ClearSplitRatio   bool                  `json:"clear_split_ratio"`
	UsesJointAccount  *bool                 `json:"uses_joint_account"`
	IsRecurring       *bool                 `json:"is_recurring"`
	DueDate           *string               `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	ClearDueDate      bool                  `json:"clear_due_date"`
	LinkedPotID       *string               `json:"linked_pot_id" binding:"omitempty,uuid"`
	LinkedRepaymentID *string               `json:"linked_repayment_id" binding:"omitempty,uuid"`
	ClearLinks        bool                  `json:"clear_links"`
}

// SetSeedPaidRequest represents the request payload for marking a seed paid.
// Payer defaults to both halves.
type SetSeedPaidRequest struct {
	Paid  *bool          `json:"paid" binding:"required"`
	Payer services.Payer `json:"payer" binding:"omitempty,payer"`
}

// CreateSeed handles adding a seed to a cycle.
// @Summary     Create seed
// @Description Add a budget line to a pay cycle; allocation totals are recomputed
// @Tags        seeds
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Pay cycle ID"
// @Param       request body CreateSeedRequest true "Seed details"
// @Success     201 {object} models.Seed "Seed created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pay cycle, pot or repayment not found"
// @Failure     409 {object} ErrorResponse "Cycle completed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/{id}/seeds [post]
func (h *SeedHandler) CreateSeed(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	cycleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	in := services.SeedInput{
		Name:              req.Name,
		Type:              req.Type,
		Amount:            req.Amount,
		PaymentSource:     req.PaymentSource,
		UsesJointAccount:  req.UsesJointAccount,
		IsRecurring:       req.IsRecurring,
		DueDate:           due,
		LinkedPotID:       req.LinkedPotID,
		LinkedRepaymentID: req.LinkedRepaymentID,
	}
	if req.SplitRatio != nil {
		in.SplitRatio = decimal.NewNullDecimal(*req.SplitRatio)
	}

	seed, err := h.seedService.CreateSeed(householdID, cycleID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "CREATE_SEED", "seed", seed.ID, c.ClientIP(),
		map[string]interface{}{"name": seed.Name, "type": seed.Type, "amount": seed.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"seed": seed})
}

// ListSeeds handles listing a cycle's seeds.
// @Summary     List seeds
// @Tags        seeds
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Pay cycle ID"
// @Param       type      query string false "Filter by type (need/want/savings/repay)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Seed] "Paginated seeds"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pay cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/{id}/seeds [get]
func (h *SeedHandler) ListSeeds(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	cycleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var seedType *models.SeedType
	if v := c.Query("type"); v != "" {
		t := models.SeedType(v)
		if !t.Valid() {
			respondWithError(c, apperrors.ErrInvalidSeedType)
			return
		}
		seedType = &t
	}

	result, err := h.seedService.ListSeeds(householdID, cycleID, page, seedType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSeed handles retrieving one seed.
// @Summary     Get seed
// @Tags        seeds
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Seed ID"
// @Success     200 {object} models.Seed "Seed"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Seed not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /seeds/{id} [get]
func (h *SeedHandler) GetSeed(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	seedID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	seed, err := h.seedService.GetSeed(householdID, seedID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"seed": seed})
}

// UpdateSeed handles updating a seed.
// @Summary     Update seed
// @Tags        seeds
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Seed ID"
// @Param       request body UpdateSeedRequest true "Updated fields"
// @Success     200 {object} models.Seed "Updated seed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Seed not found"
// @Failure     409 {object} ErrorResponse "Cycle completed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /seeds/{id} [put]
func (h *SeedHandler) UpdateSeed(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	seedID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	seed, err := h.seedService.UpdateSeed(householdID, seedID, services.SeedUpdate{
		Name:              req.Name,
		Type:              req.Type,
		Amount:            req.Amount,
		PaymentSource:     req.PaymentSource,
		SplitRatio:        req.SplitRatio,
		ClearSplitRatio:   req.ClearSplitRatio,
		UsesJointAccount:  req.UsesJointAccount,
		IsRecurring:       req.IsRecurring,
		DueDate:           due,
		ClearDueDate:      req.ClearDueDate,
		LinkedPotID:       req.LinkedPotID,
		LinkedRepaymentID: req.LinkedRepaymentID,
		ClearLinks:        req.ClearLinks,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "UPDATE_SEED", "seed", seedID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"seed": seed})
}

// DeleteSeed handles deleting a seed.
// @Summary     Delete seed
// @Tags        seeds
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Seed ID"
// @Success     200 {object} MessageResponse "Seed deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Seed not found"
// @Failure     409 {object} ErrorResponse "Cycle completed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /seeds/{id} [delete]
func (h *SeedHandler) DeleteSeed(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	seedID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.seedService.DeleteSeed(householdID, seedID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "DELETE_SEED", "seed", seedID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Seed deleted successfully"})
}

// SetSeedPaid handles marking a seed, or one half of a joint seed, paid or unpaid.
// @Summary     Mark seed paid
// @Description Paying a seed linked to a pot or repayment moves that balance
// @Tags        seeds
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Seed ID"
// @Param       request body SetSeedPaidRequest true "Paid flag and payer"
// @Success     200 {object} models.Seed "Updated seed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Seed not found"
// @Failure     409 {object} ErrorResponse "Cycle completed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /seeds/{id}/paid [put]
func (h *SeedHandler) SetSeedPaid(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	seedID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetSeedPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	payer := req.Payer
	if payer == "" {
		payer = services.PayerBoth
	}

	seed, err := h.seedService.SetSeedPaid(householdID, seedID, payer, *req.Paid)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "SET_SEED_PAID", "seed", seedID, c.ClientIP(),
		map[string]interface{}{"paid": *req.Paid, "payer": payer})

	c.JSON(http.StatusOK, gin.H{"seed": seed})
}
