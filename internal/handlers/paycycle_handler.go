package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "payday/internal/errors"
	"payday/internal/income"
	"payday/internal/models"
	"payday/internal/pagination"
	"payday/internal/services"
)

// PayCycleHandler handles pay cycle lifecycle requests.
type PayCycleHandler struct {
	cycleService services.PayCycleServicer
	auditService services.AuditServicer
	now          func() time.Time
}

// NewPayCycleHandler creates a new PayCycleHandler.
func NewPayCycleHandler(cycleService services.PayCycleServicer, auditService services.AuditServicer) *PayCycleHandler {
	return &PayCycleHandler{cycleService: cycleService, auditService: auditService, now: time.Now}
}

// CreateNextCycleRequest represents the request payload for creating the next
// cycle. An omitted status creates a draft.
type CreateNextCycleRequest struct {
	Status models.PayCycleStatus `json:"status" binding:"omitempty,cycle_status"`
}

// ResyncRequest represents the request payload for re-syncing a draft.
type ResyncRequest struct {
	ActiveCycleID string `json:"active_cycle_id" binding:"required,uuid"`
}

// IncomeEventsResponse wraps the income projection of a cycle.
type IncomeEventsResponse struct {
	Income *income.Projection `json:"income"`
}

// MarkOverdueResponse reports how many seeds were marked paid.
type MarkOverdueResponse struct {
	Marked int `json:"marked"`
}

// StartFirstCycle handles creating the household's first cycle.
// @Summary     Start first pay cycle
// @Description Create the active cycle containing today from the household's pay rule
// @Tags        paycycles
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} models.PayCycle "Pay cycle created"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Household not found"
// @Failure     409 {object} ErrorResponse "Household already has cycles"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/start [post]
func (h *PayCycleHandler) StartFirstCycle(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}

	cycle, err := h.cycleService.StartFirstCycle(c.Request.Context(), householdID, today(h.now))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "START_PAYCYCLE", "paycycle", cycle.ID, c.ClientIP(),
		map[string]interface{}{"start_date": cycle.StartDate.Format(dateLayout), "end_date": cycle.EndDate.Format(dateLayout)})

	c.JSON(http.StatusCreated, gin.H{"paycycle": cycle})
}

// CreateNextCycle handles creating the cycle after an existing one.
// @Summary     Create next pay cycle
// @Description Create the cycle following the given one, carrying its recurring seeds
// @Tags        paycycles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Current pay cycle ID"
// @Param       request body CreateNextCycleRequest false "Status of the new cycle (draft or active, default draft)"
// @Success     201 {object} models.PayCycle "Pay cycle created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pay cycle not found"
// @Failure     409 {object} ErrorResponse "Conflicting cycle exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/{id}/next [post]
func (h *PayCycleHandler) CreateNextCycle(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	cycleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateNextCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Status == "" {
		req.Status = models.PayCycleStatusDraft
	}

	cycle, err := h.cycleService.CreateNextCycle(c.Request.Context(), householdID, cycleID, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "CREATE_NEXT_PAYCYCLE", "paycycle", cycle.ID, c.ClientIP(),
		map[string]interface{}{"from_cycle_id": cycleID, "status": cycle.Status})

	c.JSON(http.StatusCreated, gin.H{"paycycle": cycle})
}

// ResyncDraft handles re-syncing a draft from the active cycle.
// @Summary     Re-sync draft
// @Description Copy the active cycle's recurring seeds into the draft, updating matches by name and type
// @Tags        paycycles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Draft pay cycle ID"
// @Param       request body ResyncRequest true "Active cycle to copy from"
// @Success     200 {object} models.PayCycle "Updated draft"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pay cycle not found"
// @Failure     409 {object} ErrorResponse "Wrong cycle status"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/{id}/resync [post]
func (h *PayCycleHandler) ResyncDraft(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	draftID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ResyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cycle, err := h.cycleService.ResyncDraftFromActive(c.Request.Context(), householdID, draftID, req.ActiveCycleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "RESYNC_DRAFT", "paycycle", draftID, c.ClientIP(),
		map[string]interface{}{"active_cycle_id": req.ActiveCycleID})

	c.JSON(http.StatusOK, gin.H{"paycycle": cycle})
}

// CloseCycle handles closing the planning ritual of a cycle.
// @Summary     Close planning ritual
// @Tags        paycycles
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pay cycle ID"
// @Success     200 {object} models.PayCycle "Closed pay cycle"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pay cycle not found"
// @Failure     409 {object} ErrorResponse "Already closed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/{id}/close [post]
func (h *PayCycleHandler) CloseCycle(c *gin.Context) {
	h.cycleAction(c, "CLOSE_PAYCYCLE", func(householdID, cycleID string) (*models.PayCycle, error) {
		return h.cycleService.CloseCycle(c.Request.Context(), householdID, cycleID, h.now().UTC())
	})
}

// UnlockCycle handles reopening the planning ritual of a cycle.
// @Summary     Unlock planning ritual
// @Tags        paycycles
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pay cycle ID"
// @Success     200 {object} models.PayCycle "Unlocked pay cycle"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pay cycle not found"
// @Failure     409 {object} ErrorResponse "Not closed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/{id}/unlock [post]
func (h *PayCycleHandler) UnlockCycle(c *gin.Context) {
	h.cycleAction(c, "UNLOCK_PAYCYCLE", func(householdID, cycleID string) (*models.PayCycle, error) {
		return h.cycleService.UnlockCycle(c.Request.Context(), householdID, cycleID)
	})
}

// RecalculateAllocations handles recomputing a cycle's allocation totals.
// @Summary     Recalculate allocations
// @Tags        paycycles
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pay cycle ID"
// @Success     200 {object} models.PayCycle "Pay cycle with fresh totals"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pay cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/{id}/recalculate [post]
func (h *PayCycleHandler) RecalculateAllocations(c *gin.Context) {
	h.cycleAction(c, "", func(householdID, cycleID string) (*models.PayCycle, error) {
		return h.cycleService.RecalculateAllocations(c.Request.Context(), householdID, cycleID)
	})
}

// cycleAction runs a single-cycle operation that returns the updated cycle and
// audits it under action when action is set.
func (h *PayCycleHandler) cycleAction(c *gin.Context, action string, op func(householdID, cycleID string) (*models.PayCycle, error)) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	cycleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	cycle, err := op(householdID, cycleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if action != "" {
		h.auditService.Log(userID, householdID, action, "paycycle", cycleID, c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, gin.H{"paycycle": cycle})
}

// CompleteCycle handles retiring an ended active cycle.
// @Summary     Complete pay cycle
// @Description Complete an ended active cycle and activate the next one (promoting the draft when present)
// @Tags        paycycles
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Active pay cycle ID"
// @Success     200 {object} services.SwitchoverResult "Completed and new active cycle"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pay cycle not found"
// @Failure     409 {object} ErrorResponse "Cycle not active or not ended"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/{id}/complete [post]
func (h *PayCycleHandler) CompleteCycle(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	cycleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.cycleService.CompleteCycle(c.Request.Context(), householdID, cycleID, today(h.now))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "COMPLETE_PAYCYCLE", "paycycle", cycleID, c.ClientIP(),
		map[string]interface{}{"active_cycle_id": result.Active.ID, "promoted": result.Promoted})

	c.JSON(http.StatusOK, result)
}

// GetCurrentCycle handles retrieving the household's active cycle.
// @Summary     Get current pay cycle
// @Tags        paycycles
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.PayCycle "Active pay cycle"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No active cycle"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/current [get]
func (h *PayCycleHandler) GetCurrentCycle(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}

	cycle, err := h.cycleService.GetCurrentCycle(c.Request.Context(), householdID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paycycle": cycle})
}

// GetCycle handles retrieving one cycle.
// @Summary     Get pay cycle
// @Tags        paycycles
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pay cycle ID"
// @Success     200 {object} models.PayCycle "Pay cycle"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pay cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/{id} [get]
func (h *PayCycleHandler) GetCycle(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	cycleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	cycle, err := h.cycleService.GetCycle(c.Request.Context(), householdID, cycleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paycycle": cycle})
}

// ListCycles handles listing the household's cycles.
// @Summary     List pay cycles
// @Description Paginated cycles, most recent first
// @Tags        paycycles
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status (draft/active/completed)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.PayCycle] "Paginated pay cycles"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles [get]
func (h *PayCycleHandler) ListCycles(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.CycleFilter
	if v := c.Query("status"); v != "" {
		status := models.PayCycleStatus(v)
		if !status.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be draft, active or completed"))
			return
		}
		filter.Status = &status
	}

	result, err := h.cycleService.ListCycles(c.Request.Context(), householdID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MarkOverdueSeedsPaid handles marking past-due seeds paid.
// @Summary     Mark overdue seeds paid
// @Description Mark every unpaid seed due before today as paid
// @Tags        paycycles
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pay cycle ID"
// @Success     200 {object} MarkOverdueResponse "Number of seeds marked"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pay cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/{id}/mark-overdue [post]
func (h *PayCycleHandler) MarkOverdueSeedsPaid(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	cycleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	marked, err := h.cycleService.MarkOverdueSeedsPaid(c.Request.Context(), householdID, cycleID, today(h.now))
	if err != nil {
		respondWithError(c, err)
		return
	}

	if marked > 0 {
		h.auditService.Log(userID, householdID, "MARK_OVERDUE_PAID", "paycycle", cycleID, c.ClientIP(),
			map[string]interface{}{"marked": marked})
	}

	c.JSON(http.StatusOK, MarkOverdueResponse{Marked: marked})
}

// GetIncomeEvents handles listing the pay dates that fund a cycle.
// @Summary     Get income events
// @Description Income payments falling inside the cycle, per source
// @Tags        paycycles
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pay cycle ID"
// @Success     200 {object} IncomeEventsResponse "Income projection"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pay cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /paycycles/{id}/income [get]
func (h *PayCycleHandler) GetIncomeEvents(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	cycleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	projection, err := h.cycleService.IncomeEvents(c.Request.Context(), householdID, cycleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, IncomeEventsResponse{Income: projection})
}
