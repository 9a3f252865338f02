package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "payday/internal/errors"
	"payday/internal/services"
)

// ForecastHandler handles pot and repayment projections.
type ForecastHandler struct {
	forecastService services.ForecastServicer
	auditService    services.AuditServicer
	now             func() time.Time
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecastService services.ForecastServicer, auditService services.AuditServicer) *ForecastHandler {
	return &ForecastHandler{forecastService: forecastService, auditService: auditService, now: time.Now}
}

// ForecastQuery holds the query parameters of a forecast.
type ForecastQuery struct {
	AmountPerCycle  string `form:"amount_per_cycle"`
	IncludeInterest bool   `form:"include_interest"`
}

// LockInRequest represents the request payload for fixing a per-cycle amount.
type LockInRequest struct {
	PotID       *string         `json:"pot_id" binding:"omitempty,uuid"`
	RepaymentID *string         `json:"repayment_id" binding:"omitempty,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
}

func (h *ForecastHandler) forecastRequest(c *gin.Context) (services.ForecastRequest, error) {
	var q ForecastQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return services.ForecastRequest{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	req := services.ForecastRequest{IncludeInterest: q.IncludeInterest, Today: today(h.now)}
	if q.AmountPerCycle != "" {
		amount, err := decimal.NewFromString(q.AmountPerCycle)
		if err != nil {
			return req, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount_per_cycle must be a number")
		}
		if amount.IsNegative() {
			return req, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount_per_cycle cannot be negative")
		}
		req.AmountPerCycle = &amount
	}
	return req, nil
}

// ForecastRepayment handles projecting a repayment.
// @Summary     Forecast repayment
// @Description Project the balance per future cycle, the payoff date and a suggested amount for the target date
// @Tags        forecast
// @Produce     json
// @Security    BearerAuth
// @Param       id               path  string true  "Repayment ID"
// @Param       amount_per_cycle query string false "Amount paid each cycle (defaults to the linked recurring seed, then the suggestion)"
// @Param       include_interest query bool   false "Accrue interest each cycle"
// @Success     200 {object} services.RepaymentForecast "Repayment forecast"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Repayment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /repayments/{id}/forecast [get]
func (h *ForecastHandler) ForecastRepayment(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	repaymentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	req, err := h.forecastRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.forecastService.ForecastRepayment(householdID, repaymentID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecast": result})
}

// ForecastPot handles projecting a savings pot.
// @Summary     Forecast pot
// @Description Project the pot balance per future cycle, the goal date and a suggested amount for the target date
// @Tags        forecast
// @Produce     json
// @Security    BearerAuth
// @Param       id               path  string true  "Pot ID"
// @Param       amount_per_cycle query string false "Amount saved each cycle (defaults to the linked recurring seed, then the suggestion)"
// @Success     200 {object} services.PotForecast "Pot forecast"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pot not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pots/{id}/forecast [get]
func (h *ForecastHandler) ForecastPot(c *gin.Context) {
	_, householdID, ok := householdScope(c)
	if !ok {
		return
	}
	potID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	req, err := h.forecastRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.forecastService.ForecastPot(householdID, potID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecast": result})
}

// LockIn handles fixing a per-cycle amount for a pot or repayment.
// @Summary     Lock in amount
// @Description Create or update the recurring seed that funds a pot or repayment in the current cycle
// @Tags        forecast
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body LockInRequest true "Target and amount"
// @Success     200 {object} models.Seed "Recurring seed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No cycle, pot or repayment"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /forecast/lock-in [post]
func (h *ForecastHandler) LockIn(c *gin.Context) {
	userID, householdID, ok := householdScope(c)
	if !ok {
		return
	}

	var req LockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	seed, err := h.forecastService.LockIn(householdID, services.LockInInput{
		PotID:       req.PotID,
		RepaymentID: req.RepaymentID,
		Amount:      req.Amount,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, householdID, "LOCK_IN_AMOUNT", "seed", seed.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"seed": seed})
}
