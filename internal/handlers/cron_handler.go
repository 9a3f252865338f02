package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"payday/internal/jobs"
)

// JobRunner runs the scheduled pay cycle jobs.
type JobRunner interface {
	Switchover(ctx context.Context, today time.Time) (*jobs.SwitchoverReport, error)
	PaydayReminders(ctx context.Context, today time.Time) (*jobs.ReminderReport, error)
}

// CronHandler exposes the scheduled jobs to external schedulers.
type CronHandler struct {
	runner JobRunner
	now    func() time.Time
}

// NewCronHandler creates a new CronHandler.
func NewCronHandler(runner JobRunner) *CronHandler {
	return &CronHandler{runner: runner, now: time.Now}
}

// Switchover handles completing every ended active cycle.
// @Summary     Run cycle switchover
// @Description Complete active cycles that ended before today and activate their successors
// @Tags        cron
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} jobs.SwitchoverReport "Run report"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/cron/switchover [post]
func (h *CronHandler) Switchover(c *gin.Context) {
	report, err := h.runner.Switchover(c.Request.Context(), today(h.now))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// PaydayReminders handles publishing reminders for cycles ending soon.
// @Summary     Send payday reminders
// @Description Publish a reminder for each active cycle ending today or tomorrow
// @Tags        cron
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} jobs.ReminderReport "Run report"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/cron/payday-reminder [post]
func (h *CronHandler) PaydayReminders(c *gin.Context) {
	report, err := h.runner.PaydayReminders(c.Request.Context(), today(h.now))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
