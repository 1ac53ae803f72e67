package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/propstack/backend/internal/infrastructure/scheduler"
	"github.com/propstack/backend/internal/interfaces/http/dto"
)

// SystemHandler exposes operational endpoints for the billing scheduler.
// All routes are staff-only.
type SystemHandler struct {
	BaseHandler
	billingScheduler *scheduler.BillingScheduler
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(billingScheduler *scheduler.BillingScheduler) *SystemHandler {
	return &SystemHandler{billingScheduler: billingScheduler}
}

// SchedulerStatus returns the scheduler's job table and run state
// GET /api/v1/system/scheduler
func (h *SystemHandler) SchedulerStatus(c *gin.Context) {
	h.Success(c, h.billingScheduler.GetStatus())
}

// TriggerExpirationSweep runs the lease expiration sweep out of schedule
// POST /api/v1/system/scheduler/expiration-sweep
func (h *SystemHandler) TriggerExpirationSweep(c *gin.Context) {
	h.triggerJob(c, h.billingScheduler.TriggerExpirationSweep)
}

// TriggerActivationSweep runs the lease activation sweep out of schedule
// POST /api/v1/system/scheduler/activation-sweep
func (h *SystemHandler) TriggerActivationSweep(c *gin.Context) {
	h.triggerJob(c, h.billingScheduler.TriggerActivationSweep)
}

// TriggerBillingRun runs payment obligation generation out of schedule
// POST /api/v1/system/scheduler/billing-run
func (h *SystemHandler) TriggerBillingRun(c *gin.Context) {
	h.triggerJob(c, h.billingScheduler.TriggerBillingRun)
}

func (h *SystemHandler) triggerJob(c *gin.Context, trigger func() error) {
	if err := trigger(); err != nil {
		switch {
		case errors.Is(err, scheduler.ErrSchedulerNotRunning):
			h.Error(c, http.StatusConflict, dto.ErrCodeConflict, "Scheduler is not running")
		case errors.Is(err, scheduler.ErrJobAlreadyRunning):
			h.Error(c, http.StatusConflict, dto.ErrCodeConflict, "Job is already running")
		default:
			h.InternalError(c, "Failed to trigger job")
		}
		return
	}
	h.NoContent(c)
}
