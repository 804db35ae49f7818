package handlers

import (
	"net/http"

	"dailyimage/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetSchedulerStatus returns scheduler status
func (h *HandlerService) GetSchedulerStatus(c *gin.Context) {
	if !h.IsSchedulerAvailable() {
		HandleError(c, NewServiceUnavailableError("Scheduler not available", nil))
		return
	}
	c.JSON(http.StatusOK, h.scheduler.GetStatus())
}

// RunScheduledJob triggers the daily job immediately
func (h *HandlerService) RunScheduledJob(c *gin.Context) {
	if !h.IsSchedulerAvailable() {
		HandleError(c, NewServiceUnavailableError("Scheduler not available", nil))
		return
	}

	runID, err := h.scheduler.RunNow()
	if err != nil {
		HandleError(c, err)
		return
	}

	logger.Info("Scheduled job triggered manually", zap.String("run_id", runID))
	c.JSON(http.StatusAccepted, gin.H{
		"run_id":    runID,
		"status":    "started",
		"message":   "Daily job started",
		"timestamp": getCurrentTimestamp(),
	})
}
