package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health
func (h *HandlerService) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": getCurrentTimestamp(),
		"service":   ServiceName,
		"version":   DefaultVersion,
	})
}

// GetStatus returns service uptime, task counters and scheduler state
func (h *HandlerService) GetStatus(c *gin.Context) {
	status := gin.H{
		"service":   ServiceName,
		"version":   DefaultVersion,
		"status":    "running",
		"timestamp": getCurrentTimestamp(),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"tasks": gin.H{
			"running": h.taskMgr.GetRunningTaskCount(),
			"history": len(h.taskMgr.GetTaskHistory()),
		},
	}

	if h.scheduler != nil {
		status["scheduler"] = h.scheduler.GetStatus()
	}

	c.JSON(http.StatusOK, status)
}
