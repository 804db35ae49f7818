// Package handlers implements the HTTP API of the serve mode.
package handlers

import (
	"context"
	"image"
	"time"

	"dailyimage/pkg/daily"
	"dailyimage/pkg/logger"
	"dailyimage/pkg/tasks"
)

// Service identity reported by /health and /api/v1/status
const (
	ServiceName    = "dailyimage"
	DefaultVersion = "1.0.0"
)

// Renderer draws a daily image without saving it
type Renderer interface {
	Render(ctx context.Context, opts daily.Options) (daily.RenderContext, image.Image, error)
}

// Scheduler is the part of the task scheduler the API exposes
type Scheduler interface {
	GetStatus() map[string]interface{}
	RunNow() (string, error)
}

// HandlerService provides HTTP handlers for the API
type HandlerService struct {
	ctx         context.Context
	renderer    Renderer
	taskMgr     tasks.TaskManager
	scheduler   Scheduler
	jpegQuality int
	startedAt   time.Time
}

// NewHandlerService creates a new handler service. scheduler may be nil.
func NewHandlerService(ctx context.Context, renderer Renderer, taskMgr tasks.TaskManager, jpegQuality int) *HandlerService {
	logger.Info("Initializing handler service")
	return &HandlerService{
		ctx:         ctx,
		renderer:    renderer,
		taskMgr:     taskMgr,
		jpegQuality: jpegQuality,
		startedAt:   time.Now(),
	}
}

// SetScheduler sets the scheduler reference (called after scheduler is created)
func (h *HandlerService) SetScheduler(s Scheduler) {
	h.scheduler = s
}

// IsSchedulerAvailable checks if scheduler is available
func (h *HandlerService) IsSchedulerAvailable() bool {
	return h.scheduler != nil
}

// getCurrentTimestamp 获取当前UTC时间戳
func getCurrentTimestamp() time.Time {
	return time.Now().UTC()
}
