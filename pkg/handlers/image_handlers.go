package handlers

import (
	"net/http"
	"strconv"
	"time"

	"dailyimage/pkg/daily"
	"dailyimage/pkg/logger"
	"dailyimage/pkg/render"
	"dailyimage/pkg/tasks"
	"dailyimage/pkg/utils/dateutils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GenerateRequest is the body of POST /api/v1/generate
type GenerateRequest struct {
	Today string `json:"today"`
	Name  string `json:"name"`
	Push  bool   `json:"push"`
}

// GetImage renders the image for ?date= (default today) and streams it
// without writing a file. ?format=png switches the encoding.
func (h *HandlerService) GetImage(c *gin.Context) {
	date := c.Query("date")
	if err := validateDate(date); err != nil {
		HandleError(c, NewBadRequestError("Invalid date, expected YYYY-MM-DD", err))
		return
	}

	format := render.FormatJPEG
	if c.Query("format") == string(render.FormatPNG) {
		format = render.FormatPNG
	}

	rc, img, err := h.renderer.Render(c.Request.Context(), daily.Options{Today: date})
	if err != nil {
		HandleError(c, err)
		return
	}

	data, err := render.EncodeBytes(img, format, h.jpegQuality)
	if err != nil {
		HandleError(c, err)
		return
	}

	logger.Debug("Image rendered",
		zap.String("target_date", dateutils.FormatDate(rc.TargetDate)),
		zap.String("poem_source", rc.PoemResult.Source()),
		zap.Int("bytes", len(data)))

	c.Header("Content-Disposition", "inline; filename="+strconv.Quote(rc.OutputName))
	c.Header("X-Poem-Source", rc.PoemResult.Source())
	c.Data(http.StatusOK, format.ContentType(), data)
}

// Generate runs the full pipeline, optionally pushing the result, and
// returns the finished task.
func (h *HandlerService) Generate(c *gin.Context) {
	var req GenerateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, NewBadRequestError("Invalid JSON format", err))
			return
		}
	}
	if err := validateDate(req.Today); err != nil {
		HandleError(c, NewBadRequestError("Invalid date, expected YYYY-MM-DD", err))
		return
	}
	if err := daily.ValidateName(req.Name); err != nil {
		HandleError(c, NewBadRequestError("Invalid file name", err))
		return
	}

	logger.Info("Generating daily image",
		zap.String("today", req.Today),
		zap.String("name", req.Name),
		zap.Bool("push", req.Push))

	task, err := h.taskMgr.Run(c.Request.Context(), &tasks.TaskRequest{
		Today:   req.Today,
		Name:    req.Name,
		Push:    req.Push,
		Trigger: tasks.TriggerAPI,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTasks returns the finished task history, newest last
func (h *HandlerService) GetTasks(c *gin.Context) {
	history := h.taskMgr.GetTaskHistory()
	c.JSON(http.StatusOK, gin.H{
		"tasks": history,
		"count": len(history),
	})
}

// GetTask returns a specific task
func (h *HandlerService) GetTask(c *gin.Context) {
	task, err := h.taskMgr.GetTask(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func validateDate(date string) error {
	if date == "" {
		return nil
	}
	_, err := dateutils.ParseTargetDate(date, time.UTC)
	return err
}
