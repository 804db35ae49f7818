package tasks

import (
	"context"
	"time"
)

// TaskType represents the type of task
type TaskType string

const (
	TaskTypeGenerate TaskType = "generate"
)

// Trigger records what started a task
type Trigger string

const (
	TriggerCLI       Trigger = "cli"
	TriggerSchedule  Trigger = "schedule"
	TriggerAPI       Trigger = "api"
	TriggerManualRun Trigger = "manual"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// TaskRequest represents a request to generate one daily image
type TaskRequest struct {
	ID      string  `json:"id"`
	Today   string  `json:"today,omitempty"`
	Name    string  `json:"name,omitempty"`
	Push    bool    `json:"push"`
	Trigger Trigger `json:"trigger"`
}

// Task represents a running or completed task
type Task struct {
	ID        string             `json:"id"`
	Type      TaskType           `json:"type"`
	Trigger   Trigger            `json:"trigger"`
	Status    TaskStatus         `json:"status"`
	StartTime time.Time          `json:"start_time"`
	EndTime   time.Time          `json:"end_time,omitempty"`
	Duration  time.Duration      `json:"duration"`
	Request   TaskRequest        `json:"request"`
	Result    *TaskResult        `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	Cancel    context.CancelFunc `json:"-"`
}

// TaskResult holds the result of a completed task
type TaskResult struct {
	Path            string  `json:"path"`
	TargetDate      string  `json:"target_date"`
	Weekday         string  `json:"weekday"`
	LunarText       string  `json:"lunar_text"`
	DayOfYear       int     `json:"day_of_year"`
	ProgressPercent float64 `json:"progress_percent"`
	ProgressText    string  `json:"progress_text"`
	PoemTitle       string  `json:"poem_title"`
	PoemContent     string  `json:"poem_content"`
	PoemAuthor      string  `json:"poem_author"`
	PoemSource      string  `json:"poem_source"`
	PoemError       string  `json:"poem_error,omitempty"`
	Bytes           int     `json:"bytes"`
	Pushed          bool    `json:"pushed"`
	PushError       string  `json:"push_error,omitempty"`
}

// snapshot copies the task so callers never share the manager's pointer
func (t *Task) snapshot() *Task {
	c := *t
	c.Cancel = nil
	if t.Result != nil {
		r := *t.Result
		c.Result = &r
	}
	return &c
}
