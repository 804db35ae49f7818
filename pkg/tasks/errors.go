package tasks

import "errors"

// Package-level error variables for unified error handling
var (
	// ErrTaskNotFound indicates task not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrTooManyTasks indicates too many running tasks
	ErrTooManyTasks = errors.New("too many running tasks")

	// ErrNotificationFailed indicates notification delivery failed
	ErrNotificationFailed = errors.New("notification delivery failed")
)
