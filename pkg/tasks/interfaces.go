package tasks

import (
	"context"

	"dailyimage/pkg/daily"
	"dailyimage/pkg/notifier"
)

// Generator produces one daily image
type Generator interface {
	Generate(ctx context.Context, opts daily.Options) (*daily.Result, error)
}

// Publisher delivers a generated image to the notification channels
type Publisher interface {
	Publish(ctx context.Context, d *notifier.Daily) error
}

// TaskManager 定义任务管理器接口
type TaskManager interface {
	// Run executes a task and waits for it
	Run(ctx context.Context, req *TaskRequest) (*Task, error)

	// Submit starts a task in the background
	Submit(ctx context.Context, req *TaskRequest) (*Task, error)

	// GetTask 获取任务信息
	GetTask(taskID string) (*Task, error)

	// GetTaskHistory 获取任务历史
	GetTaskHistory() []*Task

	// GetRunningTaskCount 获取运行中的任务数量
	GetRunningTaskCount() int
}
