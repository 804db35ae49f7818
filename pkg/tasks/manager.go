package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dailyimage/pkg/daily"
	"dailyimage/pkg/logger"
	"dailyimage/pkg/notifier"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultMaxTasks   = 4
	defaultMaxHistory = 100
)

// TaskManagerImpl 任务管理器实现
type TaskManagerImpl struct {
	generator   Generator
	publisher   Publisher
	ctx         context.Context
	tasks       map[string]*Task
	tasksMutex  sync.RWMutex
	taskHistory []*Task
	maxTasks    int
	wg          sync.WaitGroup
}

// NewTaskManager 创建新的任务管理器。publisher 可以为 nil
func NewTaskManager(ctx context.Context, generator Generator, publisher Publisher) *TaskManagerImpl {
	return &TaskManagerImpl{
		generator:   generator,
		publisher:   publisher,
		ctx:         ctx,
		tasks:       make(map[string]*Task),
		taskHistory: make([]*Task, 0),
		maxTasks:    defaultMaxTasks,
	}
}

// Run executes a task and waits for it to finish
func (tm *TaskManagerImpl) Run(ctx context.Context, req *TaskRequest) (*Task, error) {
	task, err := tm.start(ctx, req)
	if err != nil {
		return nil, err
	}
	err = tm.executeTaskInternal(ctx, task)
	return tm.snapshot(task), err
}

// Submit starts a task in the background and returns its pending state
func (tm *TaskManagerImpl) Submit(ctx context.Context, req *TaskRequest) (*Task, error) {
	task, err := tm.start(ctx, req)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(tm.ctx)
	tm.tasksMutex.Lock()
	task.Cancel = cancel
	tm.tasksMutex.Unlock()

	tm.wg.Add(1)
	go func() {
		defer tm.wg.Done()
		defer cancel()
		_ = tm.executeTaskInternal(runCtx, task)
	}()
	return tm.snapshot(task), nil
}

// Wait blocks until background tasks finish or ctx is done
func (tm *TaskManagerImpl) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetTask 获取特定任务
func (tm *TaskManagerImpl) GetTask(taskID string) (*Task, error) {
	tm.tasksMutex.RLock()
	defer tm.tasksMutex.RUnlock()

	if task, exists := tm.tasks[taskID]; exists {
		return task.snapshot(), nil
	}
	for _, task := range tm.taskHistory {
		if task.ID == taskID {
			return task.snapshot(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
}

// GetTaskHistory 获取任务历史，最新的在最后
func (tm *TaskManagerImpl) GetTaskHistory() []*Task {
	tm.tasksMutex.RLock()
	defer tm.tasksMutex.RUnlock()

	history := make([]*Task, len(tm.taskHistory))
	for i, task := range tm.taskHistory {
		history[i] = task.snapshot()
	}
	return history
}

// LastTask returns the most recently finished task
func (tm *TaskManagerImpl) LastTask() (*Task, bool) {
	tm.tasksMutex.RLock()
	defer tm.tasksMutex.RUnlock()
	if len(tm.taskHistory) == 0 {
		return nil, false
	}
	return tm.taskHistory[len(tm.taskHistory)-1].snapshot(), true
}

// GetRunningTaskCount 获取运行中的任务数量
func (tm *TaskManagerImpl) GetRunningTaskCount() int {
	tm.tasksMutex.RLock()
	defer tm.tasksMutex.RUnlock()
	return tm.runningLocked()
}

func (tm *TaskManagerImpl) runningLocked() int {
	count := 0
	for _, task := range tm.tasks {
		if task.Status == TaskStatusRunning || task.Status == TaskStatusPending {
			count++
		}
	}
	return count
}

// start 检查任务限制并登记任务
func (tm *TaskManagerImpl) start(ctx context.Context, req *TaskRequest) (*Task, error) {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	tm.tasksMutex.Lock()
	defer tm.tasksMutex.Unlock()

	if running := tm.runningLocked(); running >= tm.maxTasks {
		return nil, fmt.Errorf("%w: %d running tasks (max: %d)", ErrTooManyTasks, running, tm.maxTasks)
	}

	task := &Task{
		ID:        req.ID,
		Type:      TaskTypeGenerate,
		Trigger:   req.Trigger,
		Status:    TaskStatusPending,
		StartTime: time.Now(),
		Request:   *req,
	}
	tm.tasks[task.ID] = task
	return task, nil
}

// executeTaskInternal 内部任务执行
func (tm *TaskManagerImpl) executeTaskInternal(ctx context.Context, task *Task) (err error) {
	ctx = logger.WithRunID(ctx, task.ID)
	log := logger.FromContext(ctx)

	var result *TaskResult
	defer func() {
		if r := recover(); r != nil {
			log.Error("Task execution panicked", zap.Any("panic", r))
			err = fmt.Errorf("task panicked: %v", r)
			result = nil
		}
		tm.finishTask(ctx, task, result, err)
	}()

	tm.updateTaskStatus(task, TaskStatusRunning)
	log.Info("Starting task execution",
		zap.String("trigger", string(task.Trigger)),
		zap.String("today", task.Request.Today),
		zap.Bool("push", task.Request.Push))

	res, err := tm.generator.Generate(ctx, daily.Options{Today: task.Request.Today, Name: task.Request.Name})
	if err != nil {
		return err
	}
	result = convertResult(res)

	if task.Request.Push && tm.publisher != nil {
		if pushErr := tm.publisher.Publish(ctx, notifier.FromResult(res)); pushErr != nil {
			// 推送失败不影响图片生成结果
			result.PushError = errors.Join(ErrNotificationFailed, pushErr).Error()
		} else {
			result.Pushed = true
		}
	}
	return nil
}

func convertResult(res *daily.Result) *TaskResult {
	rc := res.Context
	r := &TaskResult{
		Path:            res.Path,
		TargetDate:      rc.TargetDate.Format("2006-01-02"),
		Weekday:         rc.Day.WeekdayName,
		LunarText:       rc.Day.LunarText,
		DayOfYear:       rc.Day.DayOfYear,
		ProgressPercent: rc.ProgressPercent,
		ProgressText:    rc.ProgressText,
		PoemTitle:       rc.Poem.Title,
		PoemContent:     rc.Poem.Content,
		PoemAuthor:      rc.Poem.Author,
		PoemSource:      res.PoemSource,
		Bytes:           len(res.Bytes),
	}
	if rc.PoemResult.Reason != nil {
		r.PoemError = rc.PoemResult.Reason.Error()
	}
	return r
}

// updateTaskStatus 更新任务状态
func (tm *TaskManagerImpl) updateTaskStatus(task *Task, status TaskStatus) {
	tm.tasksMutex.Lock()
	defer tm.tasksMutex.Unlock()
	task.Status = status
}

func (tm *TaskManagerImpl) snapshot(task *Task) *Task {
	tm.tasksMutex.RLock()
	defer tm.tasksMutex.RUnlock()
	return task.snapshot()
}

// finishTask 完成任务
func (tm *TaskManagerImpl) finishTask(ctx context.Context, task *Task, result *TaskResult, err error) {
	tm.tasksMutex.Lock()
	defer tm.tasksMutex.Unlock()

	task.EndTime = time.Now()
	task.Duration = task.EndTime.Sub(task.StartTime)

	log := logger.FromContext(ctx)
	if err != nil {
		task.Status = TaskStatusFailed
		task.Error = err.Error()
		log.Error("Task execution failed", zap.Error(err))
	} else {
		task.Status = TaskStatusCompleted
		task.Result = result
		log.Info("Task execution completed", zap.Duration("duration", task.Duration))
	}

	// 从活动任务中移除并添加到历史
	delete(tm.tasks, task.ID)
	tm.taskHistory = append(tm.taskHistory, task)
	if len(tm.taskHistory) > defaultMaxHistory {
		tm.taskHistory = tm.taskHistory[1:]
	}
}
