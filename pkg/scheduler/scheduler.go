package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dailyimage/pkg/config"
	"dailyimage/pkg/logger"
	"dailyimage/pkg/tasks"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job statuses
const (
	JobStatusScheduled = "scheduled"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// DailyJobName is the name of the single generation job
const DailyJobName = "daily_image"

// Error variables
var (
	ErrJobRunning = errors.New("job already running")
)

// ScheduledJob represents a scheduled job
type ScheduledJob struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Cron      string        `json:"cron"`
	Push      bool          `json:"push"`
	NextRun   time.Time     `json:"next_run"`
	LastRun   time.Time     `json:"last_run"`
	LastRunID string        `json:"last_run_id,omitempty"`
	LastPath  string        `json:"last_path,omitempty"`
	LastError string        `json:"last_error,omitempty"`
	Duration  time.Duration `json:"last_duration"`
	Status    string        `json:"status"`
	RunCount  int           `json:"run_count"`
	EntryID   cron.EntryID  `json:"-"`
}

// TaskScheduler runs the daily image job on a cron schedule
type TaskScheduler struct {
	cron      *cron.Cron
	ctx       context.Context
	job       *ScheduledJob
	jobsMutex sync.RWMutex
	taskMgr   tasks.TaskManager
	wg        sync.WaitGroup
}

// NewTaskScheduler creates a scheduler with the daily job registered
func NewTaskScheduler(ctx context.Context, cfg *config.SchedulerConfig, loc *time.Location, taskMgr tasks.TaskManager) (*TaskScheduler, error) {
	logger.Info("Initializing task scheduler", zap.String("cron", cfg.Cron))

	if loc == nil {
		loc = time.Local
	}
	cronLog := cronLogger{}
	cronScheduler := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	ts := &TaskScheduler{
		cron:    cronScheduler,
		ctx:     ctx,
		taskMgr: taskMgr,
	}

	if err := ts.addJob(&ScheduledJob{Name: DailyJobName, Cron: cfg.Cron, Push: cfg.Push}); err != nil {
		return nil, err
	}
	return ts, nil
}

// Start starts the scheduler and blocks until the context is cancelled
func (ts *TaskScheduler) Start() error {
	logger.Info("Starting task scheduler")
	ts.cron.Start()

	ts.jobsMutex.Lock()
	ts.updateJobNextRunTime(ts.job)
	ts.jobsMutex.Unlock()

	ts.logScheduledJob()

	<-ts.ctx.Done()
	logger.Info("Task scheduler context cancelled")
	return nil
}

// Shutdown gracefully shuts down the task scheduler
func (ts *TaskScheduler) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down task scheduler")

	cronCtx := ts.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-cronCtx.Done()
		ts.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("All scheduled jobs completed")
		return nil
	case <-ctx.Done():
		logger.Warn("Scheduler shutdown timeout, some jobs may still be running")
		return ctx.Err()
	}
}

// RunNow triggers the daily job in the background and returns its run ID
func (ts *TaskScheduler) RunNow() (string, error) {
	runID := uuid.New().String()
	push, ok := ts.claim(runID)
	if !ok {
		return "", ErrJobRunning
	}

	ts.wg.Add(1)
	go func() {
		defer ts.wg.Done()
		ts.execute(runID, tasks.TriggerManualRun, push)
	}()
	return runID, nil
}

// GetJob returns a copy of the daily job state
func (ts *TaskScheduler) GetJob() ScheduledJob {
	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()
	ts.updateJobNextRunTime(ts.job)
	return *ts.job
}

// GetStatus returns scheduler status
func (ts *TaskScheduler) GetStatus() map[string]interface{} {
	job := ts.GetJob()
	return map[string]interface{}{
		"running":   ts.cron != nil,
		"entries":   len(ts.cron.Entries()),
		"job":       job,
		"timestamp": time.Now().UTC(),
	}
}

// addJob registers the job with cron
func (ts *TaskScheduler) addJob(job *ScheduledJob) error {
	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()

	if job.ID == "" {
		job.ID = uuid.New().String()
	}

	entryID, err := ts.cron.AddFunc(job.Cron, func() {
		ts.runJob(uuid.New().String(), tasks.TriggerSchedule)
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", config.ErrInvalidCron, job.Cron, err)
	}

	job.EntryID = entryID
	job.Status = JobStatusScheduled
	ts.updateJobNextRunTime(job)
	ts.job = job

	logger.Info("Added scheduled job",
		zap.String("job_id", job.ID),
		zap.String("job_name", job.Name),
		zap.String("cron", job.Cron),
		zap.Bool("push", job.Push),
		zap.Time("next_run", job.NextRun),
	)
	return nil
}

// runJob is the cron entry point: it claims the job and runs it inline
func (ts *TaskScheduler) runJob(runID string, trigger tasks.Trigger) {
	push, ok := ts.claim(runID)
	if !ok {
		logger.FromContext(logger.WithRunID(ts.ctx, runID)).Warn("Skipping job run, previous run still in progress")
		return
	}
	ts.execute(runID, trigger, push)
}

// claim marks the job running under the lock. It reports false when a run
// is already in progress.
func (ts *TaskScheduler) claim(runID string) (push bool, ok bool) {
	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()
	if ts.job.Status == JobStatusRunning {
		return false, false
	}
	ts.job.Status = JobStatusRunning
	ts.job.LastRun = time.Now()
	ts.job.LastRunID = runID
	return ts.job.Push, true
}

// execute generates today's image and records the outcome on the job.
// The caller must have claimed the job.
func (ts *TaskScheduler) execute(runID string, trigger tasks.Trigger, push bool) {
	ctx := logger.WithRunID(ts.ctx, runID)
	log := logger.FromContext(ctx)
	job := ts.job

	log.Info("Executing scheduled job", zap.String("job_name", job.Name), zap.String("trigger", string(trigger)))

	task, err := ts.taskMgr.Run(ctx, &tasks.TaskRequest{ID: runID, Push: push, Trigger: trigger})

	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()
	job.RunCount++
	job.Duration = time.Since(job.LastRun)
	if err != nil {
		job.Status = JobStatusFailed
		job.LastError = err.Error()
		log.Error("Scheduled job failed", zap.String("job_name", job.Name), zap.Error(err))
		return
	}

	job.Status = JobStatusCompleted
	job.LastError = ""
	if task != nil && task.Result != nil {
		job.LastPath = task.Result.Path
		if task.Result.PushError != "" {
			job.LastError = task.Result.PushError
		}
	}
	ts.updateJobNextRunTime(job)
	log.Info("Scheduled job completed successfully",
		zap.String("job_name", job.Name),
		zap.String("path", job.LastPath),
		zap.Duration("duration", job.Duration))
}

// logScheduledJob logs information about the job
func (ts *TaskScheduler) logScheduledJob() {
	ts.jobsMutex.RLock()
	defer ts.jobsMutex.RUnlock()

	logger.Info("Scheduled job",
		zap.String("job_name", ts.job.Name),
		zap.String("cron", ts.job.Cron),
		zap.Time("next_run", ts.job.NextRun),
		zap.String("status", ts.job.Status),
	)
}

// updateJobNextRunTime updates the next run time; callers hold jobsMutex
func (ts *TaskScheduler) updateJobNextRunTime(job *ScheduledJob) {
	for _, entry := range ts.cron.Entries() {
		if entry.ID == job.EntryID && !entry.Next.IsZero() {
			job.NextRun = entry.Next
			return
		}
	}

	// cron 未启动时 Entry.Next 为零值，手动计算
	if schedule, err := cron.ParseStandard(job.Cron); err == nil {
		job.NextRun = schedule.Next(time.Now())
	}
}
