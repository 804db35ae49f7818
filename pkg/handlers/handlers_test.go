package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"dailyimage/pkg/daily"
	"dailyimage/pkg/poem"
	"dailyimage/pkg/scheduler"
	"dailyimage/pkg/tasks"

	"github.com/gin-gonic/gin"
)

type fakeRenderer struct {
	calls int
	err   error
}

func (f *fakeRenderer) Render(ctx context.Context, opts daily.Options) (daily.RenderContext, image.Image, error) {
	f.calls++
	if f.err != nil {
		return daily.RenderContext{}, nil, f.err
	}
	rc := daily.RenderContext{
		TargetDate: time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC),
		OutputName: "2023-03-15.jpg",
		PoemResult: poem.Result{Poem: poem.Default(), Fallback: true},
	}
	return rc, image.NewRGBA(image.Rect(0, 0, 60, 80)), nil
}

type fakeTaskManager struct {
	last    *tasks.TaskRequest
	runErr  error
	history []*tasks.Task
}

func (f *fakeTaskManager) Run(ctx context.Context, req *tasks.TaskRequest) (*tasks.Task, error) {
	f.last = req
	if f.runErr != nil {
		return nil, f.runErr
	}
	task := &tasks.Task{
		ID:      "task-1",
		Type:    tasks.TaskTypeGenerate,
		Trigger: req.Trigger,
		Status:  tasks.TaskStatusCompleted,
		Request: *req,
		Result:  &tasks.TaskResult{Path: "test.jpg", PoemSource: "remote"},
	}
	f.history = append(f.history, task)
	return task, nil
}

func (f *fakeTaskManager) Submit(ctx context.Context, req *tasks.TaskRequest) (*tasks.Task, error) {
	return f.Run(ctx, req)
}

func (f *fakeTaskManager) GetTask(id string) (*tasks.Task, error) {
	for _, t := range f.history {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", tasks.ErrTaskNotFound, id)
}

func (f *fakeTaskManager) GetTaskHistory() []*tasks.Task { return f.history }
func (f *fakeTaskManager) GetRunningTaskCount() int       { return 0 }

type fakeScheduler struct {
	runErr error
}

func (f *fakeScheduler) GetStatus() map[string]interface{} {
	return map[string]interface{}{"running": true}
}

func (f *fakeScheduler) RunNow() (string, error) {
	if f.runErr != nil {
		return "", f.runErr
	}
	return "run-1", nil
}

func newTestRouter(h *HandlerService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/status", h.GetStatus)
	r.GET("/image", h.GetImage)
	r.POST("/generate", h.Generate)
	r.GET("/tasks", h.GetTasks)
	r.GET("/tasks/:id", h.GetTask)
	r.GET("/scheduler/status", h.GetSchedulerStatus)
	r.POST("/scheduler/run", h.RunScheduledJob)
	return r
}

func do(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetImage(t *testing.T) {
	rend := &fakeRenderer{}
	r := newTestRouter(NewHandlerService(context.Background(), rend, &fakeTaskManager{}, 90))

	w := do(r, http.MethodGet, "/image?date=2023-03-15", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("unexpected content type %q", ct)
	}
	if src := w.Header().Get("X-Poem-Source"); src != "fallback" {
		t.Errorf("unexpected poem source %q", src)
	}
	if _, err := jpeg.Decode(w.Body); err != nil {
		t.Errorf("body is not a JPEG: %v", err)
	}

	w = do(r, http.MethodGet, "/image?format=png", nil)
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected png, got %q", ct)
	}
}

func TestGetImageInvalidDate(t *testing.T) {
	rend := &fakeRenderer{}
	r := newTestRouter(NewHandlerService(context.Background(), rend, &fakeTaskManager{}, 90))

	for _, date := range []string{"2023-13-01", "yesterday", "1800-01-01"} {
		w := do(r, http.MethodGet, "/image?date="+date, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("date %q: expected 400, got %d", date, w.Code)
		}
		var body map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] != true {
			t.Errorf("date %q: unexpected body %s", date, w.Body.String())
		}
	}
	if rend.calls != 0 {
		t.Errorf("renderer should not run for invalid dates, ran %d times", rend.calls)
	}
}

func TestGetImageRenderFailure(t *testing.T) {
	rend := &fakeRenderer{err: errors.New("no font")}
	r := newTestRouter(NewHandlerService(context.Background(), rend, &fakeTaskManager{}, 90))

	if w := do(r, http.MethodGet, "/image", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGenerate(t *testing.T) {
	tm := &fakeTaskManager{}
	r := newTestRouter(NewHandlerService(context.Background(), &fakeRenderer{}, tm, 90))

	w := do(r, http.MethodPost, "/generate", []byte(`{"today":"2023-03-15","name":"test.jpg","push":true}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if tm.last == nil || tm.last.Today != "2023-03-15" || tm.last.Name != "test.jpg" || !tm.last.Push {
		t.Fatalf("request not forwarded: %+v", tm.last)
	}
	if tm.last.Trigger != tasks.TriggerAPI {
		t.Errorf("expected api trigger, got %s", tm.last.Trigger)
	}

	var task tasks.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if task.Result == nil || task.Result.Path != "test.jpg" {
		t.Errorf("unexpected task %+v", task)
	}

	if w := do(r, http.MethodGet, "/tasks/task-1", nil); w.Code != http.StatusOK {
		t.Errorf("expected task lookup to succeed, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/tasks/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown task, got %d", w.Code)
	}
}

func TestGenerateEmptyBody(t *testing.T) {
	tm := &fakeTaskManager{}
	r := newTestRouter(NewHandlerService(context.Background(), &fakeRenderer{}, tm, 90))

	if w := do(r, http.MethodPost, "/generate", nil); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if tm.last.Today != "" || tm.last.Name != "" {
		t.Errorf("empty body should use defaults, got %+v", tm.last)
	}
}

func TestGenerateErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		runErr error
		want   int
	}{
		{"bad json", `{"today":`, nil, http.StatusBadRequest},
		{"bad date", `{"today":"2023-02-30"}`, nil, http.StatusBadRequest},
		{"busy", `{}`, tasks.ErrTooManyTasks, http.StatusConflict},
		{"invalid date from generator", `{}`, fmt.Errorf("%w: x", daily.ErrInvalidDate), http.StatusBadRequest},
		{"write failure", `{}`, errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tm := &fakeTaskManager{runErr: tc.runErr}
			r := newTestRouter(NewHandlerService(context.Background(), &fakeRenderer{}, tm, 90))
			if w := do(r, http.MethodPost, "/generate", []byte(tc.body)); w.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestGenerateRejectsUnsafeName(t *testing.T) {
	names := []string{
		"../escaped.jpg",
		filepath.Join(t.TempDir(), "abs.jpg"),
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			body, err := json.Marshal(GenerateRequest{Today: "2023-03-15", Name: name})
			if err != nil {
				t.Fatal(err)
			}
			tm := &fakeTaskManager{}
			r := newTestRouter(NewHandlerService(context.Background(), &fakeRenderer{}, tm, 90))

			if w := do(r, http.MethodPost, "/generate", body); w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if tm.last != nil {
				t.Errorf("task manager should not run, got %+v", tm.last)
			}
		})
	}
}

func TestHandleErrorInvalidName(t *testing.T) {
	tm := &fakeTaskManager{runErr: fmt.Errorf("%w: %q", daily.ErrInvalidName, "x/y")}
	r := newTestRouter(NewHandlerService(context.Background(), &fakeRenderer{}, tm, 90))
	if w := do(r, http.MethodPost, "/generate", []byte(`{}`)); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSchedulerEndpoints(t *testing.T) {
	h := NewHandlerService(context.Background(), &fakeRenderer{}, &fakeTaskManager{}, 90)
	r := newTestRouter(h)

	if w := do(r, http.MethodGet, "/scheduler/status", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without scheduler, got %d", w.Code)
	}

	h.SetScheduler(&fakeScheduler{})
	if w := do(r, http.MethodGet, "/scheduler/status", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/scheduler/run", nil); w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	h.SetScheduler(&fakeScheduler{runErr: scheduler.ErrJobRunning})
	if w := do(r, http.MethodPost, "/scheduler/run", nil); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 while running, got %d", w.Code)
	}
}

func TestHealthAndStatus(t *testing.T) {
	h := NewHandlerService(context.Background(), &fakeRenderer{}, &fakeTaskManager{}, 90)
	h.SetScheduler(&fakeScheduler{})
	r := newTestRouter(h)

	w := do(r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["service"] != ServiceName {
		t.Errorf("unexpected health body %s", w.Body.String())
	}

	w = do(r, http.MethodGet, "/status", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body["scheduler"]; !ok {
		t.Errorf("status should include scheduler: %v", body)
	}
}
