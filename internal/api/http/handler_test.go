package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veranemoloko/video-downloader/internal/domain"
	errpkg "github.com/veranemoloko/video-downloader/internal/errors"
	"github.com/veranemoloko/video-downloader/internal/storage"
)

type mockTaskService struct {
	mu        sync.Mutex
	tasks     map[string]domain.Task
	submitted []string
}

func newMockTaskService(tasks ...domain.Task) *mockTaskService {
	m := &mockTaskService{tasks: make(map[string]domain.Task)}
	for _, task := range tasks {
		m.tasks[task.ID] = task
	}
	return m
}

func (m *mockTaskService) Submit(_ context.Context, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := "task-" + url
	m.tasks[id] = domain.NewTask(id, url, time.Now())
	m.submitted = append(m.submitted, url)
	return id, nil
}

func (m *mockTaskService) GetStatus(_ context.Context, id string) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, errpkg.ErrTaskNotFound
	}
	return task, nil
}

func (m *mockTaskService) List(_ context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := make([]domain.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (m *mockTaskService) Artifact(ctx context.Context, id string) (domain.Task, error) {
	task, err := m.GetStatus(ctx, id)
	if err != nil {
		return task, err
	}
	if task.Status != domain.TaskStatusCompleted {
		return task, errpkg.ErrTaskNotCompleted
	}
	return task, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completedTask(t *testing.T, id, path string) domain.Task {
	t.Helper()
	task := domain.NewTask(id, "https://youtu.be/abc123", time.Now())
	require.NoError(t, task.Start())
	require.NoError(t, task.Complete(path, domain.SourceYouTube, "Successfully downloaded: My Video"))
	return task
}

func newTestServer(t *testing.T, svc TaskService, dir string) http.Handler {
	t.Helper()
	return NewRouter(RouterConfig{
		Tasks:       svc,
		Files:       storage.NewFileStorage(dir),
		ServiceName: "video-downloader",
		Logger:      newTestLogger(),
	})
}

func doRequest(h http.Handler, method, target string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["error"]
}

func TestCreateDownload_Accepted(t *testing.T) {
	svc := newMockTaskService()
	h := newTestServer(t, svc, t.TempDir())

	body, _ := json.Marshal(domain.CreateDownloadRequest{URL: "https://youtu.be/abc123"})
	w := doRequest(h, http.MethodPost, "/api/download", bytes.NewReader(body), nil)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var resp domain.CreateDownloadResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "task-https://youtu.be/abc123", resp.TaskID)
	assert.Equal(t, "Download queued", resp.Message)
	assert.Equal(t, []string{"https://youtu.be/abc123"}, svc.submitted)
}

func TestCreateDownload_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing url", `{}`, msgMissingURL},
		{"blank url", `{"url": "   "}`, msgMissingURL},
		{"invalid json", `{"url":`, msgInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockTaskService()
			h := newTestServer(t, svc, t.TempDir())

			w := doRequest(h, http.MethodPost, "/api/download", strings.NewReader(tt.body), nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decodeError(t, w))
			assert.Empty(t, svc.submitted)
		})
	}
}

func TestGetStatus(t *testing.T) {
	dir := t.TempDir()
	done := completedTask(t, "done", filepath.Join(dir, "My_Video.mp4"))
	pending := domain.NewTask("pending", "https://x.com/a/status/1", time.Now())
	h := newTestServer(t, newMockTaskService(done, pending), dir)

	t.Run("completed", func(t *testing.T) {
		w := doRequest(h, http.MethodGet, "/api/status/done", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "completed", resp["status"])
		assert.Equal(t, float64(100), resp["progress"])
		assert.Equal(t, "My_Video.mp4", resp["filename"])
		assert.Equal(t, "youtube", resp["sourceType"])
	})

	t.Run("pending hides artifact fields", func(t *testing.T) {
		w := doRequest(h, http.MethodGet, "/api/status/pending", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "pending", resp["status"])
		assert.NotContains(t, resp, "filename")
		assert.NotContains(t, resp, "filepath")
	})

	t.Run("unknown", func(t *testing.T) {
		w := doRequest(h, http.MethodGet, "/api/status/nope", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, msgTaskNotFound, decodeError(t, w))
	})
}

func TestListTasks(t *testing.T) {
	pending := domain.NewTask("p", "https://youtu.be/a", time.Now())
	h := newTestServer(t, newMockTaskService(pending), t.TempDir())

	w := doRequest(h, http.MethodGet, "/api/tasks", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tasks []domain.TaskResponse `json:"tasks"`
		Count int                   `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "p", resp.Tasks[0].ID)
}

func TestDownloadArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "My_Video.mp4")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	done := completedTask(t, "done", path)
	gone := completedTask(t, "gone", filepath.Join(dir, "deleted.mp4"))
	running := domain.NewTask("running", "https://youtu.be/a", time.Now())
	require.NoError(t, running.Start())

	h := newTestServer(t, newMockTaskService(done, gone, running), dir)

	for _, route := range []string{"/api/download/", "/api/stream/"} {
		t.Run(route+"preconditions", func(t *testing.T) {
			w := doRequest(h, http.MethodGet, route+"nope", nil, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, msgTaskNotFound, decodeError(t, w))

			w = doRequest(h, http.MethodGet, route+"running", nil, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, msgNotCompleted, decodeError(t, w))

			w = doRequest(h, http.MethodGet, route+"gone", nil, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, msgFileNotFound, decodeError(t, w))
		})
	}

	t.Run("attachment", func(t *testing.T) {
		w := doRequest(h, http.MethodGet, "/api/download/done", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename=My_Video.mp4`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "0123456789", w.Body.String())
	})

	t.Run("stream", func(t *testing.T) {
		w := doRequest(h, http.MethodGet, "/api/stream/done", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
		assert.Empty(t, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	})

	t.Run("stream range", func(t *testing.T) {
		w := doRequest(h, http.MethodGet, "/api/stream/done", nil, map[string]string{"Range": "bytes=2-5"})
		require.Equal(t, http.StatusPartialContent, w.Code)
		assert.Equal(t, "bytes 2-5/10", w.Header().Get("Content-Range"))
		assert.Equal(t, "2345", w.Body.String())
	})
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, newMockTaskService(), t.TempDir())

	w := doRequest(h, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "video-downloader", resp.Service)
	assert.False(t, resp.Timestamp.IsZero())
	if assert.NotNil(t, resp.Disk) {
		assert.Greater(t, resp.Disk.Total, uint64(0))
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, newMockTaskService(), t.TempDir())

	w := doRequest(h, http.MethodGet, "/api/health", nil, map[string]string{"Origin": "https://app.example"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, newMockTaskService(), t.TempDir())

	w := doRequest(h, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
