package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veranemoloko/video-downloader/internal/domain"
	errpkg "github.com/veranemoloko/video-downloader/internal/errors"
	"github.com/veranemoloko/video-downloader/internal/validation"
)

const (
	msgMissingURL    = "Missing URL parameter"
	msgInvalidBody   = "invalid request body"
	msgTaskNotFound  = "Task not found"
	msgNotCompleted  = "Download not completed yet"
	msgFileNotFound  = "File not found"
	msgInternalError = "internal server error"
)

// TaskService defines the task operations the HTTP layer needs.
type TaskService interface {
	Submit(ctx context.Context, url string) (string, error)
	GetStatus(ctx context.Context, id string) (domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Artifact(ctx context.Context, id string) (domain.Task, error)
}

// TaskHandler handles HTTP requests for download tasks.
type TaskHandler struct {
	taskService TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the provided service and logger.
func NewTaskHandler(taskService TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateDownload handles POST /api/download. The task is queued and its ID
// returned with 202 before any downloading happens.
func (h *TaskHandler) CreateDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.CreateDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request", "error", err)
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := validation.Struct(req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		writeError(w, http.StatusBadRequest, msgMissingURL)
		return
	}

	id, err := h.taskService.Submit(ctx, req.URL)
	if err != nil {
		h.logger.Error("failed to create task", "url", req.URL, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusAccepted, domain.CreateDownloadResponse{
		TaskID:  id,
		Message: domain.MessageQueued,
	})
}

// GetStatus handles GET /api/status/{taskID}.
func (h *TaskHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := h.taskService.GetStatus(r.Context(), taskID)
	if err != nil {
		h.writeTaskError(w, taskID, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.NewTaskResponse(task))
}

// ListTasks handles GET /api/tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	resp := make([]domain.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, domain.NewTaskResponse(task))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": resp,
		"count": len(resp),
	})
}

// writeTaskError maps service errors onto status codes.
func (h *TaskHandler) writeTaskError(w http.ResponseWriter, taskID string, err error) {
	switch {
	case errors.Is(err, errpkg.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, msgTaskNotFound)
	case errors.Is(err, errpkg.ErrTaskNotCompleted):
		writeError(w, http.StatusBadRequest, msgNotCompleted)
	case errors.Is(err, errpkg.ErrArtifactMissing):
		h.logger.Warn("artifact missing on disk", "task_id", taskID)
		writeError(w, http.StatusNotFound, msgFileNotFound)
	default:
		h.logger.Error("task lookup failed", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}
