package http

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	errpkg "github.com/veranemoloko/video-downloader/internal/errors"
	"github.com/veranemoloko/video-downloader/internal/storage"
)

// ArtifactHandler serves completed downloads. Both endpoints support byte
// ranges through http.ServeContent.
type ArtifactHandler struct {
	tasks *TaskHandler
	files *storage.FileStorage
}

func NewArtifactHandler(tasks *TaskHandler, files *storage.FileStorage) *ArtifactHandler {
	return &ArtifactHandler{tasks: tasks, files: files}
}

// Download handles GET /api/download/{taskID} and sends the file as an attachment.
func (h *ArtifactHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

// Stream handles GET /api/stream/{taskID} and sends the file inline as video/mp4.
func (h *ArtifactHandler) Stream(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, false)
}

func (h *ArtifactHandler) serve(w http.ResponseWriter, r *http.Request, attachment bool) {
	taskID := chi.URLParam(r, "taskID")

	task, err := h.tasks.taskService.Artifact(r.Context(), taskID)
	if err != nil {
		h.tasks.writeTaskError(w, taskID, err)
		return
	}

	f, info, err := h.files.Open(task.Filepath)
	if err != nil {
		if !errors.Is(err, errpkg.ErrArtifactMissing) {
			err = errors.Join(errpkg.ErrArtifactMissing, err)
		}
		h.tasks.writeTaskError(w, taskID, err)
		return
	}
	defer f.Close()

	name := task.Filename
	if name == "" {
		name = filepath.Base(task.Filepath)
	}

	if attachment {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	} else {
		w.Header().Set("Content-Type", "video/mp4")
	}

	h.tasks.logger.Debug("serving artifact",
		"task_id", taskID,
		"file_path", task.Filepath,
		"attachment", attachment,
		"range", r.Header.Get("Range"),
	)
	http.ServeContent(w, r, name, info.ModTime(), f)
}
