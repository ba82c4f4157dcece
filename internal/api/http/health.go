package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/veranemoloko/video-downloader/internal/storage"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string         `json:"status"`
	Service   string         `json:"service"`
	Timestamp time.Time      `json:"timestamp"`
	Disk      *storage.Usage `json:"disk,omitempty"`
}

type healthHandler struct {
	service string
	files   *storage.FileStorage
	logger  *slog.Logger
	now     func() time.Time
}

// ServeHTTP always reports healthy; disk stats are best effort.
func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Service:   h.service,
		Timestamp: h.now().UTC(),
	}

	if h.files != nil {
		usage, err := h.files.Usage()
		if err != nil {
			h.logger.Debug("disk usage unavailable", "error", err)
		} else {
			resp.Disk = usage
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
