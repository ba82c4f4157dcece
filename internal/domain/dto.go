package domain

import "time"

// CreateDownloadRequest represents the request body for starting a download.
type CreateDownloadRequest struct {
	URL string `json:"url" validate:"required,notblank"`
}

// CreateDownloadResponse is returned once a task has been accepted.
type CreateDownloadResponse struct {
	TaskID  string `json:"taskId"`
	Message string `json:"message"`
}

// TaskResponse is the polled view of a task.
type TaskResponse struct {
	ID         string     `json:"taskId"`
	URL        string     `json:"url"`
	Status     TaskStatus `json:"status"`
	Message    string     `json:"message"`
	Progress   int        `json:"progress"`
	Filepath   string     `json:"filepath,omitempty"`
	Filename   string     `json:"filename,omitempty"`
	SourceType SourceType `json:"sourceType,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// NewTaskResponse builds the response view; artifact fields only appear once completed.
func NewTaskResponse(t Task) TaskResponse {
	resp := TaskResponse{
		ID:        t.ID,
		URL:       t.URL,
		Status:    t.Status,
		Message:   t.Message,
		Progress:  t.Progress,
		CreatedAt: t.CreatedAt,
	}
	if t.Status == TaskStatusCompleted {
		resp.Filepath = t.Filepath
		resp.Filename = t.Filename
		resp.SourceType = t.SourceType
	}
	return resp
}
