package domain

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	errpkg "github.com/veranemoloko/video-downloader/internal/errors"
)

const (
	MessageQueued   = "Download queued"
	MessageStarting = "Starting download..."
)

// Task is one in-flight or finished download request.
type Task struct {
	ID         string     `json:"id"`
	URL        string     `json:"url"`
	Status     TaskStatus `json:"status"`
	Progress   int        `json:"progress"`
	Message    string     `json:"message"`
	Filepath   string     `json:"filepath,omitempty"`
	Filename   string     `json:"filename,omitempty"`
	SourceType SourceType `json:"sourceType,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewTask returns a pending task for url.
func NewTask(id, url string, now time.Time) Task {
	return Task{
		ID:        id,
		URL:       url,
		Status:    TaskStatusPending,
		Message:   MessageQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (t *Task) transition(next TaskStatus) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", errpkg.ErrInvalidTransition, t.Status, next)
	}
	t.Status = next
	return nil
}

// Start moves a pending task to downloading.
func (t *Task) Start() error {
	if err := t.transition(TaskStatusDownloading); err != nil {
		return err
	}
	t.Progress = 0
	t.Message = MessageStarting
	return nil
}

// ReportProgress records a progress tick. Out of range values are clamped and
// progress never moves backwards while downloading.
func (t *Task) ReportProgress(percent float64) error {
	if t.Status != TaskStatusDownloading {
		return fmt.Errorf("%w: progress reported while %s", errpkg.ErrInvalidTransition, t.Status)
	}
	p := ClampPercent(percent)
	if p > t.Progress {
		t.Progress = p
	}
	t.Message = fmt.Sprintf("Downloading... %d%%", t.Progress)
	return nil
}

// Complete marks the task finished with its artifact.
func (t *Task) Complete(path string, source SourceType, message string) error {
	if err := t.transition(TaskStatusCompleted); err != nil {
		return err
	}
	t.Progress = 100
	t.Message = message
	t.Filepath = path
	t.Filename = filepath.Base(path)
	t.SourceType = source
	return nil
}

// Fail marks the task failed.
func (t *Task) Fail(message string) error {
	if err := t.transition(TaskStatusFailed); err != nil {
		return err
	}
	t.Progress = 0
	t.Message = message
	return nil
}

// ClampPercent truncates percent to an integer in [0,100].
func ClampPercent(percent float64) int {
	switch {
	case math.IsNaN(percent) || percent <= 0:
		return 0
	case percent >= 100:
		return 100
	default:
		return int(percent)
	}
}
