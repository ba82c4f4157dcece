package repository

import (
	"context"
	"time"

	"github.com/veranemoloko/video-downloader/internal/domain"
)

// TaskRepo defines the interface for task storage operations.
// Reads return copies; mutation only happens through Update.
type TaskRepo interface {
	Create(ctx context.Context, task domain.Task) error
	Get(ctx context.Context, id string) (domain.Task, error)
	// Update applies fn to a copy of the task and stores it only when fn returns nil.
	Update(ctx context.Context, id string, fn func(*domain.Task) error) (domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	// DeleteFinishedBefore removes terminal tasks last updated before cutoff and returns them.
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) ([]domain.Task, error)
}
