package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/veranemoloko/video-downloader/internal/domain"
	errpkg "github.com/veranemoloko/video-downloader/internal/errors"
	"github.com/veranemoloko/video-downloader/internal/metrics"
	"github.com/veranemoloko/video-downloader/internal/repository"
	"github.com/veranemoloko/video-downloader/internal/storage"
	"github.com/veranemoloko/video-downloader/internal/worker"
)

// TaskService owns the task registry and the background workers that fill it.
type TaskService struct {
	repo        repository.TaskRepo
	downloader  Downloader
	dispatcher  *worker.Dispatcher
	fileStorage *storage.FileStorage
	logger      *slog.Logger

	newID func() string
	now   func() time.Time

	// workCtx is only canceled when Shutdown gives up waiting.
	workCtx    context.Context
	cancelWork context.CancelFunc
}

func NewTaskService(
	repo repository.TaskRepo,
	downloader Downloader,
	dispatcher *worker.Dispatcher,
	fileStorage *storage.FileStorage,
	logger *slog.Logger,
) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TaskService{
		repo:        repo,
		downloader:  downloader,
		dispatcher:  dispatcher,
		fileStorage: fileStorage,
		logger:      logger,
		newID:       uuid.NewString,
		now:         time.Now,
		workCtx:     ctx,
		cancelWork:  cancel,
	}
}

// CreateTask registers a pending task for url and returns its ID without starting it.
func (s *TaskService) CreateTask(ctx context.Context, url string) (string, error) {
	task := domain.NewTask(s.newID(), url, s.now())
	if err := s.repo.Create(ctx, task); err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}

	metrics.TasksCreated.Inc()
	s.logger.Info("task created", "task_id", task.ID, "url", url)
	return task.ID, nil
}

// StartWorker launches the background download for a task created by CreateTask.
func (s *TaskService) StartWorker(taskID, url string) {
	s.dispatcher.Go(taskID,
		func() { s.process(taskID, url) },
		func(err error) { s.fail(taskID, messageErrorPrefix+err.Error()) },
	)
}

// Submit creates a task and starts its worker.
func (s *TaskService) Submit(ctx context.Context, url string) (string, error) {
	id, err := s.CreateTask(ctx, url)
	if err != nil {
		return "", err
	}
	s.StartWorker(id, url)
	return id, nil
}

func (s *TaskService) process(taskID, url string) {
	// Registry writes use their own context so a canceled download still
	// reaches a terminal state.
	ctx := context.Background()

	if _, err := s.repo.Update(ctx, taskID, func(t *domain.Task) error { return t.Start() }); err != nil {
		s.logger.Error("start task", "task_id", taskID, "error", err)
		s.fail(taskID, messageErrorPrefix+err.Error())
		return
	}
	s.logger.Info("task started", "task_id", taskID, "url", url)

	onProgress := func(percent float64) {
		_, err := s.repo.Update(ctx, taskID, func(t *domain.Task) error {
			return t.ReportProgress(percent)
		})
		if err != nil {
			s.logger.Debug("progress dropped", "task_id", taskID, "error", err)
		}
	}

	outcome := s.downloader.Download(s.workCtx, url, s.fileStorage.Dir(), onProgress)
	if !outcome.Success {
		s.fail(taskID, outcome.Message)
		return
	}

	_, err := s.repo.Update(ctx, taskID, func(t *domain.Task) error {
		return t.Complete(outcome.Filepath, outcome.SourceType, outcome.Message)
	})
	if err != nil {
		s.logger.Error("complete task", "task_id", taskID, "error", err)
		s.fail(taskID, messageErrorPrefix+err.Error())
		return
	}

	metrics.TasksCompleted.Inc()
	s.logger.Info("task completed",
		"task_id", taskID,
		"source_type", outcome.SourceType,
		"file_path", outcome.Filepath,
	)
}

// fail moves a task to failed. A task that never left pending is started
// first so the state machine is still followed.
func (s *TaskService) fail(taskID, message string) {
	_, err := s.repo.Update(context.Background(), taskID, func(t *domain.Task) error {
		if t.Status == domain.TaskStatusPending {
			if err := t.Start(); err != nil {
				return err
			}
		}
		return t.Fail(message)
	})
	if err != nil {
		s.logger.Error("fail task", "task_id", taskID, "error", err)
		return
	}

	metrics.TasksFailed.Inc()
	s.logger.Warn("task failed", "task_id", taskID, "message", message)
}

// GetStatus returns a snapshot of the task.
func (s *TaskService) GetStatus(ctx context.Context, id string) (domain.Task, error) {
	return s.repo.Get(ctx, id)
}

// Artifact returns the task if its file is ready to be served.
func (s *TaskService) Artifact(ctx context.Context, id string) (domain.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if task.Status != domain.TaskStatusCompleted {
		return task, errpkg.ErrTaskNotCompleted
	}
	if _, err := s.fileStorage.Stat(task.Filepath); err != nil {
		if !errors.Is(err, errpkg.ErrArtifactMissing) {
			s.logger.Error("stat artifact", "task_id", id, "file_path", task.Filepath, "error", err)
		}
		return task, errpkg.ErrArtifactMissing
	}
	return task, nil
}

// List returns every task, newest first.
func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	return s.repo.List(ctx)
}

// Prune drops finished tasks last updated more than olderThan ago. Files on
// disk are left alone.
func (s *TaskService) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	removed, err := s.repo.DeleteFinishedBefore(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("prune tasks: %w", err)
	}
	metrics.TasksPruned.Add(float64(len(removed)))
	for _, task := range removed {
		s.logger.Debug("task pruned", "task_id", task.ID, "status", task.Status)
	}
	return len(removed), nil
}

// Shutdown waits for running downloads. When ctx expires first the remaining
// downloads are canceled and ctx's error is returned.
func (s *TaskService) Shutdown(ctx context.Context) error {
	err := s.dispatcher.Wait(ctx)
	if err != nil {
		s.logger.Warn("shutdown deadline reached, canceling downloads", "error", err)
	}
	s.cancelWork()
	return err
}
