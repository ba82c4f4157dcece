package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/veranemoloko/video-downloader/internal/domain"
	errpkg "github.com/veranemoloko/video-downloader/internal/errors"
)

type taskEntry struct {
	mu   sync.Mutex
	task domain.Task
}

// TaskStorage keeps tasks in memory. The map lock only guards membership;
// each task has its own lock so a worker updating one task never blocks
// readers of another.
type TaskStorage struct {
	mu    sync.RWMutex
	tasks map[string]*taskEntry
	now   func() time.Time
}

// NewTaskStorage creates an empty TaskStorage.
func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		tasks: make(map[string]*taskEntry),
		now:   time.Now,
	}
}

func (r *TaskStorage) entry(id string) (*taskEntry, bool) {
	r.mu.RLock()
	e, ok := r.tasks[id]
	r.mu.RUnlock()
	return e, ok
}

// Create adds a new task.
func (r *TaskStorage) Create(ctx context.Context, task domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; exists {
		return fmt.Errorf("task %s already exists", task.ID)
	}
	r.tasks[task.ID] = &taskEntry{task: task}

	slog.Debug("task created", "task_id", task.ID)
	return nil
}

// Get retrieves a copy of the task with the given ID.
func (r *TaskStorage) Get(ctx context.Context, id string) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	e, ok := r.entry(id)
	if !ok {
		return domain.Task{}, errpkg.ErrTaskNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.task, nil
}

// Update runs fn against a copy of the task under the task's lock. The copy
// replaces the stored task only if fn succeeds, so a rejected transition
// leaves no partial changes behind.
func (r *TaskStorage) Update(ctx context.Context, id string, fn func(*domain.Task) error) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	e, ok := r.entry(id)
	if !ok {
		return domain.Task{}, errpkg.ErrTaskNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.task
	if err := fn(&next); err != nil {
		return e.task, err
	}
	next.UpdatedAt = r.now()
	e.task = next

	slog.Debug("task updated", "task_id", id, "status", next.Status, "progress", next.Progress)
	return next, nil
}

// List returns copies of all tasks, newest first.
func (r *TaskStorage) List(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	entries := make([]*taskEntry, 0, len(r.tasks))
	for _, e := range r.tasks {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		tasks = append(tasks, e.task)
		e.mu.Unlock()
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// DeleteFinishedBefore removes completed and failed tasks whose last update is
// older than cutoff. Pending and downloading tasks are never removed.
func (r *TaskStorage) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []domain.Task
	for id, e := range r.tasks {
		e.mu.Lock()
		task := e.task
		e.mu.Unlock()

		if task.Status.IsTerminal() && task.UpdatedAt.Before(cutoff) {
			delete(r.tasks, id)
			removed = append(removed, task)
		}
	}

	if len(removed) > 0 {
		slog.Debug("tasks removed", "count", len(removed))
	}
	return removed, nil
}
