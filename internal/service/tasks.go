package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/lectern/internal/metrics"
	"github.com/mesh-intelligence/lectern/internal/store"
	"github.com/mesh-intelligence/lectern/internal/validation"
	"github.com/mesh-intelligence/lectern/pkg/types"
)

// Tasks is the to-do list service.
type Tasks struct {
	store   *store.Tasks
	log     *zap.Logger
	metrics *metrics.Recorder
}

// NewTasks wires a task service. log and rec may be nil.
func NewTasks(s *store.Tasks, log *zap.Logger, rec *metrics.Recorder) *Tasks {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tasks{store: s, log: log.Named(types.CollectionTasks), metrics: rec}
}

// Add stores a new task at the top of the list.
func (s *Tasks) Add(ctx context.Context, draft types.TaskDraft) (types.Task, error) {
	draft = validation.NormalizeTask(draft)
	if err := validation.ValidateTask(draft); err != nil {
		return types.Task{}, s.done("add", fmt.Errorf("add task: %w", err), -1)
	}
	created, err := s.store.Create(ctx, draft.Task(""))
	if err != nil {
		return types.Task{}, s.done("add", fmt.Errorf("add task: %w", err), -1)
	}
	s.log.Info("Task added", zap.String("id", created.ID), zap.String("title", created.Title))
	return created, s.done("add", nil, s.size(ctx))
}

// Edit replaces the title and description of task t.ID.
func (s *Tasks) Edit(ctx context.Context, t types.Task) error {
	draft := validation.NormalizeTask(types.TaskDraft{Title: t.Title, Description: t.Description})
	if err := validation.ValidateTask(draft); err != nil {
		return s.done("edit", fmt.Errorf("edit task: %w", err), -1)
	}
	if err := s.store.Update(ctx, draft.Task(t.ID)); err != nil {
		return s.done("edit", fmt.Errorf("edit task: %w", err), -1)
	}
	s.log.Info("Task updated", zap.String("id", t.ID))
	return s.done("edit", nil, -1)
}

// Remove deletes task id. An unknown id is ErrNotFound.
func (s *Tasks) Remove(ctx context.Context, id string) (types.Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return types.Task{}, s.done("remove", fmt.Errorf("remove task: %w", err), -1)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return types.Task{}, s.done("remove", fmt.Errorf("remove task: %w", err), -1)
	}
	s.log.Info("Task removed", zap.String("id", id))
	return t, s.done("remove", nil, s.size(ctx))
}

// Get returns one task.
func (s *Tasks) Get(ctx context.Context, id string) (types.Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return types.Task{}, s.done("get", fmt.Errorf("get task: %w", err), -1)
	}
	return t, s.done("get", nil, -1)
}

// List returns all tasks, newest first.
func (s *Tasks) List(ctx context.Context) ([]types.Task, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, s.done("list", fmt.Errorf("list tasks: %w", err), -1)
	}
	return all, s.done("list", nil, len(all))
}

func (s *Tasks) done(op string, err error, size int) error {
	return record(s.log, s.metrics, types.CollectionTasks, op, err, size)
}

// size re-reads the collection for the size gauge; -1 when it cannot.
func (s *Tasks) size(ctx context.Context) int {
	if s.metrics == nil {
		return -1
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return -1
	}
	return len(all)
}
