package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/lectern/internal/metrics"
	"github.com/mesh-intelligence/lectern/internal/query"
	"github.com/mesh-intelligence/lectern/internal/store"
	"github.com/mesh-intelligence/lectern/internal/validation"
	"github.com/mesh-intelligence/lectern/pkg/types"
)

// Classrooms is the classroom application service.
type Classrooms struct {
	store   *store.Classrooms
	policy  validation.Policy
	log     *zap.Logger
	metrics *metrics.Recorder
}

// NewClassrooms wires a classroom service. log may be nil; rec may be nil.
func NewClassrooms(s *store.Classrooms, policy validation.Policy, log *zap.Logger, rec *metrics.Recorder) *Classrooms {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classrooms{
		store:   s,
		policy:  policy,
		log:     log.Named(types.CollectionClassrooms),
		metrics: rec,
	}
}

// Add validates draft against the stored classrooms and stores it with its
// text fields trimmed.
func (s *Classrooms) Add(ctx context.Context, draft types.ClassroomDraft) (types.Classroom, error) {
	draft = validation.NormalizeClassroom(draft)
	all, err := s.store.List(ctx)
	if err != nil {
		return types.Classroom{}, s.done("add", fmt.Errorf("add classroom: %w", err), -1)
	}
	if err := s.policy.Validate(draft, all, ""); err != nil {
		s.log.Debug("Classroom rejected", zap.String("name", draft.Name), zap.Error(err))
		return types.Classroom{}, s.done("add", fmt.Errorf("add classroom: %w", err), -1)
	}
	created, err := s.store.Create(ctx, draft.Classroom(""))
	if err != nil {
		return types.Classroom{}, s.done("add", fmt.Errorf("add classroom: %w", err), -1)
	}
	s.log.Info("Classroom added",
		zap.String("id", created.ID),
		zap.String("name", created.Name),
		zap.Int("capacity", created.Capacity))
	return created, s.done("add", nil, len(all)+1)
}

// Edit replaces every field but the id of the stored classroom c.ID. Text
// fields are stored trimmed.
func (s *Classrooms) Edit(ctx context.Context, c types.Classroom) error {
	c = validation.NormalizeClassroom(c.Draft()).Classroom(c.ID)
	if c.ID == "" {
		return s.done("edit", fmt.Errorf("edit classroom: %w", types.ErrInvalidID), -1)
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return s.done("edit", fmt.Errorf("edit classroom: %w", err), -1)
	}
	if !containsID(all, c.ID) {
		return s.done("edit", fmt.Errorf("edit classroom %q: %w", c.ID, types.ErrNotFound), -1)
	}
	if err := s.policy.Validate(c.Draft(), all, c.ID); err != nil {
		s.log.Debug("Classroom edit rejected", zap.String("id", c.ID), zap.Error(err))
		return s.done("edit", fmt.Errorf("edit classroom: %w", err), -1)
	}
	if err := s.store.Update(ctx, c); err != nil {
		return s.done("edit", fmt.Errorf("edit classroom: %w", err), -1)
	}
	s.log.Info("Classroom updated", zap.String("id", c.ID), zap.String("name", c.Name))
	return s.done("edit", nil, len(all))
}

// Remove deletes the classroom id when the delete policy allows it and
// returns the removed record. Unlike store.Delete an unknown id is
// ErrNotFound, since the policy needs the record.
func (s *Classrooms) Remove(ctx context.Context, id string) (types.Classroom, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return types.Classroom{}, s.done("remove", fmt.Errorf("remove classroom: %w", err), -1)
	}
	var target *types.Classroom
	for i := range all {
		if all[i].ID == id {
			target = &all[i]
			break
		}
	}
	if target == nil {
		return types.Classroom{}, s.done("remove", fmt.Errorf("remove classroom %q: %w", id, types.ErrNotFound), -1)
	}
	if err := validation.CheckDelete(*target); err != nil {
		s.log.Info("Classroom delete refused",
			zap.String("id", id),
			zap.Int("capacity", target.Capacity))
		return types.Classroom{}, s.done("remove", fmt.Errorf("remove classroom %q: %w", id, err), -1)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return types.Classroom{}, s.done("remove", fmt.Errorf("remove classroom: %w", err), -1)
	}
	s.log.Info("Classroom removed", zap.String("id", id), zap.String("name", target.Name))
	return *target, s.done("remove", nil, len(all)-1)
}

// Get returns one classroom.
func (s *Classrooms) Get(ctx context.Context, id string) (types.Classroom, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return types.Classroom{}, s.done("get", fmt.Errorf("get classroom: %w", err), -1)
	}
	return c, s.done("get", nil, -1)
}

// List returns the projection of the stored classrooms selected by q.
func (s *Classrooms) List(ctx context.Context, q query.Query) ([]types.Classroom, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, s.done("list", fmt.Errorf("list classrooms: %w", err), -1)
	}
	rows, err := query.Project(all, q)
	if err != nil {
		return nil, s.done("list", fmt.Errorf("list classrooms: %w", err), -1)
	}
	return rows, s.done("list", nil, len(all))
}

// done records the outcome of op and returns err unchanged. A size of -1
// leaves the size gauge untouched.
func (s *Classrooms) done(op string, err error, size int) error {
	return record(s.log, s.metrics, types.CollectionClassrooms, op, err, size)
}

func containsID(all []types.Classroom, id string) bool {
	for _, c := range all {
		if c.ID == id {
			return true
		}
	}
	return false
}

func record(log *zap.Logger, rec *metrics.Recorder, collection, op string, err error, size int) error {
	rec.Observe(collection, op, err)
	if size >= 0 {
		rec.SetSize(collection, size)
	}
	if err != nil && !types.IsUserError(err) {
		log.Error("Operation failed", zap.String("operation", op), zap.Error(err))
	}
	return err
}
