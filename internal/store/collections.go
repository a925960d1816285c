package store

import "github.com/mesh-intelligence/lectern/pkg/types"

// Classrooms is the classroom collection.
type Classrooms = Entities[types.Classroom]

// Tasks is the to-do collection.
type Tasks = Entities[types.Task]

// NewClassrooms returns the classroom collection. New classrooms are
// appended.
func NewClassrooms(kv types.KeyValueStore, opts ...Option) *Classrooms {
	return NewEntities(kv, types.CollectionClassrooms,
		func(c types.Classroom) string { return c.ID },
		func(c types.Classroom, id string) types.Classroom { c.ID = id; return c },
		opts...,
	)
}

// NewTasks returns the to-do collection. New tasks go to the front, so the
// most recent task lists first.
func NewTasks(kv types.KeyValueStore, opts ...Option) *Tasks {
	opts = append([]Option{WithPlacement(Prepend)}, opts...)
	return NewEntities(kv, types.CollectionTasks,
		func(t types.Task) string { return t.ID },
		func(t types.Task, id string) types.Task { t.ID = id; return t },
		opts...,
	)
}
