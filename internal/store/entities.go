// Package store owns the canonical entity collections. Every mutation loads
// the whole collection through the storage port, changes an in-memory copy
// and writes the whole collection back; nothing is cached between calls.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/lectern/pkg/types"
)

// maxIDAttempts bounds id regeneration when a generated id collides with a
// stored one.
const maxIDAttempts = 8

// ErrIDExhausted is returned when the id generator keeps producing ids that
// are already in use.
var ErrIDExhausted = errors.New("could not generate a unique id")

// Placement decides where Create puts a new entity.
type Placement int

const (
	// Append adds new entities at the end of the collection.
	Append Placement = iota
	// Prepend adds new entities at the front of the collection.
	Prepend
)

// IDFunc generates entity ids.
type IDFunc func() (string, error)

// NewUUID generates a UUID v7 string.
func NewUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}

// Option configures an Entities collection.
type Option func(*options)

type options struct {
	newID     IDFunc
	placement Placement
}

// WithIDFunc replaces the UUID v7 generator.
func WithIDFunc(f IDFunc) Option {
	return func(o *options) { o.newID = f }
}

// WithPlacement sets where Create inserts new entities.
func WithPlacement(p Placement) Option {
	return func(o *options) { o.placement = p }
}

// Entities is a persisted collection of T stored as a JSON array under one
// key. idOf reads an entity's id and withID returns a copy carrying a new id.
type Entities[T any] struct {
	kv     types.KeyValueStore
	key    string
	idOf   func(T) string
	withID func(T, string) T
	opts   options
}

// NewEntities returns a collection stored under key in kv.
func NewEntities[T any](kv types.KeyValueStore, key string, idOf func(T) string, withID func(T, string) T, opts ...Option) *Entities[T] {
	o := options{newID: NewUUID, placement: Append}
	for _, opt := range opts {
		opt(&o)
	}
	return &Entities[T]{kv: kv, key: key, idOf: idOf, withID: withID, opts: o}
}

// Key returns the storage key of the collection.
func (e *Entities[T]) Key() string { return e.key }

// List returns the full persisted collection in stored order. A missing key
// is an empty collection. The result is never nil.
func (e *Entities[T]) List(ctx context.Context) ([]T, error) {
	data, found, err := e.kv.Get(ctx, e.key)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s: %w", types.ErrPersistence, e.key, err)
	}
	if !found || len(data) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %w: %s: %v", types.ErrPersistence, types.ErrCorrupt, e.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get returns the entity with the given id, or ErrNotFound.
func (e *Entities[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if id == "" {
		return zero, types.ErrInvalidID
	}
	items, err := e.List(ctx)
	if err != nil {
		return zero, err
	}
	if i := e.indexOf(items, id); i >= 0 {
		return items[i], nil
	}
	return zero, fmt.Errorf("%s %q: %w", e.key, id, types.ErrNotFound)
}

// Create assigns a fresh id to item, stores it and returns the stored value.
// Any id already on item is ignored.
func (e *Entities[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	items, err := e.List(ctx)
	if err != nil {
		return zero, err
	}
	id, err := e.uniqueID(items)
	if err != nil {
		return zero, err
	}
	created := e.withID(item, id)

	next := make([]T, 0, len(items)+1)
	if e.opts.placement == Prepend {
		next = append(next, created)
		next = append(next, items...)
	} else {
		next = append(next, items...)
		next = append(next, created)
	}
	if err := e.save(ctx, next); err != nil {
		return zero, err
	}
	return created, nil
}

// Update replaces the stored entity that has item's id. An unknown id
// returns ErrNotFound and writes nothing.
func (e *Entities[T]) Update(ctx context.Context, item T) error {
	id := e.idOf(item)
	if id == "" {
		return types.ErrInvalidID
	}
	items, err := e.List(ctx)
	if err != nil {
		return err
	}
	i := e.indexOf(items, id)
	if i < 0 {
		return fmt.Errorf("%s %q: %w", e.key, id, types.ErrNotFound)
	}
	items[i] = item
	return e.save(ctx, items)
}

// Delete removes the entity with the given id. An absent id is a no-op and
// writes nothing.
func (e *Entities[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	items, err := e.List(ctx)
	if err != nil {
		return err
	}
	i := e.indexOf(items, id)
	if i < 0 {
		return nil
	}
	next := make([]T, 0, len(items)-1)
	next = append(next, items[:i]...)
	next = append(next, items[i+1:]...)
	return e.save(ctx, next)
}

func (e *Entities[T]) save(ctx context.Context, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %w", types.ErrPersistence, e.key, err)
	}
	if err := e.kv.Set(ctx, e.key, data); err != nil {
		return fmt.Errorf("%w: saving %s: %w", types.ErrPersistence, e.key, err)
	}
	return nil
}

func (e *Entities[T]) indexOf(items []T, id string) int {
	for i, it := range items {
		if e.idOf(it) == id {
			return i
		}
	}
	return -1
}

func (e *Entities[T]) uniqueID(items []T) (string, error) {
	taken := make(map[string]bool, len(items))
	for _, it := range items {
		taken[e.idOf(it)] = true
	}
	for range maxIDAttempts {
		id, err := e.opts.newID()
		if err != nil {
			return "", err
		}
		if id != "" && !taken[id] {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}
