package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lectern/internal/storage/memory"
	"github.com/mesh-intelligence/lectern/pkg/types"
)

var errDiskFull = errors.New("quota exceeded")

// flakyKV wraps a memory store and fails Set or Get on demand.
type flakyKV struct {
	*memory.Store
	failSet bool
	failGet bool
	sets    int
}

func newFlakyKV() *flakyKV { return &flakyKV{Store: memory.New()} }

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, errDiskFull
	}
	return f.Store.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errDiskFull
	}
	f.sets++
	return f.Store.Set(ctx, key, value)
}

// sequentialIDs returns "1", "2", ... for deterministic tests.
func sequentialIDs() IDFunc {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprint(n), nil
	}
}

func room(name string, capacity int, category string) types.Classroom {
	return types.Classroom{Name: name, Capacity: capacity, Type: category, Manager: types.DefaultManagers[0]}
}

func TestListMissingKeyIsEmpty(t *testing.T) {
	rooms := NewClassrooms(memory.New())
	got, err := rooms.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListEmptyValueIsEmpty(t *testing.T) {
	kv := memory.New()
	require.NoError(t, kv.Set(context.Background(), types.CollectionClassrooms, nil))
	got, err := NewClassrooms(kv).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListCorruptValue(t *testing.T) {
	kv := memory.New()
	require.NoError(t, kv.Set(context.Background(), types.CollectionClassrooms, []byte(`{not json`)))

	_, err := NewClassrooms(kv).List(context.Background())
	assert.ErrorIs(t, err, types.ErrPersistence)
	assert.ErrorIs(t, err, types.ErrCorrupt)
}

func TestListReadsOriginalLayout(t *testing.T) {
	kv := memory.New()
	raw := `[{"id":"b","name":"B","capacity":40,"type":"Lab","manager":"Lưu Đức Tuấn"},` +
		`{"id":"a","name":"A","capacity":20,"type":"Lecture","manager":"Trần Đức Định"}]`
	require.NoError(t, kv.Set(context.Background(), types.CollectionClassrooms, []byte(raw)))

	got, err := NewClassrooms(kv).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID, "list must keep stored order")
	assert.Equal(t, types.Classroom{ID: "a", Name: "A", Capacity: 20, Type: "Lecture", Manager: "Trần Đức Định"}, got[1])
}

func TestCreateAssignsUUIDv7AndPersists(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	rooms := NewClassrooms(kv)

	created, err := rooms.Create(ctx, room("A101", 20, types.CategoryLecture))
	require.NoError(t, err)

	parsed, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	raw, found, err := kv.Get(ctx, types.CollectionClassrooms)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, string(raw), `"name":"A101"`)
	assert.Contains(t, string(raw), `"manager":"Trần Đức Định"`)
}

func TestCreateIgnoresCallerID(t *testing.T) {
	rooms := NewClassrooms(memory.New(), WithIDFunc(sequentialIDs()))
	in := room("A", 10, types.CategoryLab)
	in.ID = "chosen-by-caller"

	created, err := rooms.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "1", created.ID)
}

func TestCreateIDsUniqueAcrossHistory(t *testing.T) {
	ctx := context.Background()
	rooms := NewClassrooms(memory.New())
	seen := make(map[string]bool)

	for i := range 50 {
		created, err := rooms.Create(ctx, room(fmt.Sprintf("Room %d", i), 10, types.CategoryLab))
		require.NoError(t, err)
		assert.False(t, seen[created.ID], "id %s reused", created.ID)
		seen[created.ID] = true
		if i%3 == 0 {
			require.NoError(t, rooms.Delete(ctx, created.ID))
		}
	}
	assert.Len(t, seen, 50)
}

func TestCreateRegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	ids := []string{"x", "x", "y"}
	next := func() (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}
	rooms := NewClassrooms(memory.New(), WithIDFunc(next))

	first, err := rooms.Create(ctx, room("A", 10, types.CategoryLab))
	require.NoError(t, err)
	second, err := rooms.Create(ctx, room("B", 10, types.CategoryLab))
	require.NoError(t, err)

	assert.Equal(t, "x", first.ID)
	assert.Equal(t, "y", second.ID)
}

func TestCreateIDExhausted(t *testing.T) {
	ctx := context.Background()
	same := func() (string, error) { return "dup", nil }
	rooms := NewClassrooms(memory.New(), WithIDFunc(same))

	_, err := rooms.Create(ctx, room("A", 10, types.CategoryLab))
	require.NoError(t, err)
	_, err = rooms.Create(ctx, room("B", 10, types.CategoryLab))
	assert.ErrorIs(t, err, ErrIDExhausted)

	got, err := rooms.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCreateAppendsClassroomsPrependsTasks(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	rooms := NewClassrooms(kv, WithIDFunc(sequentialIDs()))
	_, err := rooms.Create(ctx, room("A", 10, types.CategoryLab))
	require.NoError(t, err)
	_, err = rooms.Create(ctx, room("B", 10, types.CategoryLab))
	require.NoError(t, err)
	gotRooms, err := rooms.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, []string{gotRooms[0].Name, gotRooms[1].Name})

	tasks := NewTasks(kv, WithIDFunc(sequentialIDs()))
	_, err = tasks.Create(ctx, types.Task{Title: "first", Description: "d"})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, types.Task{Title: "second", Description: "d"})
	require.NoError(t, err)
	gotTasks, err := tasks.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, []string{gotTasks[0].Title, gotTasks[1].Title})
}

func TestUpdateReplacesOnlyMatchingEntity(t *testing.T) {
	ctx := context.Background()
	rooms := NewClassrooms(memory.New(), WithIDFunc(sequentialIDs()))
	a, err := rooms.Create(ctx, room("A", 20, types.CategoryLecture))
	require.NoError(t, err)
	b, err := rooms.Create(ctx, room("B", 40, types.CategoryLab))
	require.NoError(t, err)

	edited := b
	edited.Name = "B2"
	edited.Capacity = 45
	edited.Type = types.CategoryHall
	require.NoError(t, rooms.Update(ctx, edited))

	got, err := rooms.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Classroom{a, edited}, got)
}

func TestUpdateUnknownIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	kv := newFlakyKV()
	rooms := NewClassrooms(kv, WithIDFunc(sequentialIDs()))
	_, err := rooms.Create(ctx, room("A", 20, types.CategoryLecture))
	require.NoError(t, err)
	setsBefore := kv.sets

	ghost := room("Ghost", 5, types.CategoryLab)
	ghost.ID = "missing"
	err = rooms.Update(ctx, ghost)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, setsBefore, kv.sets, "no write on unknown id")
}

func TestUpdateEmptyID(t *testing.T) {
	rooms := NewClassrooms(memory.New())
	assert.ErrorIs(t, rooms.Update(context.Background(), room("A", 1, types.CategoryLab)), types.ErrInvalidID)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	kv := newFlakyKV()
	rooms := NewClassrooms(kv, WithIDFunc(sequentialIDs()))
	a, err := rooms.Create(ctx, room("A", 20, types.CategoryLecture))
	require.NoError(t, err)
	b, err := rooms.Create(ctx, room("B", 40, types.CategoryLab))
	require.NoError(t, err)

	t.Run("absent id is a no-op", func(t *testing.T) {
		before := kv.sets
		require.NoError(t, rooms.Delete(ctx, "nope"))
		assert.Equal(t, before, kv.sets)
	})

	t.Run("present id is removed", func(t *testing.T) {
		require.NoError(t, rooms.Delete(ctx, a.ID))
		got, err := rooms.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []types.Classroom{b}, got)
	})

	t.Run("empty id rejected", func(t *testing.T) {
		assert.ErrorIs(t, rooms.Delete(ctx, ""), types.ErrInvalidID)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	rooms := NewClassrooms(memory.New())
	a, err := rooms.Create(ctx, room("A", 20, types.CategoryLecture))
	require.NoError(t, err)

	got, err := rooms.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = rooms.Get(ctx, "unknown")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = rooms.Get(ctx, "")
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestPersistenceFailureLeavesStoredStateIntact(t *testing.T) {
	ctx := context.Background()
	kv := newFlakyKV()
	rooms := NewClassrooms(kv, WithIDFunc(sequentialIDs()))
	a, err := rooms.Create(ctx, room("A", 20, types.CategoryLecture))
	require.NoError(t, err)

	kv.failSet = true
	_, err = rooms.Create(ctx, room("B", 10, types.CategoryLab))
	assert.ErrorIs(t, err, types.ErrPersistence)
	assert.ErrorIs(t, err, errDiskFull)

	edited := a
	edited.Name = "A2"
	assert.ErrorIs(t, rooms.Update(ctx, edited), types.ErrPersistence)
	assert.ErrorIs(t, rooms.Delete(ctx, a.ID), types.ErrPersistence)

	kv.failSet = false
	got, err := rooms.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Classroom{a}, got)
}

func TestLoadFailureIsPersistenceError(t *testing.T) {
	kv := newFlakyKV()
	kv.failGet = true
	_, err := NewClassrooms(kv).List(context.Background())
	assert.ErrorIs(t, err, types.ErrPersistence)
	assert.ErrorIs(t, err, errDiskFull)
}

func TestIDFuncErrorSurfaces(t *testing.T) {
	boom := errors.New("entropy unavailable")
	rooms := NewClassrooms(memory.New(), WithIDFunc(func() (string, error) { return "", boom }))
	_, err := rooms.Create(context.Background(), room("A", 1, types.CategoryLab))
	assert.ErrorIs(t, err, boom)
}
