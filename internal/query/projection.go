// Package query derives the visible classroom rows from the canonical
// collection. Projections are recomputed on every call and never cached.
package query

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/lectern/pkg/types"
)

// FieldCapacity is the only sortable field.
const FieldCapacity = "capacity"

// ErrUnsortableField is returned when a Sort names a non-numeric field.
var ErrUnsortableField = errors.New("field is not sortable")

// ErrInvalidSort is returned by ParseSort for a malformed directive.
var ErrInvalidSort = errors.New("invalid sort directive")

// Direction is a sort order.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort orders the projection by a numeric field.
type Sort struct {
	Field     string
	Direction Direction
}

// Query selects and orders classrooms. Zero fields do not filter.
type Query struct {
	// Text keeps classrooms whose id or name contains it, ignoring case.
	Text string
	// Type keeps classrooms of one category.
	Type string
	Sort *Sort
}

// Project filters and sorts all according to q. The result is a new slice;
// all is never modified. Ties in the sort key keep their collection order.
func Project(all []types.Classroom, q Query) ([]types.Classroom, error) {
	var less func(a, b types.Classroom) int
	if q.Sort != nil {
		var err error
		if less, err = comparator(*q.Sort); err != nil {
			return nil, err
		}
	}

	text := strings.ToLower(q.Text)
	out := make([]types.Classroom, 0, len(all))
	for _, c := range all {
		if text != "" && !strings.Contains(strings.ToLower(c.ID), text) &&
			!strings.Contains(strings.ToLower(c.Name), text) {
			continue
		}
		if q.Type != "" && c.Type != q.Type {
			continue
		}
		out = append(out, c)
	}

	if less != nil {
		slices.SortStableFunc(out, less)
	}
	return out, nil
}

func comparator(s Sort) (func(a, b types.Classroom) int, error) {
	if s.Field != FieldCapacity {
		return nil, fmt.Errorf("%w: %q", ErrUnsortableField, s.Field)
	}
	switch s.Direction {
	case Asc, "":
		return func(a, b types.Classroom) int { return cmp.Compare(a.Capacity, b.Capacity) }, nil
	case Desc:
		return func(a, b types.Classroom) int { return cmp.Compare(b.Capacity, a.Capacity) }, nil
	default:
		return nil, fmt.Errorf("%w: direction %q", ErrInvalidSort, s.Direction)
	}
}

// ParseSort parses "field" or "field:asc|desc". An empty string means no
// sort and returns nil.
func ParseSort(s string) (*Sort, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	field, dir, _ := strings.Cut(s, ":")
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
	sort := &Sort{Field: field, Direction: Asc}
	switch Direction(strings.ToLower(strings.TrimSpace(dir))) {
	case "", Asc:
	case Desc:
		sort.Direction = Desc
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
	if sort.Field != FieldCapacity {
		return nil, fmt.Errorf("%w: %q", ErrUnsortableField, sort.Field)
	}
	return sort, nil
}
