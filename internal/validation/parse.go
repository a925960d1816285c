package validation

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/lectern/pkg/types"
)

// RawClassroom is classroom input exactly as the user typed it.
type RawClassroom struct {
	Name     string
	Capacity string
	Type     string
	Manager  string
}

// FieldErrors collects the fields that could not be parsed.
type FieldErrors []*types.ValidationError

func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes each field error to errors.Is and errors.As.
func (fe FieldErrors) Unwrap() []error {
	errs := make([]error, len(fe))
	for i, e := range fe {
		errs[i] = e
	}
	return errs
}

// Err returns fe as an error, or nil when it is empty.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// ParseClassroom converts raw input into a draft. Text fields are trimmed.
// Missing fields are reported first, in the order Validate checks them,
// then a capacity that is not an integer. When any field fails the draft is
// the zero value.
func ParseClassroom(raw RawClassroom) (types.ClassroomDraft, FieldErrors) {
	draft := types.ClassroomDraft{
		Name:    strings.TrimSpace(raw.Name),
		Type:    strings.TrimSpace(raw.Type),
		Manager: strings.TrimSpace(raw.Manager),
	}
	capacity := strings.TrimSpace(raw.Capacity)

	var errs FieldErrors
	for _, f := range []struct{ field, value string }{
		{FieldName, draft.Name},
		{FieldCapacity, capacity},
		{FieldType, draft.Type},
		{FieldManager, draft.Manager},
	} {
		if f.value == "" {
			errs = append(errs, &types.ValidationError{Field: f.field, Err: types.ErrRequired})
		}
	}
	if capacity != "" {
		n, err := strconv.Atoi(capacity)
		if err != nil {
			errs = append(errs, &types.ValidationError{Field: FieldCapacity, Err: types.ErrInvalidCapacity})
		}
		draft.Capacity = n
	}
	if len(errs) > 0 {
		return types.ClassroomDraft{}, errs
	}
	return draft, nil
}

// MergeClassroom overlays the non-empty fields of raw onto c and parses the
// result. It backs partial edits where unset fields keep their value.
func MergeClassroom(c types.Classroom, raw RawClassroom) (types.ClassroomDraft, FieldErrors) {
	merged := RawClassroom{
		Name:     c.Name,
		Capacity: strconv.Itoa(c.Capacity),
		Type:     c.Type,
		Manager:  c.Manager,
	}
	if raw.Name != "" {
		merged.Name = raw.Name
	}
	if raw.Capacity != "" {
		merged.Capacity = raw.Capacity
	}
	if raw.Type != "" {
		merged.Type = raw.Type
	}
	if raw.Manager != "" {
		merged.Manager = raw.Manager
	}
	return ParseClassroom(merged)
}
