package validation

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mesh-intelligence/lectern/pkg/types"
)

// Field names reported in ValidationError.
const (
	FieldName        = "name"
	FieldCapacity    = "capacity"
	FieldType        = "type"
	FieldManager     = "manager"
	FieldTitle       = "title"
	FieldDescription = "description"
)

// Rule names reported in ConstraintViolation.
const (
	RuleUniqueName  = "unique name"
	RuleDeleteLimit = "delete capacity limit"
)

// Policy holds the classroom rules. Managers is the roster a classroom
// manager must come from; an empty roster accepts any manager.
type Policy struct {
	Managers []string
}

// DefaultPolicy returns a Policy using types.DefaultManagers.
func DefaultPolicy() Policy {
	return Policy{Managers: slices.Clone(types.DefaultManagers)}
}

// Validate reports the first rule draft breaks, or nil when it may be
// stored. existing is the current collection; the entity with id excludeID
// is skipped by the uniqueness check so an edit may keep its own name.
func (p Policy) Validate(draft types.ClassroomDraft, existing []types.Classroom, excludeID string) error {
	switch {
	case strings.TrimSpace(draft.Name) == "":
		return &types.ValidationError{Field: FieldName, Err: types.ErrRequired}
	case strings.TrimSpace(draft.Type) == "":
		return &types.ValidationError{Field: FieldType, Err: types.ErrRequired}
	case strings.TrimSpace(draft.Manager) == "":
		return &types.ValidationError{Field: FieldManager, Err: types.ErrRequired}
	}

	draft = NormalizeClassroom(draft)
	if utf8.RuneCountInString(draft.Name) > types.MaxNameLength {
		return &types.ValidationError{Field: FieldName, Err: types.ErrNameTooLong}
	}
	if draft.Capacity <= 0 {
		return &types.ValidationError{Field: FieldCapacity, Err: types.ErrInvalidCapacity}
	}
	if !types.IsCategory(draft.Type) {
		return &types.ValidationError{Field: FieldType, Err: types.ErrInvalidCategory}
	}
	if len(p.Managers) > 0 && !slices.Contains(p.Managers, draft.Manager) {
		return &types.ValidationError{Field: FieldManager, Err: types.ErrUnknownManager}
	}

	for _, c := range existing {
		if c.ID == excludeID && excludeID != "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(c.Name), draft.Name) {
			return &types.ConstraintViolation{Rule: RuleUniqueName, Err: types.ErrDuplicateName}
		}
	}
	return nil
}

// NormalizeClassroom trims the text fields of d.
func NormalizeClassroom(d types.ClassroomDraft) types.ClassroomDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Type = strings.TrimSpace(d.Type)
	d.Manager = strings.TrimSpace(d.Manager)
	return d
}

// CheckDelete reports whether c may be deleted. Classrooms at or above
// types.DeleteCapacityLimit seats are kept.
func CheckDelete(c types.Classroom) error {
	if c.Deletable() {
		return nil
	}
	return &types.ConstraintViolation{Rule: RuleDeleteLimit, Err: types.ErrDeleteForbidden}
}
