package validation

import (
	"strings"

	"github.com/mesh-intelligence/lectern/pkg/types"
)

// ValidateTask checks that a task has both a title and a description.
func ValidateTask(d types.TaskDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return &types.ValidationError{Field: FieldTitle, Err: types.ErrRequired}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &types.ValidationError{Field: FieldDescription, Err: types.ErrRequired}
	}
	return nil
}

// NormalizeTask trims both text fields.
func NormalizeTask(d types.TaskDraft) types.TaskDraft {
	return types.TaskDraft{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
	}
}
