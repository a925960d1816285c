package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lectern/pkg/types"
)

func TestParseClassroom(t *testing.T) {
	tests := []struct {
		name string
		raw  RawClassroom
		want types.ClassroomDraft
	}{
		{
			name: "trims text and parses capacity",
			raw:  RawClassroom{Name: "  A101 ", Capacity: " 25 ", Type: "Lab ", Manager: " Lưu Đức Tuấn"},
			want: types.ClassroomDraft{Name: "A101", Capacity: 25, Type: "Lab", Manager: "Lưu Đức Tuấn"},
		},
		{
			name: "negative capacity parses and is left to Validate",
			raw:  RawClassroom{Name: "A", Capacity: "-1", Type: "Lab", Manager: "x"},
			want: types.ClassroomDraft{Name: "A", Capacity: -1, Type: "Lab", Manager: "x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := ParseClassroom(tt.raw)
			require.Empty(t, errs)
			assert.NoError(t, errs.Err())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClassroomErrors(t *testing.T) {
	tests := []struct {
		name      string
		raw       RawClassroom
		wantField string
		wantErr   error
		wantLen   int
	}{
		{
			name:      "empty form reports name first",
			raw:       RawClassroom{},
			wantField: FieldName,
			wantErr:   types.ErrRequired,
			wantLen:   4,
		},
		{
			name:      "missing name beats missing capacity",
			raw:       RawClassroom{Type: "Lab", Manager: "x"},
			wantField: FieldName,
			wantErr:   types.ErrRequired,
			wantLen:   2,
		},
		{
			name:      "missing name beats bad capacity",
			raw:       RawClassroom{Capacity: "many", Type: "Lab", Manager: "x"},
			wantField: FieldName,
			wantErr:   types.ErrRequired,
			wantLen:   2,
		},
		{
			name:      "blank capacity is required",
			raw:       RawClassroom{Name: "A", Capacity: "  ", Type: "Lab", Manager: "x"},
			wantField: FieldCapacity,
			wantErr:   types.ErrRequired,
			wantLen:   1,
		},
		{
			name:      "missing manager",
			raw:       RawClassroom{Name: "A", Capacity: "3", Type: "Lab"},
			wantField: FieldManager,
			wantErr:   types.ErrRequired,
			wantLen:   1,
		},
		{
			name:      "non-numeric capacity",
			raw:       RawClassroom{Name: "A", Capacity: "twenty", Type: "Lab", Manager: "x"},
			wantField: FieldCapacity,
			wantErr:   types.ErrInvalidCapacity,
			wantLen:   1,
		},
		{
			name:      "fractional capacity",
			raw:       RawClassroom{Name: "A", Capacity: "2.5", Type: "Lab", Manager: "x"},
			wantField: FieldCapacity,
			wantErr:   types.ErrInvalidCapacity,
			wantLen:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := ParseClassroom(tt.raw)
			require.Len(t, errs, tt.wantLen)
			assert.Equal(t, tt.wantField, errs[0].Field)
			assert.ErrorIs(t, errs[0], tt.wantErr)
			assert.ErrorIs(t, errs.Err(), tt.wantErr)
			assert.Equal(t, types.ClassroomDraft{}, got, "no partially-typed draft on failure")
		})
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	fe := FieldErrors{
		{Field: FieldCapacity, Err: types.ErrInvalidCapacity},
		{Field: FieldName, Err: types.ErrRequired},
	}
	assert.Equal(t, "capacity: capacity must be a positive integer; name: field is required", fe.Error())
	assert.ErrorIs(t, fe, types.ErrRequired)
	assert.Nil(t, FieldErrors(nil).Err())
}

func TestMergeClassroom(t *testing.T) {
	c := types.Classroom{ID: "1", Name: "A101", Capacity: 25, Type: types.CategoryLab, Manager: "Lưu Đức Tuấn"}

	got, errs := MergeClassroom(c, RawClassroom{Capacity: "28"})
	require.Empty(t, errs)
	assert.Equal(t, types.ClassroomDraft{Name: "A101", Capacity: 28, Type: types.CategoryLab, Manager: "Lưu Đức Tuấn"}, got)

	_, errs = MergeClassroom(c, RawClassroom{Capacity: "many"})
	require.Len(t, errs, 1)
}

func TestValidateTask(t *testing.T) {
	assert.NoError(t, ValidateTask(types.TaskDraft{Title: "Buy chalk", Description: "two boxes"}))
	assert.ErrorIs(t, ValidateTask(types.TaskDraft{Description: "x"}), types.ErrRequired)

	err := ValidateTask(types.TaskDraft{Title: "x", Description: "  "})
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, FieldDescription, ve.Field)

	assert.Equal(t, types.TaskDraft{Title: "a", Description: "b"}, NormalizeTask(types.TaskDraft{Title: " a", Description: "b "}))
}
