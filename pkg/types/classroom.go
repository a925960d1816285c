package types

// Classroom categories. The set is fixed; Validate rejects anything else.
const (
	CategoryLecture = "Lecture"
	CategoryLab     = "Lab"
	CategoryHall    = "Hall"
)

// Categories lists the classroom categories in display order.
var Categories = []string{
	CategoryLecture,
	CategoryLab,
	CategoryHall,
}

var validCategories = map[string]bool{
	CategoryLecture: true,
	CategoryLab:     true,
	CategoryHall:    true,
}

// IsCategory reports whether s is one of the fixed classroom categories.
func IsCategory(s string) bool {
	return validCategories[s]
}

// Classroom field limits and business thresholds.
const (
	// MaxNameLength is the longest accepted classroom name, in runes.
	MaxNameLength = 50

	// DeleteCapacityLimit is the capacity at or above which a classroom
	// cannot be deleted.
	DeleteCapacityLimit = 30
)

// DefaultManagers is the roster used when the configuration names none.
var DefaultManagers = []string{
	"Trần Đức Định",
	"Lưu Đức Tuấn",
	"Nguyễn Viết Sang",
}

// Classroom is a persisted room record.
type Classroom struct {
	ID       string `json:"id" yaml:"id"`             // UUID v7, generated on creation.
	Name     string `json:"name" yaml:"name"`         // Unique, case-insensitive.
	Capacity int    `json:"capacity" yaml:"capacity"` // Seats; always positive.
	Type     string `json:"type" yaml:"type"`         // One of Categories.
	Manager  string `json:"manager" yaml:"manager"`   // Member of the roster.
}

// ClassroomDraft holds typed, not yet validated classroom fields.
type ClassroomDraft struct {
	Name     string
	Capacity int
	Type     string
	Manager  string
}

// Draft returns the replaceable fields of c.
func (c Classroom) Draft() ClassroomDraft {
	return ClassroomDraft{
		Name:     c.Name,
		Capacity: c.Capacity,
		Type:     c.Type,
		Manager:  c.Manager,
	}
}

// Classroom builds a Classroom with the given id from the draft.
func (d ClassroomDraft) Classroom(id string) Classroom {
	return Classroom{
		ID:       id,
		Name:     d.Name,
		Capacity: d.Capacity,
		Type:     d.Type,
		Manager:  d.Manager,
	}
}

// Deletable reports whether the delete policy allows removing c.
func (c Classroom) Deletable() bool {
	return c.Capacity < DeleteCapacityLimit
}
