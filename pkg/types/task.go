package types

// Task is a to-do list entry.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// TaskDraft holds task fields before validation.
type TaskDraft struct {
	Title       string
	Description string
}

// Task builds a Task with the given id from the draft.
func (d TaskDraft) Task(id string) Task {
	return Task{ID: id, Title: d.Title, Description: d.Description}
}
