package types

// Storage keys, one per collection.
const (
	CollectionClassrooms = "classrooms"
	CollectionTasks      = "tasks"
)

// StandardCollections lists all collection keys for enumeration.
var StandardCollections = []string{
	CollectionClassrooms,
	CollectionTasks,
}
