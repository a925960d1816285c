// Package types defines the entity types, the storage port, configuration
// and the error taxonomy shared by every lectern package.
//
// Entities are plain structs serialized as JSON arrays under one key per
// collection. The storage port (KeyValueStore) is the only boundary to
// persisted state; drivers live under internal/storage.
package types
