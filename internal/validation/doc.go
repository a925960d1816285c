// Package validation turns raw user input into typed drafts and decides
// whether a draft may be stored. It never touches storage; callers pass in
// the current collection.
package validation
