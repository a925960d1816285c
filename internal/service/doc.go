// Package service runs the add, edit and delete flows: a parsed draft is
// checked by the validation policy against the current collection, then
// handed to the store. Each flow logs its outcome and feeds the metrics
// recorder.
package service
