// Package metrics counts collection operations and sizes on a private
// Prometheus registry. The CLI dumps the registry in textfile-collector
// format when --metrics-file is set.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesh-intelligence/lectern/pkg/types"
)

// Operation outcomes used as the outcome label.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeConflict     = "conflict"
	OutcomeForbidden    = "forbidden"
	OutcomeNotFound     = "not_found"
	OutcomeStorageError = "storage_error"
	OutcomeError        = "error"
)

// Recorder holds the lectern collectors.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	size       *prometheus.GaugeVec
}

// NewRecorder returns a Recorder with its collectors registered on a fresh
// registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lectern",
			Name:      "operations_total",
			Help:      "Collection operations by outcome.",
		}, []string{"collection", "operation", "outcome"}),
		size: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lectern",
			Name:      "collection_size",
			Help:      "Entities in a collection after the last operation.",
		}, []string{"collection"}),
	}
	r.registry.MustRegister(r.operations, r.size)
	return r
}

// Observe counts one operation. A nil Recorder ignores the call.
func (r *Recorder) Observe(collection, operation string, err error) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(collection, operation, Outcome(err)).Inc()
}

// SetSize records the number of entities in collection.
func (r *Recorder) SetSize(collection string, n int) {
	if r == nil {
		return
	}
	r.size.WithLabelValues(collection).Set(float64(n))
}

// Gatherer exposes the registry for tests and exporters.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }

// Operations returns the operation counter.
func (r *Recorder) Operations() *prometheus.CounterVec { return r.operations }

// Size returns the collection size gauge.
func (r *Recorder) Size() *prometheus.GaugeVec { return r.size }

// WriteTextfile writes all metrics to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// Outcome classifies err into an outcome label.
func Outcome(err error) string {
	var ve *types.ValidationError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &ve):
		return OutcomeInvalid
	case errors.Is(err, types.ErrDuplicateName):
		return OutcomeConflict
	case errors.Is(err, types.ErrDeleteForbidden):
		return OutcomeForbidden
	case errors.Is(err, types.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, types.ErrPersistence):
		return OutcomeStorageError
	default:
		return OutcomeError
	}
}
