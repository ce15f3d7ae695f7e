package recorder

import (
	"CoinSentry/internal/model"
)

// timestampLayout is the timestamp format used in every sink.
const timestampLayout = "2006-01-02 15:04:05"

// Recorder persists classified observations and alert events.
type Recorder interface {
	RecordObservations(observations []model.Observation) error
	RecordAlerts(alerts []model.AlertEvent) error
	Close() error
}

// NoopRecorder is a no-op implementation used when no sink is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordObservations(_ []model.Observation) error { return nil }
func (n *NoopRecorder) RecordAlerts(_ []model.AlertEvent) error        { return nil }
func (n *NoopRecorder) Close() error                                   { return nil }

// MultiRecorder fans every record call out to all underlying recorders.
// The first error stops the fan-out and is returned to the caller.
type MultiRecorder struct {
	recorders []Recorder
}

func NewMultiRecorder(recorders ...Recorder) *MultiRecorder {
	return &MultiRecorder{recorders: recorders}
}

func (m *MultiRecorder) RecordObservations(observations []model.Observation) error {
	for _, r := range m.recorders {
		if err := r.RecordObservations(observations); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiRecorder) RecordAlerts(alerts []model.AlertEvent) error {
	for _, r := range m.recorders {
		if err := r.RecordAlerts(alerts); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiRecorder) Close() error {
	var firstErr error
	for _, r := range m.recorders {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
