package core

import "time"

// MetricsRecorder receives engine events so an observability layer can
// drive gauges and counters directly from the mutators, without the core
// depending on a metrics implementation.
type MetricsRecorder interface {
	RecordOriginUpdate()
	RecordRebase()
	RecordSubLevelTransition(level string)
	SetRegisteredObjects(n int)
	ObserveTick(d time.Duration)
}

// NoopMetrics discards all events.
type NoopMetrics struct{}

func (NoopMetrics) RecordOriginUpdate()               {}
func (NoopMetrics) RecordRebase()                     {}
func (NoopMetrics) RecordSubLevelTransition(string)   {}
func (NoopMetrics) SetRegisteredObjects(int)          {}
func (NoopMetrics) ObserveTick(time.Duration)         {}
