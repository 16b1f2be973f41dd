package core

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/terrasignal/georef-engine/internal/logging"
)

// Engine bundles the georeference stack for one scene and drives it in
// the fixed per-tick order: (1) sub-level state machine, which may move
// the origin, then (2) origin rebasing. Everything is single-owner and
// synchronous; dependent objects schedule their own work after the
// engine's tick.
type Engine struct {
	World    *World
	Geo      *Georeference
	Switcher *SubLevelSwitcher
	Rebaser  *OriginRebaser

	log     logging.Logger
	metrics MetricsRecorder
	tracer  trace.Tracer

	tickListeners []func(int)
	tick          int
}

// NewEngine constructs a fully wired engine with default policy settings.
func NewEngine(log logging.Logger) *Engine {
	if log == nil {
		log = logging.Noop()
	}
	world := NewWorld()
	geo := NewGeoreference(world, log)
	return &Engine{
		World:    world,
		Geo:      geo,
		Switcher: NewSubLevelSwitcher(geo, log),
		Rebaser:  NewOriginRebaser(world, log),
		log:      log,
		metrics:  NoopMetrics{},
		tracer:   otel.Tracer("georef-engine/core"),
	}
}

// SetMetrics installs a metrics recorder on the engine and all of its
// components; nil restores the no-op default.
func (e *Engine) SetMetrics(m MetricsRecorder) {
	if m == nil {
		m = NoopMetrics{}
	}
	e.metrics = m
	e.Geo.SetMetrics(m)
	e.Switcher.SetMetrics(m)
	e.Rebaser.SetMetrics(m)
}

// RegisterTickListener adds a callback invoked after each tick's
// georeference work, in registration order. Georeferenced objects use
// this to run strictly after the engine.
func (e *Engine) RegisterTickListener(fn func(int)) {
	e.tickListeners = append(e.tickListeners, fn)
}

// Step runs one tick.
func (e *Engine) Step() {
	start := time.Now()
	_, span := e.tracer.Start(context.Background(), "engine.tick",
		trace.WithAttributes(attribute.Int("tick", e.tick)))

	e.Switcher.DiscoverSubLevels(e.World.StreamedRegions())
	inside := e.Switcher.Update()
	e.Rebaser.Update(inside)

	for _, fn := range e.tickListeners {
		fn(e.tick)
	}

	span.SetAttributes(attribute.Bool("inside_sub_level", inside))
	span.End()
	e.metrics.ObserveTick(time.Since(start))
	e.tick++
}

// Run executes the given number of ticks back to back.
func (e *Engine) Run(ticks int) {
	for i := 0; i < ticks; i++ {
		e.Step()
	}
}
