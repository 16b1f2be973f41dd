package timectrl

import (
	"sync"
	"time"
)

// Mode describes how the FrameClock advances simulation time.
type Mode int

const (
	// RealTime advances according to wall-clock time.
	RealTime Mode = iota
	// Accelerated advances as quickly as the loop can run while still
	// stepping by Tick.
	Accelerated
)

// FrameClock drives fixed-interval frame updates and fans the current
// simulation time out to listeners in registration order. The
// georeference engine registers first; georeferenced objects register
// after it, which is how the "dependents update strictly after the
// georeference" ordering is declared.
type FrameClock struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	currentTime time.Time

	listeners []func(time.Time)
}

// NewFrameClock constructs a clock.
func NewFrameClock(start time.Time, tick time.Duration, mode Mode) *FrameClock {
	return &FrameClock{
		StartTime:   start,
		Tick:        tick,
		Mode:        mode,
		currentTime: start,
	}
}

// Now returns the current simulation time.
func (fc *FrameClock) Now() time.Time {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.currentTime
}

// AddListener registers a callback invoked on every frame, after all
// previously registered listeners.
func (fc *FrameClock) AddListener(fn func(time.Time)) {
	fc.listeners = append(fc.listeners, fn)
}

// Start runs the clock for the specified duration in a separate
// goroutine and returns a channel closed when it finishes. A duration of
// zero or less runs until the process exits.
func (fc *FrameClock) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		fc.mu.Lock()
		simTime := fc.StartTime
		fc.currentTime = simTime
		fc.mu.Unlock()

		elapsed := time.Duration(0)

		var ticker *time.Ticker
		if fc.Mode == RealTime {
			ticker = time.NewTicker(fc.Tick)
			defer ticker.Stop()
		}

		for {
			if duration > 0 && elapsed >= duration {
				return
			}

			if ticker != nil {
				<-ticker.C
			}
			simTime = simTime.Add(fc.Tick)
			elapsed += fc.Tick

			fc.mu.Lock()
			fc.currentTime = simTime
			fc.mu.Unlock()

			for _, fn := range fc.listeners {
				fn(simTime)
			}
		}
	}()
	return done
}
