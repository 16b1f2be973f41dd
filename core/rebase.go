package core

import (
	"context"
	"math"

	"github.com/terrasignal/georef-engine/internal/logging"
)

// DefaultMaxDistanceFromOrigin is the per-axis camera distance, in engine
// units, beyond which the floating origin is rebased.
const DefaultMaxDistanceFromOrigin = 10000.0

// OriginRebaser keeps the floating world origin near the viewer so that
// single-precision coordinates stay within safe bounds. It never fails;
// it only elects not to act.
type OriginRebaser struct {
	log     logging.Logger
	world   *World
	metrics MetricsRecorder

	// Enabled gates all rebasing.
	Enabled bool
	// MaxDistanceFromOrigin is the per-axis threshold in engine units.
	MaxDistanceFromOrigin float64
	// RebaseInsideSubLevels keeps rebasing active while a sub-level is
	// loaded. When false, entering a sub-level resets the floating origin
	// to zero, since sub-level content is authored around its own zero.
	RebaseInsideSubLevels bool
}

// NewOriginRebaser constructs a rebaser with rebasing enabled and the
// default threshold.
func NewOriginRebaser(world *World, log logging.Logger) *OriginRebaser {
	if log == nil {
		log = logging.Noop()
	}
	return &OriginRebaser{
		log:                   log,
		world:                 world,
		metrics:               NoopMetrics{},
		Enabled:               true,
		MaxDistanceFromOrigin: DefaultMaxDistanceFromOrigin,
	}
}

// SetMetrics installs a metrics recorder; nil restores the no-op default.
func (r *OriginRebaser) SetMetrics(m MetricsRecorder) {
	if m == nil {
		m = NoopMetrics{}
	}
	r.metrics = m
}

// Update evaluates the rebasing policy for one tick. The new floating
// origin is a deterministic function of the camera position and the old
// origin only.
func (r *OriginRebaser) Update(insideSubLevel bool) {
	if !r.Enabled {
		return
	}
	cam, ok := r.world.CameraPosition()
	if !ok {
		return
	}

	if insideSubLevel && !r.RebaseInsideSubLevels {
		if !r.world.OriginLocation().IsZero() {
			r.world.SetOriginLocation(IntVec3{})
			r.log.Debug(context.Background(), "floating origin reset for sub-level")
		}
		return
	}

	if math.Abs(cam.X) <= r.MaxDistanceFromOrigin &&
		math.Abs(cam.Y) <= r.MaxDistanceFromOrigin &&
		math.Abs(cam.Z) <= r.MaxDistanceFromOrigin {
		return
	}

	origin := r.world.OriginLocation()
	next := IntVec3{
		X: clampedAdd(cam.X, origin.X),
		Y: clampedAdd(cam.Y, origin.Y),
		Z: clampedAdd(cam.Z, origin.Z),
	}
	r.world.SetOriginLocation(next)
	r.metrics.RecordRebase()
	r.log.Debug(context.Background(), "floating origin rebased",
		logging.Int("x", int(next.X)),
		logging.Int("y", int(next.Y)),
		logging.Int("z", int(next.Z)),
	)
}

// clampedAdd sums a camera offset and an origin component, saturating to
// the int32 range instead of wrapping.
func clampedAdd(f float64, i int32) int32 {
	sum := f + float64(i)
	switch {
	case sum >= math.MaxInt32:
		return math.MaxInt32
	case sum <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(sum)
	}
}
