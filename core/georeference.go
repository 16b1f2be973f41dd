package core

import (
	"context"
	"math"

	"github.com/terrasignal/georef-engine/internal/logging"
	"github.com/terrasignal/georef-engine/model"
)

// Frame identifies a coordinate frame for the generic Transform router.
type Frame int

const (
	// FrameLocal is the rendering engine's floating local frame: engine
	// units, offset by the world's floating origin.
	FrameLocal Frame = iota
	// FrameECEF is the Earth-Centered-Earth-Fixed frame in metres.
	FrameECEF
	// FrameGeoreferenced is the metre-unit East-North-Up frame anchored at
	// the georeference origin.
	FrameGeoreferenced
	// FrameGeodetic is longitude/latitude in degrees with height in metres
	// above the ellipsoid, packed into Vec3 as (lon, lat, height).
	FrameGeodetic
)

// GeoPositionSetter is implemented by an external lighting/sky consumer
// that wants to track the georeference origin. It replaces runtime
// name-based property assignment with an explicit contract resolved at
// configuration time.
type GeoPositionSetter interface {
	// SetGeographicPosition receives the origin longitude/latitude in
	// degrees and the engine-frame anchor of the ellipsoid surface point
	// below the origin.
	SetGeographicPosition(lonDeg, latDeg float64, engineAnchor Vec3)
}

// Georeference owns the mapping between the fixed ECEF frame and the
// engine's floating local frame. It stores the origin as geodetic
// coordinates and derives the cached transform chain, recomputed
// synchronously and atomically on every origin change. All registered
// listeners observe the new transforms before the triggering call returns.
type Georeference struct {
	log      logging.Logger
	world    *World
	registry *ObjectRegistry
	metrics  MetricsRecorder

	ellipsoid Ellipsoid

	placement       model.OriginPlacement
	originLongitude float64 // degrees
	originLatitude  float64 // degrees
	originHeight    float64 // metres above the ellipsoid

	georeferencedToEcef Mat4
	ecefToGeoreferenced Mat4
	absToEcef           Mat4 // engine absolute (floating origin folded out) -> ECEF
	ecefToAbs           Mat4

	insideSubLevel bool
	sky            GeoPositionSetter
}

// NewGeoreference constructs a georeference bound to the given world. The
// initial placement is an explicit cartographic origin at (0, 0, 0); the
// transform chain is valid immediately.
func NewGeoreference(world *World, log logging.Logger) *Georeference {
	if log == nil {
		log = logging.Noop()
	}
	g := &Georeference{
		log:       log,
		world:     world,
		registry:  NewObjectRegistry(),
		metrics:   NoopMetrics{},
		ellipsoid: WGS84,
		placement: model.PlacementCartographicOrigin,
	}
	g.UpdateGeoreference()
	return g
}

// SetMetrics installs a metrics recorder. A nil recorder restores the
// no-op default.
func (g *Georeference) SetMetrics(m MetricsRecorder) {
	if m == nil {
		m = NoopMetrics{}
	}
	g.metrics = m
}

// Registry returns the listener registry.
func (g *Georeference) Registry() *ObjectRegistry {
	return g.registry
}

// World returns the world this georeference is bound to.
func (g *Georeference) World() *World {
	return g.world
}

// Ellipsoid returns the reference ellipsoid.
func (g *Georeference) Ellipsoid() Ellipsoid {
	return g.ellipsoid
}

// Origin returns the current origin in degrees/metres.
func (g *Georeference) Origin() model.Cartographic {
	return model.Cartographic{
		LongitudeDeg: g.originLongitude,
		LatitudeDeg:  g.originLatitude,
		HeightM:      g.originHeight,
	}
}

// Placement returns the configured origin placement mode.
func (g *Georeference) Placement() model.OriginPlacement {
	return g.placement
}

// SetPlacement changes the placement mode and re-derives the origin.
func (g *Georeference) SetPlacement(p model.OriginPlacement) {
	g.placement = p
	g.UpdateGeoreference()
}

// SetSkyConsumer installs the optional lighting/sky sink. It immediately
// receives the current origin.
func (g *Georeference) SetSkyConsumer(sky GeoPositionSetter) {
	g.sky = sky
	g.updateSky()
}

// InsideSubLevel reports whether a sub-level currently governs the origin.
func (g *Georeference) InsideSubLevel() bool {
	return g.insideSubLevel
}

// SetOrigin moves the georeference origin to the given geodetic
// coordinates (degrees, metres) and recomputes the transform chain before
// returning. While a sub-level governs the origin the call is silently
// rejected: external re-origining would fight the sub-level switcher, and
// the rejection is a policy boundary rather than an error.
func (g *Georeference) SetOrigin(lonDeg, latDeg, heightM float64) {
	if g.insideSubLevel {
		g.log.Debug(context.Background(), "origin change rejected while sub-level active",
			logging.Float64("longitude", lonDeg),
			logging.Float64("latitude", latDeg),
		)
		return
	}
	g.setOrigin(lonDeg, latDeg, heightM)
}

// SetOriginCartographic is the struct-boundary form of SetOrigin.
func (g *Georeference) SetOriginCartographic(c model.Cartographic) {
	g.SetOrigin(c.LongitudeDeg, c.LatitudeDeg, c.HeightM)
}

// setOrigin is the internal unconditional path. The sub-level switcher
// uses it when establishing a new active sub-level; that transition is the
// one caller allowed to move the origin while a sub-level is active.
func (g *Georeference) setOrigin(lonDeg, latDeg, heightM float64) {
	g.originLongitude = lonDeg
	g.originLatitude = latDeg
	g.originHeight = heightM
	g.UpdateGeoreference()
}

// setInsideSubLevel is maintained by the sub-level switcher each tick.
func (g *Georeference) setInsideSubLevel(inside bool) {
	g.insideSubLevel = inside
}

// UpdateGeoreference re-derives the origin from the placement mode and
// rebuilds the full transform chain, then notifies every registered
// listener and the sky consumer. It always succeeds: a bounding-volume
// placement with no ready object centres on ECEF (0,0,0) by policy.
func (g *Georeference) UpdateGeoreference() {
	if g.placement == model.PlacementTrueOrigin {
		g.georeferencedToEcef = Mat4Identity()
	} else {
		var center Vec3

		switch g.placement {
		case model.PlacementBoundingVolumeOrigin:
			centers := g.registry.ReadyBoundingVolumeCenters()
			for _, c := range centers {
				center = center.Add(c)
			}
			if len(centers) > 0 {
				center = center.Scale(1 / float64(len(centers)))
			}
		case model.PlacementCartographicOrigin:
			center = g.ellipsoid.CartographicToCartesianDeg(g.Origin())
		}

		g.georeferencedToEcef = EastNorthUpToFixedFrame(g.ellipsoid, center)
	}

	g.ecefToGeoreferenced = g.georeferencedToEcef.AffineInverse()

	// Fold in the fixed unit-scale and axis-handedness adjustment between
	// the engine convention and the geodetic convention.
	g.absToEcef = g.georeferencedToEcef.Mul(scaleToGeodetic).Mul(axisAdjustment)
	g.ecefToAbs = axisAdjustment.Mul(scaleToEngine).Mul(g.ecefToGeoreferenced)

	g.registry.NotifyAll()
	g.metrics.RecordOriginUpdate()
	g.metrics.SetRegisteredObjects(g.registry.Len())
	g.updateSky()
}

// PlaceOriginAtCamera re-origins the georeference at the viewer's current
// geodetic position. It reports false without side effects when no viewer
// exists or the viewer's ECEF position degenerates to the ellipsoid
// centre (the origin-placement policy for a degenerate inverse is to
// abort the user action).
func (g *Georeference) PlaceOriginAtCamera() bool {
	cam, ok := g.world.CameraPosition()
	if !ok {
		return false
	}
	ecef := g.TransformLocalToEcef(cam)
	c, ok := g.ellipsoid.CartesianToCartographicDeg(ecef)
	if !ok {
		g.log.Warn(context.Background(), "cannot place origin: camera too close to ellipsoid centre")
		return false
	}
	g.SetOrigin(c.LongitudeDeg, c.LatitudeDeg, c.HeightM)
	return true
}

//
// ---------- Conversion functions ----------
//

// TransformLongitudeLatitudeHeightToEcef converts a geodetic position
// (degrees, metres) to ECEF. Total.
func (g *Georeference) TransformLongitudeLatitudeHeightToEcef(llh Vec3) Vec3 {
	return g.ellipsoid.CartographicToCartesian(
		llh.X*math.Pi/180,
		llh.Y*math.Pi/180,
		llh.Z,
	)
}

// TransformEcefToLongitudeLatitudeHeight converts an ECEF point to a
// geodetic (degrees, metres) position. ok=false means the point is too
// close to the ellipsoid centre to invert; no substitute value is
// produced here so each call site can apply its own policy.
func (g *Georeference) TransformEcefToLongitudeLatitudeHeight(ecef Vec3) (Vec3, bool) {
	lon, lat, h, ok := g.ellipsoid.CartesianToCartographic(ecef)
	if !ok {
		return Vec3{}, false
	}
	return Vec3{X: lon * 180 / math.Pi, Y: lat * 180 / math.Pi, Z: h}, true
}

// TransformEcefToGeoreferenced converts ECEF metres into the origin's
// East-North-Up metre frame.
func (g *Georeference) TransformEcefToGeoreferenced(ecef Vec3) Vec3 {
	return g.ecefToGeoreferenced.MulPoint(ecef)
}

// TransformGeoreferencedToEcef converts origin-frame metres to ECEF.
func (g *Georeference) TransformGeoreferencedToEcef(p Vec3) Vec3 {
	return g.georeferencedToEcef.MulPoint(p)
}

// TransformEcefToLocal converts an ECEF point to the engine's floating
// local frame, subtracting the current floating origin.
func (g *Georeference) TransformEcefToLocal(ecef Vec3) Vec3 {
	abs := g.ecefToAbs.MulPoint(ecef)
	return abs.Sub(g.world.OriginLocation().Vec3())
}

// TransformLocalToEcef converts an engine-local point (relative to the
// floating origin) to ECEF.
func (g *Georeference) TransformLocalToEcef(local Vec3) Vec3 {
	abs := local.Add(g.world.OriginLocation().Vec3())
	return g.absToEcef.MulPoint(abs)
}

// TransformLongitudeLatitudeHeightToLocal converts a geodetic position to
// the engine's floating local frame.
func (g *Georeference) TransformLongitudeLatitudeHeightToLocal(llh Vec3) Vec3 {
	return g.TransformEcefToLocal(g.TransformLongitudeLatitudeHeightToEcef(llh))
}

// TransformLocalToLongitudeLatitudeHeight converts an engine-local point
// to geodetic coordinates; fallible per the degenerate-inverse rule.
func (g *Georeference) TransformLocalToLongitudeLatitudeHeight(local Vec3) (Vec3, bool) {
	return g.TransformEcefToLongitudeLatitudeHeight(g.TransformLocalToEcef(local))
}

// Transform routes a point between any two supported frames, composing
// the cached matrices. ok=false only for geodetic targets or sources that
// hit the degenerate inverse; every other pairing is total.
func (g *Georeference) Transform(p Vec3, from, to Frame) (Vec3, bool) {
	if from == to {
		return p, true
	}

	var ecef Vec3
	switch from {
	case FrameLocal:
		ecef = g.TransformLocalToEcef(p)
	case FrameECEF:
		ecef = p
	case FrameGeoreferenced:
		ecef = g.TransformGeoreferencedToEcef(p)
	case FrameGeodetic:
		ecef = g.TransformLongitudeLatitudeHeightToEcef(p)
	default:
		return Vec3{}, false
	}

	switch to {
	case FrameLocal:
		return g.TransformEcefToLocal(ecef), true
	case FrameECEF:
		return ecef, true
	case FrameGeoreferenced:
		return g.TransformEcefToGeoreferenced(ecef), true
	case FrameGeodetic:
		return g.TransformEcefToLongitudeLatitudeHeight(ecef)
	default:
		return Vec3{}, false
	}
}

// ComputeEastNorthUpToEcef returns the rotation from the local ENU frame
// at an ECEF point to the fixed ECEF axes.
func (g *Georeference) ComputeEastNorthUpToEcef(ecef Vec3) Mat3 {
	return EastNorthUpToFixedFrame(g.ellipsoid, ecef).Rotation()
}

// ComputeEastNorthUpToLocal returns the rotation that converts
// orientations from the ENU frame at the given engine-local point into
// engine axes, composing the ENU-to-ECEF rotation with the
// ECEF-to-georeferenced rotation and the engine axis adjustment.
func (g *Georeference) ComputeEastNorthUpToLocal(local Vec3) Mat3 {
	ecef := g.TransformLocalToEcef(local)
	enuToEcef := g.ComputeEastNorthUpToEcef(ecef)

	rotation := g.ecefToGeoreferenced.Rotation().Mul(enuToEcef)
	adjust := axisAdjustment.Rotation()
	return adjust.Mul(rotation).Mul(adjust)
}

// updateSky feeds the optional sky consumer with the origin's geographic
// position and the engine anchor of the surface point below it.
func (g *Georeference) updateSky() {
	if g.sky == nil {
		return
	}
	surface := g.ellipsoid.CartographicToCartesianDeg(model.Cartographic{
		LongitudeDeg: g.originLongitude,
		LatitudeDeg:  g.originLatitude,
	})
	g.sky.SetGeographicPosition(g.originLongitude, g.originLatitude, g.TransformEcefToLocal(surface))
}
