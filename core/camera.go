package core

import (
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// StaticCamera reports a fixed position in engine units.
type StaticCamera struct {
	Pos Vec3
}

// CameraPosition implements CameraProvider.
func (c *StaticCamera) CameraPosition() (Vec3, bool) {
	return c.Pos, true
}

// OrbitalCamera follows a TLE-propagated satellite. It exists to exercise
// the georeference stack at planetary scale: the viewer sweeps thousands
// of kilometres of ECEF space, forcing rebasing and sub-level evaluation
// to keep up. go-satellite works in kilometres; positions are converted
// to metres and then into the engine's floating local frame.
type OrbitalCamera struct {
	sat satellite.Satellite
	geo *Georeference
	at  time.Time
}

// NewOrbitalCamera constructs a camera from TLE lines, positioned at the
// given initial time.
func NewOrbitalCamera(geo *Georeference, line1, line2 string, at time.Time) *OrbitalCamera {
	return &OrbitalCamera{
		sat: satellite.TLEToSat(line1, line2, satellite.GravityWGS72),
		geo: geo,
		at:  at,
	}
}

// Advance moves the camera to the given simulation time.
func (c *OrbitalCamera) Advance(at time.Time) {
	c.at = at
}

// CameraPosition implements CameraProvider.
func (c *OrbitalCamera) CameraPosition() (Vec3, bool) {
	year, month, day := c.at.Date()
	hour, min, sec := c.at.Clock()

	posECI, _ := satellite.Propagate(c.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	const kmToM = 1000.0
	ecef := Vec3{
		X: posECEF.X * kmToM,
		Y: posECEF.Y * kmToM,
		Z: posECEF.Z * kmToM,
	}
	return c.geo.TransformEcefToLocal(ecef), true
}
