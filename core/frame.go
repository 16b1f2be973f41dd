package core

import "math"

// Engine-unit and axis-handedness adjustment between the rendering
// engine's convention (centimetre units, left-handed with Y flipped) and
// the geodetic convention (metres, right-handed).
const (
	// MetersPerEngineUnit converts engine units to metres.
	MetersPerEngineUnit = 0.01
	// EngineUnitsPerMeter converts metres to engine units.
	EngineUnitsPerMeter = 100.0
)

// axisAdjustment flips the Y axis to move between the engine's
// left-handed frame and the right-handed geodetic frame. It is its own
// inverse.
var axisAdjustment = Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

var (
	scaleToGeodetic = Mat4Scale(MetersPerEngineUnit)
	scaleToEngine   = Mat4Scale(EngineUnitsPerMeter)
)

// EastNorthUpToFixedFrame builds the affine transform from a local
// East-North-Up tangent frame at the given ECEF point to the fixed ECEF
// frame: the rotation columns are the local East, North, and Up unit
// vectors and the translation is the point itself.
//
// The frame is degenerate at the ellipsoid centre and on the polar axis;
// there the East direction is pinned to +Y. None of the core operations
// place origins at the poles, so no further polar special-casing is done.
func EastNorthUpToFixedFrame(ellipsoid Ellipsoid, p Vec3) Mat4 {
	up := ellipsoid.GeodeticSurfaceNormal(p)

	var east Vec3
	if math.Hypot(p.X, p.Y) < 1e-10 {
		east = Vec3{Y: 1}
		if up.Norm() == 0 {
			up = Vec3{Z: 1}
		}
	} else {
		east = Vec3{X: -p.Y, Y: p.X}.Normalized()
	}
	north := up.Cross(east)

	return Mat4FromRotationTranslation(Mat3FromColumns(east, north, up), p)
}
