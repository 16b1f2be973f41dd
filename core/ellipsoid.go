package core

import (
	"math"

	"github.com/terrasignal/georef-engine/model"
)

// Ellipsoid holds the fixed shape parameters of a geodetic reference
// ellipsoid. Instances are immutable; WGS84 is the process-wide constant
// used throughout the engine.
type Ellipsoid struct {
	a  float64 // semi-major axis (metres)
	b  float64 // semi-minor axis (metres)
	e2 float64 // first eccentricity squared

	oneOverRadiiSquared Vec3
}

// WGS84 is the World Geodetic System 1984 reference ellipsoid.
var WGS84 = NewEllipsoid(6378137.0, 1.0/298.257223563)

// NewEllipsoid constructs an ellipsoid from its semi-major axis and
// flattening.
func NewEllipsoid(semiMajorM, flattening float64) Ellipsoid {
	b := semiMajorM * (1 - flattening)
	return Ellipsoid{
		a:  semiMajorM,
		b:  b,
		e2: flattening * (2 - flattening),
		oneOverRadiiSquared: Vec3{
			X: 1 / (semiMajorM * semiMajorM),
			Y: 1 / (semiMajorM * semiMajorM),
			Z: 1 / (b * b),
		},
	}
}

// SemiMajorAxisM returns the equatorial radius in metres.
func (e Ellipsoid) SemiMajorAxisM() float64 { return e.a }

// SemiMinorAxisM returns the polar radius in metres.
func (e Ellipsoid) SemiMinorAxisM() float64 { return e.b }

// geodeticCentreEpsilonM bounds the region around the ellipsoid centre
// where the geodetic latitude is undefined and the inverse conversion
// reports no result.
const geodeticCentreEpsilonM = 1e-3

// CartographicToCartesian converts geodetic coordinates (radians, metres
// above the ellipsoid) to an ECEF point. The closed form is total over the
// valid latitude range.
func (e Ellipsoid) CartographicToCartesian(lonRad, latRad, heightM float64) Vec3 {
	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)
	sinLon := math.Sin(lonRad)
	cosLon := math.Cos(lonRad)

	// Radius of curvature in the prime vertical.
	n := e.a / math.Sqrt(1-e.e2*sinLat*sinLat)

	return Vec3{
		X: (n + heightM) * cosLat * cosLon,
		Y: (n + heightM) * cosLat * sinLon,
		Z: (n*(1-e.e2) + heightM) * sinLat,
	}
}

// CartographicToCartesianDeg is the degree-boundary form of
// CartographicToCartesian.
func (e Ellipsoid) CartographicToCartesianDeg(c model.Cartographic) Vec3 {
	return e.CartographicToCartesian(
		c.LongitudeDeg*math.Pi/180,
		c.LatitudeDeg*math.Pi/180,
		c.HeightM,
	)
}

// CartesianToCartographic converts an ECEF point to geodetic coordinates
// using Bowring's iteration. It reports ok=false when the point lies
// within a small epsilon of the ellipsoid centre, where the geodetic
// latitude is undefined; callers choose between aborting the triggering
// operation and substituting a safe default.
func (e Ellipsoid) CartesianToCartographic(p Vec3) (lonRad, latRad, heightM float64, ok bool) {
	if p.Norm() < geodeticCentreEpsilonM {
		return 0, 0, 0, false
	}

	lon := math.Atan2(p.Y, p.X)
	rho := math.Hypot(p.X, p.Y)

	lat := math.Atan2(p.Z, rho*(1-e.e2))
	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		n := e.a / math.Sqrt(1-e.e2*sinLat*sinLat)
		lat = math.Atan2(p.Z+e.e2*n*sinLat, rho)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	n := e.a / math.Sqrt(1-e.e2*sinLat*sinLat)

	var h float64
	if math.Abs(cosLat) > 1e-10 {
		h = rho/cosLat - n
	} else {
		h = math.Abs(p.Z)/math.Abs(sinLat) - n*(1-e.e2)
	}

	return lon, lat, h, true
}

// CartesianToCartographicDeg is the degree-boundary form of
// CartesianToCartographic.
func (e Ellipsoid) CartesianToCartographicDeg(p Vec3) (model.Cartographic, bool) {
	lon, lat, h, ok := e.CartesianToCartographic(p)
	if !ok {
		return model.Cartographic{}, false
	}
	return model.Cartographic{
		LongitudeDeg: lon * 180 / math.Pi,
		LatitudeDeg:  lat * 180 / math.Pi,
		HeightM:      h,
	}, true
}

// GeodeticSurfaceNormal returns the outward unit normal of the ellipsoid
// surface below the given point.
func (e Ellipsoid) GeodeticSurfaceNormal(p Vec3) Vec3 {
	return Vec3{
		X: p.X * e.oneOverRadiiSquared.X,
		Y: p.Y * e.oneOverRadiiSquared.Y,
		Z: p.Z * e.oneOverRadiiSquared.Z,
	}.Normalized()
}
