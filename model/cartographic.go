package model

import "fmt"

// Cartographic is a geodetic position: longitude and latitude in degrees,
// height in metres above the WGS84 ellipsoid. Degrees are the boundary
// representation; core converts to radians internally.
type Cartographic struct {
	LongitudeDeg float64
	LatitudeDeg  float64
	HeightM      float64
}

// Validate checks the coordinate ranges. Height is unconstrained except
// that conversions reject points degenerating to the ellipsoid centre.
func (c Cartographic) Validate() error {
	if c.LongitudeDeg < -180 || c.LongitudeDeg > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.LongitudeDeg)
	}
	if c.LatitudeDeg < -90 || c.LatitudeDeg > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.LatitudeDeg)
	}
	return nil
}
