package model

// OriginPlacement indicates how the georeference origin is determined.
type OriginPlacement int

const (
	// PlacementTrueOrigin anchors the local frame directly at the ellipsoid
	// centre: georeferenced and ECEF coordinates coincide.
	PlacementTrueOrigin OriginPlacement = iota
	// PlacementCartographicOrigin uses an explicitly configured
	// longitude/latitude/height.
	PlacementCartographicOrigin
	// PlacementBoundingVolumeOrigin derives the origin from the average
	// centre of all ready registered objects' bounding volumes.
	PlacementBoundingVolumeOrigin
)

// String returns the persisted name of the placement mode.
func (p OriginPlacement) String() string {
	switch p {
	case PlacementTrueOrigin:
		return "true-origin"
	case PlacementCartographicOrigin:
		return "cartographic"
	case PlacementBoundingVolumeOrigin:
		return "bounding-volume"
	default:
		return "unknown"
	}
}

// OriginPlacementFromString parses a persisted placement name. Unknown
// names report ok=false.
func OriginPlacementFromString(s string) (OriginPlacement, bool) {
	switch s {
	case "true-origin":
		return PlacementTrueOrigin, true
	case "cartographic", "":
		return PlacementCartographicOrigin, true
	case "bounding-volume":
		return PlacementBoundingVolumeOrigin, true
	default:
		return PlacementCartographicOrigin, false
	}
}
