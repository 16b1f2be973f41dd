package model

import "fmt"

// SubLevelDefinition describes an independently georeferenced region of
// streamed content. LoadRadiusM is the activation radius in metres,
// compared against the straight-line ECEF distance to the viewer.
type SubLevelDefinition struct {
	Name         string
	LongitudeDeg float64
	LatitudeDeg  float64
	HeightM      float64
	LoadRadiusM  float64
}

// Validate enforces the registration invariants: a non-empty name, valid
// coordinates, and a positive activation radius in metres.
func (d SubLevelDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("sub-level with empty name")
	}
	if err := (Cartographic{d.LongitudeDeg, d.LatitudeDeg, d.HeightM}).Validate(); err != nil {
		return fmt.Errorf("sub-level %q: %w", d.Name, err)
	}
	if d.LoadRadiusM <= 0 {
		return fmt.Errorf("sub-level %q: load radius %v must be positive metres", d.Name, d.LoadRadiusM)
	}
	return nil
}
