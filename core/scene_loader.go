package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/terrasignal/georef-engine/model"
)

// SceneSummary reports what a scene load configured. Mainly useful for
// logging from main().
type SceneSummary struct {
	Placement     model.OriginPlacement
	SubLevelNames []string
}

// internal JSON shapes, unexported so the persisted format can evolve.
// The host scene owns the surrounding file; these hooks only cover the
// georeference core's plain-data fields.
type sceneJSON struct {
	Origin    originJSON     `json:"origin"`
	Rebasing  *rebasingJSON  `json:"rebasing,omitempty"`
	SubLevels []subLevelJSON `json:"sub_levels,omitempty"`
}

type originJSON struct {
	Placement string  `json:"placement"` // "true-origin" | "cartographic" | "bounding-volume"
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Height    float64 `json:"height"`
}

type rebasingJSON struct {
	Enabled         *bool   `json:"enabled,omitempty"` // defaults to true
	MaxDistance     float64 `json:"max_distance,omitempty"`
	InsideSubLevels bool    `json:"inside_sub_levels,omitempty"`
}

type subLevelJSON struct {
	Name       string  `json:"name"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	Height     float64 `json:"height"`
	LoadRadius float64 `json:"load_radius"`
}

// LoadScene reads the persisted georeference state from r and applies it
// to the engine: origin configuration, rebasing policy, and the sub-level
// list. Sub-level definitions are validated on the way in (canonical
// metres, positive radii, unique names).
func LoadScene(e *Engine, r io.Reader) (*SceneSummary, error) {
	if e == nil {
		return nil, fmt.Errorf("LoadScene: engine is nil")
	}

	var payload sceneJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScene: decode failed: %w", err)
	}

	placement, ok := model.OriginPlacementFromString(payload.Origin.Placement)
	if !ok {
		return nil, fmt.Errorf("LoadScene: unknown origin placement %q", payload.Origin.Placement)
	}

	origin := model.Cartographic{
		LongitudeDeg: payload.Origin.Longitude,
		LatitudeDeg:  payload.Origin.Latitude,
		HeightM:      payload.Origin.Height,
	}
	if err := origin.Validate(); err != nil {
		return nil, fmt.Errorf("LoadScene: %w", err)
	}

	if payload.Rebasing != nil {
		if payload.Rebasing.Enabled != nil {
			e.Rebaser.Enabled = *payload.Rebasing.Enabled
		}
		if payload.Rebasing.MaxDistance > 0 {
			e.Rebaser.MaxDistanceFromOrigin = payload.Rebasing.MaxDistance
		}
		e.Rebaser.RebaseInsideSubLevels = payload.Rebasing.InsideSubLevels
	}

	summary := &SceneSummary{Placement: placement}
	for _, js := range payload.SubLevels {
		def := model.SubLevelDefinition{
			Name:         js.Name,
			LongitudeDeg: js.Longitude,
			LatitudeDeg:  js.Latitude,
			HeightM:      js.Height,
			LoadRadiusM:  js.LoadRadius,
		}
		if err := e.Switcher.AddSubLevel(def); err != nil {
			return nil, fmt.Errorf("LoadScene: %w", err)
		}
		summary.SubLevelNames = append(summary.SubLevelNames, js.Name)
	}

	// Apply the origin last so the single recompute sees the final
	// placement mode.
	e.Geo.SetOriginCartographic(origin)
	e.Geo.SetPlacement(placement)

	return summary, nil
}

// SaveScene writes the engine's persisted plain-data fields to w in the
// same format LoadScene reads.
func SaveScene(e *Engine, w io.Writer) error {
	if e == nil {
		return fmt.Errorf("SaveScene: engine is nil")
	}

	origin := e.Geo.Origin()
	enabled := e.Rebaser.Enabled
	payload := sceneJSON{
		Origin: originJSON{
			Placement: e.Geo.Placement().String(),
			Longitude: origin.LongitudeDeg,
			Latitude:  origin.LatitudeDeg,
			Height:    origin.HeightM,
		},
		Rebasing: &rebasingJSON{
			Enabled:         &enabled,
			MaxDistance:     e.Rebaser.MaxDistanceFromOrigin,
			InsideSubLevels: e.Rebaser.RebaseInsideSubLevels,
		},
	}
	for _, lvl := range e.Switcher.SubLevels() {
		payload.SubLevels = append(payload.SubLevels, subLevelJSON{
			Name:       lvl.Name,
			Longitude:  lvl.LongitudeDeg,
			Latitude:   lvl.LatitudeDeg,
			Height:     lvl.HeightM,
			LoadRadius: lvl.LoadRadiusM,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("SaveScene: encode failed: %w", err)
	}
	return nil
}
