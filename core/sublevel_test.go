package core

import (
	"errors"
	"testing"

	"github.com/terrasignal/georef-engine/model"
)

type loadRecorder struct {
	events []string
}

func (l *loadRecorder) SetSubLevelLoaded(name string, loaded bool) {
	state := "unload"
	if loaded {
		state = "load"
	}
	l.events = append(l.events, state+":"+name)
}

// sub-levels stacked at the same longitude/latitude but different heights
// sit on a single surface normal, so ECEF distances between them are the
// exact height differences. That makes activation distances easy to read.
const (
	testLonDeg = 7.0
	testLatDeg = 46.0
)

func stackedLevel(name string, heightM, radiusM float64) model.SubLevelDefinition {
	return model.SubLevelDefinition{
		Name:         name,
		LongitudeDeg: testLonDeg,
		LatitudeDeg:  testLatDeg,
		HeightM:      heightM,
		LoadRadiusM:  radiusM,
	}
}

func cameraAtHeight(geo *Georeference, heightM float64) *ecefCamera {
	ecef := WGS84.CartographicToCartesianDeg(model.Cartographic{
		LongitudeDeg: testLonDeg,
		LatitudeDeg:  testLatDeg,
		HeightM:      heightM,
	})
	return &ecefCamera{geo: geo, ecef: ecef}
}

func TestSubLevelClosestQualifierWins(t *testing.T) {
	geo := newTestGeoreference()
	s := NewSubLevelSwitcher(geo, nil)

	// Camera at height 2000: distances are A=300, B=800, C=1900, all
	// inside their radii. A must win regardless of registration order.
	for _, def := range []model.SubLevelDefinition{
		stackedLevel("C", 3900, 2000),
		stackedLevel("B", 2800, 1000),
		stackedLevel("A", 1700, 500),
	} {
		if err := s.AddSubLevel(def); err != nil {
			t.Fatalf("AddSubLevel(%s): %v", def.Name, err)
		}
	}
	geo.World().SetCamera(cameraAtHeight(geo, 2000))

	if !s.Update() {
		t.Fatalf("expected a sub-level to load")
	}
	if name, _ := s.Current(); name != "A" {
		t.Errorf("current = %q, want A", name)
	}
	if got := geo.Origin(); got.HeightM != 1700 {
		t.Errorf("origin height = %v, want 1700 (sub-level A)", got.HeightM)
	}
	if !geo.InsideSubLevel() {
		t.Errorf("expected insideSubLevel to be set")
	}
}

func TestSubLevelOutsideRadiusDoesNotQualify(t *testing.T) {
	geo := newTestGeoreference()
	s := NewSubLevelSwitcher(geo, nil)

	// Nearest by distance but outside its own radius; the farther level
	// that does contain the camera wins.
	if err := s.AddSubLevel(stackedLevel("near-small", 1900, 50)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSubLevel(stackedLevel("far-large", 2800, 1000)); err != nil {
		t.Fatal(err)
	}
	geo.World().SetCamera(cameraAtHeight(geo, 2000))

	s.Update()
	if name, _ := s.Current(); name != "far-large" {
		t.Errorf("current = %q, want far-large", name)
	}
}

func TestSubLevelTieBreaksByDeclarationOrder(t *testing.T) {
	geo := newTestGeoreference()
	s := NewSubLevelSwitcher(geo, nil)

	if err := s.AddSubLevel(stackedLevel("first", 1500, 800)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSubLevel(stackedLevel("second", 1500, 800)); err != nil {
		t.Fatal(err)
	}
	geo.World().SetCamera(cameraAtHeight(geo, 2000))

	s.Update()
	if name, _ := s.Current(); name != "first" {
		t.Errorf("current = %q, want first (declaration order breaks ties)", name)
	}
}

func TestSubLevelTransitionsAndOriginRestore(t *testing.T) {
	geo := newTestGeoreference()
	geo.SetOrigin(10, 20, 100)
	s := NewSubLevelSwitcher(geo, nil)
	rec := &loadRecorder{}
	s.SetContentController(rec)

	if err := s.AddSubLevel(stackedLevel("town", 1000, 500)); err != nil {
		t.Fatal(err)
	}
	cam := cameraAtHeight(geo, 1100)
	geo.World().SetCamera(cam)

	if !s.Update() {
		t.Fatalf("expected town to load")
	}
	if got := geo.Origin(); got.LongitudeDeg != testLonDeg || got.HeightM != 1000 {
		t.Errorf("origin = %+v, want town's coordinates", got)
	}

	// Steady state: no duplicate load events.
	s.Update()
	if len(rec.events) != 1 {
		t.Fatalf("events = %v, want a single load", rec.events)
	}

	// Leaving the radius unloads and restores the pre-sub-level origin.
	cam.ecef = WGS84.CartographicToCartesianDeg(model.Cartographic{
		LongitudeDeg: testLonDeg, LatitudeDeg: testLatDeg, HeightM: 50000,
	})
	if s.Update() {
		t.Fatalf("expected no sub-level after leaving the radius")
	}
	if geo.InsideSubLevel() {
		t.Errorf("insideSubLevel still set after exit")
	}
	if got := geo.Origin(); got.LongitudeDeg != 10 || got.LatitudeDeg != 20 || got.HeightM != 100 {
		t.Errorf("origin = %+v, want the restored pre-sub-level origin", got)
	}
	want := []string{"load:town", "unload:town"}
	if len(rec.events) != 2 || rec.events[0] != want[0] || rec.events[1] != want[1] {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestSubLevelDirectSwitchKeepsSavedOrigin(t *testing.T) {
	geo := newTestGeoreference()
	geo.SetOrigin(10, 20, 100)
	s := NewSubLevelSwitcher(geo, nil)

	if err := s.AddSubLevel(stackedLevel("low", 1000, 400)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSubLevel(stackedLevel("high", 5000, 400)); err != nil {
		t.Fatal(err)
	}
	cam := cameraAtHeight(geo, 1100)
	geo.World().SetCamera(cam)

	s.Update()
	if name, _ := s.Current(); name != "low" {
		t.Fatalf("current = %q, want low", name)
	}

	// Move straight into the other level without passing through the top
	// level. The saved origin must survive the direct switch.
	cam.ecef = WGS84.CartographicToCartesianDeg(model.Cartographic{
		LongitudeDeg: testLonDeg, LatitudeDeg: testLatDeg, HeightM: 5100,
	})
	s.Update()
	if name, _ := s.Current(); name != "high" {
		t.Fatalf("current = %q, want high", name)
	}

	cam.ecef = WGS84.CartographicToCartesianDeg(model.Cartographic{
		LongitudeDeg: testLonDeg, LatitudeDeg: testLatDeg, HeightM: 50000,
	})
	s.Update()
	if got := geo.Origin(); got.LongitudeDeg != 10 || got.HeightM != 100 {
		t.Errorf("origin = %+v, want the origin saved before the first entry", got)
	}
}

func TestSubLevelHoldsStateWithoutCamera(t *testing.T) {
	geo := newTestGeoreference()
	s := NewSubLevelSwitcher(geo, nil)

	if err := s.AddSubLevel(stackedLevel("town", 1000, 500)); err != nil {
		t.Fatal(err)
	}
	geo.World().SetCamera(cameraAtHeight(geo, 1100))
	if !s.Update() {
		t.Fatalf("expected town to load")
	}

	geo.World().SetCamera(nil)
	if !s.Update() {
		t.Errorf("expected the machine to hold its loaded state without a viewer")
	}
	if got := geo.Origin(); got.HeightM != 1000 {
		t.Errorf("origin = %+v, want town's coordinates held", got)
	}
}

func TestAddSubLevelValidation(t *testing.T) {
	geo := newTestGeoreference()
	s := NewSubLevelSwitcher(geo, nil)

	if err := s.AddSubLevel(stackedLevel("town", 0, 500)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSubLevel(stackedLevel("town", 10, 200)); !errors.Is(err, ErrSubLevelExists) {
		t.Errorf("duplicate name: err = %v, want ErrSubLevelExists", err)
	}
	if err := s.AddSubLevel(stackedLevel("bad-radius", 0, 0)); err == nil {
		t.Errorf("expected error for non-positive radius")
	}
	if err := s.AddSubLevel(model.SubLevelDefinition{Name: "bad-lat", LatitudeDeg: 91, LoadRadiusM: 10}); err == nil {
		t.Errorf("expected error for out-of-range latitude")
	}
}

func TestDiscoverSubLevels(t *testing.T) {
	geo := newTestGeoreference()
	geo.SetOrigin(10, 20, 100)
	s := NewSubLevelSwitcher(geo, nil)

	s.DiscoverSubLevels([]string{"region-a", "", "region-b", "region-a"})
	levels := s.SubLevels()
	if len(levels) != 2 {
		t.Fatalf("discovered %d levels, want 2: %+v", len(levels), levels)
	}
	if levels[0].Name != "region-a" || levels[1].Name != "region-b" {
		t.Errorf("levels = %+v, want region-a then region-b", levels)
	}
	for _, lvl := range levels {
		if lvl.LongitudeDeg != 10 || lvl.LatitudeDeg != 20 || lvl.HeightM != 100 {
			t.Errorf("level %s seeded at %+v, want the current origin", lvl.Name, lvl)
		}
		if lvl.LoadRadiusM != DefaultLoadRadiusM {
			t.Errorf("level %s radius = %v, want default %v", lvl.Name, lvl.LoadRadiusM, DefaultLoadRadiusM)
		}
	}

	// Re-discovery never duplicates or resets known entries.
	s.DiscoverSubLevels([]string{"region-a", "region-b"})
	if got := len(s.SubLevels()); got != 2 {
		t.Errorf("after re-discovery: %d levels, want 2", got)
	}
}

func TestJumpTo(t *testing.T) {
	geo := newTestGeoreference()
	s := NewSubLevelSwitcher(geo, nil)

	if err := s.JumpTo("nowhere"); !errors.Is(err, ErrSubLevelNotFound) {
		t.Errorf("err = %v, want ErrSubLevelNotFound", err)
	}

	if err := s.AddSubLevel(stackedLevel("town", 1000, 500)); err != nil {
		t.Fatal(err)
	}
	if err := s.JumpTo("town"); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}
	if got := geo.Origin(); got.LongitudeDeg != testLonDeg || got.HeightM != 1000 {
		t.Errorf("origin = %+v, want town's coordinates", got)
	}

	// JumpTo uses the external origin path, so it is rejected while a
	// sub-level governs the origin.
	geo.setInsideSubLevel(true)
	geo.setOrigin(0, 0, 0)
	if err := s.JumpTo("town"); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}
	if got := geo.Origin(); got.LongitudeDeg != 0 {
		t.Errorf("origin moved while locked: %+v", got)
	}
}
