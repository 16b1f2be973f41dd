package core

import (
	"testing"
	"time"
)

const (
	issTLE1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	issTLE2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

func TestOrbitalCameraAltitude(t *testing.T) {
	geo := newTestGeoreference()
	start := time.Date(2021, 10, 2, 0, 0, 0, 0, time.UTC)
	cam := NewOrbitalCamera(geo, issTLE1, issTLE2, start)

	local, ok := cam.CameraPosition()
	if !ok {
		t.Fatalf("no camera position")
	}

	// The ISS orbits between roughly 400 and 430 km; the geocentric
	// distance must land in a generous band around that.
	ecef := geo.TransformLocalToEcef(local)
	r := ecef.Norm()
	if r < 6.6e6 || r > 6.9e6 {
		t.Errorf("geocentric distance = %v m, want roughly 6.78e6", r)
	}
}

func TestOrbitalCameraMoves(t *testing.T) {
	geo := newTestGeoreference()
	start := time.Date(2021, 10, 2, 0, 0, 0, 0, time.UTC)
	cam := NewOrbitalCamera(geo, issTLE1, issTLE2, start)

	first, _ := cam.CameraPosition()
	firstEcef := geo.TransformLocalToEcef(first)

	cam.Advance(start.Add(time.Minute))
	second, _ := cam.CameraPosition()
	secondEcef := geo.TransformLocalToEcef(second)

	// At ~7.66 km/s the satellite covers several hundred kilometres per
	// minute.
	d := firstEcef.DistanceTo(secondEcef)
	if d < 100e3 || d > 1000e3 {
		t.Errorf("moved %v m in one minute, want hundreds of km", d)
	}
}

func TestOrbitalCameraDrivesRebasing(t *testing.T) {
	e := NewEngine(nil)
	start := time.Date(2021, 10, 2, 0, 0, 0, 0, time.UTC)
	cam := NewOrbitalCamera(e.Geo, issTLE1, issTLE2, start)
	e.World.SetCamera(cam)

	// An orbital viewer is always far from a ground origin, so the very
	// first tick rebases.
	e.Step()
	if e.World.OriginLocation().IsZero() {
		t.Errorf("expected a rebase for an orbital viewer")
	}
}

func TestStaticCamera(t *testing.T) {
	cam := &StaticCamera{Pos: Vec3{X: 1, Y: 2, Z: 3}}
	got, ok := cam.CameraPosition()
	if !ok || got != (Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("CameraPosition() = %+v, %v", got, ok)
	}
}
