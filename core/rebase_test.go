package core

import (
	"math"
	"testing"
)

func TestRebaseBelowThresholdIsNoOp(t *testing.T) {
	world := NewWorld()
	world.SetCamera(&StaticCamera{Pos: Vec3{X: 9999, Y: -9999, Z: 9999}})
	r := NewOriginRebaser(world, nil)

	r.Update(false)
	if !world.OriginLocation().IsZero() {
		t.Errorf("origin moved below threshold: %+v", world.OriginLocation())
	}
}

func TestRebaseShiftsOriginTowardCamera(t *testing.T) {
	world := NewWorld()
	world.SetCamera(&StaticCamera{Pos: Vec3{X: 15000, Y: -20000, Z: 3}})
	world.SetOriginLocation(IntVec3{X: 100, Y: 200, Z: 300})
	r := NewOriginRebaser(world, nil)

	r.Update(false)
	got := world.OriginLocation()
	want := IntVec3{X: 15100, Y: -19800, Z: 303}
	if got != want {
		t.Errorf("origin = %+v, want %+v", got, want)
	}
}

func TestRebaseSingleAxisExceedanceTriggers(t *testing.T) {
	// The threshold is per-axis: one far axis rebases all three.
	world := NewWorld()
	world.SetCamera(&StaticCamera{Pos: Vec3{X: 1, Y: 1, Z: 10001}})
	r := NewOriginRebaser(world, nil)

	r.Update(false)
	if world.OriginLocation().IsZero() {
		t.Errorf("expected rebase when a single axis exceeds the threshold")
	}
}

func TestRebaseSaturatesAtInt32Bounds(t *testing.T) {
	world := NewWorld()
	world.SetOriginLocation(IntVec3{X: 2147483000, Y: math.MinInt32 + 500, Z: 0})
	world.SetCamera(&StaticCamera{Pos: Vec3{X: 2000, Y: -2000, Z: 0}})
	r := NewOriginRebaser(world, nil)
	r.MaxDistanceFromOrigin = 1000

	r.Update(false)
	got := world.OriginLocation()
	if got.X != math.MaxInt32 {
		t.Errorf("X = %d, want saturated %d", got.X, int32(math.MaxInt32))
	}
	if got.Y != math.MinInt32 {
		t.Errorf("Y = %d, want saturated %d", got.Y, int32(math.MinInt32))
	}
}

func TestRebaseDisabled(t *testing.T) {
	world := NewWorld()
	world.SetCamera(&StaticCamera{Pos: Vec3{X: 1e6}})
	r := NewOriginRebaser(world, nil)
	r.Enabled = false

	r.Update(false)
	if !world.OriginLocation().IsZero() {
		t.Errorf("disabled rebaser moved the origin")
	}
}

func TestRebaseWithoutCameraIsNoOp(t *testing.T) {
	world := NewWorld()
	world.SetOriginLocation(IntVec3{X: 42})
	r := NewOriginRebaser(world, nil)

	r.Update(false)
	if got := world.OriginLocation(); got.X != 42 {
		t.Errorf("origin changed without a camera: %+v", got)
	}
}

func TestRebaseInsideSubLevelResetsOrigin(t *testing.T) {
	world := NewWorld()
	world.SetCamera(&StaticCamera{Pos: Vec3{X: 1e6}})
	world.SetOriginLocation(IntVec3{X: 5000, Y: 6000, Z: 7000})
	r := NewOriginRebaser(world, nil)

	r.Update(true)
	if !world.OriginLocation().IsZero() {
		t.Errorf("origin not reset inside sub-level: %+v", world.OriginLocation())
	}

	// With the opt-in flag set, rebasing continues inside sub-levels.
	r.RebaseInsideSubLevels = true
	r.Update(true)
	if world.OriginLocation().IsZero() {
		t.Errorf("expected rebase inside sub-level with opt-in flag")
	}
}

func TestClampedAdd(t *testing.T) {
	cases := []struct {
		f    float64
		i    int32
		want int32
	}{
		{0, 0, 0},
		{1000.7, 5, 1005},
		{-1000.7, 5, -995},
		{1e10, 0, math.MaxInt32},
		{-1e10, 0, math.MinInt32},
		{647.0, 2147483000, math.MaxInt32},
		{646.0, 2147483000, 2147483646},
		{-648.0, math.MinInt32 + 647, math.MinInt32},
	}
	for _, tc := range cases {
		if got := clampedAdd(tc.f, tc.i); got != tc.want {
			t.Errorf("clampedAdd(%v, %d) = %d, want %d", tc.f, tc.i, got, tc.want)
		}
	}
}
