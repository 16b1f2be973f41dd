package core

import (
	"runtime"
	"testing"
)

func TestRegisterObjectRejectsDuplicates(t *testing.T) {
	r := NewObjectRegistry()
	obj := &volumeObject{}

	if !RegisterObject[volumeObject](r, obj) {
		t.Fatalf("first registration rejected")
	}
	if RegisterObject[volumeObject](r, obj) {
		t.Errorf("duplicate registration accepted")
	}
	if got := r.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
	runtime.KeepAlive(obj)
}

func TestNotifyAllReachesEveryLiveObject(t *testing.T) {
	r := NewObjectRegistry()
	objs := []*volumeObject{{}, {}, {}}
	for _, o := range objs {
		RegisterObject[volumeObject](r, o)
	}

	r.NotifyAll()
	r.NotifyAll()
	for i, o := range objs {
		if o.notified != 2 {
			t.Errorf("object %d notified %d times, want 2", i, o.notified)
		}
	}
	runtime.KeepAlive(objs)
}

func TestReadyBoundingVolumeCenters(t *testing.T) {
	r := NewObjectRegistry()
	ready := &volumeObject{center: Vec3{X: 1, Y: 2, Z: 3}, ready: true}
	pending := &volumeObject{center: Vec3{X: 9, Y: 9, Z: 9}}
	RegisterObject[volumeObject](r, ready)
	RegisterObject[volumeObject](r, pending)

	centers := r.ReadyBoundingVolumeCenters()
	if len(centers) != 1 {
		t.Fatalf("got %d centers, want 1", len(centers))
	}
	if centers[0] != ready.center {
		t.Errorf("center = %+v, want %+v", centers[0], ready.center)
	}
	runtime.KeepAlive(ready)
	runtime.KeepAlive(pending)
}

func TestRegistryDoesNotKeepObjectsAlive(t *testing.T) {
	r := NewObjectRegistry()

	func() {
		obj := &volumeObject{}
		RegisterObject[volumeObject](r, obj)
		if got := r.Len(); got != 1 {
			t.Fatalf("Len() = %d, want 1", got)
		}
	}()

	// Once the only strong reference is gone the registry must drop the
	// entry rather than resurrect the object.
	runtime.GC()
	runtime.GC()
	if got := r.Len(); got != 0 {
		t.Errorf("Len() after collection = %d, want 0", got)
	}
	r.NotifyAll() // must not panic on a collected entry
}
