package core

import "weak"

// Georeferenced is implemented by objects that cache transforms derived
// from the georeference and need to recompute them when the origin moves.
type Georeferenced interface {
	// NotifyGeoreferenceUpdated is invoked synchronously after every
	// origin change, once the new transform chain is in place.
	NotifyGeoreferenceUpdated()
	// BoundingVolumeCenter reports the ECEF centre of the object's
	// bounding volume and whether that volume is ready. Objects without a
	// meaningful volume report ready=false.
	BoundingVolumeCenter() (Vec3, bool)
}

// ObjectRegistry is a weakly-held set of Georeferenced listeners. The
// registry never extends the lifetime of a registered object: entries are
// stdlib weak pointers, and entries whose object has been collected are
// skipped silently and dropped. Notification order across entries is
// unspecified.
type ObjectRegistry struct {
	entries map[any]func() Georeferenced
}

// NewObjectRegistry constructs an empty registry.
func NewObjectRegistry() *ObjectRegistry {
	return &ObjectRegistry{entries: make(map[any]func() Georeferenced)}
}

// RegisterObject adds obj to the registry. Registering the same object a
// second time is a no-op and reports false. The registrant is expected to
// schedule its own per-tick work after the georeference's tick (listener
// order in timectrl), not to rely on notification order.
func RegisterObject[T any, P interface {
	*T
	Georeferenced
}](r *ObjectRegistry, obj P) bool {
	w := weak.Make((*T)(obj))
	if _, exists := r.entries[w]; exists {
		return false
	}
	r.entries[w] = func() Georeferenced {
		if p := w.Value(); p != nil {
			return P(p)
		}
		return nil
	}
	return true
}

// NotifyAll invokes the origin-changed callback on every live entry,
// dropping entries whose object no longer exists.
func (r *ObjectRegistry) NotifyAll() {
	for key, resolve := range r.entries {
		obj := resolve()
		if obj == nil {
			delete(r.entries, key)
			continue
		}
		obj.NotifyGeoreferenceUpdated()
	}
}

// ReadyBoundingVolumeCenters collects the ECEF bounding-volume centres of
// all live entries that report readiness.
func (r *ObjectRegistry) ReadyBoundingVolumeCenters() []Vec3 {
	var centers []Vec3
	for key, resolve := range r.entries {
		obj := resolve()
		if obj == nil {
			delete(r.entries, key)
			continue
		}
		if center, ready := obj.BoundingVolumeCenter(); ready {
			centers = append(centers, center)
		}
	}
	return centers
}

// Len returns the number of live entries, dropping collected ones.
func (r *ObjectRegistry) Len() int {
	n := 0
	for key, resolve := range r.entries {
		if resolve() == nil {
			delete(r.entries, key)
			continue
		}
		n++
	}
	return n
}
