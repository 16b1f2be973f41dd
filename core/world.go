package core

// CameraProvider reports the viewer position in engine units, relative to
// the world's current floating origin. ok=false means no viewer is
// available this tick; consumers degrade to no-ops.
type CameraProvider interface {
	CameraPosition() (Vec3, bool)
}

// World models the host engine's scene state that the georeference core
// interacts with: the floating world origin, the viewer, and the names of
// streamed content regions. It is owned by a single tick loop; access is
// cooperative and unsynchronised.
type World struct {
	originLocation  IntVec3
	camera          CameraProvider
	streamedRegions []string
}

// NewWorld constructs a world with a zero floating origin and no camera.
func NewWorld() *World {
	return &World{}
}

// OriginLocation returns the current floating origin in engine units.
func (w *World) OriginLocation() IntVec3 {
	return w.originLocation
}

// SetOriginLocation adopts a new floating origin. Reinterpreting
// previously placed absolute content relative to the new offset is the
// host engine's responsibility.
func (w *World) SetOriginLocation(origin IntVec3) {
	w.originLocation = origin
}

// SetCamera installs the viewer. A nil camera puts the world in the
// quiescent no-viewer state.
func (w *World) SetCamera(camera CameraProvider) {
	w.camera = camera
}

// CameraPosition returns the viewer position in engine units relative to
// the floating origin, or ok=false when no viewer exists.
func (w *World) CameraPosition() (Vec3, bool) {
	if w.camera == nil {
		return Vec3{}, false
	}
	return w.camera.CameraPosition()
}

// SetStreamedRegions replaces the list of streamed content region names
// used for sub-level discovery.
func (w *World) SetStreamedRegions(names []string) {
	w.streamedRegions = append(w.streamedRegions[:0], names...)
}

// StreamedRegions returns the current streamed region names.
func (w *World) StreamedRegions() []string {
	return w.streamedRegions
}
