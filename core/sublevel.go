package core

import (
	"context"
	"fmt"
	"math"

	"github.com/terrasignal/georef-engine/internal/logging"
	"github.com/terrasignal/georef-engine/model"
)

// DefaultLoadRadiusM is the activation radius, in metres, given to
// sub-levels created by discovery.
const DefaultLoadRadiusM = 1000.0

var (
	ErrSubLevelExists   = fmt.Errorf("sub-level already exists")
	ErrSubLevelNotFound = fmt.Errorf("sub-level not found")
)

// SubLevel is a named, independently georeferenced region of content. At
// most one sub-level is loaded at a time; an entry persists for the
// session once created.
type SubLevel struct {
	Name         string
	LongitudeDeg float64
	LatitudeDeg  float64
	HeightM      float64
	LoadRadiusM  float64
	Loaded       bool
}

// ContentController receives load/unload signals so the host engine can
// stream the corresponding content in or out. The core only decides which
// region is current; asset lifecycles are external.
type ContentController interface {
	SetSubLevelLoaded(name string, loaded bool)
}

// SubLevelSwitcher is the activation state machine. Each tick it measures
// the viewer's ECEF distance to every known sub-level centre and keeps
// exactly zero or one sub-level loaded: the one with the smallest
// distance among those inside their own activation radius, ties broken by
// declaration order.
type SubLevelSwitcher struct {
	log     logging.Logger
	geo     *Georeference
	metrics MetricsRecorder

	levels  []*SubLevel // declaration order, drives tie-breaking
	byName  map[string]*SubLevel
	content ContentController

	current *SubLevel
	// savedOrigin remembers the top-level origin from before the first
	// sub-level activation, so leaving all sub-levels restores it instead
	// of stranding the origin on the last region.
	savedOrigin *model.Cartographic

	// DefaultLoadRadiusM seeds discovered sub-levels.
	DefaultLoadRadiusM float64
}

// NewSubLevelSwitcher constructs a switcher bound to the georeference.
func NewSubLevelSwitcher(geo *Georeference, log logging.Logger) *SubLevelSwitcher {
	if log == nil {
		log = logging.Noop()
	}
	return &SubLevelSwitcher{
		log:                log,
		geo:                geo,
		metrics:            NoopMetrics{},
		byName:             make(map[string]*SubLevel),
		DefaultLoadRadiusM: DefaultLoadRadiusM,
	}
}

// SetMetrics installs a metrics recorder; nil restores the no-op default.
func (s *SubLevelSwitcher) SetMetrics(m MetricsRecorder) {
	if m == nil {
		m = NoopMetrics{}
	}
	s.metrics = m
}

// SetContentController installs the optional load/unload sink.
func (s *SubLevelSwitcher) SetContentController(c ContentController) {
	s.content = c
}

// AddSubLevel registers a sub-level. Names are unique; the definition is
// validated (metre radius must be positive) at registration.
func (s *SubLevelSwitcher) AddSubLevel(def model.SubLevelDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, exists := s.byName[def.Name]; exists {
		return fmt.Errorf("%w: %q", ErrSubLevelExists, def.Name)
	}
	lvl := &SubLevel{
		Name:         def.Name,
		LongitudeDeg: def.LongitudeDeg,
		LatitudeDeg:  def.LatitudeDeg,
		HeightM:      def.HeightM,
		LoadRadiusM:  def.LoadRadiusM,
	}
	s.levels = append(s.levels, lvl)
	s.byName[def.Name] = lvl
	return nil
}

// DiscoverSubLevels compares the provided streamed-region names against
// the known set. An unseen name becomes a new unloaded entry seeded with
// the current global origin and the default activation radius. Known
// entries are never removed.
func (s *SubLevelSwitcher) DiscoverSubLevels(names []string) {
	origin := s.geo.Origin()
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, known := s.byName[name]; known {
			continue
		}
		lvl := &SubLevel{
			Name:         name,
			LongitudeDeg: origin.LongitudeDeg,
			LatitudeDeg:  origin.LatitudeDeg,
			HeightM:      origin.HeightM,
			LoadRadiusM:  s.DefaultLoadRadiusM,
		}
		s.levels = append(s.levels, lvl)
		s.byName[name] = lvl
		s.log.Info(context.Background(), "discovered sub-level",
			logging.String("name", name),
			logging.Float64("load_radius_m", lvl.LoadRadiusM),
		)
	}
}

// SubLevels returns a snapshot of the known sub-levels in declaration
// order.
func (s *SubLevelSwitcher) SubLevels() []SubLevel {
	out := make([]SubLevel, 0, len(s.levels))
	for _, lvl := range s.levels {
		out = append(out, *lvl)
	}
	return out
}

// Current returns the name of the loaded sub-level, if any.
func (s *SubLevelSwitcher) Current() (string, bool) {
	if s.current == nil {
		return "", false
	}
	return s.current.Name, true
}

// JumpTo re-origins the georeference onto a registered sub-level's
// coordinates through the external SetOrigin path, so it obeys the
// origin lock while another sub-level is active.
func (s *SubLevelSwitcher) JumpTo(name string) error {
	lvl, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSubLevelNotFound, name)
	}
	s.geo.SetOrigin(lvl.LongitudeDeg, lvl.LatitudeDeg, lvl.HeightM)
	return nil
}

// Update evaluates one tick of the state machine and reports whether a
// sub-level is loaded afterwards. Without a viewer the machine holds its
// state.
func (s *SubLevelSwitcher) Update() bool {
	cam, ok := s.geo.World().CameraPosition()
	if !ok {
		return s.current != nil
	}
	camECEF := s.geo.TransformLocalToEcef(cam)

	var candidate *SubLevel
	closest := math.MaxFloat64
	for _, lvl := range s.levels {
		center := s.geo.Ellipsoid().CartographicToCartesianDeg(model.Cartographic{
			LongitudeDeg: lvl.LongitudeDeg,
			LatitudeDeg:  lvl.LatitudeDeg,
			HeightM:      lvl.HeightM,
		})
		d := center.DistanceTo(camECEF)
		// Strict less-than on both keeps the first-registered level on a
		// distance tie.
		if d < lvl.LoadRadiusM && d < closest {
			candidate = lvl
			closest = d
		}
	}

	if candidate == s.current {
		return s.current != nil
	}

	if s.current == nil {
		// Entering sub-level space from the top level: remember the origin
		// so it can be restored on the way out.
		origin := s.geo.Origin()
		s.savedOrigin = &origin
	}

	if s.current != nil {
		s.unload(s.current)
	}

	if candidate != nil {
		s.load(candidate)
	} else if s.savedOrigin != nil {
		s.geo.setOrigin(s.savedOrigin.LongitudeDeg, s.savedOrigin.LatitudeDeg, s.savedOrigin.HeightM)
		s.savedOrigin = nil
	}

	s.current = candidate
	s.geo.setInsideSubLevel(s.current != nil)

	name := ""
	if candidate != nil {
		name = candidate.Name
	}
	s.metrics.RecordSubLevelTransition(name)
	return s.current != nil
}

func (s *SubLevelSwitcher) load(lvl *SubLevel) {
	// This is the one path permitted to move the origin while a sub-level
	// is active: it is the mechanism establishing the new one.
	s.geo.setOrigin(lvl.LongitudeDeg, lvl.LatitudeDeg, lvl.HeightM)
	lvl.Loaded = true
	if s.content != nil {
		s.content.SetSubLevelLoaded(lvl.Name, true)
	}
	s.log.Info(context.Background(), "sub-level loaded", logging.String("name", lvl.Name))
}

func (s *SubLevelSwitcher) unload(lvl *SubLevel) {
	lvl.Loaded = false
	if s.content != nil {
		s.content.SetSubLevelLoaded(lvl.Name, false)
	}
	s.log.Info(context.Background(), "sub-level unloaded", logging.String("name", lvl.Name))
}
