package constraint

import (
	"log/slog"
	"slices"

	"github.com/roach88/eds/internal/classify"
	"github.com/roach88/eds/internal/ir"
)

// Defaults and bounds of the numeric settings.
const (
	DefaultInternalSupplyReserve = 100
	MaxInternalSupplyReserve     = 100

	DefaultOutsideConnectionIntensity = 600
	MaxOutsideConnectionIntensity     = 1000

	DefaultOutsideToOutsideMaxPercent = 50
	MaxOutsideToOutsideMaxPercent     = 100
)

// Registry is the host's district/park and naming service.
type Registry interface {
	// DistrictParkExists reports whether ref names a live district or park.
	DistrictParkExists(ref ir.DistrictPark) bool

	// DistrictParkName is the display name of ref.
	DistrictParkName(ref ir.DistrictPark) string

	// BuildingName is the display name of id.
	BuildingName(id ir.BuildingID) string

	// Location resolves the district and park id sits in.
	Location(id ir.BuildingID) ir.Location
}

// Restriction is the policy of one (direction, channel) pair of a building.
type Restriction struct {
	// AllLocalAreas dominates DistrictParks: when set the list is kept but
	// never consulted.
	AllLocalAreas bool `json:"all_local_areas" yaml:"all_local_areas"`

	// OutsideConnections admits the outside world independent of districts.
	OutsideConnections bool `json:"outside_connections" yaml:"outside_connections"`

	// DistrictParks is the explicit allow-list. Nil and empty are the same.
	DistrictParks []ir.DistrictPark `json:"district_parks,omitempty" yaml:"district_parks,omitempty"`
}

// IsDefault reports whether r is the open default.
func (r Restriction) IsDefault() bool {
	return r.AllLocalAreas && r.OutsideConnections && len(r.DistrictParks) == 0
}

func (r Restriction) clone() Restriction {
	r.DistrictParks = slices.Clone(r.DistrictParks)
	return r
}

func openRestriction() Restriction {
	return Restriction{AllLocalAreas: true, OutsideConnections: true}
}

// slot is the constraint state of one building id.
type slot struct {
	restrictions [2][ir.ChannelCount]Restriction // [direction][channel]

	// reserve is the internal supply buffer percentage.
	reserve int

	// destinations is the ordered, duplicate-free supply-chain allow-list.
	destinations []ir.BuildingID
}

func (s *slot) reset() {
	for d := range s.restrictions {
		for c := range s.restrictions[d] {
			s.restrictions[d][c] = openRestriction()
		}
	}
	s.reserve = DefaultInternalSupplyReserve
}

// Store is the dense constraint table.
type Store struct {
	classifier *classify.Classifier
	registry   Registry
	logger     *slog.Logger

	slots []slot

	outsideConnectionIntensity int
	outsideToOutsideMaxPercent int
}

// Option configures a Store.
type Option func(*Store)

// WithSize sets the table size. Sizes outside (0, MaxBuildingCount] are
// ignored.
func WithSize(n int) Option {
	return func(s *Store) {
		if n > 0 && n <= ir.MaxBuildingCount {
			s.slots = make([]slot, n)
		}
	}
}

// WithLogger routes diagnostics to logger instead of slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store with every slot at its defaults.
func New(classifier *classify.Classifier, registry Registry, opts ...Option) *Store {
	s := &Store{
		classifier:                 classifier,
		registry:                   registry,
		logger:                     slog.Default(),
		outsideConnectionIntensity: DefaultOutsideConnectionIntensity,
		outsideToOutsideMaxPercent: DefaultOutsideToOutsideMaxPercent,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.slots == nil {
		s.slots = make([]slot, ir.MaxBuildingCount)
	}
	s.Clear()
	return s
}

// Classifier returns the classifier gating the Store's mutators.
func (s *Store) Classifier() *classify.Classifier {
	return s.classifier
}

// Registry returns the district/park registry.
func (s *Store) Registry() Registry {
	return s.registry
}

// Size is the number of slots.
func (s *Store) Size() int {
	return len(s.slots)
}

// InRange reports whether id has a slot.
func (s *Store) InRange(id ir.BuildingID) bool {
	return int(id) < len(s.slots)
}

// Clear resets every slot. Global settings are left alone.
func (s *Store) Clear() {
	for i := range s.slots {
		s.slots[i].reset()
		s.slots[i].destinations = nil
	}
}

func (s *Store) slot(id ir.BuildingID) *slot {
	if int(id) >= len(s.slots) {
		return nil
	}
	return &s.slots[id]
}

func validSelector(dir ir.Direction, ch ir.Channel) bool {
	return dir <= ir.Output && ch.Valid()
}

// Restriction returns a copy of the (dir, ch) policy of id. Unknown ids and
// selectors read as the open default.
func (s *Store) Restriction(dir ir.Direction, ch ir.Channel, id ir.BuildingID) Restriction {
	sl := s.slot(id)
	if sl == nil || !validSelector(dir, ch) {
		return openRestriction()
	}
	return sl.restrictions[dir][ch].clone()
}

// AllLocalAreas reports the all-local-areas flag of (dir, ch, id).
func (s *Store) AllLocalAreas(dir ir.Direction, ch ir.Channel, id ir.BuildingID) bool {
	sl := s.slot(id)
	if sl == nil || !validSelector(dir, ch) {
		return true
	}
	return sl.restrictions[dir][ch].AllLocalAreas
}

// OutsideConnections reports the outside-connections flag of (dir, ch, id).
func (s *Store) OutsideConnections(dir ir.Direction, ch ir.Channel, id ir.BuildingID) bool {
	sl := s.slot(id)
	if sl == nil || !validSelector(dir, ch) {
		return true
	}
	return sl.restrictions[dir][ch].OutsideConnections
}

// DistrictParks returns a copy of the (dir, ch) allow-list of id, nil when
// there is none.
func (s *Store) DistrictParks(dir ir.Direction, ch ir.Channel, id ir.BuildingID) []ir.DistrictPark {
	sl := s.slot(id)
	if sl == nil || !validSelector(dir, ch) {
		return nil
	}
	return slices.Clone(sl.restrictions[dir][ch].DistrictParks)
}

// ServesLocation reports whether the (dir, ch) allow-list of id names loc's
// district or park. It ignores the all-local-areas flag.
func (s *Store) ServesLocation(dir ir.Direction, ch ir.Channel, id ir.BuildingID, loc ir.Location) bool {
	sl := s.slot(id)
	if sl == nil || !validSelector(dir, ch) {
		return false
	}
	return loc.IsServedBy(sl.restrictions[dir][ch].DistrictParks)
}

// ActiveChannels lists the channels id uses in dir: channel A always, channel
// B only for two-input or two-output buildings.
func (s *Store) ActiveChannels(dir ir.Direction, id ir.BuildingID) []ir.Channel {
	want := classify.CapTwoOutputs
	if dir == ir.Input {
		want = classify.CapTwoInputs
	}
	if s.classifier.Capabilities(id).Has(want) {
		return []ir.Channel{ir.ChannelA, ir.ChannelB}
	}
	return []ir.Channel{ir.ChannelA}
}

// InternalSupplyReserve returns the reserve percentage of id.
func (s *Store) InternalSupplyReserve(id ir.BuildingID) int {
	sl := s.slot(id)
	if sl == nil {
		return DefaultInternalSupplyReserve
	}
	return sl.reserve
}

// SupplyDestinations returns a copy of id's supply-chain destinations in
// insertion order, nil when there are none.
func (s *Store) SupplyDestinations(id ir.BuildingID) []ir.BuildingID {
	sl := s.slot(id)
	if sl == nil {
		return nil
	}
	return slices.Clone(sl.destinations)
}

// HasSupplyDestinations reports whether id's destination list is non-empty.
func (s *Store) HasSupplyDestinations(id ir.BuildingID) bool {
	sl := s.slot(id)
	return sl != nil && len(sl.destinations) > 0
}

// HasSupplyEdge reports whether destination is on source's destination list.
func (s *Store) HasSupplyEdge(source, destination ir.BuildingID) bool {
	sl := s.slot(source)
	return sl != nil && slices.Contains(sl.destinations, destination)
}

// OutsideConnectionIntensity is the global outside traffic intensity.
func (s *Store) OutsideConnectionIntensity() int {
	return s.outsideConnectionIntensity
}

// OutsideToOutsideMaxPercent is the global outside-to-outside traffic cap.
func (s *Store) OutsideToOutsideMaxPercent() int {
	return s.outsideToOutsideMaxPercent
}

func (s *Store) buildingName(id ir.BuildingID) string {
	if s.registry == nil {
		return ""
	}
	return s.registry.BuildingName(id)
}

func (s *Store) districtParkName(ref ir.DistrictPark) string {
	if s.registry == nil {
		return ref.String()
	}
	return s.registry.DistrictParkName(ref)
}

func (s *Store) location(id ir.BuildingID) ir.Location {
	if s.registry == nil {
		return s.classifier.Location(id)
	}
	return s.registry.Location(id)
}
