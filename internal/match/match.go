package match

import (
	"log/slog"
	"slices"

	"github.com/roach88/eds/internal/constraint"
	"github.com/roach88/eds/internal/ir"
)

// Rule names the check that decided a candidate.
type Rule int

const (
	// None means no rule admitted the candidate.
	None Rule = iota
	Unrestricted
	AllLocalAreas
	OutsideConnection
	ExplicitDistrict
	SupplyEdge
	// Overflow means the source's explicit destination list was bypassed
	// because its stock reached the reserve, and a district rule admitted
	// the candidate.
	Overflow
)

var ruleNames = [...]string{
	None:              "none",
	Unrestricted:      "unrestricted",
	AllLocalAreas:     "all_local_areas",
	OutsideConnection: "outside_connection",
	ExplicitDistrict:  "explicit_district",
	SupplyEdge:        "supply_edge",
	Overflow:          "overflow",
}

func (r Rule) String() string {
	if r < 0 || int(r) >= len(ruleNames) {
		return "unknown"
	}
	return ruleNames[r]
}

// Candidate is one offer pairing proposed by the host.
type Candidate struct {
	Source      ir.BuildingID
	Destination ir.BuildingID

	// Locations of the offers. Zero values are filled from the store's
	// classifier.
	SourceLocation      ir.Location
	DestinationLocation ir.Location

	Material ir.Material

	// Direction selects the side Evaluate checks: Output checks the source,
	// Input checks the destination. Admit checks both.
	Direction ir.Direction

	// Channel is the channel the offer travels on. A building without that
	// channel in the given direction is checked on channel A.
	Channel ir.Channel

	// SourceStockPercent is the source's fill level, used for the reserve
	// overflow rule.
	SourceStockPercent int
}

// Decision is the outcome for one side of a candidate.
type Decision struct {
	Allowed   bool          `json:"allowed" yaml:"allowed"`
	Rule      Rule          `json:"-" yaml:"-"`
	RuleName  string        `json:"rule" yaml:"rule"`
	Direction ir.Direction  `json:"-" yaml:"-"`
	Building  ir.BuildingID `json:"building" yaml:"building"`
}

func decide(allowed bool, rule Rule, dir ir.Direction, id ir.BuildingID) Decision {
	return Decision{Allowed: allowed, Rule: rule, RuleName: rule.String(), Direction: dir, Building: id}
}

// Matcher evaluates candidates against a store.
type Matcher struct {
	store  *constraint.Store
	logger *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the logger. Decisions are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// New creates a Matcher over store.
func New(store *constraint.Store, opts ...Option) *Matcher {
	m := &Matcher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Evaluate checks the side of c selected by c.Direction.
func (m *Matcher) Evaluate(c Candidate) Decision {
	c = m.withLocations(c)
	var d Decision
	if c.Direction == ir.Output {
		d = m.evaluate(ir.Output, c.Source, c.Destination, c.DestinationLocation, c)
	} else {
		d = m.evaluate(ir.Input, c.Destination, c.Source, c.SourceLocation, c)
	}
	m.logger.Debug("candidate evaluated",
		"source", c.Source,
		"destination", c.Destination,
		"material", c.Material.String(),
		"direction", d.Direction.String(),
		"allowed", d.Allowed,
		"rule", d.Rule.String())
	return d
}

// Admit checks the source's output side, then the destination's input side,
// and returns the first denial. When both sides allow the candidate the
// source's decision is returned.
func (m *Matcher) Admit(c Candidate) Decision {
	c.Direction = ir.Output
	out := m.Evaluate(c)
	if !out.Allowed {
		return out
	}
	c.Direction = ir.Input
	in := m.Evaluate(c)
	if !in.Allowed {
		return in
	}
	return out
}

// evaluate applies the rules to building b's policy in dir. other is the
// counterpart and otherLoc its location.
func (m *Matcher) evaluate(dir ir.Direction, b, other ir.BuildingID, otherLoc ir.Location, c Candidate) Decision {
	s := m.store
	cl := s.Classifier()
	district := ir.IsDistrictOffer(c.Material)
	supply := ir.IsSupplyChainOffer(c.Material)

	overflow := false
	if supply && cl.IsSupplyChain(b) {
		if dir == ir.Output && s.HasSupplyDestinations(b) {
			if s.HasSupplyEdge(b, other) {
				return decide(true, SupplyEdge, dir, b)
			}
			if !OverflowPermitted(s, b, c.SourceStockPercent) {
				return decide(false, None, dir, b)
			}
			overflow = true
		}
		if dir == ir.Input && s.HasSupplyEdge(other, b) {
			return decide(true, SupplyEdge, dir, b)
		}
	}

	if !(district || supply) || !cl.IsDistrictService(b) {
		if overflow {
			return decide(true, Overflow, dir, b)
		}
		return decide(true, Unrestricted, dir, b)
	}

	ch := m.channel(dir, b, c.Channel)
	rule := None
	switch {
	case cl.IsOutside(other):
		if s.OutsideConnections(dir, ch, b) {
			rule = OutsideConnection
		}
	case s.AllLocalAreas(dir, ch, b):
		rule = AllLocalAreas
	case s.ServesLocation(dir, ch, b, otherLoc):
		rule = ExplicitDistrict
	}
	if rule == None {
		return decide(false, None, dir, b)
	}
	if overflow {
		rule = Overflow
	}
	return decide(true, rule, dir, b)
}

func (m *Matcher) channel(dir ir.Direction, id ir.BuildingID, ch ir.Channel) ir.Channel {
	if slices.Contains(m.store.ActiveChannels(dir, id), ch) {
		return ch
	}
	return ir.ChannelA
}

func (m *Matcher) withLocations(c Candidate) Candidate {
	cl := m.store.Classifier()
	if c.SourceLocation.IsEmpty() {
		c.SourceLocation = cl.Location(c.Source)
	}
	if c.DestinationLocation.IsEmpty() {
		c.DestinationLocation = cl.Location(c.Destination)
	}
	return c
}

// OverflowPermitted reports whether source may ship beyond its destination
// list: its stock has reached the internal supply reserve percentage.
func OverflowPermitted(s *constraint.Store, source ir.BuildingID, stockPercent int) bool {
	return stockPercent >= s.InternalSupplyReserve(source)
}

// WithinOutsideToOutsideBudget reports whether one more outside-to-outside
// transfer fits the global cap, given the transfers made so far in the
// current window. An empty window always admits.
func WithinOutsideToOutsideBudget(s *constraint.Store, outsideToOutside, total int) bool {
	if total <= 0 {
		return true
	}
	return outsideToOutside*100 < s.OutsideToOutsideMaxPercent()*total
}
