package policy

import (
	"log/slog"

	"github.com/roach88/eds/internal/constraint"
	"github.com/roach88/eds/internal/ir"
)

// Cloner applies bulk edits to a constraint store and its fleet registry.
type Cloner struct {
	store  *constraint.Store
	fleet  *FleetRegistry
	logger *slog.Logger
}

// ClonerOption configures a Cloner.
type ClonerOption func(*Cloner)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) ClonerOption {
	return func(c *Cloner) {
		c.logger = logger
	}
}

// NewCloner creates a Cloner. fleet may be nil when vehicle assignments are
// not tracked.
func NewCloner(store *constraint.Store, fleet *FleetRegistry, opts ...ClonerOption) *Cloner {
	c := &Cloner{store: store, fleet: fleet, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the store the cloner edits.
func (c *Cloner) Store() *constraint.Store {
	return c.store
}

// Fleet returns the fleet registry, or nil.
func (c *Cloner) Fleet() *FleetRegistry {
	return c.fleet
}

// CopyPolicy resets target and copies template's policy onto it: reserve,
// every flag and district/park entry on both directions and channels, every
// supply link in or out of template (rewired to target), and the vehicle
// assignment. Links are validated one by one against target; the result is
// false if any was rejected, but every valid link is still applied.
//
// Copying a building onto itself changes nothing and succeeds.
func (c *Cloner) CopyPolicy(template, target ir.BuildingID) bool {
	s := c.store
	if !s.InRange(template) || !s.InRange(target) {
		c.logger.Warn("ignoring policy copy on out-of-range building",
			"template", template, "target", target)
		return false
	}
	if template == target {
		c.logger.Debug("policy copy onto itself", "building_id", target)
		return true
	}

	reserve := s.InternalSupplyReserve(template)
	var restrictions [2][ir.ChannelCount]constraint.Restriction
	for _, dir := range ir.Directions {
		for _, ch := range ir.Channels {
			restrictions[dir][ch] = s.Restriction(dir, ch, template)
		}
	}

	// Links are read after the reset, so a link between template and target
	// is gone rather than copied onto target itself.
	s.ReleaseBuilding(target)
	sources := s.SupplySources(template)
	destinations := s.SupplyDestinations(template)
	s.SetInternalSupplyReserve(target, reserve)

	for _, dir := range ir.Directions {
		for _, ch := range ir.Channels {
			r := restrictions[dir][ch]
			if !r.AllLocalAreas {
				s.SetAllLocalAreas(dir, ch, target, false)
			}
			if !r.OutsideConnections {
				s.SetOutsideConnections(dir, ch, target, false)
			}
			for _, ref := range r.DistrictParks {
				s.AddDistrictPark(dir, ch, target, ref)
			}
		}
	}

	ok := true
	for _, src := range sources {
		if !s.AddSupplyChainConnection(src, target) {
			ok = false
		}
	}
	for _, dst := range destinations {
		if !s.AddSupplyChainConnection(target, dst) {
			ok = false
		}
	}

	if c.fleet != nil {
		c.fleet.Release(target)
		if !c.fleet.UseDefault(template) {
			c.fleet.SetUseDefault(target, false)
		}
		for _, prefab := range c.fleet.Prefabs(template) {
			c.fleet.AddPrefab(target, prefab)
		}
	}

	c.logger.Info("policy copied",
		"template", template,
		"target", target,
		"links_ok", ok)
	return ok
}
