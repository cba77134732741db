package classify

import (
	"strings"

	"github.com/roach88/eds/internal/ir"
)

// Facts supplies host building facts. The bool is false for ids the host
// does not know about.
type Facts interface {
	Facts(id ir.BuildingID) (ir.BuildingFacts, bool)
}

// Settings are the user options that change classification.
type Settings struct {
	// SelectOutsideConnections lets outside connections take part in
	// district and supply-chain restrictions.
	SelectOutsideConnections bool `json:"select_outside_connections" yaml:"select_outside_connections"`

	// IndustriesControl exposes supply-chain editing for industry buildings.
	IndustriesControl bool `json:"industries_control" yaml:"industries_control"`
}

// DefaultSettings enables industries control, the host's default.
func DefaultSettings() Settings {
	return Settings{IndustriesControl: true}
}

// Capability is a bitset of constraint families a building takes part in.
type Capability uint16

const (
	CapDistrictService Capability = 1 << iota
	CapSupplyChain
	CapCustomFleet
	CapTwoInputs
	CapTwoOutputs
	CapOutside
	CapOutsideRoad
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapDistrictService, "district_service"},
	{CapSupplyChain, "supply_chain"},
	{CapCustomFleet, "custom_fleet"},
	{CapTwoInputs, "two_inputs"},
	{CapTwoOutputs, "two_outputs"},
	{CapOutside, "outside"},
	{CapOutsideRoad, "outside_road"},
}

// Has reports whether every bit of x is set.
func (c Capability) Has(x Capability) bool {
	return c&x == x
}

// Names lists the set capabilities in declaration order.
func (c Capability) Names() []string {
	var names []string
	for _, cn := range capabilityNames {
		if c.Has(cn.cap) {
			names = append(names, cn.name)
		}
	}
	return names
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	return strings.Join(c.Names(), "|")
}

// Classifier evaluates the capability tables against live host facts.
type Classifier struct {
	facts    Facts
	settings Settings
}

// New creates a Classifier reading from facts.
func New(facts Facts, settings Settings) *Classifier {
	return &Classifier{facts: facts, settings: settings}
}

// Settings returns the classification settings.
func (c *Classifier) Settings() Settings {
	return c.settings
}

// Facts returns the host facts for id. Id 0 is never a building.
func (c *Classifier) Facts(id ir.BuildingID) (ir.BuildingFacts, bool) {
	if id == 0 || c.facts == nil {
		return ir.BuildingFacts{}, false
	}
	return c.facts.Facts(id)
}

// Capabilities evaluates every capability of id.
func (c *Classifier) Capabilities(id ir.BuildingID) Capability {
	f, ok := c.Facts(id)
	if !ok {
		return 0
	}
	return capabilitiesOf(&f, c.settings)
}

// CapabilitiesOf classifies facts that are not (yet) registered with the
// host, e.g. a building being validated from a fixture file.
func (c *Classifier) CapabilitiesOf(f ir.BuildingFacts) Capability {
	return capabilitiesOf(&f, c.settings)
}

func capabilitiesOf(f *ir.BuildingFacts, s Settings) Capability {
	var caps Capability
	if f.AI == ir.AIOutsideConnection {
		caps |= CapOutside
		if f.OutsideNetService == ir.Road {
			caps |= CapOutsideRoad
		}
	}
	if !f.Created {
		return caps
	}
	if evalTable(&districtServiceRules, f, s) {
		caps |= CapDistrictService
	}
	if evalTable(&supplyChainRules, f, s) {
		caps |= CapSupplyChain
	}
	if evalTable(&customFleetRules, f, s) {
		caps |= CapCustomFleet
	}
	if isTwoInput(f) {
		caps |= CapTwoInputs
	}
	if isTwoOutput(f) {
		caps |= CapTwoOutputs
	}
	return caps
}

// IsDistrictService reports whether id takes part in district/park
// restrictions.
func (c *Classifier) IsDistrictService(id ir.BuildingID) bool {
	return c.Capabilities(id).Has(CapDistrictService)
}

// IsSupplyChain reports whether id takes part in supply-chain restrictions.
func (c *Classifier) IsSupplyChain(id ir.BuildingID) bool {
	return c.Capabilities(id).Has(CapSupplyChain)
}

// IsCustomFleet reports whether id's vehicle selection can be customized.
func (c *Classifier) IsCustomFleet(id ir.BuildingID) bool {
	return c.Capabilities(id).Has(CapCustomFleet)
}

// IsTwoInput reports whether id has two logical inputs. No building in the
// current tables does; channel B input state is still stored and persisted.
func (c *Classifier) IsTwoInput(id ir.BuildingID) bool {
	return c.Capabilities(id).Has(CapTwoInputs)
}

// IsTwoOutput reports whether id has two logical outputs.
func (c *Classifier) IsTwoOutput(id ir.BuildingID) bool {
	return c.Capabilities(id).Has(CapTwoOutputs)
}

// IsOutside reports whether id is an outside-connection gateway.
func (c *Classifier) IsOutside(id ir.BuildingID) bool {
	return c.Capabilities(id).Has(CapOutside)
}

// IsOutsideRoadConnection reports whether id is a highway outside connection.
func (c *Classifier) IsOutsideRoadConnection(id ir.BuildingID) bool {
	return c.Capabilities(id).Has(CapOutsideRoad)
}

// Location returns the district/park id sits in.
func (c *Classifier) Location(id ir.BuildingID) ir.Location {
	f, _ := c.Facts(id)
	return f.Location
}

// Name returns the host display name of id, or "" when unknown.
func (c *Classifier) Name(id ir.BuildingID) string {
	f, _ := c.Facts(id)
	return f.Name
}
