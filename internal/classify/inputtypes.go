package classify

import (
	"fmt"
	"strings"

	"github.com/roach88/eds/internal/ir"
)

// InputType names an editing tab a building exposes. The numeric values are
// persisted by UI layouts and must not change.
type InputType int

const (
	InputNone        InputType = 0
	InputIncoming    InputType = 1
	InputOutgoing    InputType = 2
	InputSupplyChain InputType = 4
	InputVehicles    InputType = 8
	InputIncoming2   InputType = 5
	InputOutgoing2   InputType = 6
)

func (t InputType) String() string {
	switch t {
	case InputNone:
		return "None"
	case InputIncoming:
		return "Incoming"
	case InputOutgoing:
		return "Outgoing"
	case InputSupplyChain:
		return "SupplyChain"
	case InputVehicles:
		return "Vehicles"
	case InputIncoming2:
		return "Incoming2"
	case InputOutgoing2:
		return "Outgoing2"
	default:
		return fmt.Sprintf("InputType(%d)", int(t))
	}
}

// Slot maps an incoming/outgoing tab to the restriction it edits. ok is
// false for tabs that do not address a restriction.
func (t InputType) Slot() (dir ir.Direction, ch ir.Channel, ok bool) {
	switch t {
	case InputIncoming:
		return ir.Input, ir.ChannelA, true
	case InputIncoming2:
		return ir.Input, ir.ChannelB, true
	case InputOutgoing:
		return ir.Output, ir.ChannelA, true
	case InputOutgoing2:
		return ir.Output, ir.ChannelB, true
	default:
		return 0, 0, false
	}
}

// hasNoOutgoingTab covers district-service buildings whose only restriction
// is on what they receive.
func hasNoOutgoingTab(f *ir.BuildingFacts) bool {
	switch {
	case f.Service == ir.Electricity && f.AI == ir.AIPowerPlant:
		return true
	case f.Service == ir.Water && f.AI == ir.AIHeatingPlant:
		return true
	case f.Service == ir.Monument && isChirpX(f, Settings{}):
		return true
	}
	return false
}

func hasNoIncomingTab(f *ir.BuildingFacts) bool {
	switch f.AI {
	case ir.AIExtractingFacility, ir.AIFishFarm, ir.AIFishingHarbor:
		return true
	}
	return isRecyclingCenter(f, Settings{})
}

// InputTypes lists the tabs id exposes, in display order. It is never empty.
func (c *Classifier) InputTypes(id ir.BuildingID) []InputType {
	f, ok := c.Facts(id)
	if !ok {
		return []InputType{InputNone}
	}
	caps := capabilitiesOf(&f, c.settings)

	var types []InputType
	if caps.Has(CapDistrictService) {
		switch {
		case caps.Has(CapTwoOutputs):
			types = append(types, InputOutgoing, InputOutgoing2)
		case hasNoOutgoingTab(&f):
		case !c.settings.IndustriesControl && f.Service == ir.PlayerIndustry:
		default:
			types = append(types, InputOutgoing)
		}
	}

	if c.settings.IndustriesControl && caps.Has(CapSupplyChain) {
		types = append(types, InputSupplyChain)
		switch {
		case caps.Has(CapTwoInputs):
			types = append(types, InputIncoming, InputIncoming2)
		case !hasNoIncomingTab(&f):
			types = append(types, InputIncoming)
		}
	}

	if caps.Has(CapCustomFleet) {
		types = append(types, InputVehicles)
	}

	if len(types) == 0 {
		types = append(types, InputNone)
	}
	return types
}

func containsInputType(types []InputType, t InputType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// InputTypeText summarizes the tabs of id for the info panel.
func (c *Classifier) InputTypeText(id ir.BuildingID) string {
	types := c.InputTypes(id)
	if !containsInputType(types, InputSupplyChain) {
		return "Building Type: Services"
	}
	items := []string{"Supply Chain"}
	for _, t := range []InputType{InputIncoming, InputIncoming2, InputOutgoing, InputOutgoing2} {
		if containsInputType(types, t) {
			items = append(items, t.String())
		}
	}
	return "Building Type: " + strings.Join(items, ", ")
}

// ServicesText describes the service of id, with the shipped material for
// industry buildings. It is empty for id 0.
func (c *Classifier) ServicesText(id ir.BuildingID) string {
	f, ok := c.Facts(id)
	if !ok {
		return ""
	}
	switch {
	case f.AI == ir.AIOutsideConnection:
		if f.Service == ir.Road {
			return "Service: OutsideConnection (Road)"
		}
		return fmt.Sprintf("Service: OutsideConnection (%s)", f.SubService)
	case f.Service == ir.PlayerIndustry:
		if m := outputMaterialOf(&f); m != ir.MaterialNone {
			return fmt.Sprintf("Service: %s (%s)", f.Service, m)
		}
	}
	return fmt.Sprintf("Service: %s", f.Service)
}
