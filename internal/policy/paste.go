package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/eds/internal/ir"
)

// PasteMode says which side of a building a pasted list describes.
type PasteMode int

const (
	// PasteIncoming lists the sources that may supply the building.
	PasteIncoming PasteMode = iota
	// PasteOutgoing lists the destinations the building may supply.
	PasteOutgoing
)

func (m PasteMode) String() string {
	if m == PasteOutgoing {
		return "outgoing"
	}
	return "incoming"
}

// ParsePasteMode accepts "incoming"/"in" and "outgoing"/"out".
func ParsePasteMode(s string) (PasteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "incoming", "in", "input":
		return PasteIncoming, nil
	case "outgoing", "out", "output":
		return PasteOutgoing, nil
	}
	return 0, fmt.Errorf("unknown paste mode %q", s)
}

// ErrNotSupplyChain is returned when the edited building has no supply
// chain policy.
var ErrNotSupplyChain = errors.New("building is not a supply chain building")

// LinkError names the first pasted link that would be rejected.
type LinkError struct {
	Source      ir.BuildingID
	Destination ir.BuildingID
	Reason      string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("cannot link building %d to building %d: %s", e.Source, e.Destination, e.Reason)
}

// PasteResult describes a completed paste.
type PasteResult struct {
	Building ir.BuildingID
	Mode     PasteMode
	// Cleared is set when empty text removed every link on that side.
	Cleared bool
	// Linked lists the counterpart buildings now linked, in pasted order.
	Linked []ir.BuildingID
}

// PasteSupplyChain replaces one side of building's supply links with the
// comma-separated ids in text. Empty text removes every link on that side.
// Every link is checked before anything changes; if any would be rejected
// the store is left untouched and the error names the first bad link.
func (c *Cloner) PasteSupplyChain(mode PasteMode, building ir.BuildingID, text string) (PasteResult, error) {
	s := c.store
	cl := s.Classifier()
	res := PasteResult{Building: building, Mode: mode}

	if !s.InRange(building) || !cl.IsSupplyChain(building) {
		return res, fmt.Errorf("paste onto building %d: %w", building, ErrNotSupplyChain)
	}

	ids, err := ParseBuildingList(text)
	if err != nil {
		return res, err
	}

	if len(ids) == 0 {
		if mode == PasteIncoming {
			s.RemoveAllSupplyChainConnectionsToDestination(building)
		} else {
			s.RemoveAllSupplyChainConnectionsFromSource(building)
		}
		res.Cleared = true
		c.logger.Info("supply links cleared", "building_id", building, "mode", mode.String())
		return res, nil
	}

	for _, other := range ids {
		src, dst := other, building
		if mode == PasteOutgoing {
			src, dst = building, other
		}
		if err := c.checkLink(src, dst); err != nil {
			c.logger.Warn("rejecting pasted supply links",
				"building_id", building,
				"mode", mode.String(),
				"error", err.Error())
			return res, err
		}
	}

	if mode == PasteIncoming {
		s.RemoveAllSupplyChainConnectionsToDestination(building)
		for _, src := range ids {
			s.AddSupplyChainConnection(src, building)
		}
	} else {
		s.RemoveAllSupplyChainConnectionsFromSource(building)
		for _, dst := range ids {
			s.AddSupplyChainConnection(building, dst)
		}
	}
	res.Linked = ids
	c.logger.Info("supply links pasted",
		"building_id", building,
		"mode", mode.String(),
		"count", len(ids))
	return res, nil
}

// checkLink applies the same rules as AddSupplyChainConnection without
// writing anything.
func (c *Cloner) checkLink(src, dst ir.BuildingID) error {
	s := c.store
	cl := s.Classifier()
	switch {
	case !s.InRange(src) || !s.InRange(dst):
		return &LinkError{Source: src, Destination: dst, Reason: "building out of range"}
	case src == dst:
		return &LinkError{Source: src, Destination: dst, Reason: "a building cannot supply itself"}
	case !cl.IsSupplyChain(src) || !cl.IsSupplyChain(dst):
		return &LinkError{Source: src, Destination: dst, Reason: "not a supply chain building"}
	case !cl.IsValidSupplyChainLink(src, dst):
		return &LinkError{
			Source:      src,
			Destination: dst,
			Reason:      fmt.Sprintf("destination does not accept %s", cl.OutputMaterial(src)),
		}
	}
	return nil
}
