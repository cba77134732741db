package city

import (
	"fmt"

	"github.com/roach88/eds/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrUnknownDistrict     = "E101" // building sits in an unregistered district
	ErrUnknownPark         = "E102" // building sits in an unregistered park
	ErrMissingService      = "E103" // building has no service
	ErrProcessingNoInputs  = "E104" // processing facility accepts nothing
	ErrWarehouseNoMaterial = "E105" // warehouse stores nothing
	ErrOutsideNoNetService = "E106" // outside connection without network service
	ErrProducerNoOutput    = "E107" // extractor or processor produces nothing
)

// ValidationError is one semantic problem in a compiled city.
type ValidationError struct {
	Building ir.BuildingID `json:"building,omitempty"`
	Field    string        `json:"field"`
	Message  string        `json:"message"`
	Code     string        `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Building != 0 {
		return fmt.Sprintf("[%s] building %d: %s: %s", e.Code, e.Building, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks every building. Returns all errors found (does not
// fail-fast), in building id order.
func Validate(c *City) []ValidationError {
	var errs []ValidationError
	add := func(id ir.BuildingID, code, field, msg string) {
		errs = append(errs, ValidationError{Building: id, Field: field, Message: msg, Code: code})
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.sortedBuildingIDs() {
		f := c.buildings[id]
		if d := f.Location.District; d != 0 {
			if _, ok := c.districts[d]; !ok {
				add(id, ErrUnknownDistrict, "district", fmt.Sprintf("district %d is not registered", d))
			}
		}
		if p := f.Location.Park; p != 0 {
			if _, ok := c.parks[p]; !ok {
				add(id, ErrUnknownPark, "park", fmt.Sprintf("park %d is not registered", p))
			}
		}
		if f.Service == ir.ServiceNone {
			add(id, ErrMissingService, "service", "service is required")
		}
		switch f.AI {
		case ir.AIProcessingFacility:
			if f.InputResources == [4]ir.Material{} {
				add(id, ErrProcessingNoInputs, "inputs", "processing facility needs at least one input")
			}
			if f.OutputResource == ir.MaterialNone {
				add(id, ErrProducerNoOutput, "output", "processing facility needs an output")
			}
		case ir.AIExtractingFacility, ir.AIFishFarm, ir.AIFishingHarbor:
			if f.OutputResource == ir.MaterialNone {
				add(id, ErrProducerNoOutput, "output", fmt.Sprintf("%s needs an output", f.AI))
			}
		case ir.AIWarehouse:
			if f.WarehouseMaterial == ir.MaterialNone {
				add(id, ErrWarehouseNoMaterial, "warehouse", "warehouse needs a stored material")
			}
		case ir.AIOutsideConnection:
			if f.OutsideNetService == ir.ServiceNone {
				add(id, ErrOutsideNoNetService, "outside_service", "outside connection needs a network service")
			}
		}
	}
	return errs
}
