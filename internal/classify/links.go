package classify

import "github.com/roach88/eds/internal/ir"

type outputRule func(f *ir.BuildingFacts) ir.Material

func producedResource(f *ir.BuildingFacts) ir.Material { return f.OutputResource }
func storedResource(f *ir.BuildingFacts) ir.Material   { return f.WarehouseMaterial }

// outputMaterials maps a producer's AI tag to the material it ships.
var outputMaterials = [ir.AICount]outputRule{
	ir.AIExtractingFacility: producedResource,
	ir.AIFishFarm:           producedResource,
	ir.AIFishingHarbor:      producedResource,
	ir.AIProcessingFacility: producedResource,
	ir.AIWarehouse:          storedResource,
}

func outputMaterialOf(f *ir.BuildingFacts) ir.Material {
	if int(f.AI) >= len(outputMaterials) || outputMaterials[f.AI] == nil {
		return ir.MaterialNone
	}
	return outputMaterials[f.AI](f)
}

// OutputMaterial returns the single material id ships as a supply-chain
// source, or MaterialNone.
func (c *Classifier) OutputMaterial(id ir.BuildingID) ir.Material {
	f, ok := c.Facts(id)
	if !ok {
		return ir.MaterialNone
	}
	return outputMaterialOf(&f)
}

// acceptRule decides whether a destination accepts a source material.
type acceptRule func(dst *ir.BuildingFacts, m ir.Material) bool

func acceptsAny(ms ...ir.Material) func(ir.Material) bool {
	return func(m ir.Material) bool {
		for _, want := range ms {
			if m == want {
				return true
			}
		}
		return false
	}
}

var (
	fuel          = acceptsAny(ir.Coal, ir.Petrol)
	recyclable    = acceptsAny(ir.Coal, ir.Lumber, ir.Petrol)
	mail          = acceptsAny(ir.SortedMail, ir.UnsortedMail, ir.IncomingMail, ir.OutgoingMail)
	heatingFuel   = acceptsAny(ir.Petrol)
	prisonerMoves = acceptsAny(ir.CriminalMove)
)

// supplyLinks is the material compatibility matrix keyed by the
// destination's AI tag. The ChirpX launch site is tagged AIMonument.
var supplyLinks = [ir.AICount]acceptRule{
	ir.AIPowerPlant: func(dst *ir.BuildingFacts, m ir.Material) bool {
		return dst.Service == ir.Electricity && fuel(m)
	},
	ir.AIMonument: func(dst *ir.BuildingFacts, m ir.Material) bool {
		return dst.Service == ir.Monument && isChirpX(dst, Settings{}) && fuel(m)
	},
	ir.AIProcessingFacility: func(dst *ir.BuildingFacts, m ir.Material) bool {
		return (dst.Service == ir.PlayerIndustry || dst.Service == ir.Fishing) && dst.AcceptsInput(m)
	},
	ir.AINewPoliceStation: func(dst *ir.BuildingFacts, m ir.Material) bool {
		return dst.Service == ir.PoliceDepartment && !dst.Downgrading && prisonerMoves(m)
	},
	ir.AILandfillSite: func(dst *ir.BuildingFacts, m ir.Material) bool {
		return dst.Service == ir.GarbageService && isRecyclingCenter(dst, Settings{}) && recyclable(m)
	},
	ir.AIWarehouse: func(dst *ir.BuildingFacts, m ir.Material) bool {
		return dst.Service == ir.PlayerIndustry && dst.WarehouseMaterial == m
	},
	ir.AIPostOffice: func(dst *ir.BuildingFacts, m ir.Material) bool {
		return dst.Service == ir.PublicTransport && dst.SubService == ir.PublicTransportPost && mail(m)
	},
	ir.AIHeatingPlant: func(dst *ir.BuildingFacts, m ir.Material) bool {
		return dst.Service == ir.Water && heatingFuel(m)
	},
}

// IsValidSupplyChainLink reports whether destination accepts the material
// source ships. A source that ships nothing never forms a valid link.
func (c *Classifier) IsValidSupplyChainLink(source, destination ir.BuildingID) bool {
	src, ok := c.Facts(source)
	if !ok {
		return false
	}
	material := outputMaterialOf(&src)
	if material == ir.MaterialNone {
		return false
	}
	dst, ok := c.Facts(destination)
	if !ok {
		return false
	}
	return Accepts(dst, material)
}

// Accepts evaluates the compatibility matrix for a destination and material.
func Accepts(dst ir.BuildingFacts, material ir.Material) bool {
	if material == ir.MaterialNone || int(dst.AI) >= len(supplyLinks) {
		return false
	}
	r := supplyLinks[dst.AI]
	return r != nil && r(&dst, material)
}
