package city

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/eds/internal/ir"
)

// Compile builds a City from the value of a `city` struct:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(src)
//	c, err := Compile(v.LookupPath(cue.ParsePath("city")))
//
// Compile fails fast on the first structural error, including duplicate
// building ids. Semantic checks are reported by Validate.
func Compile(v cue.Value) (*City, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: "city", Message: "city is required", Pos: v.Pos()}
	}
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	name, err := optionalString(v, "name")
	if err != nil {
		return nil, err
	}
	c := New(name)

	if s := v.LookupPath(cue.ParsePath("settings")); s.Exists() {
		if c.Settings.SelectOutsideConnections, err = optionalBool(s, "select_outside_connections", false); err != nil {
			return nil, err
		}
		if c.Settings.IndustriesControl, err = optionalBool(s, "industries_control", true); err != nil {
			return nil, err
		}
	}

	if err := eachItem(v, "districts", func(item cue.Value) error {
		id, name, err := parseArea(item, "districts")
		if err != nil {
			return err
		}
		return c.AddDistrict(id, name)
	}); err != nil {
		return nil, err
	}
	if err := eachItem(v, "parks", func(item cue.Value) error {
		id, name, err := parseArea(item, "parks")
		if err != nil {
			return err
		}
		return c.AddPark(id, name)
	}); err != nil {
		return nil, err
	}
	if err := eachItem(v, "buildings", func(item cue.Value) error {
		id, facts, err := parseBuilding(item)
		if err != nil {
			return err
		}
		if err := c.AddBuilding(id, facts); err != nil {
			return &CompileError{Field: "buildings", Message: err.Error(), Pos: item.Pos()}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return c, nil
}

// eachItem walks the optional list at field.
func eachItem(v cue.Value, field string, fn func(cue.Value) error) error {
	list := v.LookupPath(cue.ParsePath(field))
	if !list.Exists() {
		return nil
	}
	it, err := list.List()
	if err != nil {
		return formatCUEError(err)
	}
	for it.Next() {
		if err := fn(it.Value()); err != nil {
			return err
		}
	}
	return nil
}

func parseArea(v cue.Value, field string) (uint8, string, error) {
	id, err := requiredInt(v, "id")
	if err != nil {
		return 0, "", err
	}
	if id < 1 || id > 255 {
		return 0, "", &CompileError{
			Field:   field + ".id",
			Message: fmt.Sprintf("id %d out of range 1-255", id),
			Pos:     v.Pos(),
		}
	}
	name, err := optionalString(v, "name")
	if err != nil {
		return 0, "", err
	}
	return uint8(id), name, nil
}

func parseBuilding(v cue.Value) (ir.BuildingID, ir.BuildingFacts, error) {
	var f ir.BuildingFacts

	rawID, err := requiredInt(v, "id")
	if err != nil {
		return 0, f, err
	}
	if rawID < 1 || rawID >= ir.MaxBuildingCount {
		return 0, f, &CompileError{
			Field:   "buildings.id",
			Message: fmt.Sprintf("id %d out of range 1-%d", rawID, ir.MaxBuildingCount-1),
			Pos:     v.Pos(),
		}
	}
	id := ir.BuildingID(rawID)

	if f.Name, err = optionalString(v, "name"); err != nil {
		return 0, f, err
	}
	if f.PrefabName, err = optionalString(v, "prefab"); err != nil {
		return 0, f, err
	}
	if f.Service, err = parseNamed(v, "service", ir.ParseService); err != nil {
		return 0, f, err
	}
	if f.SubService, err = parseNamed(v, "sub_service", ir.ParseSubService); err != nil {
		return 0, f, err
	}
	if f.AI, err = parseNamed(v, "ai", ir.ParseAI); err != nil {
		return 0, f, err
	}
	if f.Created, err = optionalBool(v, "created", true); err != nil {
		return 0, f, err
	}
	if f.Downgrading, err = optionalBool(v, "downgrading", false); err != nil {
		return 0, f, err
	}

	level, err := optionalInt(v, "level", 1)
	if err != nil {
		return 0, f, err
	}
	f.Level = int(level)
	pumping, err := optionalInt(v, "pumping_vehicles", 0)
	if err != nil {
		return 0, f, err
	}
	f.PumpingVehicles = int(pumping)

	district, err := optionalInt(v, "district", 0)
	if err != nil {
		return 0, f, err
	}
	park, err := optionalInt(v, "park", 0)
	if err != nil {
		return 0, f, err
	}
	if district < 0 || district > 255 || park < 0 || park > 255 {
		return 0, f, &CompileError{
			Field:   "buildings.location",
			Message: fmt.Sprintf("building %d: district and park must be in 0-255", id),
			Pos:     v.Pos(),
		}
	}
	f.Location = ir.Location{District: uint8(district), Park: uint8(park)}

	if f.OutputResource, err = parseNamed(v, "output", ir.ParseMaterial); err != nil {
		return 0, f, err
	}
	if f.WarehouseMaterial, err = parseNamed(v, "warehouse", ir.ParseMaterial); err != nil {
		return 0, f, err
	}
	if f.OutsideNetService, err = parseNamed(v, "outside_service", ir.ParseService); err != nil {
		return 0, f, err
	}

	inputs := v.LookupPath(cue.ParsePath("inputs"))
	if inputs.Exists() {
		it, err := inputs.List()
		if err != nil {
			return 0, f, formatCUEError(err)
		}
		i := 0
		for it.Next() {
			if i == len(f.InputResources) {
				return 0, f, &CompileError{
					Field:   "buildings.inputs",
					Message: fmt.Sprintf("building %d: at most %d inputs", id, len(f.InputResources)),
					Pos:     it.Value().Pos(),
				}
			}
			s, err := it.Value().String()
			if err != nil {
				return 0, f, formatCUEError(err)
			}
			m, err := ir.ParseMaterial(s)
			if err != nil {
				return 0, f, &CompileError{Field: "buildings.inputs", Message: err.Error(), Pos: it.Value().Pos()}
			}
			f.InputResources[i] = m
			i++
		}
	}
	return id, f, nil
}

// parseNamed reads an optional enum field through its name parser. Absent
// fields yield the zero value.
func parseNamed[T any](v cue.Value, field string, parse func(string) (T, error)) (T, error) {
	var zero T
	s, err := optionalString(v, field)
	if err != nil || s == "" {
		return zero, err
	}
	out, err := parse(s)
	if err != nil {
		return zero, &CompileError{
			Field:   field,
			Message: err.Error(),
			Pos:     v.LookupPath(cue.ParsePath(field)).Pos(),
		}
	}
	return out, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalBool(v cue.Value, field string, def bool) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return def, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

func optionalInt(v cue.Value, field string, def int64) (int64, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return def, nil
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return n, nil
}

func requiredInt(v cue.Value, field string) (int64, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return n, nil
}

// CompileError is a fixture error with its source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError keeps the first CUE error that carries a position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
