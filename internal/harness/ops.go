package harness

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/eds/internal/constraint"
	"github.com/roach88/eds/internal/ir"
	"github.com/roach88/eds/internal/match"
	"github.com/roach88/eds/internal/policy"
)

// outcome is what an op reports back into its StepResult.
type outcome struct {
	applied bool
	value   string
}

type opFunc func(ctx context.Context, s *Session, a Args) (outcome, error)

type opSpec struct {
	required []string
	run      opFunc
}

// ops is the step vocabulary shared by scenarios and run scripts.
var ops = map[string]opSpec{
	"set_all_local_areas":        {[]string{"building", "direction", "value"}, setFlagOp(false)},
	"set_outside_connections":    {[]string{"building", "direction", "value"}, setFlagOp(true)},
	"add_district_park":          {[]string{"building", "direction", "ref"}, districtParkOp(true)},
	"remove_district_park":       {[]string{"building", "direction", "ref"}, districtParkOp(false)},
	"set_reserve":                {[]string{"building", "amount"}, setReserve},
	"set_intensity":              {[]string{"amount"}, setIntensity},
	"set_outside_to_outside_max": {[]string{"amount"}, setOutsideToOutsideMax},
	"add_supply_link":            {[]string{"source", "destination"}, supplyLinkOp(true)},
	"remove_supply_link":         {[]string{"source", "destination"}, supplyLinkOp(false)},
	"paste_supply_chain":         {[]string{"building", "mode"}, pasteSupplyChain},
	"copy_policy":                {[]string{"template", "target"}, copyPolicy},
	"set_use_default":            {[]string{"building", "value"}, setUseDefault},
	"add_prefab":                 {[]string{"building", "prefab"}, addPrefab},
	"create_building":            {[]string{"building"}, createBuilding},
	"release_building":           {[]string{"building"}, releaseBuilding},
	"release_district_park":      {[]string{"ref"}, releaseDistrictPark},
	"save_snapshot":              {[]string{"name"}, saveSnapshot},
	"restore_snapshot":           {[]string{"name"}, restoreSnapshot},
	"evaluate":                   {[]string{"source", "destination", "material", "direction"}, evaluate},
	"admit":                      {[]string{"source", "destination", "material"}, admit},
}

var (
	setIntensity           = setGlobalOp((*constraint.Store).SetOutsideConnectionIntensity, (*constraint.Store).OutsideConnectionIntensity)
	setOutsideToOutsideMax = setGlobalOp((*constraint.Store).SetOutsideToOutsideMaxPercent, (*constraint.Store).OutsideToOutsideMaxPercent)
)

// Ops lists the step vocabulary.
func Ops() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (a Args) has(name string) bool {
	switch name {
	case "building":
		return a.Building != 0
	case "source":
		return a.Source != 0
	case "destination":
		return a.Destination != 0
	case "template":
		return a.Template != 0
	case "target":
		return a.Target != 0
	case "direction":
		return a.Direction != ""
	case "ref":
		return a.Ref != ""
	case "value":
		return a.Value != nil
	case "amount":
		return a.Amount != nil
	case "mode":
		return a.Mode != ""
	case "material":
		return a.Material != ""
	case "name":
		return a.Name != ""
	case "prefab":
		return a.Prefab != nil
	}
	return false
}

// check parses every textual operand that is set.
func (a Args) check() error {
	if a.Direction != "" {
		if _, err := ir.ParseDirection(a.Direction); err != nil {
			return err
		}
	}
	if _, err := ir.ParseChannel(a.Channel); err != nil {
		return err
	}
	if a.Ref != "" {
		if _, err := ir.ParseDistrictPark(a.Ref); err != nil {
			return err
		}
	}
	if a.Mode != "" {
		if _, err := policy.ParsePasteMode(a.Mode); err != nil {
			return err
		}
	}
	if a.Material != "" {
		if _, err := ir.ParseMaterial(a.Material); err != nil {
			return err
		}
	}
	return nil
}

func (a Args) selector() (ir.Direction, ir.Channel, error) {
	dir, err := ir.ParseDirection(a.Direction)
	if err != nil {
		return 0, 0, err
	}
	ch, err := ir.ParseChannel(a.Channel)
	if err != nil {
		return 0, 0, err
	}
	return dir, ch, nil
}

func (a Args) candidate() (match.Candidate, error) {
	m, err := ir.ParseMaterial(a.Material)
	if err != nil {
		return match.Candidate{}, err
	}
	ch, err := ir.ParseChannel(a.Channel)
	if err != nil {
		return match.Candidate{}, err
	}
	c := match.Candidate{
		Source:             a.Source,
		Destination:        a.Destination,
		Material:           m,
		Channel:            ch,
		SourceStockPercent: a.StockPercent,
	}
	if a.Direction != "" {
		if c.Direction, err = ir.ParseDirection(a.Direction); err != nil {
			return match.Candidate{}, err
		}
	}
	return c, nil
}

func setFlagOp(outside bool) opFunc {
	return func(ctx context.Context, s *Session, a Args) (outcome, error) {
		dir, ch, err := a.selector()
		if err != nil {
			return outcome{}, err
		}
		return s.mutate(ctx, "set_flag", func(st *constraint.Store) (outcome, error) {
			if outside {
				return outcome{applied: st.SetOutsideConnections(dir, ch, a.Building, *a.Value)}, nil
			}
			return outcome{applied: st.SetAllLocalAreas(dir, ch, a.Building, *a.Value)}, nil
		})
	}
}

func districtParkOp(add bool) opFunc {
	return func(ctx context.Context, s *Session, a Args) (outcome, error) {
		dir, ch, err := a.selector()
		if err != nil {
			return outcome{}, err
		}
		ref, err := ir.ParseDistrictPark(a.Ref)
		if err != nil {
			return outcome{}, err
		}
		return s.mutate(ctx, "district_park", func(st *constraint.Store) (outcome, error) {
			if add {
				return outcome{applied: st.AddDistrictPark(dir, ch, a.Building, ref)}, nil
			}
			return outcome{applied: st.RemoveDistrictPark(dir, ch, a.Building, ref)}, nil
		})
	}
}

func setReserve(ctx context.Context, s *Session, a Args) (outcome, error) {
	amount, resync, err := policy.ParseAmount(*a.Amount)
	if err != nil {
		return outcome{}, err
	}
	return s.mutate(ctx, "set_reserve", func(st *constraint.Store) (outcome, error) {
		applied := false
		if !resync {
			applied = st.SetInternalSupplyReserve(a.Building, amount)
		}
		return outcome{applied: applied, value: strconv.Itoa(st.InternalSupplyReserve(a.Building))}, nil
	})
}

func setGlobalOp(set func(*constraint.Store, int) int, get func(*constraint.Store) int) opFunc {
	return func(ctx context.Context, s *Session, a Args) (outcome, error) {
		amount, resync, err := policy.ParseAmount(*a.Amount)
		if err != nil {
			return outcome{}, err
		}
		return s.mutate(ctx, "set_global", func(st *constraint.Store) (outcome, error) {
			if resync {
				return outcome{value: strconv.Itoa(get(st))}, nil
			}
			return outcome{applied: true, value: strconv.Itoa(set(st, amount))}, nil
		})
	}
}

func supplyLinkOp(add bool) opFunc {
	return func(ctx context.Context, s *Session, a Args) (outcome, error) {
		return s.mutate(ctx, "supply_link", func(st *constraint.Store) (outcome, error) {
			if add {
				return outcome{applied: st.AddSupplyChainConnection(a.Source, a.Destination)}, nil
			}
			return outcome{applied: st.RemoveSupplyChainConnection(a.Source, a.Destination)}, nil
		})
	}
}

func pasteSupplyChain(ctx context.Context, s *Session, a Args) (outcome, error) {
	mode, err := policy.ParsePasteMode(a.Mode)
	if err != nil {
		return outcome{}, err
	}
	text := ""
	if a.Text != nil {
		text = *a.Text
	}
	return s.mutate(ctx, "paste_supply_chain", func(*constraint.Store) (outcome, error) {
		res, err := s.Cloner.PasteSupplyChain(mode, a.Building, text)
		if err != nil {
			return outcome{}, err
		}
		if res.Cleared {
			return outcome{applied: true, value: "cleared"}, nil
		}
		return outcome{applied: true, value: joinIDs(res.Linked)}, nil
	})
}

func copyPolicy(ctx context.Context, s *Session, a Args) (outcome, error) {
	return s.mutate(ctx, "copy_policy", func(*constraint.Store) (outcome, error) {
		return outcome{applied: s.Cloner.CopyPolicy(a.Template, a.Target)}, nil
	})
}

func setUseDefault(ctx context.Context, s *Session, a Args) (outcome, error) {
	return s.mutate(ctx, "set_use_default", func(*constraint.Store) (outcome, error) {
		return outcome{applied: s.Fleet.SetUseDefault(a.Building, *a.Value)}, nil
	})
}

func addPrefab(ctx context.Context, s *Session, a Args) (outcome, error) {
	return s.mutate(ctx, "add_prefab", func(*constraint.Store) (outcome, error) {
		applied := s.Fleet.AddPrefab(a.Building, *a.Prefab)
		return outcome{applied: applied, value: joinInts(s.Fleet.Prefabs(a.Building))}, nil
	})
}

func createBuilding(ctx context.Context, s *Session, a Args) (outcome, error) {
	if err := s.Engine.OnBuildingCreated(a.Building); err != nil {
		return outcome{}, err
	}
	return s.barrier(ctx)
}

func releaseBuilding(ctx context.Context, s *Session, a Args) (outcome, error) {
	if err := s.Engine.OnBuildingReleased(a.Building); err != nil {
		return outcome{}, err
	}
	return s.barrier(ctx)
}

// releaseDistrictPark removes the area from the city, then queues the sweep.
func releaseDistrictPark(ctx context.Context, s *Session, a Args) (outcome, error) {
	ref, err := ir.ParseDistrictPark(a.Ref)
	if err != nil {
		return outcome{}, err
	}
	removed := s.City.RemoveDistrictPark(ref)
	if err := s.Engine.OnDistrictParkRemoved(ref); err != nil {
		return outcome{}, err
	}
	out, err := s.barrier(ctx)
	out.applied = out.applied && removed
	return out, err
}

func saveSnapshot(ctx context.Context, s *Session, a Args) (outcome, error) {
	rec, err := s.Capture(ctx)
	if err != nil {
		return outcome{}, err
	}
	return s.snapshots.save(ctx, a.Name, rec)
}

func restoreSnapshot(ctx context.Context, s *Session, a Args) (outcome, error) {
	rec, err := s.snapshots.load(ctx, a.Name)
	if err != nil {
		return outcome{}, err
	}
	n, err := s.Restore(ctx, rec)
	if err != nil {
		return outcome{}, err
	}
	return outcome{applied: true, value: strconv.Itoa(n)}, nil
}

func evaluate(ctx context.Context, s *Session, a Args) (outcome, error) {
	c, err := a.candidate()
	if err != nil {
		return outcome{}, err
	}
	var d match.Decision
	if err := s.Engine.Query(ctx, func(*constraint.Store) { d = s.Matcher.Evaluate(c) }); err != nil {
		return outcome{}, err
	}
	return outcome{applied: d.Allowed, value: d.RuleName}, nil
}

func admit(ctx context.Context, s *Session, a Args) (outcome, error) {
	c, err := a.candidate()
	if err != nil {
		return outcome{}, err
	}
	var d match.Decision
	if err := s.Engine.Query(ctx, func(*constraint.Store) { d = s.Matcher.Admit(c) }); err != nil {
		return outcome{}, err
	}
	return outcome{applied: d.Allowed, value: d.RuleName}, nil
}

func joinIDs(ids []ir.BuildingID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, ",")
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
