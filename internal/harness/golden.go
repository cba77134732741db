package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/eds/internal/classify"
	"github.com/roach88/eds/internal/constraint"
	"github.com/roach88/eds/internal/ir"
)

// Summarize renders the policy of every participating building in ids, in
// the order given, followed by the store globals. It reads st directly, so
// call it on the engine goroutine.
func Summarize(st *constraint.Store, ids []ir.BuildingID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "globals: intensity=%d outside_to_outside_max=%d\n",
		st.OutsideConnectionIntensity(), st.OutsideToOutsideMaxPercent())

	cl := st.Classifier()
	for _, id := range ids {
		caps := cl.Capabilities(id)
		sc := caps.Has(classify.CapSupplyChain)
		if !sc && !caps.Has(classify.CapDistrictService) {
			continue
		}

		fmt.Fprintf(&b, "\n[%d] %s (%s)\n", id, cl.Name(id), caps)
		fmt.Fprintf(&b, "  %s\n", st.DistrictParkText(id))
		for _, dir := range ir.Directions {
			for _, ch := range st.ActiveChannels(dir, id) {
				r := st.Restriction(dir, ch, id)
				fmt.Fprintf(&b, "  %s %s: all_local_areas=%t outside_connections=%t districts=%s\n",
					dir, ch, r.AllLocalAreas, r.OutsideConnections, refList(r.DistrictParks))
			}
		}
		if sc {
			fmt.Fprintf(&b, "  reserve=%d destinations=%s sources=%s\n",
				st.InternalSupplyReserve(id),
				orDash(joinIDs(st.SupplyDestinations(id))),
				orDash(joinIDs(st.SupplySources(id))))
		}
		if problems := st.SupplyProblems(id); len(problems) > 0 {
			names := make([]string, len(problems))
			for i, m := range problems {
				names[i] = m.String()
			}
			fmt.Fprintf(&b, "  supply problems: %s\n", strings.Join(names, ", "))
		}
	}
	return b.String()
}

func refList(refs []ir.DistrictPark) string {
	if len(refs) == 0 {
		return "-"
	}
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = ref.String()
	}
	return strings.Join(parts, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RunWithGolden executes a scenario and compares its final summary against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result's summary against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, []byte(result.Summary))
}
