package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/eds/internal/constraint"
	"github.com/roach88/eds/internal/ir"
	"github.com/roach88/eds/internal/match"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	// Steps is the run so far, for context.
	Steps []StepResult
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Steps) > 0 {
		fmt.Fprintf(&buf, "\nSteps:\n")
		for _, step := range e.Steps {
			fmt.Fprintf(&buf, "  [%d] %s applied=%t", step.Index, step.Op, step.Applied)
			if step.Value != "" {
				fmt.Fprintf(&buf, " value=%s", step.Value)
			}
			if step.Error != "" {
				fmt.Fprintf(&buf, " error=%s", step.Error)
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// AssertionContext is what assertions read. Store and Matcher must only be
// used from the engine goroutine; EvaluateAssertions is called through
// Engine.Query.
type AssertionContext struct {
	Store   *constraint.Store
	Matcher *match.Matcher
	Steps   []StepResult
}

// EvaluateAssertions checks every assertion and returns the failure messages.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertRestriction:
			err = assertRestriction(actx, a)
		case AssertDistricts:
			err = assertDistricts(actx, a)
		case AssertSupplyDestinations:
			err = assertBuildings(actx, a, actx.Store.SupplyDestinations(a.Building))
		case AssertSupplySources:
			err = assertBuildings(actx, a, actx.Store.SupplySources(a.Building))
		case AssertReserve:
			err = assertInt(actx, a.Type, fmt.Sprintf("building %d reserve", a.Building),
				*a.Amount, actx.Store.InternalSupplyReserve(a.Building))
		case AssertGlobal:
			err = assertGlobal(actx, a)
		case AssertDecision:
			err = assertDecision(actx, a)
		case AssertStepResult:
			err = assertStepResult(actx, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func selectorOf(a Assertion) (ir.Direction, ir.Channel) {
	dir, _ := ir.ParseDirection(a.Direction)
	ch, _ := ir.ParseChannel(a.Channel)
	return dir, ch
}

func assertRestriction(actx *AssertionContext, a Assertion) error {
	dir, ch := selectorOf(a)
	r := actx.Store.Restriction(dir, ch, a.Building)
	where := fmt.Sprintf("building %d %s %s", a.Building, dir, ch)

	if a.AllLocalAreas != nil && *a.AllLocalAreas != r.AllLocalAreas {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s all_local_areas=%t", where, *a.AllLocalAreas),
			Actual:   fmt.Sprintf("all_local_areas=%t", r.AllLocalAreas),
			Steps:    actx.Steps,
		}
	}
	if a.OutsideConnections != nil && *a.OutsideConnections != r.OutsideConnections {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s outside_connections=%t", where, *a.OutsideConnections),
			Actual:   fmt.Sprintf("outside_connections=%t", r.OutsideConnections),
			Steps:    actx.Steps,
		}
	}
	return nil
}

// assertDistricts compares allow-lists as sets; the store keeps insertion
// order, which scenarios should not depend on.
func assertDistricts(actx *AssertionContext, a Assertion) error {
	dir, ch := selectorOf(a)
	want := make([]string, 0, len(a.Districts))
	for _, d := range a.Districts {
		ref, _ := ir.ParseDistrictPark(d)
		want = append(want, ref.String())
	}
	var got []string
	for _, ref := range actx.Store.DistrictParks(dir, ch, a.Building) {
		got = append(got, ref.String())
	}
	slices.Sort(want)
	slices.Sort(got)
	if slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("building %d %s %s districts [%s]", a.Building, dir, ch, strings.Join(want, ", ")),
		Actual:   fmt.Sprintf("[%s]", strings.Join(got, ", ")),
		Steps:    actx.Steps,
	}
}

func assertBuildings(actx *AssertionContext, a Assertion, actual []ir.BuildingID) error {
	want := slices.Clone(a.Buildings)
	got := slices.Clone(actual)
	slices.Sort(want)
	slices.Sort(got)
	if slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("building %d: [%s]", a.Building, joinIDs(want)),
		Actual:   fmt.Sprintf("[%s]", joinIDs(got)),
		Steps:    actx.Steps,
	}
}

func assertInt(actx *AssertionContext, typ, what string, want, got int) error {
	if want == got {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%s = %d", what, want),
		Actual:   fmt.Sprintf("%d", got),
		Steps:    actx.Steps,
	}
}

func assertGlobal(actx *AssertionContext, a Assertion) error {
	if a.Intensity != nil {
		if err := assertInt(actx, a.Type, "outside connection intensity",
			*a.Intensity, actx.Store.OutsideConnectionIntensity()); err != nil {
			return err
		}
	}
	if a.OutsideToOutsideMax != nil {
		return assertInt(actx, a.Type, "outside-to-outside max percent",
			*a.OutsideToOutsideMax, actx.Store.OutsideToOutsideMaxPercent())
	}
	return nil
}

// assertDecision asks the matcher. With a direction it evaluates that side
// only; without one it admits the candidate on both sides.
func assertDecision(actx *AssertionContext, a Assertion) error {
	args := Args{
		Source:       a.Source,
		Destination:  a.Destination,
		Material:     a.Material,
		Direction:    a.Direction,
		Channel:      a.Channel,
		StockPercent: a.StockPercent,
	}
	c, err := args.candidate()
	if err != nil {
		return err
	}
	var d match.Decision
	if a.Direction != "" {
		d = actx.Matcher.Evaluate(c)
	} else {
		d = actx.Matcher.Admit(c)
	}

	if d.Allowed == *a.Allowed && (a.Rule == "" || a.Rule == d.RuleName) {
		return nil
	}
	expected := fmt.Sprintf("%s from %d to %d allowed=%t", a.Material, a.Source, a.Destination, *a.Allowed)
	if a.Rule != "" {
		expected += " rule=" + a.Rule
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: expected,
		Actual:   fmt.Sprintf("allowed=%t rule=%s (building %d)", d.Allowed, d.RuleName, d.Building),
		Steps:    actx.Steps,
	}
}

func assertStepResult(actx *AssertionContext, a Assertion) error {
	if *a.Step >= len(actx.Steps) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("step %d to have run", *a.Step),
			Actual:   fmt.Sprintf("%d steps ran", len(actx.Steps)),
			Steps:    actx.Steps,
		}
	}
	got := actx.Steps[*a.Step]
	if msg := checkStep(got, a.Applied, a.Value, a.Error); msg != "" {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("step %d (%s) %s", got.Index, got.Op, msg),
			Actual:   fmt.Sprintf("applied=%t value=%q error=%q", got.Applied, got.Value, got.Error),
			Steps:    actx.Steps,
		}
	}
	return nil
}

// checkStep returns a description of the first mismatch, or "". Error is a
// substring match; an empty expected error requires the step to succeed.
func checkStep(got StepResult, applied *bool, value, errText string) string {
	if errText == "" && got.Error != "" {
		return "to succeed"
	}
	if errText != "" && !strings.Contains(got.Error, errText) {
		return fmt.Sprintf("to fail with %q", errText)
	}
	if applied != nil && *applied != got.Applied {
		return fmt.Sprintf("applied=%t", *applied)
	}
	if value != "" && value != got.Value {
		return fmt.Sprintf("value=%q", value)
	}
	return ""
}
