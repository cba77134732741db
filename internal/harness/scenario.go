package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/eds/internal/ir"
)

// Scenario is a scripted session against a CUE city followed by assertions
// on the resulting constraint state.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// City is the CUE city directory, relative to the scenario file.
	City string `yaml:"city"`

	// Settings overrides the classifier settings of the city.
	Settings *Settings `yaml:"settings,omitempty"`

	// Steps run in order through the engine queue.
	Steps []Step `yaml:"steps"`

	// Assertions check the final state and the recorded step results.
	Assertions []Assertion `yaml:"assertions"`
}

// Settings overrides individual classifier settings.
type Settings struct {
	SelectOutsideConnections *bool `yaml:"select_outside_connections,omitempty"`
	IndustriesControl        *bool `yaml:"industries_control,omitempty"`
}

// Script is the document read by `eds run`: the step vocabulary of a
// scenario without assertions.
type Script struct {
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is one operation. Args holds every operand any op takes; each op
// reads the ones it needs.
type Step struct {
	Op     string      `yaml:"op"`
	Args   Args        `yaml:"args,omitempty"`
	Expect *StepExpect `yaml:"expect,omitempty"`
}

// Args are the operands of a step. Building ids are never 0 in a city, so 0
// means unset.
type Args struct {
	Building    ir.BuildingID `yaml:"building,omitempty"`
	Source      ir.BuildingID `yaml:"source,omitempty"`
	Destination ir.BuildingID `yaml:"destination,omitempty"`
	Template    ir.BuildingID `yaml:"template,omitempty"`
	Target      ir.BuildingID `yaml:"target,omitempty"`

	Direction string `yaml:"direction,omitempty"`
	Channel   string `yaml:"channel,omitempty"`
	Ref       string `yaml:"ref,omitempty"`
	Value     *bool  `yaml:"value,omitempty"`

	// Amount is raw field text, as typed into a numeric box.
	Amount *string `yaml:"amount,omitempty"`

	// Mode and Text drive paste_supply_chain.
	Mode string  `yaml:"mode,omitempty"`
	Text *string `yaml:"text,omitempty"`

	Material     string `yaml:"material,omitempty"`
	StockPercent int    `yaml:"stock_percent,omitempty"`

	Name   string `yaml:"name,omitempty"`
	Prefab *int   `yaml:"prefab,omitempty"`
}

// StepExpect checks a step's outcome right after it runs.
type StepExpect struct {
	Applied *bool  `yaml:"applied,omitempty"`
	Value   string `yaml:"value,omitempty"`
	Error   string `yaml:"error,omitempty"`
}

// Assertion checks final state. The fields used depend on Type.
type Assertion struct {
	Type string `yaml:"type"`

	Building  ir.BuildingID `yaml:"building,omitempty"`
	Direction string        `yaml:"direction,omitempty"`
	Channel   string        `yaml:"channel,omitempty"`

	// restriction
	AllLocalAreas      *bool `yaml:"all_local_areas,omitempty"`
	OutsideConnections *bool `yaml:"outside_connections,omitempty"`

	// districts; an empty list asserts that nothing is listed.
	Districts []string `yaml:"districts,omitempty"`

	// supply_destinations, supply_sources
	Buildings []ir.BuildingID `yaml:"buildings,omitempty"`

	// reserve
	Amount *int `yaml:"amount,omitempty"`

	// global
	Intensity           *int `yaml:"intensity,omitempty"`
	OutsideToOutsideMax *int `yaml:"outside_to_outside_max,omitempty"`

	// decision
	Source       ir.BuildingID `yaml:"source,omitempty"`
	Destination  ir.BuildingID `yaml:"destination,omitempty"`
	Material     string        `yaml:"material,omitempty"`
	StockPercent int           `yaml:"stock_percent,omitempty"`
	Allowed      *bool         `yaml:"allowed,omitempty"`
	Rule         string        `yaml:"rule,omitempty"`

	// step_result
	Step    *int   `yaml:"step,omitempty"`
	Applied *bool  `yaml:"applied,omitempty"`
	Value   string `yaml:"value,omitempty"`
	Error   string `yaml:"error,omitempty"`
}

// Assertion types.
const (
	AssertRestriction        = "restriction"
	AssertDistricts          = "districts"
	AssertSupplyDestinations = "supply_destinations"
	AssertSupplySources      = "supply_sources"
	AssertReserve            = "reserve"
	AssertGlobal             = "global"
	AssertDecision           = "decision"
	AssertStepResult         = "step_result"
)

// LoadScenario reads and validates a scenario file. The city path is
// resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	var scenario Scenario
	if err := decodeStrict(path, &scenario); err != nil {
		return nil, err
	}

	if scenario.City != "" && !filepath.IsAbs(scenario.City) {
		scenario.City = filepath.Join(filepath.Dir(path), scenario.City)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScript reads and validates a run script.
func LoadScript(path string) (*Script, error) {
	var script Script
	if err := decodeStrict(path, &script); err != nil {
		return nil, err
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("invalid script: steps list is required and must be non-empty")
	}
	for i := range script.Steps {
		if err := validateStep(i, &script.Steps[i]); err != nil {
			return nil, fmt.Errorf("invalid script: %w", err)
		}
	}
	return &script, nil
}

// decodeStrict rejects unknown fields so typos like "assertion:" fail loudly.
func decodeStrict(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.City == "" {
		return fmt.Errorf("city is required")
	}
	if _, err := os.Stat(s.City); os.IsNotExist(err) {
		return fmt.Errorf("city directory not found: %s", s.City)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], len(s.Steps)); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *Step) error {
	if step.Op == "" {
		return fmt.Errorf("steps[%d]: op is required", index)
	}
	op, ok := ops[step.Op]
	if !ok {
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}
	for _, name := range op.required {
		if !step.Args.has(name) {
			return fmt.Errorf("steps[%d]: %s requires %s", index, step.Op, name)
		}
	}
	if err := step.Args.check(); err != nil {
		return fmt.Errorf("steps[%d]: %w", index, err)
	}
	return nil
}

func validateAssertion(index int, a *Assertion, steps int) error {
	need := func(ok bool, what string) error {
		if ok {
			return nil
		}
		return fmt.Errorf("assertions[%d]: %s is required for %s", index, what, a.Type)
	}

	var err error
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertRestriction:
		err = need(a.Building != 0 && a.Direction != "", "building and direction")
		if err == nil {
			err = need(a.AllLocalAreas != nil || a.OutsideConnections != nil, "a flag")
		}
	case AssertDistricts:
		err = need(a.Building != 0 && a.Direction != "", "building and direction")
		if err == nil {
			err = need(a.Districts != nil, "districts")
		}
	case AssertSupplyDestinations, AssertSupplySources:
		err = need(a.Building != 0 && a.Buildings != nil, "building and buildings")
	case AssertReserve:
		err = need(a.Building != 0 && a.Amount != nil, "building and amount")
	case AssertGlobal:
		err = need(a.Intensity != nil || a.OutsideToOutsideMax != nil, "intensity or outside_to_outside_max")
	case AssertDecision:
		err = need(a.Source != 0 && a.Destination != 0 && a.Material != "", "source, destination and material")
		if err == nil {
			err = need(a.Allowed != nil, "allowed")
		}
	case AssertStepResult:
		err = need(a.Step != nil, "step")
		if err == nil && (*a.Step < 0 || *a.Step >= steps) {
			err = fmt.Errorf("assertions[%d]: step %d out of range", index, *a.Step)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	if err != nil {
		return err
	}

	if a.Direction != "" {
		if _, perr := ir.ParseDirection(a.Direction); perr != nil {
			return fmt.Errorf("assertions[%d]: %w", index, perr)
		}
	}
	if _, perr := ir.ParseChannel(a.Channel); perr != nil {
		return fmt.Errorf("assertions[%d]: %w", index, perr)
	}
	for _, d := range a.Districts {
		if _, perr := ir.ParseDistrictPark(d); perr != nil {
			return fmt.Errorf("assertions[%d]: %w", index, perr)
		}
	}
	if a.Material != "" {
		if _, perr := ir.ParseMaterial(a.Material); perr != nil {
			return fmt.Errorf("assertions[%d]: %w", index, perr)
		}
	}
	return nil
}
