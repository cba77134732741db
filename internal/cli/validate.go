package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/eds/internal/city"
)

// ValidationResult is the outcome of validating a city.
type ValidationResult struct {
	Valid        bool                   `json:"valid"`
	Files        int                    `json:"files"`
	Buildings    int                    `json:"buildings"`
	Districts    int                    `json:"districts"`
	Parks        int                    `json:"parks"`
	Capabilities map[string]int         `json:"capabilities"`
	Errors       []city.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <city-dir>",
		Short: "Compile and check a CUE city",
		Long: `Compile the CUE city in a directory and check every building.

Reports how many buildings have each capability and lists every
semantic problem found (unregistered districts, missing services,
processors without inputs and so on).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts.formatter(cmd), args[0])
		},
	}
}

func runValidate(f *OutputFormatter, dir string) error {
	loaded, err := loadCityOrFail(f, dir)
	if err != nil {
		return err
	}

	result := summarizeCity(loaded)
	result.Errors = city.Validate(loaded.City)
	result.Valid = len(result.Errors) == 0

	if !result.Valid {
		msg := fmt.Sprintf("validation failed with %d error(s)", len(result.Errors))
		if f.isJSON() {
			if err := f.Failure(result.Errors[0].Code, result.Errors[0].Message, result); err != nil {
				return err
			}
		} else {
			f.Textf("✗ Validation failed")
			for _, e := range result.Errors {
				f.Textf("  %s", e.Error())
			}
		}
		return NewExitError(ExitFailure, msg)
	}

	if f.isJSON() {
		return f.Success(result)
	}
	f.Textf("✓ City valid: %d building(s), %d district(s), %d park(s)",
		result.Buildings, result.Districts, result.Parks)
	names := make([]string, 0, len(result.Capabilities))
	for name := range result.Capabilities {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		f.Textf("  %-22s %d", name, result.Capabilities[name])
	}
	return nil
}

// summarizeCity counts buildings per capability.
func summarizeCity(loaded *LoadResult) ValidationResult {
	c := loaded.City
	cl := c.Classifier()
	result := ValidationResult{
		Files:        loaded.FileCount,
		Capabilities: make(map[string]int),
	}
	for _, ref := range c.DistrictParks() {
		if ref.IsPark() {
			result.Parks++
		} else {
			result.Districts++
		}
	}
	for _, id := range c.BuildingIDs() {
		result.Buildings++
		for _, name := range cl.Capabilities(id).Names() {
			result.Capabilities[name]++
		}
	}
	return result
}
