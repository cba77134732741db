package harness

// StepResult records what one step did.
type StepResult struct {
	Index   int    `json:"index"`
	Op      string `json:"op"`
	Applied bool   `json:"applied"`
	// Value is op specific: the resulting amount, the matched rule, the
	// snapshot hash or the linked buildings.
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
	// Seq is the engine sequence number after the step.
	Seq int64 `json:"seq"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	Steps []StepResult `json:"steps"`

	// Errors contains the failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Summary renders the final state for golden comparison.
	Summary string `json:"summary,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
