package harness

import "github.com/roach88/tsq/internal/ir"

// Result is the outcome of running one case.
type Result struct {
	// Case is the case name.
	Case string `json:"case"`

	// Pass is true if every expectation held.
	Pass bool `json:"pass"`

	// Structured is what Encode produced.
	Structured ir.Query `json:"structured"`

	// Canonical is what Decode produced from Structured.
	Canonical string `json:"canonical"`

	// Errors contains one message per failed expectation.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result for the named case.
func NewResult(name string) *Result {
	return &Result{
		Case:   name,
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// SuiteResult aggregates the results of a suite run.
type SuiteResult struct {
	Suite   string    `json:"suite"`
	Results []*Result `json:"results"`
	Passed  int       `json:"passed"`
	Failed  int       `json:"failed"`
}

// Pass is true if every case passed.
func (s *SuiteResult) Pass() bool {
	return s.Failed == 0
}
