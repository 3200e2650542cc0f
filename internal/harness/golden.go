package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tsq/internal/ir"
)

// Snapshot captures one case execution for golden comparison.
type Snapshot struct {
	Case       string   `json:"case"`
	Query      string   `json:"query"`
	Structured ir.Query `json:"structured"`
	Canonical  string   `json:"canonical"`
}

// toCanonicalMap converts a Snapshot to the generic shape
// ir.MarshalCanonical accepts.
func (s *Snapshot) toCanonicalMap() map[string]any {
	return map[string]any{
		"case":       s.Case,
		"query":      s.Query,
		"structured": s.Structured.CanonicalMap(),
		"canonical":  s.Canonical,
	}
}

// MarshalSnapshot renders the golden snapshot of a case result as
// canonical JSON.
func MarshalSnapshot(name, raw string, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		Case:       name,
		Query:      raw,
		Structured: result.Structured,
		Canonical:  result.Canonical,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden runs a case and compares its snapshot against
// testdata/golden/{case.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also assert on expectations.
func RunWithGolden(t *testing.T, c Case) (*Result, error) {
	t.Helper()

	result := Run(c)
	return result, AssertGolden(t, c.Name, c.Query, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the case.
func AssertGolden(t *testing.T, name, raw string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(name, raw, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
