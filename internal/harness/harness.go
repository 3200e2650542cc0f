package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/tsq/internal/ir"
	"github.com/roach88/tsq/internal/query"
)

// Run encodes the case's query and checks every expectation.
//
// An encode failure is reported as a failed result, not as an error: it is
// a fact about the case, like any other mismatch.
func Run(c Case, opts ...query.Option) *Result {
	result := NewResult(c.Name)

	q, err := query.Encode(c.Query, opts...)
	if err != nil {
		result.AddError(fmt.Sprintf("encode failed: %v", err))
		return result
	}
	result.Structured = q

	// Encoded queries are decoded as-is: an inverted date range is legal
	// encoder output and must still render.
	canonical, err := query.Decode(q, query.WithoutValidation())
	if err != nil {
		result.AddError(fmt.Sprintf("decode failed: %v", err))
		return result
	}
	result.Canonical = canonical

	if c.Expect.Structured != nil {
		assertStructured(result, *c.Expect.Structured, q)
	}
	if c.Expect.Canonical != nil {
		assertCanonical(result, *c.Expect.Canonical, canonical)
	}
	if len(c.Expect.Fields) > 0 {
		assertFields(result, c.Expect.Fields, q.SetFields())
	}
	assertFixedPoint(result, canonical, opts)

	return result
}

// RunSuite runs every case in order.
func RunSuite(s *Suite, opts ...query.Option) *SuiteResult {
	out := &SuiteResult{Suite: s.Name}
	for _, c := range s.Cases {
		r := Run(c, opts...)
		out.Results = append(out.Results, r)
		if r.Pass {
			out.Passed++
		} else {
			out.Failed++
		}
	}
	return out
}

func assertStructured(r *Result, want, got ir.Query) {
	if ir.Equal(want, got) {
		return
	}
	r.AddError(fmt.Sprintf("structured mismatch:\n  want %s\n  got  %s", canonicalText(want), canonicalText(got)))
}

func assertCanonical(r *Result, want, got string) {
	if want != got {
		r.AddError(fmt.Sprintf("canonical mismatch:\n  want %q\n  got  %q", want, got))
	}
}

func assertFields(r *Result, want, got []ir.Field) {
	if fieldList(want) != fieldList(got) {
		r.AddError(fmt.Sprintf("populated fields mismatch: want [%s], got [%s]", fieldList(want), fieldList(got)))
	}
}

// assertFixedPoint checks that canonical re-encodes to itself.
func assertFixedPoint(r *Result, canonical string, opts []query.Option) {
	again, err := query.Canonicalize(canonical, opts...)
	if err != nil {
		r.AddError(fmt.Sprintf("re-encoding canonical form failed: %v", err))
		return
	}
	if again != canonical {
		r.AddError(fmt.Sprintf("canonical form is not a fixed point: %q became %q", canonical, again))
	}
}

func canonicalText(q ir.Query) string {
	data, err := q.Canonical()
	if err != nil {
		return fmt.Sprintf("<unencodable: %v>", err)
	}
	return string(data)
}

func fieldList(fields []ir.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
