// Package validate checks structural and type constraints on a query
// before it is serialized.
package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"

	"github.com/roach88/tsq/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrNegativeCount   = "E101" // min_* below zero
	ErrMalformedDate   = "E102" // since/until not YYYY-MM-DD
	ErrEmptyEntry      = "E103" // empty string in a list field or OR group
	ErrInvalidLanguage = "E104" // lang entry not a two-letter ISO 639-1 code
	ErrDateOrder       = "E105" // since after until
	ErrShortOrGroup    = "E106" // OR group with fewer than two alternatives
	ErrSchema          = "E107" // interchange document does not match the schema
	ErrUnsafeEntry     = "E108" // whitespace in a single-token field
)

// ValidationError represents one violated constraint.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// OK reports whether errs is empty.
func OK(errs []ValidationError) bool {
	return len(errs) == 0
}

// Validate checks q and returns every error found (does not fail-fast).
// Errors are ordered by field, in ir.Fields order.
func Validate(q ir.Query) []ValidationError {
	var errs []ValidationError

	for _, f := range ir.Fields {
		switch {
		case f == ir.FieldOrGroups:
			errs = append(errs, validateOrGroups(q.OrGroups)...)
		case q.Strings(f) != nil:
			errs = append(errs, validateStrings(f, *q.Strings(f))...)
		case q.Date(f) != nil:
			errs = append(errs, validateDate(f, *q.Date(f))...)
		case q.Minimum(f) != nil:
			errs = append(errs, validateCount(f, *q.Minimum(f))...)
		}
	}

	if validDate(q.Since) && validDate(q.Until) && q.Since > q.Until {
		errs = append(errs, ValidationError{
			Field:   "since",
			Message: fmt.Sprintf("since %s is after until %s", q.Since, q.Until),
			Code:    ErrDateOrder,
		})
	}

	return errs
}

func validateStrings(f ir.Field, values []string) []ValidationError {
	var errs []ValidationError
	for i, v := range values {
		path := fmt.Sprintf("%s[%d]", f, i)

		// E103: entries must be non-empty
		if v == "" {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: "entry must be non-empty",
				Code:    ErrEmptyEntry,
			})
			continue
		}

		// E104: lang entries are ISO 639-1 codes
		if f == ir.FieldLang {
			if !isLanguage(v) {
				errs = append(errs, ValidationError{
					Field:   path,
					Message: fmt.Sprintf("%q is not a two-letter language code", v),
					Code:    ErrInvalidLanguage,
				})
			}
			continue
		}

		// E108: set entries are emitted after a sigil or operator name
		// and must stay a single token
		if f.IsSet() && strings.IndexFunc(v, unicode.IsSpace) >= 0 {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("%q must not contain whitespace", v),
				Code:    ErrUnsafeEntry,
			})
		}
	}
	return errs
}

func validateDate(f ir.Field, v string) []ValidationError {
	// E102: well-formed calendar date
	if v == "" || validDate(v) {
		return nil
	}
	return []ValidationError{{
		Field:   string(f),
		Message: fmt.Sprintf("%q is not an ISO 8601 calendar date (YYYY-MM-DD)", v),
		Code:    ErrMalformedDate,
	}}
}

func validateCount(f ir.Field, n *int64) []ValidationError {
	// E101: counts are non-negative
	if n == nil || *n >= 0 {
		return nil
	}
	return []ValidationError{{
		Field:   string(f),
		Message: fmt.Sprintf("must be non-negative, got %d", *n),
		Code:    ErrNegativeCount,
	}}
}

func validateOrGroups(groups [][]string) []ValidationError {
	var errs []ValidationError
	for i, g := range groups {
		// E106: a group needs at least two alternatives
		if len(g) < 2 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("orGroups[%d]", i),
				Message: fmt.Sprintf("OR group needs at least 2 alternatives, got %d", len(g)),
				Code:    ErrShortOrGroup,
			})
		}
		for j, m := range g {
			if m == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("orGroups[%d][%d]", i, j),
					Message: "alternative must be non-empty",
					Code:    ErrEmptyEntry,
				})
			}
		}
	}
	return errs
}

func validDate(s string) bool {
	_, err := time.Parse(ir.DateLayout, s)
	return err == nil
}

func isLanguage(s string) bool {
	if len(s) != 2 {
		return false
	}
	_, err := language.ParseBase(s)
	return err == nil
}
