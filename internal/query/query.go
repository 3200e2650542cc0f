// Package query is the transformer boundary: Encode turns a raw search
// string into a structured ir.Query and Decode renders one back into
// canonical query syntax.
//
// All functions are pure and safe for concurrent use. On error no partial
// result is returned.
package query

import (
	"fmt"
	"unicode/utf8"

	"github.com/roach88/tsq/internal/builder"
	"github.com/roach88/tsq/internal/interchange"
	"github.com/roach88/tsq/internal/ir"
	"github.com/roach88/tsq/internal/serializer"
	"github.com/roach88/tsq/internal/validate"
)

// Option configures Encode, Decode and the helpers built on them.
type Option func(*options)

type options struct {
	maxLength int
	validate  bool
}

func newOptions(opts []Option) options {
	o := options{validate: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxLength rejects raw queries longer than n bytes. Zero or a
// negative n means no limit (the default).
func WithMaxLength(n int) Option {
	return func(o *options) {
		o.maxLength = n
	}
}

// WithValidation turns validation before serialization on or off.
// Decode validates by default.
func WithValidation(enabled bool) Option {
	return func(o *options) {
		o.validate = enabled
	}
}

// WithoutValidation makes Decode total over well-typed queries.
func WithoutValidation() Option {
	return WithValidation(false)
}

// Encode parses raw into a structured query.
//
// The grammar is lenient: unknown operators, bad dates and dangling OR
// keywords degrade to free text. Only input that is not UTF-8 or exceeds
// the configured length fails, with a *ParseError.
func Encode(raw string, opts ...Option) (ir.Query, error) {
	o := newOptions(opts)

	if o.maxLength > 0 && len(raw) > o.maxLength {
		return ir.Query{}, &ParseError{
			Code:    ErrCodeTooLong,
			Message: fmt.Sprintf("query is %d bytes, limit is %d", len(raw), o.maxLength),
			Offset:  o.maxLength,
		}
	}
	if off := invalidUTF8(raw); off >= 0 {
		return ir.Query{}, &ParseError{
			Code:    ErrCodeInvalidUTF8,
			Message: "query is not valid UTF-8",
			Offset:  off,
		}
	}

	return builder.Parse(raw), nil
}

// Decode renders q in canonical query syntax. Unless validation is
// disabled, q is validated first and a *SerializeError lists every
// violation.
func Decode(q ir.Query, opts ...Option) (string, error) {
	o := newOptions(opts)

	if o.validate {
		if errs := validate.Validate(q); !validate.OK(errs) {
			return "", &SerializeError{Errors: errs}
		}
	}
	return serializer.Stringify(q), nil
}

// DecodeInterchange parses interchange text and decodes the result.
// Malformed text fails with *InterchangeDecodeError, distinct from the
// *SerializeError a well-formed but invalid query produces.
func DecodeInterchange(data []byte, f interchange.Format, opts ...Option) (string, error) {
	q, err := interchange.Unmarshal(data, f)
	if err != nil {
		return "", err
	}
	return Decode(q, opts...)
}

// Canonicalize rewrites raw in canonical form (Decode after Encode).
// Encoded queries are well-typed by construction, so the result is never
// validated; a reversed since/until pair is kept as written.
func Canonicalize(raw string, opts ...Option) (string, error) {
	q, err := Encode(raw, opts...)
	if err != nil {
		return "", err
	}
	return serializer.Stringify(q), nil
}

// invalidUTF8 returns the byte offset of the first invalid sequence in s,
// or -1.
func invalidUTF8(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
