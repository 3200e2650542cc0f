package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/tsq/internal/interchange"
	"github.com/roach88/tsq/internal/validate"
)

// Error codes for the transformer entry points.
const (
	ErrCodeInvalidUTF8 = "E001" // raw query is not valid UTF-8
	ErrCodeTooLong     = "E002" // raw query exceeds the length limit
	ErrCodeSerialize   = "E100" // structured query failed validation
)

// ParseError reports a structural encode failure. Lexical oddities never
// produce one: they degrade to free text instead.
type ParseError struct {
	Code    string
	Message string

	// Offset is the byte offset of the problem in the raw input.
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s (offset %d)", e.Code, e.Message, e.Offset)
}

// SerializeError reports a structured query rejected by validation.
type SerializeError struct {
	Errors []validate.ValidationError
}

func (e *SerializeError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("%s: query failed validation: %s", ErrCodeSerialize, strings.Join(msgs, "; "))
}

// Code returns the stable error code.
func (e *SerializeError) Code() string {
	return ErrCodeSerialize
}

// InterchangeDecodeError reports interchange text that is not a valid
// query document.
type InterchangeDecodeError = interchange.DecodeError

// IsParseError returns true if err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsSerializeError returns true if err is or wraps a *SerializeError.
func IsSerializeError(err error) bool {
	var se *SerializeError
	return errors.As(err, &se)
}

// IsInterchangeError returns true if err is or wraps an
// *InterchangeDecodeError.
func IsInterchangeError(err error) bool {
	var de *InterchangeDecodeError
	return errors.As(err, &de)
}
