package grammar

import (
	"strconv"
	"time"

	"github.com/roach88/tsq/internal/ir"
)

// Value is a typed operator value. Only types in this package implement it.
type Value interface {
	value()

	// String renders the value the way it appears after "name:".
	String() string
}

// StringValue is a username, language code, filter name, URL or term.
type StringValue string

func (StringValue) value() {}

func (v StringValue) String() string { return string(v) }

// DateValue is a calendar date (time of day is always zero, UTC).
type DateValue struct {
	time.Time
}

func (DateValue) value() {}

func (v DateValue) String() string { return v.Format(ir.DateLayout) }

// CountValue is a non-negative count.
type CountValue int64

func (CountValue) value() {}

func (v CountValue) String() string { return strconv.FormatInt(int64(v), 10) }
