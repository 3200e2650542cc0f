package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tsq/internal/ir"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateValidQuery(t *testing.T) {
	q := ir.Query{
		Text:        []string{"news", "big deal"},
		Hashtags:    []string{"react"},
		Mentions:    []string{"gopher"},
		From:        []string{"twitter"},
		To:          []string{"jack"},
		Lang:        []string{"en", "ja"},
		Filter:      []string{"media"},
		URL:         []string{"example.com"},
		Since:       "2023-01-01",
		Until:       "2023-12-31",
		Exclude:     []string{"spam", "from:bot"},
		MinRetweets: ir.Count(10),
		MinFaves:    ir.Count(0),
		OrGroups:    [][]string{{"#javascript", "#react"}},
	}

	errs := Validate(q)
	assert.Empty(t, errs, "valid query should have no errors")
	assert.True(t, OK(errs))
}

func TestValidateEmptyQuery(t *testing.T) {
	assert.Empty(t, Validate(ir.Query{}))
}

func TestValidateNegativeCount(t *testing.T) {
	errs := Validate(ir.Query{MinFaves: ir.Count(-1)})

	require.Len(t, errs, 1)
	assert.Equal(t, ErrNegativeCount, errs[0].Code)
	assert.Equal(t, "minFaves", errs[0].Field)
	assert.Contains(t, errs[0].Message, "-1")
}

func TestValidateMalformedDate(t *testing.T) {
	tests := []string{"2023-1-1", "2023-02-30", "yesterday", "2023-01-01T00:00:00Z"}

	for _, date := range tests {
		t.Run(date, func(t *testing.T) {
			errs := Validate(ir.Query{Until: date})
			require.Len(t, errs, 1)
			assert.Equal(t, ErrMalformedDate, errs[0].Code)
			assert.Equal(t, "until", errs[0].Field)
		})
	}
}

func TestValidateEmptyEntries(t *testing.T) {
	q := ir.Query{
		Text:     []string{"ok", ""},
		Hashtags: []string{""},
		Exclude:  []string{""},
	}

	errs := Validate(q)
	require.Len(t, errs, 3)
	assert.Equal(t, []string{ErrEmptyEntry, ErrEmptyEntry, ErrEmptyEntry}, codes(errs))
	assert.Equal(t, "text[1]", errs[0].Field)
	assert.Equal(t, "hashtags[0]", errs[1].Field)
	assert.Equal(t, "exclude[0]", errs[2].Field)
}

func TestValidateLanguage(t *testing.T) {
	tests := []string{"english", "e", "e1", "e n"}

	for _, lang := range tests {
		t.Run(lang, func(t *testing.T) {
			errs := Validate(ir.Query{Lang: []string{lang}})
			require.Len(t, errs, 1)
			assert.Equal(t, ErrInvalidLanguage, errs[0].Code)
			assert.Equal(t, "lang[0]", errs[0].Field)
		})
	}
}

func TestValidateDateOrder(t *testing.T) {
	errs := Validate(ir.Query{Since: "2024-01-01", Until: "2023-01-01"})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDateOrder, errs[0].Code)

	assert.Empty(t, Validate(ir.Query{Since: "2023-01-01", Until: "2023-01-01"}))
}

func TestValidateDateOrderSkippedForMalformedDates(t *testing.T) {
	errs := Validate(ir.Query{Since: "zzzz", Until: "2023-01-01"})
	assert.Equal(t, []string{ErrMalformedDate}, codes(errs))
}

func TestValidateOrGroups(t *testing.T) {
	q := ir.Query{OrGroups: [][]string{
		{"a", "b"},
		{"lonely"},
		{},
		{"x", ""},
	}}

	errs := Validate(q)
	require.Len(t, errs, 3)
	assert.Equal(t, ErrShortOrGroup, errs[0].Code)
	assert.Equal(t, "orGroups[1]", errs[0].Field)
	assert.Equal(t, ErrShortOrGroup, errs[1].Code)
	assert.Equal(t, "orGroups[2]", errs[1].Field)
	assert.Equal(t, ErrEmptyEntry, errs[2].Code)
	assert.Equal(t, "orGroups[3][1]", errs[2].Field)
}

func TestValidateUnsafeEntries(t *testing.T) {
	q := ir.Query{
		Hashtags: []string{"two words"},
		From:     []string{"bo b", `quo"te`},
		URL:      []string{"example.com\tx"},
		Text:     []string{"free text may have spaces"},
		Exclude:  []string{`and "quotes"`},
	}

	errs := Validate(q)
	assert.Equal(t, []string{ErrUnsafeEntry, ErrUnsafeEntry, ErrUnsafeEntry}, codes(errs))
}

func TestValidateCollectsAllErrors(t *testing.T) {
	q := ir.Query{
		MinRetweets: ir.Count(-5),
		Since:       "nope",
		Lang:        []string{"xyz"},
		OrGroups:    [][]string{{"solo"}},
	}

	errs := Validate(q)
	assert.Equal(t,
		[]string{ErrInvalidLanguage, ErrMalformedDate, ErrNegativeCount, ErrShortOrGroup},
		codes(errs))
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Field: "since", Message: "bad", Code: ErrMalformedDate}
	assert.Equal(t, "[E102] since: bad", e.Error())
}
