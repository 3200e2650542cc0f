package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tsq/internal/ir"
	"github.com/roach88/tsq/internal/lexer"
)

func classifyOne(t *testing.T, raw string) Classified {
	t.Helper()
	tokens := lexer.Tokenize(raw)
	require.Len(t, tokens, 1)
	return Classify(tokens[0])
}

func TestClassifyTerms(t *testing.T) {
	tests := []struct {
		input  string
		field  ir.Field
		value  string
		syntax string
		phrase bool
	}{
		{"hello", ir.FieldText, "hello", "hello", false},
		{`"exact phrase"`, ir.FieldText, "exact phrase", `"exact phrase"`, true},
		{"#react", ir.FieldHashtags, "react", "#react", false},
		{"@gopher", ir.FieldMentions, "gopher", "@gopher", false},
		{"near:london", ir.FieldText, "near:london", "near:london", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := classifyOne(t, tt.input)
			term, ok := c.(Term)
			require.True(t, ok, "expected Term, got %T", c)
			assert.Equal(t, tt.field, term.Field)
			assert.Equal(t, tt.value, term.Value)
			assert.Equal(t, tt.syntax, term.Syntax)
			assert.Equal(t, tt.phrase, term.Phrase)
			assert.False(t, term.Negated)
		})
	}
}

func TestClassifyOperators(t *testing.T) {
	tests := []struct {
		input  string
		field  ir.Field
		value  string
		syntax string
	}{
		{"from:twitter", ir.FieldFrom, "twitter", "from:twitter"},
		{"from:@twitter", ir.FieldFrom, "twitter", "from:twitter"},
		{"to:jack", ir.FieldTo, "jack", "to:jack"},
		{"lang:en", ir.FieldLang, "en", "lang:en"},
		{"lang:JA", ir.FieldLang, "ja", "lang:ja"},
		{"since:2023-01-01", ir.FieldSince, "2023-01-01", "since:2023-01-01"},
		{"until:2024-02-29", ir.FieldUntil, "2024-02-29", "until:2024-02-29"},
		{"min_retweets:10", ir.FieldMinRetweets, "10", "min_retweets:10"},
		{"min_faves:007", ir.FieldMinFaves, "7", "min_faves:7"},
		{"min_replies:0", ir.FieldMinReplies, "0", "min_replies:0"},
		{"filter:media", ir.FieldFilter, "media", "filter:media"},
		{"url:example.com", ir.FieldURL, "example.com", "url:example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := classifyOne(t, tt.input)
			op, ok := c.(Operator)
			require.True(t, ok, "expected Operator, got %T", c)
			assert.Equal(t, tt.field, op.Field)
			assert.Equal(t, tt.value, op.Value.String())
			assert.Equal(t, tt.syntax, op.Syntax)
		})
	}
}

func TestClassifyTypedValues(t *testing.T) {
	op := classifyOne(t, "since:2023-01-01").(Operator)
	date, ok := op.Value.(DateValue)
	require.True(t, ok)
	assert.Equal(t, 2023, date.Year())

	op = classifyOne(t, "min_retweets:42").(Operator)
	assert.Equal(t, CountValue(42), op.Value)

	op = classifyOne(t, "from:bob").(Operator)
	assert.Equal(t, StringValue("bob"), op.Value)
}

func TestClassifyMalformedDegradesToWholeToken(t *testing.T) {
	tests := []struct {
		input  string
		text   string
		reason string
	}{
		{"since:not-a-date", "since:not-a-date", "not an ISO 8601 calendar date"},
		{"until:2023-02-30", "until:2023-02-30", "not an ISO 8601 calendar date"},
		{"since:2023-1-1", "since:2023-1-1", "not an ISO 8601 calendar date"},
		{"min_retweets:-5", "min_retweets:-5", "not a non-negative base-10 integer"},
		{"min_faves:+5", "min_faves:+5", "not a non-negative base-10 integer"},
		{"min_faves:ten", "min_faves:ten", "not a non-negative base-10 integer"},
		{"min_replies:99999999999999999999", "min_replies:99999999999999999999", "integer out of range"},
		{"lang:english", "lang:english", "not a two-letter language code"},
		{"lang:", "lang:", "not a two-letter language code"},
		{"from:", "from:", "missing username"},
		{"from:@", "from:@", "missing username"},
		{"filter:", "filter:", "missing value"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := classifyOne(t, tt.input)
			m, ok := c.(Malformed)
			require.True(t, ok, "expected Malformed, got %T", c)
			assert.Equal(t, tt.text, m.Text)
			assert.Equal(t, tt.reason, m.Reason)

			field, value, negated := m.Contribution()
			assert.Equal(t, ir.FieldText, field)
			assert.Equal(t, tt.text, value.String())
			assert.False(t, negated)
		})
	}
}

func TestClassifyNegated(t *testing.T) {
	term := classifyOne(t, "-spam").(Term)
	assert.True(t, term.Negated)
	assert.Equal(t, "spam", term.Value)

	op := classifyOne(t, "-from:spamAccount").(Operator)
	assert.True(t, op.Negated)
	assert.Equal(t, "from:spamAccount", op.Syntax)

	m := classifyOne(t, "-since:nope").(Malformed)
	assert.True(t, m.Negated)
	assert.Equal(t, "since:nope", m.Text)
}

func TestClassifyOr(t *testing.T) {
	c := classifyOne(t, "OR")
	_, ok := c.(Or)
	require.True(t, ok)

	field, value, negated := c.Contribution()
	assert.Equal(t, ir.Field(""), field)
	assert.Nil(t, value)
	assert.False(t, negated)
}

func TestClassifyNormalizesNFC(t *testing.T) {
	term := classifyOne(t, "#cafe\u0301").(Term)
	assert.Equal(t, "caf\u00e9", term.Value)
	assert.Equal(t, "#caf\u00e9", term.Syntax)
}

func TestClassifyAllKeepsOrderAndSpans(t *testing.T) {
	raw := "a OR #b -c"
	out := ClassifyAll(lexer.Tokenize(raw))

	require.Len(t, out, 4)
	assert.IsType(t, Term{}, out[0])
	assert.IsType(t, Or{}, out[1])
	assert.IsType(t, Term{}, out[2])
	assert.IsType(t, Term{}, out[3])
	assert.Equal(t, lexer.Span{Start: 5, End: 7}, out[2].Pos())
}

func TestOperatorName(t *testing.T) {
	assert.Equal(t, "min_retweets", OperatorName(ir.FieldMinRetweets))
	assert.Equal(t, "url", OperatorName(ir.FieldURL))
	assert.Equal(t, "", OperatorName(ir.FieldText))
}
