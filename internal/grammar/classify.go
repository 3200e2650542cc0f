// Package grammar classifies lexical tokens into typed query contributions.
//
// Classified is a sealed interface with four variants:
//
//	Term       free text, hashtag or mention
//	Operator   name:value with a typed value
//	Malformed  an operator whose value failed to convert
//	Or         the OR keyword
//
// Type conversion never fails the whole parse. A bad date or count turns
// the token into Malformed, which the builder treats as a text term
// carrying the whole original token ("since:not-a-date").
package grammar

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tsq/internal/ir"
	"github.com/roach88/tsq/internal/lexer"
)

// Classified is a typed token. Only types in this package implement it.
type Classified interface {
	classified()

	// Contribution is the (field, value, negated) triple the token adds to
	// a query. Or contributes nothing and returns ("", nil, false).
	Contribution() (ir.Field, Value, bool)

	// Pos is the token's location in the raw input.
	Pos() lexer.Span
}

// Term is a free-text word or phrase, a hashtag, or a mention.
type Term struct {
	Field   ir.Field // FieldText, FieldHashtags or FieldMentions
	Value   string   // NFC normalized, sigil stripped
	Syntax  string   // query-syntax form: word, "quoted phrase", #tag, @user
	Phrase  bool
	Negated bool
	Span    lexer.Span
}

func (Term) classified() {}

func (t Term) Contribution() (ir.Field, Value, bool) {
	return t.Field, StringValue(t.Value), t.Negated
}

func (t Term) Pos() lexer.Span { return t.Span }

// Operator is a recognized name:value pair with a converted value.
type Operator struct {
	Name    string
	Field   ir.Field
	Value   Value
	Syntax  string // canonical name:value form
	Negated bool
	Span    lexer.Span
}

func (Operator) classified() {}

func (o Operator) Contribution() (ir.Field, Value, bool) {
	return o.Field, o.Value, o.Negated
}

func (o Operator) Pos() lexer.Span { return o.Span }

// Malformed is an operator token whose value could not be converted.
type Malformed struct {
	Text    string // the token without its negation sign, NFC normalized
	Reason  string
	Negated bool
	Span    lexer.Span
}

func (Malformed) classified() {}

func (m Malformed) Contribution() (ir.Field, Value, bool) {
	return ir.FieldText, StringValue(m.Text), m.Negated
}

func (m Malformed) Pos() lexer.Span { return m.Span }

// Or is the OR keyword.
type Or struct {
	Span lexer.Span
}

func (Or) classified() {}

func (Or) Contribution() (ir.Field, Value, bool) { return "", nil, false }

func (o Or) Pos() lexer.Span { return o.Span }

var operatorFields = map[string]ir.Field{
	"from":         ir.FieldFrom,
	"to":           ir.FieldTo,
	"lang":         ir.FieldLang,
	"since":        ir.FieldSince,
	"until":        ir.FieldUntil,
	"min_retweets": ir.FieldMinRetweets,
	"min_faves":    ir.FieldMinFaves,
	"min_replies":  ir.FieldMinReplies,
	"filter":       ir.FieldFilter,
	"url":          ir.FieldURL,
}

// OperatorName returns the query-syntax operator name for a field, or ""
// when the field has no operator form.
func OperatorName(f ir.Field) string {
	for name, field := range operatorFields {
		if field == f {
			return name
		}
	}
	return ""
}

// Classify maps one token to its typed contribution.
func Classify(tok lexer.Token) Classified {
	switch tok.Kind {
	case lexer.OrKeyword:
		return Or{Span: tok.Span}
	case lexer.QuotedPhrase:
		v := norm.NFC.String(tok.Value)
		return Term{Field: ir.FieldText, Value: v, Syntax: lexer.Quote(v), Phrase: true, Negated: tok.Negated, Span: tok.Span}
	case lexer.Hashtag:
		v := norm.NFC.String(tok.Value)
		return Term{Field: ir.FieldHashtags, Value: v, Syntax: "#" + v, Negated: tok.Negated, Span: tok.Span}
	case lexer.Mention:
		v := norm.NFC.String(tok.Value)
		return Term{Field: ir.FieldMentions, Value: v, Syntax: "@" + v, Negated: tok.Negated, Span: tok.Span}
	case lexer.Operator:
		return classifyOperator(tok)
	}
	v := norm.NFC.String(tok.Value)
	return Term{Field: ir.FieldText, Value: v, Syntax: v, Negated: tok.Negated, Span: tok.Span}
}

// ClassifyAll classifies every token in order.
func ClassifyAll(tokens []lexer.Token) []Classified {
	out := make([]Classified, len(tokens))
	for i, tok := range tokens {
		out[i] = Classify(tok)
	}
	return out
}

func classifyOperator(tok lexer.Token) Classified {
	field, ok := operatorFields[tok.Op]
	if !ok {
		return malformed(tok, "unknown operator")
	}

	value, reason := convert(field, tok.Value)
	if reason != "" {
		return malformed(tok, reason)
	}
	return Operator{
		Name:    tok.Op,
		Field:   field,
		Value:   value,
		Syntax:  tok.Op + ":" + value.String(),
		Negated: tok.Negated,
		Span:    tok.Span,
	}
}

// convert turns a raw operator value into its typed form. A non-empty
// reason means the value is unusable.
func convert(field ir.Field, raw string) (Value, string) {
	switch field {
	case ir.FieldSince, ir.FieldUntil:
		d, err := time.Parse(ir.DateLayout, raw)
		if err != nil {
			return nil, "not an ISO 8601 calendar date"
		}
		return DateValue{Time: d}, ""

	case ir.FieldMinRetweets, ir.FieldMinFaves, ir.FieldMinReplies:
		if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
			return nil, "not a non-negative base-10 integer"
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, "integer out of range"
		}
		return CountValue(n), ""

	case ir.FieldLang:
		if !isLangCode(raw) {
			return nil, "not a two-letter language code"
		}
		return StringValue(strings.ToLower(raw)), ""

	case ir.FieldFrom, ir.FieldTo:
		user := norm.NFC.String(strings.TrimPrefix(raw, "@"))
		if user == "" {
			return nil, "missing username"
		}
		return StringValue(user), ""
	}

	if raw == "" {
		return nil, "missing value"
	}
	return StringValue(norm.NFC.String(raw)), ""
}

// isLangCode accepts known ISO 639-1 codes in either case.
func isLangCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	_, err := language.ParseBase(s)
	return err == nil
}

func malformed(tok lexer.Token, reason string) Malformed {
	text := tok.Raw
	if tok.Negated {
		text = text[1:]
	}
	return Malformed{Text: norm.NFC.String(text), Reason: reason, Negated: tok.Negated, Span: tok.Span}
}
