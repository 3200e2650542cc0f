// Package builder folds classified tokens into a structured query.
//
// The fold is a single left-to-right pass. OR grouping is driven by a small
// state machine: the builder remembers the last groupable contribution (the
// anchor) and whether an OR keyword is waiting for its right-hand partner.
//
//	idle --groupable--> anchored --OR--> awaiting --groupable--> grouped
//	 ^                                      |                      |
//	 +------- anything else (OR flushed as text) <-----------------+
//
// A grouped anchor is the open OR group; a further OR extends it.
package builder

import (
	"slices"

	"github.com/roach88/tsq/internal/grammar"
	"github.com/roach88/tsq/internal/ir"
	"github.com/roach88/tsq/internal/lexer"
)

// orLiteral is the text term a dangling OR degrades to.
const orLiteral = "OR"

// Build folds tokens into a fresh Query. It never fails.
func Build(tokens []grammar.Classified) ir.Query {
	b := &builder{}
	for _, tok := range tokens {
		b.step(tok)
	}
	b.breakChain()
	return b.q
}

// Parse tokenizes, classifies and builds raw in one call.
func Parse(raw string) ir.Query {
	return Build(grammar.ClassifyAll(lexer.Tokenize(raw)))
}

type anchor struct {
	syntax string
	field  ir.Field

	// added is false when the contribution was a duplicate set entry and
	// so never landed in its field.
	added bool

	// group is the index of the open OR group, or -1.
	group int
}

type builder struct {
	q        ir.Query
	anchor   *anchor
	awaiting bool
}

func (b *builder) step(tok grammar.Classified) {
	if _, ok := tok.(grammar.Or); ok {
		b.or()
		return
	}
	if isEmptyPhrase(tok) {
		return
	}

	syntax, ok := groupable(tok)
	if !ok {
		b.breakChain()
		b.contribute(tok)
		return
	}

	if b.awaiting {
		b.join(syntax)
		return
	}
	field, _, _ := tok.Contribution()
	b.anchor = &anchor{syntax: syntax, field: field, added: b.contribute(tok), group: -1}
}

func (b *builder) or() {
	switch {
	case b.awaiting:
		// "a OR OR b": neither keyword has a partner.
		b.breakChain()
		b.appendText(orLiteral)
	case b.anchor == nil:
		b.appendText(orLiteral)
	default:
		b.awaiting = true
	}
}

// join pairs the anchor with the token after an OR.
func (b *builder) join(syntax string) {
	b.awaiting = false
	a := b.anchor
	if a.group >= 0 {
		b.q.OrGroups[a.group] = append(b.q.OrGroups[a.group], syntax)
		return
	}
	if a.added {
		b.pop(a.field)
	}
	b.q.OrGroups = append(b.q.OrGroups, []string{a.syntax, syntax})
	a.group = len(b.q.OrGroups) - 1
}

// breakChain ends any grouping in progress. A pending OR without a
// partner becomes literal text.
func (b *builder) breakChain() {
	if b.awaiting {
		b.appendText(orLiteral)
		b.awaiting = false
	}
	b.anchor = nil
}

// contribute applies tok to its field and reports whether a new entry was
// stored.
func (b *builder) contribute(tok grammar.Classified) bool {
	field, value, negated := tok.Contribution()
	if negated {
		b.q.Exclude = append(b.q.Exclude, exclusion(tok))
		return true
	}

	switch {
	case field.IsSequence():
		b.appendText(value.String())
		return true
	case field.IsSet():
		s := b.q.Strings(field)
		if slices.Contains(*s, value.String()) {
			return false
		}
		*s = append(*s, value.String())
		return true
	case field == ir.FieldSince || field == ir.FieldUntil:
		*b.q.Date(field) = value.String()
		return true
	case field.IsSingle():
		if n, ok := value.(grammar.CountValue); ok {
			*b.q.Minimum(field) = ir.Count(int64(n))
			return true
		}
	}
	return false
}

func (b *builder) appendText(s string) {
	b.q.Text = append(b.q.Text, s)
}

// pop removes the most recent entry of f. The anchor is always the last
// contribution to its field, so this is the anchor's own value.
func (b *builder) pop(f ir.Field) {
	s := b.q.Strings(f)
	if s == nil || len(*s) == 0 {
		return
	}
	*s = (*s)[:len(*s)-1]
	if len(*s) == 0 {
		*s = nil
	}
}

// groupable reports whether tok may take part in an OR group and returns
// the query-syntax form it is stored under.
func groupable(tok grammar.Classified) (string, bool) {
	switch t := tok.(type) {
	case grammar.Term:
		return t.Syntax, !t.Negated
	case grammar.Malformed:
		return t.Text, !t.Negated
	case grammar.Operator:
		return t.Syntax, !t.Negated && t.Field.IsSet()
	}
	return "", false
}

// exclusion is the exclude entry for a negated token. Plain words and
// phrases are stored bare; everything else keeps its query syntax so the
// operator meaning survives.
func exclusion(tok grammar.Classified) string {
	switch t := tok.(type) {
	case grammar.Term:
		if t.Field == ir.FieldText {
			return t.Value
		}
		return t.Syntax
	case grammar.Operator:
		return t.Syntax
	case grammar.Malformed:
		return t.Text
	}
	return ""
}

func isEmptyPhrase(tok grammar.Classified) bool {
	t, ok := tok.(grammar.Term)
	return ok && t.Phrase && t.Value == ""
}
