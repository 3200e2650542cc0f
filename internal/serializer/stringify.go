// Package serializer renders a structured query back into query syntax.
//
// Output order is fixed, whatever the order of the input string:
//
//	text, orGroups, #hashtags, @mentions, from:, to:, lang:, filter:, url:,
//	since:, until:, min_retweets:, min_faves:, min_replies:, -exclude
//
// Every entry is written so that encoding the output yields the same
// query again. Terms that would re-read as something else (an operator,
// a hashtag, the OR keyword, several words) are quoted.
package serializer

import (
	"strconv"
	"strings"

	"github.com/roach88/tsq/internal/grammar"
	"github.com/roach88/tsq/internal/ir"
	"github.com/roach88/tsq/internal/lexer"
)

// Stringify renders q in canonical order. It is total: it never validates
// and skips empty entries. An empty query renders as "".
func Stringify(q ir.Query) string {
	w := &writer{}

	for _, t := range q.Text {
		w.term(textTerm(t))
	}
	for _, g := range q.OrGroups {
		w.term(orGroup(g))
	}
	w.prefixed("#", q.Hashtags)
	w.prefixed("@", q.Mentions)
	for _, f := range []ir.Field{ir.FieldFrom, ir.FieldTo, ir.FieldLang, ir.FieldFilter, ir.FieldURL} {
		w.prefixed(grammar.OperatorName(f)+":", *q.Strings(f))
	}
	if q.Since != "" {
		w.term("since:" + q.Since)
	}
	if q.Until != "" {
		w.term("until:" + q.Until)
	}
	for _, f := range []ir.Field{ir.FieldMinRetweets, ir.FieldMinFaves, ir.FieldMinReplies} {
		if n := *q.Minimum(f); n != nil {
			w.term(grammar.OperatorName(f) + ":" + strconv.FormatInt(*n, 10))
		}
	}
	for _, e := range q.Exclude {
		w.term(exclusion(e))
	}

	return w.b.String()
}

type writer struct {
	b strings.Builder
}

func (w *writer) term(s string) {
	if s == "" {
		return
	}
	if w.b.Len() > 0 {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(s)
}

func (w *writer) prefixed(prefix string, values []string) {
	for _, v := range values {
		if v != "" {
			w.term(prefix + v)
		}
	}
}

// textTerm returns t bare when it reads back as the same plain text term,
// quoted otherwise.
func textTerm(t string) string {
	if t == "" {
		return ""
	}
	tok, ok := single(t)
	if !ok || tok.Negated || tok.Kind == lexer.QuotedPhrase {
		return lexer.Quote(t)
	}
	switch c := grammar.Classify(tok).(type) {
	case grammar.Term:
		if c.Field == ir.FieldText && c.Value == t {
			return t
		}
	case grammar.Malformed:
		if c.Text == t {
			return t
		}
	}
	return lexer.Quote(t)
}

// orGroup renders the non-empty members of g joined by OR.
func orGroup(g []string) string {
	members := make([]string, 0, len(g))
	for _, m := range g {
		if m != "" {
			members = append(members, groupMember(m))
		}
	}
	return strings.Join(members, " OR ")
}

// groupMember keeps m verbatim when it is already one groupable token in
// query syntax ("#react", "from:bob", "\"a phrase\"").
func groupMember(m string) string {
	tok, ok := single(m)
	if !ok || tok.Negated {
		return lexer.Quote(m)
	}
	switch c := grammar.Classify(tok).(type) {
	case grammar.Term, grammar.Malformed:
		return m
	case grammar.Operator:
		if c.Field.IsSet() {
			return m
		}
	}
	return lexer.Quote(m)
}

// exclusion renders e with a leading '-', quoting it unless the sign can
// be attached directly.
func exclusion(e string) string {
	if e == "" {
		return ""
	}
	if tok, ok := single("-" + e); ok && tok.Negated && tok.Kind != lexer.QuotedPhrase {
		return "-" + e
	}
	return "-" + lexer.Quote(e)
}

// single tokenizes s and returns its only token when s is exactly one
// token with nothing around it.
func single(s string) (lexer.Token, bool) {
	tokens := lexer.Tokenize(s)
	if len(tokens) != 1 || tokens[0].Raw != s {
		return lexer.Token{}, false
	}
	return tokens[0], true
}
