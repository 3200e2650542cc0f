// Package lexer splits a raw search query into lexical tokens.
//
// Tokenize never fails: the grammar is lenient, and anything that is not a
// recognized construct comes back as a plain Word.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the lexical category of a token.
type Kind int

const (
	Word Kind = iota
	QuotedPhrase
	Operator
	Hashtag
	Mention
	OrKeyword
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "Word"
	case QuotedPhrase:
		return "QuotedPhrase"
	case Operator:
		return "Operator"
	case Hashtag:
		return "Hashtag"
	case Mention:
		return "Mention"
	case OrKeyword:
		return "OrKeyword"
	}
	return "Unknown"
}

// Operators are the recognized operator names, in canonical order.
var Operators = []string{
	"from", "to", "lang", "since", "until",
	"min_retweets", "min_faves", "min_replies",
	"filter", "url",
}

// IsOperator reports whether name is a recognized operator name.
// Matching is case-sensitive.
func IsOperator(name string) bool {
	for _, op := range Operators {
		if op == name {
			return true
		}
	}
	return false
}

// Span is a half-open byte range [Start, End) into the raw input.
type Span struct {
	Start int
	End   int
}

// Token is one lexical unit of a query.
type Token struct {
	Kind Kind

	// Raw is the exact input text, including sign, sigil and quotes.
	Raw string

	// Value is the payload: the unescaped phrase content, the hashtag or
	// mention without its sigil, the operator suffix, or the word itself.
	Value string

	// Op is the operator name when Kind is Operator.
	Op string

	// Negated is set when a leading '-' was stripped from the token.
	Negated bool

	Span Span
}

// Tokenize scans raw left to right and returns its tokens in order.
func Tokenize(raw string) []Token {
	s := &scanner{input: raw}
	var tokens []Token
	for {
		s.skipSpace()
		if s.pos >= len(s.input) {
			return tokens
		}
		tokens = append(tokens, s.next())
	}
}

type scanner struct {
	input string
	pos   int
}

func (s *scanner) spaceAt(i int) bool {
	r, _ := utf8.DecodeRuneInString(s.input[i:])
	return unicode.IsSpace(r)
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.input) {
		r, size := utf8.DecodeRuneInString(s.input[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

func (s *scanner) next() Token {
	start := s.pos
	negated := false
	if s.input[s.pos] == '-' && s.pos+1 < len(s.input) && !s.spaceAt(s.pos+1) {
		negated = true
		s.pos++
	}

	var tok Token
	if s.input[s.pos] == '"' {
		tok = Token{Kind: QuotedPhrase, Value: s.readPhrase()}
	} else {
		tok = wordToken(s.readWord(), negated)
	}
	tok.Negated = negated
	tok.Raw = s.input[start:s.pos]
	tok.Span = Span{Start: start, End: s.pos}
	return tok
}

// readWord consumes everything up to the next whitespace. Quotes inside a
// word are literal.
func (s *scanner) readWord() string {
	start := s.pos
	for s.pos < len(s.input) {
		r, size := utf8.DecodeRuneInString(s.input[s.pos:])
		if unicode.IsSpace(r) {
			break
		}
		s.pos += size
	}
	return s.input[start:s.pos]
}

// readPhrase consumes a quoted phrase starting at the opening quote.
// \" and \\ are escapes; an unterminated phrase runs to end of input.
func (s *scanner) readPhrase() string {
	s.pos++
	var value strings.Builder
	for s.pos < len(s.input) {
		ch := s.input[s.pos]
		if ch == '\\' && s.pos+1 < len(s.input) {
			if next := s.input[s.pos+1]; next == '"' || next == '\\' {
				value.WriteByte(next)
				s.pos += 2
				continue
			}
		}
		s.pos++
		if ch == '"' {
			break
		}
		value.WriteByte(ch)
	}
	return value.String()
}

func wordToken(text string, negated bool) Token {
	if text == "OR" && !negated {
		return Token{Kind: OrKeyword, Value: text}
	}
	if len(text) > 1 {
		switch text[0] {
		case '#':
			return Token{Kind: Hashtag, Value: text[1:]}
		case '@':
			return Token{Kind: Mention, Value: text[1:]}
		}
	}
	if i := strings.IndexByte(text, ':'); i > 0 && IsOperator(text[:i]) {
		return Token{Kind: Operator, Op: text[:i], Value: text[i+1:]}
	}
	return Token{Kind: Word, Value: text}
}

// Quote renders s as a quoted phrase that Tokenize reads back as s.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}
