package ir

// DateLayout is the ISO 8601 calendar date layout used by since/until.
const DateLayout = "2006-01-02"

// Field names a Query field. The string value is the interchange key.
type Field string

const (
	FieldText        Field = "text"
	FieldHashtags    Field = "hashtags"
	FieldMentions    Field = "mentions"
	FieldFrom        Field = "from"
	FieldTo          Field = "to"
	FieldLang        Field = "lang"
	FieldFilter      Field = "filter"
	FieldURL         Field = "url"
	FieldSince       Field = "since"
	FieldUntil       Field = "until"
	FieldExclude     Field = "exclude"
	FieldMinRetweets Field = "minRetweets"
	FieldMinFaves    Field = "minFaves"
	FieldMinReplies  Field = "minReplies"
	FieldOrGroups    Field = "orGroups"
)

// Fields lists every field in declaration order.
var Fields = []Field{
	FieldText, FieldHashtags, FieldMentions, FieldFrom, FieldTo, FieldLang,
	FieldFilter, FieldURL, FieldSince, FieldUntil, FieldExclude,
	FieldMinRetweets, FieldMinFaves, FieldMinReplies, FieldOrGroups,
}

// IsSet reports whether the field holds a set of strings
// (first-encounter order, no duplicates).
func (f Field) IsSet() bool {
	switch f {
	case FieldHashtags, FieldMentions, FieldFrom, FieldTo, FieldLang, FieldFilter, FieldURL:
		return true
	}
	return false
}

// IsSequence reports whether the field holds an ordered sequence of
// strings that may repeat.
func (f Field) IsSequence() bool {
	return f == FieldText || f == FieldExclude
}

// IsSingle reports whether the field holds at most one value.
// Repeated operators for a single field resolve last-token-wins.
func (f Field) IsSingle() bool {
	switch f {
	case FieldSince, FieldUntil, FieldMinRetweets, FieldMinFaves, FieldMinReplies:
		return true
	}
	return false
}

// Query is the structured form of a search query.
//
// A Query is a plain value: the builder creates a fresh one per encode call
// and nothing mutates it afterwards. Unset fields are nil or "" and are
// omitted from every interchange encoding.
type Query struct {
	Text     []string `json:"text,omitempty" yaml:"text,omitempty"`
	Hashtags []string `json:"hashtags,omitempty" yaml:"hashtags,omitempty"`
	Mentions []string `json:"mentions,omitempty" yaml:"mentions,omitempty"`
	From     []string `json:"from,omitempty" yaml:"from,omitempty"`
	To       []string `json:"to,omitempty" yaml:"to,omitempty"`
	Lang     []string `json:"lang,omitempty" yaml:"lang,omitempty"`
	Filter   []string `json:"filter,omitempty" yaml:"filter,omitempty"`
	URL      []string `json:"url,omitempty" yaml:"url,omitempty"`

	// Since and Until hold ISO 8601 calendar dates (DateLayout).
	// They are strings so that malformed values supplied over the
	// interchange survive decoding and reach the validation layer.
	Since string `json:"since,omitempty" yaml:"since,omitempty"`
	Until string `json:"until,omitempty" yaml:"until,omitempty"`

	// Exclude holds negated terms. Phrases are bare; negated hashtags,
	// mentions and operators keep their query syntax ("#tag", "from:bob").
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	MinRetweets *int64 `json:"minRetweets,omitempty" yaml:"minRetweets,omitempty"`
	MinFaves    *int64 `json:"minFaves,omitempty" yaml:"minFaves,omitempty"`
	MinReplies  *int64 `json:"minReplies,omitempty" yaml:"minReplies,omitempty"`

	// OrGroups holds alternatives joined by OR. Members are in query
	// syntax ("#react", "from:bob", "\"exact phrase\"") so each keeps its
	// operator meaning.
	OrGroups [][]string `json:"orGroups,omitempty" yaml:"orGroups,omitempty"`
}

// Count returns a pointer to n, for populating the Min* fields.
func Count(n int64) *int64 {
	return &n
}

// Strings returns a pointer to the string slice backing a set or sequence
// field, or nil for any other field.
func (q *Query) Strings(f Field) *[]string {
	switch f {
	case FieldText:
		return &q.Text
	case FieldHashtags:
		return &q.Hashtags
	case FieldMentions:
		return &q.Mentions
	case FieldFrom:
		return &q.From
	case FieldTo:
		return &q.To
	case FieldLang:
		return &q.Lang
	case FieldFilter:
		return &q.Filter
	case FieldURL:
		return &q.URL
	case FieldExclude:
		return &q.Exclude
	}
	return nil
}

// Date returns a pointer to the since/until field, or nil.
func (q *Query) Date(f Field) *string {
	switch f {
	case FieldSince:
		return &q.Since
	case FieldUntil:
		return &q.Until
	}
	return nil
}

// Minimum returns a pointer to the count field, or nil.
func (q *Query) Minimum(f Field) **int64 {
	switch f {
	case FieldMinRetweets:
		return &q.MinRetweets
	case FieldMinFaves:
		return &q.MinFaves
	case FieldMinReplies:
		return &q.MinReplies
	}
	return nil
}

// IsEmpty reports whether no field is set.
func (q Query) IsEmpty() bool {
	return len(q.SetFields()) == 0
}

// SetFields returns the fields that carry a value, in declaration order.
func (q Query) SetFields() []Field {
	var out []Field
	for _, f := range Fields {
		if q.has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (q *Query) has(f Field) bool {
	if s := q.Strings(f); s != nil {
		return len(*s) > 0
	}
	if d := q.Date(f); d != nil {
		return *d != ""
	}
	if m := q.Minimum(f); m != nil {
		return *m != nil
	}
	return f == FieldOrGroups && len(q.OrGroups) > 0
}
