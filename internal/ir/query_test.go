package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldCardinality(t *testing.T) {
	for _, f := range Fields {
		t.Run(string(f), func(t *testing.T) {
			kinds := 0
			for _, is := range []bool{f.IsSet(), f.IsSequence(), f.IsSingle(), f == FieldOrGroups} {
				if is {
					kinds++
				}
			}
			assert.Equal(t, 1, kinds, "field %s must have exactly one cardinality", f)
		})
	}
}

func TestSetFields(t *testing.T) {
	q := Query{Lang: []string{"en"}, Until: "2024-01-01", MinReplies: Count(3)}
	assert.Equal(t, []Field{FieldLang, FieldUntil, FieldMinReplies}, q.SetFields())
	assert.False(t, q.IsEmpty())
	assert.True(t, Query{}.IsEmpty())
}

func TestQueryJSONOmitsAbsentFields(t *testing.T) {
	q := Query{Lang: []string{"en"}}

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lang":["en"]}`, string(data))
}

func TestQueryJSONKeys(t *testing.T) {
	q := Query{
		Text:        []string{"a"},
		Hashtags:    []string{"b"},
		Mentions:    []string{"c"},
		From:        []string{"d"},
		To:          []string{"e"},
		Lang:        []string{"en"},
		Filter:      []string{"media"},
		URL:         []string{"example.com"},
		Since:       "2023-01-01",
		Until:       "2023-02-01",
		Exclude:     []string{"f"},
		MinRetweets: Count(1),
		MinFaves:    Count(2),
		MinReplies:  Count(3),
		OrGroups:    [][]string{{"g", "h"}},
	}

	data, err := json.Marshal(q)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, f := range Fields {
		assert.Contains(t, raw, string(f))
	}
	assert.Len(t, raw, len(Fields))
}

func TestFingerprintStable(t *testing.T) {
	a := Query{From: []string{"twitter"}, Hashtags: []string{"react"}}
	b := Query{Hashtags: []string{"react"}, From: []string{"twitter"}, Text: []string{}}

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 64)

	fc, err := Fingerprint(Query{From: []string{"other"}})
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}
