// Package harness runs fixture cases against the query transformer.
//
// # Case Format
//
// Cases are grouped in YAML suite files:
//
//	name: operators
//	description: "Operator families and their typed values"
//	cases:
//	  - name: example_query
//	    description: "The four-operator example"
//	    query: "from:twitter #react lang:en since:2023-01-01"
//	    expect:
//	      structured:
//	        from: [twitter]
//	        hashtags: [react]
//	        lang: [en]
//	        since: "2023-01-01"
//	      canonical: "#react from:twitter lang:en since:2023-01-01"
//	      fields: [hashtags, from, lang, since]
//
// Decoding is strict: unknown keys anywhere in the file are errors.
//
// # Expectations
//
//   - structured: the encoded query must equal this object exactly
//     (canonical JSON comparison, absent keys must stay absent)
//   - canonical: the decoded string must equal this text
//   - fields: the populated fields, in declaration order
//
// Every case also checks that its canonical form is a fixed point:
// encoding and decoding it again must reproduce it.
//
// # Golden Files
//
// RunWithGolden snapshots a case's query, structured result and
// canonical form as canonical JSON under testdata/golden. To regenerate:
//
//	go test ./internal/harness -update
package harness
