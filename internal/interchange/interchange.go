// Package interchange converts structured queries to and from the text
// formats exchanged with presentation layers.
//
// JSON is the primary format. YAML and HuJSON (JSON with comments and
// trailing commas) are accepted as input dialects of the same object.
// Decoding is strict: unknown keys and trailing documents are errors.
package interchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tsq/internal/ir"
)

// ErrCodeDecode is the error code for malformed interchange text.
const ErrCodeDecode = "E010"

// Format is an interchange text format.
type Format string

const (
	JSON   Format = "json"
	YAML   Format = "yaml"
	HuJSON Format = "hujson"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML, HuJSON}

// ParseFormat maps a format name (case-insensitive) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "hujson", "jwcc":
		return HuJSON, nil
	}
	return "", fmt.Errorf("unknown interchange format %q (want json, yaml or hujson)", s)
}

// DecodeError reports interchange text that is not a valid query document.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid %s document: %v", ErrCodeDecode, e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Code returns the stable error code.
func (e *DecodeError) Code() string {
	return ErrCodeDecode
}

// Unmarshal decodes data in format f into a Query.
// Values are not validated beyond their JSON/YAML types.
func Unmarshal(data []byte, f Format) (ir.Query, error) {
	var q ir.Query
	var err error
	switch f {
	case JSON:
		q, err = unmarshalJSON(data)
	case YAML:
		q, err = unmarshalYAML(data)
	case HuJSON:
		var std []byte
		std, err = Standardize(data)
		if err == nil {
			q, err = unmarshalJSON(std)
		}
	default:
		err = fmt.Errorf("unsupported format %q", f)
	}
	if err != nil {
		return ir.Query{}, &DecodeError{Format: f, Err: err}
	}
	return q, nil
}

// Standardize strips comments and trailing commas from HuJSON.
func Standardize(b []byte) ([]byte, error) {
	ast, err := hujson.Parse(b)
	if err != nil {
		return nil, err
	}
	ast.Standardize()
	return ast.Pack(), nil
}

func unmarshalJSON(data []byte) (ir.Query, error) {
	var q ir.Query
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&q); err != nil {
		if errors.Is(err, io.EOF) {
			return q, errors.New("empty document")
		}
		return q, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return q, errors.New("unexpected data after the query object")
	}
	return q, nil
}

func unmarshalYAML(data []byte) (ir.Query, error) {
	var q ir.Query
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&q); err != nil {
		if errors.Is(err, io.EOF) {
			return q, errors.New("empty document")
		}
		return q, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return q, errors.New("unexpected second YAML document")
	}
	return q, nil
}

// Marshal encodes q in format f. HuJSON output is plain JSON.
// Unset fields are omitted. HTML characters are not escaped.
func Marshal(q ir.Query, f Format, indent bool) ([]byte, error) {
	switch f {
	case JSON, HuJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if indent {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(q); err != nil {
			return nil, fmt.Errorf("failed to encode query as JSON: %w", err)
		}
		return bytes.TrimRight(buf.Bytes(), "\n"), nil

	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(q); err != nil {
			return nil, fmt.Errorf("failed to encode query as YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode query as YAML: %w", err)
		}
		return bytes.TrimRight(buf.Bytes(), "\n"), nil
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}
