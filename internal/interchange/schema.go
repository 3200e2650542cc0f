package interchange

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tsq/internal/validate"
)

//go:embed schema.cue
var schemaSource string

// Schema returns the CUE source of the interchange schema.
func Schema() string {
	return schemaSource
}

// CheckSchema unifies an interchange document with the #Query schema and
// returns one validate.ErrSchema error per violation. The error return is
// reserved for documents that cannot be parsed at all (*DecodeError) and
// for a broken schema.
func CheckSchema(data []byte, f Format) ([]validate.ValidationError, error) {
	doc, err := toJSON(data, f)
	if err != nil {
		return nil, &DecodeError{Format: f, Err: err}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling interchange schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Query"))

	value := ctx.CompileBytes(doc, cue.Filename("query.json"))
	if err := value.Err(); err != nil {
		return nil, &DecodeError{Format: f, Err: err}
	}

	err = def.Unify(value).Validate(cue.Concrete(true))
	if err == nil {
		return nil, nil
	}

	var out []validate.ValidationError
	for _, e := range errors.Errors(err) {
		format, args := e.Msg()
		field := strings.Join(e.Path(), ".")
		if field == "" {
			field = "query"
		}
		out = append(out, validate.ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    validate.ErrSchema,
		})
	}
	return out, nil
}

// toJSON converts a document in any supported format into plain JSON,
// which CUE reads natively.
func toJSON(data []byte, f Format) ([]byte, error) {
	switch f {
	case JSON:
		if !json.Valid(data) {
			return nil, fmt.Errorf("malformed JSON")
		}
		return data, nil
	case HuJSON:
		return Standardize(data)
	case YAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if doc == nil {
			doc = map[string]any{}
		}
		return json.Marshal(doc)
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}
