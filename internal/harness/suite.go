package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tsq/internal/ir"
)

// Suite is a named collection of fixture cases.
type Suite struct {
	// Name uniquely identifies this suite.
	Name string `yaml:"name"`

	// Description explains what the suite covers.
	Description string `yaml:"description"`

	// Cases run in file order.
	Cases []Case `yaml:"cases"`
}

// Case is one raw query and what encoding it must produce.
type Case struct {
	// Name identifies the case within its suite and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	// Query is the raw search string to encode.
	Query string `yaml:"query"`

	Expect Expect `yaml:"expect"`
}

// Expect lists the checks for a case. At least one must be set.
type Expect struct {
	// Structured is the exact structured query expected from Encode.
	Structured *ir.Query `yaml:"structured,omitempty"`

	// Canonical is the expected Decode output.
	Canonical *string `yaml:"canonical,omitempty"`

	// Fields lists the populated fields, in declaration order.
	Fields []ir.Field `yaml:"fields,omitempty"`
}

// LoadSuite reads and parses a suite YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite parses suite YAML.
func ParseSuite(data []byte) (*Suite, error) {
	// Strict field validation catches typos like "canonicle:"
	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateSuite(&suite); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}

	return &suite, nil
}

// validateSuite checks that required fields are present and valid.
func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		if c.Expect.Structured == nil && c.Expect.Canonical == nil && len(c.Expect.Fields) == 0 {
			return fmt.Errorf("cases[%d] (%s): expect needs structured, canonical or fields", i, c.Name)
		}
		for j, f := range c.Expect.Fields {
			if !knownField(f) {
				return fmt.Errorf("cases[%d].expect.fields[%d]: unknown field %q", i, j, f)
			}
		}
	}

	return nil
}

func knownField(f ir.Field) bool {
	for _, known := range ir.Fields {
		if f == known {
			return true
		}
	}
	return false
}
