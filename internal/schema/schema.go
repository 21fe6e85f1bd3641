package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"xlcheck/internal/finding"
)

// FieldSpec names one required field and its semantic type.
type FieldSpec struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MethodSpec names one required method with its parameter and return types.
type MethodSpec struct {
	Name    string   `json:"name"`
	Params  []string `json:"params"`
	Returns string   `json:"returns"`
}

// TypeSpec is the required member set of one type.
type TypeSpec struct {
	Name    string
	Fields  []FieldSpec
	Methods []MethodSpec
}

// Point is a literal 3D input for a behavioral case.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Case is one behavioral scenario: literal inputs, an operation to invoke,
// and the expected numeric output within a tolerance.
type Case struct {
	Name      string  `json:"name"`
	Operation string  `json:"operation"`
	P1        Point   `json:"p1"`
	P2        Point   `json:"p2"`
	Expected  float64 `json:"expected"`
	Tolerance float64 `json:"tolerance"`
}

// DefaultTolerance is applied when a case omits its own.
const DefaultTolerance = 1e-9

// Schema is the immutable contract every language implementation must
// satisfy. Types preserves declaration order so reports are deterministic.
type Schema struct {
	Types []TypeSpec
	Cases []Case
}

// TypeByName returns the spec for a type, or nil if the schema does not
// require it.
func (s *Schema) TypeByName(name string) *TypeSpec {
	for i := range s.Types {
		if s.Types[i].Name == name {
			return &s.Types[i]
		}
	}
	return nil
}

type typeBody struct {
	Fields  []FieldSpec  `json:"fields"`
	Methods []MethodSpec `json:"methods"`
}

type document struct {
	Types json.RawMessage `json:"types"`
	Cases []Case          `json:"behavioral_cases"`
}

// Load reads and validates a schema document. Any malformed or missing
// required section is a ConfigurationError; the caller must treat it as
// fatal.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &finding.ConfigurationError{Path: path, Err: err}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &finding.ConfigurationError{Path: path, Err: err}
	}
	if len(doc.Types) == 0 {
		return nil, &finding.ConfigurationError{Path: path, Err: fmt.Errorf("missing required section %q", "types")}
	}

	types, err := decodeTypes(doc.Types)
	if err != nil {
		return nil, &finding.ConfigurationError{Path: path, Err: err}
	}
	if len(types) == 0 {
		return nil, &finding.ConfigurationError{Path: path, Err: fmt.Errorf("section %q lists no types", "types")}
	}

	for i := range doc.Cases {
		if doc.Cases[i].Name == "" {
			return nil, &finding.ConfigurationError{Path: path, Err: fmt.Errorf("behavioral case %d has no name", i)}
		}
		if doc.Cases[i].Tolerance <= 0 {
			doc.Cases[i].Tolerance = DefaultTolerance
		}
	}

	return &Schema{Types: types, Cases: doc.Cases}, nil
}

// decodeTypes walks the "types" object token by token so declaration order
// survives decoding. encoding/json maps would shuffle it.
func decodeTypes(raw json.RawMessage) ([]TypeSpec, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("bad %q section: %w", "types", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("section %q must be an object", "types")
	}

	var types []TypeSpec
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("bad type name: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("type name must be a non-empty string")
		}

		var body typeBody
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("bad member list for type %q: %w", name, err)
		}
		if body.Fields == nil && body.Methods == nil {
			return nil, fmt.Errorf("type %q declares neither fields nor methods", name)
		}
		for _, m := range body.Methods {
			if m.Name == "" {
				return nil, fmt.Errorf("type %q has a method without a name", name)
			}
		}
		for _, f := range body.Fields {
			if f.Name == "" {
				return nil, fmt.Errorf("type %q has a field without a name", name)
			}
		}

		types = append(types, TypeSpec{Name: name, Fields: body.Fields, Methods: body.Methods})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("bad %q section: %w", "types", err)
	}
	return types, nil
}
