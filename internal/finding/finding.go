package finding

import "fmt"

// Kind classifies a single discrepancy between the schema and reality.
type Kind string

const (
	KindExtractionFailure Kind = "extraction-failure"
	KindMissingType       Kind = "missing-type"
	KindMissingField      Kind = "missing-field"
	KindMissingMethod     Kind = "missing-method"
	KindSignatureMismatch Kind = "signature-mismatch"
	KindBehavioral        Kind = "behavioral-mismatch"
)

// SubKind separates behavioral failures caused by the host environment
// (missing toolchain, compile error, timeout) from real inconsistencies.
type SubKind string

const (
	SubKindNone        SubKind = ""
	SubKindEnvironment SubKind = "build-environment"
	SubKindOutputParse SubKind = "output-parse"
	SubKindNumeric     SubKind = "numeric-mismatch"
)

// Finding is one reported discrepancy. Structural findings carry File and
// Type; behavioral findings carry Case and a SubKind.
type Finding struct {
	Language string  `json:"language"`
	File     string  `json:"file,omitempty"`
	Type     string  `json:"type,omitempty"`
	Member   string  `json:"member,omitempty"`
	Case     string  `json:"case,omitempty"`
	Kind     Kind    `json:"kind"`
	SubKind  SubKind `json:"subkind,omitempty"`
	Detail   string  `json:"detail,omitempty"`
}

func (f Finding) String() string {
	loc := f.File
	if loc == "" {
		loc = f.Case
	}
	if f.Type != "" {
		loc += " " + f.Type
	}
	if f.Member != "" {
		loc += "." + f.Member
	}
	if f.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s (%s)", f.Kind, f.Language, loc, f.Detail)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Kind, f.Language, loc)
}

// ConfigurationError marks a bad schema or config document. It is the only
// fatal error class: everything else degrades to a recorded Finding.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
