package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlcheck/internal/extractor"
	"xlcheck/internal/finding"
	"xlcheck/internal/schema"
)

func pointSchema() *schema.Schema {
	return &schema.Schema{
		Types: []schema.TypeSpec{
			{
				Name: "Point",
				Fields: []schema.FieldSpec{
					{Name: "x", Type: "float"},
					{Name: "y", Type: "float"},
					{Name: "guid", Type: "guid"},
				},
				Methods: []schema.MethodSpec{
					{Name: "distance_to", Params: []string{"Point"}, Returns: "float"},
					{Name: "to_json", Params: []string{}, Returns: "str"},
				},
			},
		},
	}
}

func conformingPython() Extraction {
	return Extraction{
		Language: "python",
		File:     "point.py",
		Unit: &extractor.SourceUnit{
			Language: "python",
			Types: []extractor.TypeDecl{{
				Name: "Point",
				Fields: []extractor.FieldDecl{
					{Name: "x", Type: "float"},
					{Name: "y", Type: "float"},
					{Name: "guid", Type: "uuid"},
				},
				Methods: []extractor.MethodDecl{
					{Name: "distance_to", Params: []string{"Point"}, Returns: "float"},
					{Name: "to_json", Params: []string{}, Returns: "str"},
				},
			}},
		},
	}
}

func TestDiffConforming(t *testing.T) {
	findings := Diff(pointSchema(), []Extraction{conformingPython()})
	assert.Empty(t, findings)
}

func TestDiffMissingType(t *testing.T) {
	empty := Extraction{
		Language: "python",
		File:     "other.py",
		Unit:     &extractor.SourceUnit{Language: "python"},
	}
	findings := Diff(pointSchema(), []Extraction{empty})
	require.Len(t, findings, 1)
	assert.Equal(t, finding.KindMissingType, findings[0].Kind)
	assert.Equal(t, "python", findings[0].Language)
	assert.Equal(t, "Point", findings[0].Type)
}

func TestDiffMissingMembers(t *testing.T) {
	ex := conformingPython()
	ex.Unit.Types[0].Fields = ex.Unit.Types[0].Fields[:2] // drop guid
	ex.Unit.Types[0].Methods = ex.Unit.Types[0].Methods[:1] // drop to_json

	findings := Diff(pointSchema(), []Extraction{ex})
	require.Len(t, findings, 2)

	assert.Equal(t, finding.KindMissingField, findings[0].Kind)
	assert.Equal(t, "guid", findings[0].Member)
	assert.Equal(t, finding.KindMissingMethod, findings[1].Kind)
	assert.Equal(t, "to_json", findings[1].Member)
}

func TestDiffParamCountMismatch(t *testing.T) {
	ex := conformingPython()
	ex.Unit.Types[0].Methods[0].Params = []string{"Point", "float"}

	findings := Diff(pointSchema(), []Extraction{ex})
	require.Len(t, findings, 1, "arity mismatch reports once, not per parameter")
	assert.Equal(t, finding.KindSignatureMismatch, findings[0].Kind)
	assert.Equal(t, "distance_to", findings[0].Member)
	assert.Contains(t, findings[0].Detail, "1 parameter(s), found 2")
}

func TestDiffFieldTypeMismatch(t *testing.T) {
	ex := conformingPython()
	ex.Unit.Types[0].Fields[0].Type = "str"

	findings := Diff(pointSchema(), []Extraction{ex})
	require.Len(t, findings, 1)
	assert.Equal(t, finding.KindSignatureMismatch, findings[0].Kind)
	assert.Equal(t, "x", findings[0].Member)
	assert.Contains(t, findings[0].Detail, "should be float, found str")
}

func TestDiffReturnTypeMismatch(t *testing.T) {
	ex := conformingPython()
	ex.Unit.Types[0].Methods[0].Returns = "i64"

	findings := Diff(pointSchema(), []Extraction{ex})
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Detail, "should return float, found int")
}

func TestDiffSkipsUnconfiguredLanguages(t *testing.T) {
	// Only python is configured, so rust and cpp produce no missing-type
	// noise.
	findings := Diff(pointSchema(), []Extraction{conformingPython()})
	for _, f := range findings {
		assert.Equal(t, "python", f.Language)
	}
}

func TestDiffFailedExtractionIsMissingType(t *testing.T) {
	failed := Extraction{Language: "rust", File: "point.rs", Unit: nil}
	findings := Diff(pointSchema(), []Extraction{conformingPython(), failed})
	require.Len(t, findings, 1)
	assert.Equal(t, finding.KindMissingType, findings[0].Kind)
	assert.Equal(t, "rust", findings[0].Language)
}

func TestDiffDeterministic(t *testing.T) {
	ex := conformingPython()
	ex.Unit.Types[0].Fields = nil
	ex.Unit.Types[0].Methods = nil

	first := Diff(pointSchema(), []Extraction{ex})
	second := Diff(pointSchema(), []Extraction{ex})
	assert.Equal(t, first, second)
}

func TestCanonicalType(t *testing.T) {
	for raw, want := range map[string]string{
		"f32":                "float",
		"f64":                "float",
		"double":             "float",
		"&Point":             "point",
		"const Point":        "point",
		"const std::string":  "str",
		"&str":               "str",
		"String":             "str",
		"&mut Vec<f32>":      "vec<f32>",
		" i32 ":              "int",
	} {
		assert.Equal(t, want, canonicalType(raw), raw)
	}
}

func TestTypeMismatch(t *testing.T) {
	t.Run("ScalarDisagreement", func(t *testing.T) {
		mismatch, want, got := typeMismatch("float", "String")
		assert.True(t, mismatch)
		assert.Equal(t, "float", want)
		assert.Equal(t, "str", got)
	})

	t.Run("EquivalentSpellings", func(t *testing.T) {
		mismatch, _, _ := typeMismatch("float", "f64")
		assert.False(t, mismatch)
	})

	t.Run("NonScalarNeverFlagged", func(t *testing.T) {
		mismatch, _, _ := typeMismatch("guid", "Uuid")
		assert.False(t, mismatch)
	})

	t.Run("UnknownSideSkipped", func(t *testing.T) {
		mismatch, _, _ := typeMismatch("float", "")
		assert.False(t, mismatch)
	})
}
