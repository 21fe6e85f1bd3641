package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPythonExtractor(t *testing.T) {
	ext, err := ForLanguage("python")
	require.NoError(t, err)

	unit, err := ExtractFile(ext, filepath.Join("testdata", "point.py"))
	require.NoError(t, err)
	require.Equal(t, "python", unit.Language)

	point := unit.TypeByName("Point")
	require.NotNil(t, point, "Point class should be found")

	t.Run("Fields", func(t *testing.T) {
		names := fieldNames(point)
		assert.Equal(t, []string{"x", "y", "z", "guid", "name", "pointcolor", "width"}, names)

		byName := fieldMap(point)
		assert.Equal(t, "str", byName["name"])
		assert.Equal(t, "float", byName["width"])
		assert.Equal(t, "Color", byName["pointcolor"])
		assert.Equal(t, "uuid", byName["guid"])
		assert.Equal(t, "", byName["x"], "plain assignment carries no inferable type")
	})

	t.Run("Methods", func(t *testing.T) {
		names := methodNames(point)
		assert.Contains(t, names, "__init__")
		assert.Contains(t, names, "distance_to")
		assert.Contains(t, names, "to_json_data")
		assert.Contains(t, names, "from_json_data")
		assert.Contains(t, names, "to_json")
		assert.Contains(t, names, "from_json")

		dist := methodByName(point, "distance_to")
		require.NotNil(t, dist)
		assert.Len(t, dist.Params, 1, "self is not a parameter")

		init := methodByName(point, "__init__")
		require.NotNil(t, init)
		assert.Len(t, init.Params, 3)

		// Decorated classmethods still count, with cls dropped.
		fromJSON := methodByName(point, "from_json")
		require.NotNil(t, fromJSON)
		assert.Len(t, fromJSON.Params, 1)
	})
}

func TestRustExtractor(t *testing.T) {
	ext, err := ForLanguage("rust")
	require.NoError(t, err)

	unit, err := ExtractFile(ext, filepath.Join("testdata", "point.rs"))
	require.NoError(t, err)

	point := unit.TypeByName("Point")
	require.NotNil(t, point, "Point struct should be found")

	t.Run("Fields", func(t *testing.T) {
		byName := fieldMap(point)
		assert.Len(t, point.Fields, 7)
		assert.Equal(t, "f32", byName["x"])
		assert.Equal(t, "String", byName["name"])
		assert.Equal(t, "Uuid", byName["guid"])
		assert.Equal(t, "Color", byName["pointcolor"])
	})

	t.Run("Methods", func(t *testing.T) {
		names := methodNames(point)
		assert.Equal(t, []string{"new", "distance_to", "to_json", "from_json"}, names)

		dist := methodByName(point, "distance_to")
		require.NotNil(t, dist)
		require.Len(t, dist.Params, 1, "&self is not a parameter")
		assert.Equal(t, "&Point", dist.Params[0])
		assert.Equal(t, "f32", dist.Returns)

		fromJSON := methodByName(point, "from_json")
		require.NotNil(t, fromJSON)
		require.Len(t, fromJSON.Params, 1)
		assert.Equal(t, "&str", fromJSON.Params[0])
	})

	t.Run("NonPublicMethodsSkipped", func(t *testing.T) {
		// fmt on the Display impl is not pub.
		assert.Nil(t, methodByName(point, "fmt"))
	})
}

func TestCppExtractor(t *testing.T) {
	ext, err := ForLanguage("cpp")
	require.NoError(t, err)

	unit, err := ExtractFile(ext, filepath.Join("testdata", "point.hpp"))
	require.NoError(t, err)

	point := unit.TypeByName("Point")
	require.NotNil(t, point, "Point class should be found")

	t.Run("Fields", func(t *testing.T) {
		byName := fieldMap(point)
		assert.Len(t, point.Fields, 7)
		assert.Equal(t, "double", byName["x"])
		assert.Equal(t, "std::string", byName["guid"])
		assert.Equal(t, "Color", byName["pointcolor"])
	})

	t.Run("Methods", func(t *testing.T) {
		dist := methodByName(point, "distance_to")
		require.NotNil(t, dist)
		assert.Equal(t, "double", dist.Returns)
		require.Len(t, dist.Params, 1)
		assert.Equal(t, "const Point", dist.Params[0])

		toJSON := methodByName(point, "to_json")
		require.NotNil(t, toJSON)
		assert.Equal(t, "std::string", toJSON.Returns)
		assert.Empty(t, toJSON.Params)

		fromJSON := methodByName(point, "from_json")
		require.NotNil(t, fromJSON)
		require.Len(t, fromJSON.Params, 1)
		assert.Equal(t, "const std::string", fromJSON.Params[0])

		// Constructor is recorded under the class name.
		ctor := methodByName(point, "Point")
		require.NotNil(t, ctor)
		assert.Len(t, ctor.Params, 3)
	})

	t.Run("NoStatementLeakage", func(t *testing.T) {
		// Locals inside stripped method bodies must never appear as fields.
		byName := fieldMap(point)
		assert.NotContains(t, byName, "dx")
		assert.NotContains(t, byName, "dy")
	})
}

func TestExtractFileErrors(t *testing.T) {
	ext, err := ForLanguage("python")
	require.NoError(t, err)

	t.Run("Unreadable", func(t *testing.T) {
		_, err := ExtractFile(ext, filepath.Join("testdata", "does_not_exist.py"))
		assert.Error(t, err)
	})

	t.Run("Empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.py")
		require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))
		_, err := ExtractFile(ext, path)
		assert.ErrorContains(t, err, "empty")
	})
}

func TestForLanguageUnsupported(t *testing.T) {
	_, err := ForLanguage("cobol")
	assert.Error(t, err)
}

func fieldNames(decl *TypeDecl) []string {
	var names []string
	for _, f := range decl.Fields {
		names = append(names, f.Name)
	}
	return names
}

func fieldMap(decl *TypeDecl) map[string]string {
	m := map[string]string{}
	for _, f := range decl.Fields {
		m[f.Name] = f.Type
	}
	return m
}

func methodNames(decl *TypeDecl) []string {
	var names []string
	for _, m := range decl.Methods {
		names = append(names, m.Name)
	}
	return names
}

func methodByName(decl *TypeDecl, name string) *MethodDecl {
	for i := range decl.Methods {
		if decl.Methods[i].Name == name {
			return &decl.Methods[i]
		}
	}
	return nil
}
