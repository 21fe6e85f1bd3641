package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"xlcheck/internal/finding"
)

// Languages is the fixed language order used for deterministic reporting.
var Languages = []string{"python", "rust", "cpp"}

// FileSet is the validation config: which files to check per language and
// where the schema lives. Edited in place by add/remove with a whole-file
// rewrite, so there is no partial-write corruption window.
type FileSet struct {
	SchemaFile  string   `json:"schema_file"`
	PythonFiles []string `json:"python_files"`
	RustFiles   []string `json:"rust_files"`
	CppFiles    []string `json:"cpp_files"`
}

// NormalizeLanguage maps user-facing language spellings to the canonical
// names in Languages.
func NormalizeLanguage(lang string) (string, error) {
	switch strings.ToLower(lang) {
	case "python", "py":
		return "python", nil
	case "rust", "rs":
		return "rust", nil
	case "cpp", "c++", "cxx":
		return "cpp", nil
	}
	return "", fmt.Errorf("unknown language %q (expected python, rust, or cpp)", lang)
}

// LoadFileSet reads the validation config document.
func LoadFileSet(path string) (*FileSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &finding.ConfigurationError{Path: path, Err: err}
	}

	var fs FileSet
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, &finding.ConfigurationError{Path: path, Err: err}
	}
	if fs.SchemaFile == "" {
		return nil, &finding.ConfigurationError{Path: path, Err: fmt.Errorf("missing required field %q", "schema_file")}
	}
	return &fs, nil
}

// LoadOrInitFileSet is LoadFileSet, except a missing file yields an empty
// config so add can bootstrap one.
func LoadOrInitFileSet(path string) (*FileSet, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &FileSet{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &finding.ConfigurationError{Path: path, Err: err}
	}
	var fs FileSet
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, &finding.ConfigurationError{Path: path, Err: err}
	}
	return &fs, nil
}

// Save rewrites the whole config document.
func (f *FileSet) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

// ForLanguage returns the configured files for one canonical language.
func (f *FileSet) ForLanguage(lang string) []string {
	switch lang {
	case "python":
		return f.PythonFiles
	case "rust":
		return f.RustFiles
	case "cpp":
		return f.CppFiles
	}
	return nil
}

// Add appends a path to a language's file list. Adding a path that is
// already present is an error.
func (f *FileSet) Add(lang, path string) error {
	lang, err := NormalizeLanguage(lang)
	if err != nil {
		return err
	}
	for _, existing := range f.ForLanguage(lang) {
		if existing == path {
			return fmt.Errorf("%s is already in the %s file list", path, lang)
		}
	}
	switch lang {
	case "python":
		f.PythonFiles = append(f.PythonFiles, path)
	case "rust":
		f.RustFiles = append(f.RustFiles, path)
	case "cpp":
		f.CppFiles = append(f.CppFiles, path)
	}
	return nil
}

// Remove drops a path from a language's file list. Removing an absent path
// is an error.
func (f *FileSet) Remove(lang, path string) error {
	lang, err := NormalizeLanguage(lang)
	if err != nil {
		return err
	}
	files := f.ForLanguage(lang)
	idx := -1
	for i, existing := range files {
		if existing == path {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%s is not in the %s file list", path, lang)
	}
	files = append(files[:idx], files[idx+1:]...)
	switch lang {
	case "python":
		f.PythonFiles = files
	case "rust":
		f.RustFiles = files
	case "cpp":
		f.CppFiles = files
	}
	return nil
}

// ResolveRelative returns a copy with every relative path resolved against
// base, the directory the config document lives in. The original paths stay
// untouched so add/remove rewrites keep the user's spelling.
func (f *FileSet) ResolveRelative(base string) *FileSet {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	resolved := &FileSet{SchemaFile: resolve(f.SchemaFile)}
	for _, p := range f.PythonFiles {
		resolved.PythonFiles = append(resolved.PythonFiles, resolve(p))
	}
	for _, p := range f.RustFiles {
		resolved.RustFiles = append(resolved.RustFiles, resolve(p))
	}
	for _, p := range f.CppFiles {
		resolved.CppFiles = append(resolved.CppFiles, resolve(p))
	}
	return resolved
}

// TotalFiles counts every configured source file.
func (f *FileSet) TotalFiles() int {
	return len(f.PythonFiles) + len(f.RustFiles) + len(f.CppFiles)
}
