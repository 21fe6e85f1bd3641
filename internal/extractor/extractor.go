package extractor

import (
	"fmt"
	"os"
	"strings"
)

// LanguageExtractor turns one source file into a SourceUnit. The Python
// implementation walks a real syntax tree; the Rust and C++ ones pattern
// match over the text. Both sit behind this interface so a pattern matcher
// can be swapped for a proper parser without touching the comparator.
type LanguageExtractor interface {
	Language() string
	Extract(path string, source []byte) (*SourceUnit, error)
}

// ForLanguage creates an extractor for a canonical language name.
func ForLanguage(lang string) (LanguageExtractor, error) {
	switch lang {
	case "python":
		return NewPythonExtractor(), nil
	case "rust":
		return &RustExtractor{}, nil
	case "cpp":
		return &CppExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// ExtractFile reads and extracts a single source file. Unreadable or empty
// files are errors; the caller records them as findings and continues.
func ExtractFile(ext LanguageExtractor, path string) (*SourceUnit, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(source))) == 0 {
		return nil, fmt.Errorf("file %s is empty", path)
	}
	return ext.Extract(path, source)
}
