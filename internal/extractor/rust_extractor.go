package extractor

import (
	"regexp"
	"strings"
)

// RustExtractor pattern matches over the source text. It is best-effort by
// design: it cannot see through macros or unusual formatting, so it may
// under-report (surfacing as missing-member findings) but never crashes on
// a malformed declaration. Swapping in the tree-sitter rust grammar only
// requires replacing this type behind LanguageExtractor.
type RustExtractor struct{}

var (
	rustStructRe = regexp.MustCompile(`(?m)^\s*pub\s+struct\s+(\w+)`)
	rustImplRe   = regexp.MustCompile(`(?m)^\s*impl(?:\s*<[^>]*>)?\s+(?:[\w:]+\s+for\s+)?(\w+)`)
	rustFieldRe  = regexp.MustCompile(`(?m)^\s*pub\s+(\w+)\s*:\s*(.+?)\s*,?\s*$`)
	rustFnRe     = regexp.MustCompile(`(?m)^\s*pub\s+fn\s+(\w+)\s*\(([^)]*)\)(?:\s*->\s*([^{;\n]+))?`)
)

func (r *RustExtractor) Language() string { return "rust" }

func (r *RustExtractor) Extract(path string, source []byte) (*SourceUnit, error) {
	content := string(source)
	unit := &SourceUnit{Language: "rust", Path: path}

	declared := map[string]*TypeDecl{}
	var order []string

	for _, m := range rustStructRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		decl := &TypeDecl{Name: name}
		declared[name] = decl
		order = append(order, name)

		open := nextBrace(content, m[1])
		if open < 0 {
			continue // unit struct or tuple struct, no named fields
		}
		end := matchBraces(content, open)
		if end < 0 {
			continue
		}
		for _, f := range rustFieldRe.FindAllStringSubmatch(content[open+1:end], -1) {
			decl.addField(FieldDecl{Name: f[1], Type: strings.TrimSpace(f[2])})
		}
	}

	for _, m := range rustImplRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		decl, ok := declared[name]
		if !ok {
			continue
		}

		open := nextBrace(content, m[1])
		if open < 0 {
			continue
		}
		end := matchBraces(content, open)
		if end < 0 {
			continue
		}

		// Function bodies are stripped so patterns only ever see signatures.
		block := stripBlocks(content[open+1 : end])
		for _, f := range rustFnRe.FindAllStringSubmatch(block, -1) {
			decl.addMethod(MethodDecl{
				Name:    f[1],
				Params:  rustParamTypes(f[2]),
				Returns: strings.TrimSpace(f[3]),
			})
		}
	}

	for _, name := range order {
		unit.Types = append(unit.Types, *declared[name])
	}
	return unit, nil
}

func rustParamTypes(raw string) []string {
	params := []string{}
	for _, p := range splitTopLevel(raw) {
		trimmed := strings.TrimSpace(p)
		if trimmed == "self" || trimmed == "&self" || trimmed == "&mut self" || trimmed == "mut self" {
			continue
		}
		if idx := strings.Index(trimmed, ":"); idx >= 0 {
			params = append(params, strings.TrimSpace(trimmed[idx+1:]))
		} else {
			params = append(params, "")
		}
	}
	return params
}
