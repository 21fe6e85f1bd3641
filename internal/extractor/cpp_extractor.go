package extractor

import (
	"regexp"
	"strings"
)

// CppExtractor pattern matches over the source text, same contract and
// caveats as RustExtractor. Access specifiers are ignored: the geometry
// headers under test declare everything public.
type CppExtractor struct{}

var (
	cppClassRe  = regexp.MustCompile(`(?m)^\s*(?:class|struct)\s+(\w+)`)
	cppMethodRe = regexp.MustCompile(`(?m)^\s*(?:virtual\s+)?(?:static\s+)?([\w:]+(?:<[^>]*>)?(?:\s*[&*])*)\s+(\w+)\s*\(([^)]*)\)\s*(?:const)?\s*(?:override\s*)?[{;]`)
	cppCtorRe   = regexp.MustCompile(`(?m)^\s*(\w+)\s*\(([^)]*)\)\s*(?::[^{;]*)?[{;]`)
	cppFieldRe  = regexp.MustCompile(`(?m)^\s*([\w:]+(?:<[^>]*>)?(?:\s*[&*])?)\s+(\w+)\s*(?:=[^;]*)?;`)
)

// cppKeywords are tokens the field/method patterns must never mistake for a
// declared type or member name.
var cppKeywords = map[string]bool{
	"return": true, "using": true, "typedef": true, "friend": true,
	"public": true, "private": true, "protected": true, "delete": true,
	"namespace": true, "template": true, "if": true, "for": true, "while": true,
}

func (c *CppExtractor) Language() string { return "cpp" }

func (c *CppExtractor) Extract(path string, source []byte) (*SourceUnit, error) {
	content := string(source)
	unit := &SourceUnit{Language: "cpp", Path: path}

	for _, m := range cppClassRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		decl := TypeDecl{Name: name}

		open := nextBrace(content, m[1])
		if open < 0 {
			continue // forward declaration
		}
		end := matchBraces(content, open)
		if end < 0 {
			continue
		}

		// Inline method bodies are stripped so patterns only ever see
		// declarations.
		body := stripBlocks(content[open+1 : end])

		for _, f := range cppMethodRe.FindAllStringSubmatch(body, -1) {
			retType := strings.TrimSpace(f[1])
			if cppKeywords[retType] || cppKeywords[f[2]] {
				continue
			}
			decl.addMethod(MethodDecl{
				Name:    f[2],
				Params:  cppParamTypes(f[3]),
				Returns: retType,
			})
		}

		for _, f := range cppCtorRe.FindAllStringSubmatch(body, -1) {
			if f[1] == name {
				decl.addMethod(MethodDecl{Name: f[1], Params: cppParamTypes(f[2])})
			}
		}

		for _, f := range cppFieldRe.FindAllStringSubmatch(body, -1) {
			ftype := strings.TrimSpace(f[1])
			if cppKeywords[ftype] || cppKeywords[f[2]] {
				continue
			}
			decl.addField(FieldDecl{Name: f[2], Type: ftype})
		}

		unit.Types = append(unit.Types, decl)
	}

	return unit, nil
}

func cppParamTypes(raw string) []string {
	params := []string{}
	for _, p := range splitTopLevel(raw) {
		cleaned := strings.NewReplacer("&", " ", "*", " ").Replace(p)
		tokens := strings.Fields(cleaned)
		// The last token is the parameter name when one is present.
		if len(tokens) > 1 {
			tokens = tokens[:len(tokens)-1]
		}
		params = append(params, strings.Join(tokens, " "))
	}
	return params
}
