package compare

import "strings"

// scalarTypes are the canonical semantic types shared by every language in
// the schema. Only these are concrete enough to flag as mismatched; looser
// inferences (guid wrappers, value classes) are compared by name and
// skipped when the names disagree, since best-effort extraction cannot
// tell a real divergence from a representation difference.
var scalarTypes = map[string]bool{
	"float": true,
	"int":   true,
	"str":   true,
	"bool":  true,
}

var canonicalNames = map[string]string{
	"f32":         "float",
	"f64":         "float",
	"double":      "float",
	"float":       "float",
	"i8":          "int",
	"i16":         "int",
	"i32":         "int",
	"i64":         "int",
	"u8":          "int",
	"u16":         "int",
	"u32":         "int",
	"u64":         "int",
	"usize":       "int",
	"isize":       "int",
	"int":         "int",
	"integer":     "int",
	"long":        "int",
	"str":         "str",
	"string":      "str",
	"std::string": "str",
	"bool":        "bool",
	"boolean":     "bool",
}

// canonicalType reduces a per-language spelling to a comparable form:
// references, pointers, and const/mut qualifiers are stripped; well-known
// numeric and string spellings map to the schema's semantic names.
func canonicalType(t string) string {
	s := strings.TrimSpace(t)
	s = strings.NewReplacer("&", " ", "*", " ").Replace(s)

	var tokens []string
	for _, tok := range strings.Fields(s) {
		lower := strings.ToLower(tok)
		if lower == "const" || lower == "mut" {
			continue
		}
		tokens = append(tokens, lower)
	}
	joined := strings.Join(tokens, " ")

	if canonical, ok := canonicalNames[joined]; ok {
		return canonical
	}
	return joined
}

// typeMismatch reports whether two type spellings definitely disagree.
// Either side being unknown, or either canonical form falling outside the
// shared scalar set, is not enough evidence to flag.
func typeMismatch(want, got string) (bool, string, string) {
	if want == "" || got == "" {
		return false, "", ""
	}
	cw, cg := canonicalType(want), canonicalType(got)
	if cw == cg {
		return false, "", ""
	}
	if scalarTypes[cw] && scalarTypes[cg] {
		return true, cw, cg
	}
	return false, "", ""
}
