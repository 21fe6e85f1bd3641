package extractor

import "strings"

// matchBraces returns the index of the brace matching content[open], which
// must be '{'. Returns -1 when the block never closes; callers skip the
// declaration rather than fail the file.
func matchBraces(content string, open int) int {
	if open < 0 || open >= len(content) || content[open] != '{' {
		return -1
	}
	depth := 0
	for i := open; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// nextBrace finds the '{' opening a declaration body, giving up if a ';'
// appears first (forward declarations, unit structs).
func nextBrace(content string, from int) int {
	for i := from; i < len(content); i++ {
		switch content[i] {
		case '{':
			return i
		case ';':
			return -1
		}
	}
	return -1
}

// stripBlocks removes the contents of nested brace blocks from a type body,
// keeping the braces and newlines. Declaration patterns then run over
// signatures only, never over statements inside method bodies.
func stripBlocks(body string) string {
	var b strings.Builder
	b.Grow(len(body))
	depth := 0
	for _, r := range body {
		switch r {
		case '{':
			depth++
			if depth == 1 {
				b.WriteRune(r)
			}
		case '}':
			depth--
			if depth == 0 {
				b.WriteRune(r)
			}
		default:
			if depth == 0 || r == '\n' {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// splitTopLevel splits on commas that are not nested inside (), <> or [].
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])

	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
