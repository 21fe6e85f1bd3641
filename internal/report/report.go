package report

import (
	"fmt"
	"strings"

	"xlcheck/internal/config"
	"xlcheck/internal/finding"
)

// Stats carries the pipeline counters the summary reports alongside
// findings.
type Stats struct {
	FilesChecked int
	CasesRun     int
}

// Summary is the aggregate outcome of one validation run.
type Summary struct {
	FilesChecked int                  `json:"files_checked"`
	CasesRun     int                  `json:"cases_run"`
	TotalFinds   int                  `json:"total_findings"`
	ByKind       map[finding.Kind]int `json:"findings_by_kind"`
	Pass         bool                 `json:"pass"`
}

// Summarize is a pure function of the findings list: zero findings means
// success.
func Summarize(findings []finding.Finding, stats Stats) Summary {
	byKind := map[finding.Kind]int{}
	for _, f := range findings {
		byKind[f.Kind]++
	}
	return Summary{
		FilesChecked: stats.FilesChecked,
		CasesRun:     stats.CasesRun,
		TotalFinds:   len(findings),
		ByKind:       byKind,
		Pass:         len(findings) == 0,
	}
}

// kindOrder fixes the summary line ordering so reports are byte-identical
// across runs.
var kindOrder = []finding.Kind{
	finding.KindExtractionFailure,
	finding.KindMissingType,
	finding.KindMissingField,
	finding.KindMissingMethod,
	finding.KindSignatureMismatch,
	finding.KindBehavioral,
}

// Render produces the human-readable report: findings grouped by language,
// then the summary block. Findings keep the order the pipeline emitted
// them in; Render never reorders across languages beyond grouping.
func Render(findings []finding.Finding, s Summary) string {
	var b strings.Builder

	if len(findings) > 0 {
		for _, lang := range config.Languages {
			var langFindings []finding.Finding
			for _, f := range findings {
				if f.Language == lang {
					langFindings = append(langFindings, f)
				}
			}
			if len(langFindings) == 0 {
				continue
			}
			fmt.Fprintf(&b, "%s:\n", lang)
			for _, f := range langFindings {
				fmt.Fprintf(&b, "  %s\n", f.String())
			}
		}
		// Findings with no language (none today, but the grouping must
		// never drop an entry silently).
		for _, f := range findings {
			if !knownLanguage(f.Language) {
				fmt.Fprintf(&b, "  %s\n", f.String())
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Validation Summary:\n")
	fmt.Fprintf(&b, "  Files checked: %d\n", s.FilesChecked)
	if s.CasesRun > 0 {
		fmt.Fprintf(&b, "  Behavioral cases run: %d\n", s.CasesRun)
	}
	fmt.Fprintf(&b, "  Total findings: %d\n", s.TotalFinds)
	for _, kind := range kindOrder {
		if n := s.ByKind[kind]; n > 0 {
			fmt.Fprintf(&b, "    %s: %d\n", kind, n)
		}
	}
	if s.Pass {
		b.WriteString("  All validations passed\n")
	} else {
		b.WriteString("  Issues found - see details above\n")
	}

	return b.String()
}

func knownLanguage(lang string) bool {
	for _, l := range config.Languages {
		if l == lang {
			return true
		}
	}
	return false
}
