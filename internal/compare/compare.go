package compare

import (
	"fmt"

	"xlcheck/internal/config"
	"xlcheck/internal/extractor"
	"xlcheck/internal/finding"
	"xlcheck/internal/schema"
)

// Extraction pairs one configured file with its extraction result. Unit is
// nil when extraction failed; the failure is already recorded as a finding
// and the file is excluded from structural comparison.
type Extraction struct {
	Language string
	File     string
	Unit     *extractor.SourceUnit
}

// Diff compares every extracted file against the schema. Findings come out
// in schema declaration order, then the fixed language order, then config
// file order, so two runs over unchanged inputs produce identical reports.
func Diff(s *schema.Schema, extractions []Extraction) []finding.Finding {
	var findings []finding.Finding

	for _, ts := range s.Types {
		for _, lang := range config.Languages {
			var units []Extraction
			configured := 0
			for _, ex := range extractions {
				if ex.Language != lang {
					continue
				}
				configured++
				if ex.Unit != nil {
					units = append(units, ex)
				}
			}
			if configured == 0 {
				continue // language not configured, nothing to check
			}

			declared := false
			for _, ex := range units {
				decl := ex.Unit.TypeByName(ts.Name)
				if decl == nil {
					continue
				}
				declared = true
				findings = append(findings, diffMembers(&ts, decl, lang, ex.File)...)
			}

			// No partial credit: a required type nobody declares is a
			// missing-type, never a silent skip.
			if !declared {
				findings = append(findings, finding.Finding{
					Language: lang,
					Type:     ts.Name,
					Kind:     finding.KindMissingType,
					Detail:   fmt.Sprintf("type %s is not declared in any configured %s file", ts.Name, lang),
				})
			}
		}
	}

	return findings
}

func diffMembers(ts *schema.TypeSpec, decl *extractor.TypeDecl, lang, file string) []finding.Finding {
	var findings []finding.Finding

	for _, fs := range ts.Fields {
		declared := fieldByName(decl, fs.Name)
		if declared == nil {
			findings = append(findings, finding.Finding{
				Language: lang,
				File:     file,
				Type:     ts.Name,
				Member:   fs.Name,
				Kind:     finding.KindMissingField,
				Detail:   fmt.Sprintf("required field %s is not declared", fs.Name),
			})
			continue
		}
		if mismatch, want, got := typeMismatch(fs.Type, declared.Type); mismatch {
			findings = append(findings, finding.Finding{
				Language: lang,
				File:     file,
				Type:     ts.Name,
				Member:   fs.Name,
				Kind:     finding.KindSignatureMismatch,
				Detail:   fmt.Sprintf("field %s should be %s, found %s", fs.Name, want, got),
			})
		}
	}

	for _, ms := range ts.Methods {
		declared := methodByName(decl, ms.Name)
		if declared == nil {
			findings = append(findings, finding.Finding{
				Language: lang,
				File:     file,
				Type:     ts.Name,
				Member:   ms.Name,
				Kind:     finding.KindMissingMethod,
				Detail:   fmt.Sprintf("required method %s is not declared", ms.Name),
			})
			continue
		}
		findings = append(findings, diffSignature(&ms, declared, ts.Name, lang, file)...)
	}

	return findings
}

func diffSignature(ms *schema.MethodSpec, decl *extractor.MethodDecl, typeName, lang, file string) []finding.Finding {
	var findings []finding.Finding

	if len(decl.Params) != len(ms.Params) {
		findings = append(findings, finding.Finding{
			Language: lang,
			File:     file,
			Type:     typeName,
			Member:   ms.Name,
			Kind:     finding.KindSignatureMismatch,
			Detail: fmt.Sprintf("method %s expects %d parameter(s), found %d",
				ms.Name, len(ms.Params), len(decl.Params)),
		})
		return findings
	}

	for i := range ms.Params {
		if mismatch, want, got := typeMismatch(ms.Params[i], decl.Params[i]); mismatch {
			findings = append(findings, finding.Finding{
				Language: lang,
				File:     file,
				Type:     typeName,
				Member:   ms.Name,
				Kind:     finding.KindSignatureMismatch,
				Detail:   fmt.Sprintf("method %s parameter %d should be %s, found %s", ms.Name, i+1, want, got),
			})
		}
	}

	if mismatch, want, got := typeMismatch(ms.Returns, decl.Returns); mismatch {
		findings = append(findings, finding.Finding{
			Language: lang,
			File:     file,
			Type:     typeName,
			Member:   ms.Name,
			Kind:     finding.KindSignatureMismatch,
			Detail:   fmt.Sprintf("method %s should return %s, found %s", ms.Name, want, got),
		})
	}

	return findings
}

func fieldByName(decl *extractor.TypeDecl, name string) *extractor.FieldDecl {
	for i := range decl.Fields {
		if decl.Fields[i].Name == name {
			return &decl.Fields[i]
		}
	}
	return nil
}

func methodByName(decl *extractor.TypeDecl, name string) *extractor.MethodDecl {
	for i := range decl.Methods {
		if decl.Methods[i].Name == name {
			return &decl.Methods[i]
		}
	}
	return nil
}
