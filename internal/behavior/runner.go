package behavior

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"xlcheck/internal/config"
	"xlcheck/internal/finding"
	"xlcheck/internal/schema"
)

// Runner executes behavioral cases: one generated program per language, run
// through the host toolchain under a bounded timeout, outputs compared
// pairwise within the case tolerance. Sequential by design; a case is
// reported and skipped on failure, never fatal.
type Runner struct {
	settings *config.Settings
	files    *config.FileSet
	runID    string
}

// NewRunner builds a runner scoped to one validation run. An empty runID
// gets a fresh uuid.
func NewRunner(settings *config.Settings, files *config.FileSet, runID string) *Runner {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Runner{
		settings: settings,
		files:    files,
		runID:    runID,
	}
}

// RunID identifies this runner's temp artifacts and history record.
func (r *Runner) RunID() string { return r.runID }

type caseResult struct {
	language string
	value    float64
}

// Run executes every case and returns the accumulated findings.
func (r *Runner) Run(ctx context.Context, cases []schema.Case) []finding.Finding {
	var findings []finding.Finding
	for _, c := range cases {
		findings = append(findings, r.runCase(ctx, c)...)
	}
	return findings
}

func (r *Runner) runCase(ctx context.Context, c schema.Case) []finding.Finding {
	var findings []finding.Finding
	var results []caseResult

	for _, lang := range config.Languages {
		if len(r.files.ForLanguage(lang)) == 0 {
			continue
		}
		value, f := r.runLanguage(ctx, c, lang)
		if f != nil {
			findings = append(findings, *f)
			continue
		}
		results = append(results, caseResult{language: lang, value: value})
	}

	return append(findings, compareResults(c, results)...)
}

func (r *Runner) runLanguage(ctx context.Context, c schema.Case, lang string) (float64, *finding.Finding) {
	source, err := generateProgram(c, lang, r.files.ForLanguage(lang))
	if err != nil {
		return 0, r.fail(c, lang, finding.SubKindEnvironment, err.Error())
	}

	workdir := filepath.Join(r.settings.Behavioral.Workdir, "xlcheck-"+r.runID)
	if err := os.MkdirAll(workdir, 0755); err != nil {
		return 0, r.fail(c, lang, finding.SubKindEnvironment, fmt.Sprintf("cannot create workdir: %v", err))
	}
	defer os.RemoveAll(workdir)

	base := filepath.Join(workdir, c.Name+"_"+lang)
	var out string
	switch lang {
	case "python":
		path := base + ".py"
		if err := os.WriteFile(path, []byte(source), 0644); err != nil {
			return 0, r.fail(c, lang, finding.SubKindEnvironment, err.Error())
		}
		out, err = r.execute(ctx, r.settings.Toolchain.Python, path)
	case "rust":
		path := base + ".rs"
		bin := base + ".bin"
		if err := os.WriteFile(path, []byte(source), 0644); err != nil {
			return 0, r.fail(c, lang, finding.SubKindEnvironment, err.Error())
		}
		if _, err = r.execute(ctx, r.settings.Toolchain.Rustc, path, "-o", bin); err == nil {
			out, err = r.execute(ctx, bin)
		}
	case "cpp":
		path := base + ".cpp"
		bin := base + ".bin"
		if err := os.WriteFile(path, []byte(source), 0644); err != nil {
			return 0, r.fail(c, lang, finding.SubKindEnvironment, err.Error())
		}
		if _, err = r.execute(ctx, r.settings.Toolchain.CXX, "-std=c++17", path, "-o", bin); err == nil {
			out, err = r.execute(ctx, bin)
		}
	default:
		return 0, r.fail(c, lang, finding.SubKindEnvironment, "unsupported language: "+lang)
	}
	if err != nil {
		return 0, r.fail(c, lang, finding.SubKindEnvironment, err.Error())
	}

	value, err := parseNumeric(out)
	if err != nil {
		return 0, r.fail(c, lang, finding.SubKindOutputParse, err.Error())
	}
	return value, nil
}

// execute runs one toolchain command under the configured timeout. A
// timeout forcibly terminates the subprocess and reports like any other
// build failure.
func (r *Runner) execute(ctx context.Context, name string, args ...string) (string, error) {
	timeout := time.Duration(r.settings.Behavioral.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%s timed out after %s", name, timeout)
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%s failed: %s", name, firstLines(string(exitErr.Stderr), 5))
		}
		return "", fmt.Errorf("%s failed: %v", name, err)
	}
	return string(output), nil
}

// parseNumeric expects the program's entire stdout to be one number.
func parseNumeric(out string) (float64, error) {
	trimmed := strings.TrimSpace(out)
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("output %q does not parse as a number", firstLines(trimmed, 1))
	}
	return value, nil
}

// compareResults checks each language against the expected value, then the
// surviving languages pairwise. A language already flagged against the
// expectation is excluded from pairwise checks so one bad output yields one
// finding, not a cascade.
func compareResults(c schema.Case, results []caseResult) []finding.Finding {
	var findings []finding.Finding
	flagged := map[string]bool{}

	for _, res := range results {
		delta := math.Abs(res.value - c.Expected)
		if delta > c.Tolerance {
			flagged[res.language] = true
			findings = append(findings, finding.Finding{
				Language: res.language,
				Case:     c.Name,
				Kind:     finding.KindBehavioral,
				SubKind:  finding.SubKindNumeric,
				Detail: fmt.Sprintf("%s produced %v, expected %v (delta %g > tolerance %g)",
					res.language, res.value, c.Expected, delta, c.Tolerance),
			})
		}
	}

	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			a, b := results[i], results[j]
			if flagged[a.language] || flagged[b.language] {
				continue
			}
			delta := math.Abs(a.value - b.value)
			if delta > c.Tolerance {
				findings = append(findings, finding.Finding{
					Language: a.language,
					Case:     c.Name,
					Kind:     finding.KindBehavioral,
					SubKind:  finding.SubKindNumeric,
					Detail: fmt.Sprintf("%s produced %v but %s produced %v (delta %g > tolerance %g)",
						a.language, a.value, b.language, b.value, delta, c.Tolerance),
				})
			}
		}
	}

	return findings
}

func (r *Runner) fail(c schema.Case, lang string, sub finding.SubKind, detail string) *finding.Finding {
	return &finding.Finding{
		Language: lang,
		Case:     c.Name,
		Kind:     finding.KindBehavioral,
		SubKind:  sub,
		Detail:   detail,
	}
}

func firstLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
