package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"xlcheck/internal/finding"
)

// StageMetric records one pipeline stage for the machine-readable artifact.
type StageMetric struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Artifact is the optional JSON report written next to the text output.
// Unlike the text report it carries timestamps, so it is the one output
// that is not byte-identical between runs.
type Artifact struct {
	Version     string            `json:"version"`
	RunID       string            `json:"run_id,omitempty"`
	GeneratedAt string            `json:"generated_at"`
	Stages      []StageMetric     `json:"stages"`
	Findings    []finding.Finding `json:"findings"`
	Summary     Summary           `json:"summary"`
}

// StageHandle marks a running stage between BeginStage and EndStage.
type StageHandle struct {
	name    string
	started time.Time
}

func NewArtifact(runID string) *Artifact {
	return &Artifact{
		Version:  "v1",
		RunID:    runID,
		Stages:   []StageMetric{},
		Findings: []finding.Finding{},
	}
}

func (a *Artifact) BeginStage(name string) StageHandle {
	return StageHandle{name: strings.TrimSpace(name), started: time.Now().UTC()}
}

func (a *Artifact) EndStage(h StageHandle, err error) {
	if a == nil || h.name == "" {
		return
	}
	finished := time.Now().UTC()
	m := StageMetric{
		Name:       h.name,
		Status:     "ok",
		StartedAt:  h.started.Format(time.RFC3339Nano),
		FinishedAt: finished.Format(time.RFC3339Nano),
		DurationMS: finished.Sub(h.started).Milliseconds(),
	}
	if err != nil {
		m.Status = "error"
		m.Error = err.Error()
	}
	a.Stages = append(a.Stages, m)
}

// Save finalizes and writes the artifact.
func (a *Artifact) Save(path string, findings []finding.Finding, summary Summary) error {
	if a == nil {
		return nil
	}
	a.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	if findings != nil {
		a.Findings = findings
	}
	a.Summary = summary

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}
