package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"xlcheck/internal/finding"
)

// Run is one recorded validation run. History is an operator convenience
// log: validate never reads it back into the pipeline.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	FilesChecked int
	FindingCount int
	Pass         bool
}

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens the history database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT,
			finished_at TEXT,
			files_checked INTEGER,
			finding_count INTEGER,
			pass INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS run_findings (
			run_id TEXT,
			ordinal INTEGER,
			language TEXT,
			file TEXT,
			type TEXT,
			member TEXT,
			case_name TEXT,
			kind TEXT,
			subkind TEXT,
			detail TEXT,
			PRIMARY KEY (run_id, ordinal)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_run_findings_run ON run_findings(run_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun records one run and its findings in a single transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run, findings []finding.Finding) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	pass := 0
	if run.Pass {
		pass = 1
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, files_checked, finding_count, pass)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at=excluded.started_at,
			finished_at=excluded.finished_at,
			files_checked=excluded.files_checked,
			finding_count=excluded.finding_count,
			pass=excluded.pass
	`, run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.FilesChecked, run.FindingCount, pass)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_findings (run_id, ordinal, language, file, type, member, case_name, kind, subkind, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, ordinal) DO UPDATE SET
			language=excluded.language,
			file=excluded.file,
			type=excluded.type,
			member=excluded.member,
			case_name=excluded.case_name,
			kind=excluded.kind,
			subkind=excluded.subkind,
			detail=excluded.detail
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, f := range findings {
		if _, err := stmt.Exec(run.ID, i, f.Language, f.File, f.Type, f.Member, f.Case, string(f.Kind), string(f.SubKind), f.Detail); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentRuns lists the newest runs first.
func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, files_checked, finding_count, pass
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		var pass int
		if err := rows.Scan(&r.ID, &started, &finished, &r.FilesChecked, &r.FindingCount, &pass); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		r.Pass = pass == 1
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FindingsForRun returns one run's recorded findings in emission order.
func (s *SQLiteStore) FindingsForRun(ctx context.Context, runID string) ([]finding.Finding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT language, file, type, member, case_name, kind, subkind, detail
		FROM run_findings WHERE run_id = ? ORDER BY ordinal
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var findings []finding.Finding
	for rows.Next() {
		var f finding.Finding
		var kind, subkind string
		if err := rows.Scan(&f.Language, &f.File, &f.Type, &f.Member, &f.Case, &kind, &subkind, &f.Detail); err != nil {
			return nil, err
		}
		f.Kind = finding.Kind(kind)
		f.SubKind = finding.SubKind(subkind)
		findings = append(findings, f)
	}
	return findings, rows.Err()
}
