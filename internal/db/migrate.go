package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ProjectSequence is the project_sequence row that numbers projects.
const ProjectSequence = "projects"

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE has no IF NOT EXISTS; a re-run hits the existing column.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillProjectSequence(db); err != nil {
		return fmt.Errorf("backfilling project sequence: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id             TEXT PRIMARY KEY,
		short_id       TEXT NOT NULL DEFAULT '',
		name           TEXT NOT NULL,
		client         TEXT NOT NULL DEFAULT '',
		location       TEXT NOT NULL DEFAULT '',
		contract_value INTEGER NOT NULL DEFAULT 0 CHECK(contract_value >= 0),
		start_date     TEXT NOT NULL,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS project_sequence (
		name     TEXT PRIMARY KEY,
		next_seq INTEGER NOT NULL CHECK(next_seq >= 1)
	)`,

	`CREATE TABLE IF NOT EXISTS output_sets (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		version        INTEGER NOT NULL CHECK(version >= 1),
		contract_value INTEGER NOT NULL,
		input_json     TEXT NOT NULL,
		matches_json   TEXT NOT NULL,
		budget_json    TEXT NOT NULL,
		billing_json   TEXT NOT NULL,
		sov_json       TEXT NOT NULL,
		drafts_json    TEXT NOT NULL DEFAULT '[]',
		warnings_json  TEXT NOT NULL DEFAULT '[]',
		created_at     TEXT NOT NULL,
		UNIQUE(project_id, version)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_output_sets_project ON output_sets(project_id, version)`,

	// Output sets are immutable; regeneration inserts a new version.
	`CREATE TRIGGER IF NOT EXISTS output_sets_no_update
		BEFORE UPDATE ON output_sets
		BEGIN
			SELECT RAISE(ABORT, 'output sets are immutable');
		END`,

	// Which surface produced the output set (cli, http).
	`ALTER TABLE output_sets ADD COLUMN source TEXT NOT NULL DEFAULT ''`,

	// Submittal log, added after the first output sets were stored.
	`ALTER TABLE output_sets ADD COLUMN submittals_json TEXT NOT NULL DEFAULT '{}'`,
}

// migrateBackfillProjectSequence seeds or raises the project counter past
// every short ID already assigned, so databases written before the
// counter existed keep allocating unique numbers.
func migrateBackfillProjectSequence(db *sql.DB) error {
	query := `INSERT INTO project_sequence (name, next_seq)
		SELECT ?, COALESCE(MAX(CAST(SUBSTR(short_id, 2) AS INTEGER)), 0) + 1
		FROM projects
		WHERE short_id GLOB 'P[0-9]*'
		ON CONFLICT(name) DO UPDATE
		SET next_seq = MAX(project_sequence.next_seq, excluded.next_seq)`
	if _, err := db.ExecContext(context.Background(), query, ProjectSequence); err != nil {
		return fmt.Errorf("upserting project sequence row: %w", err)
	}
	return nil
}
