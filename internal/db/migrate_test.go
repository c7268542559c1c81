package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func insertProject(t *testing.T, db *sql.DB, id, shortID string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, start_date, created_at, updated_at)
		VALUES (?, ?, 'Test', '2025-01-06', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`, id, shortID)
	require.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"projects", "project_sequence", "output_sets"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
	for _, idx := range []string{"idx_projects_short_id", "idx_output_sets_project"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)
	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_SeedsProjectSequence(t *testing.T) {
	db := openTestDB(t)
	var next int
	require.NoError(t, db.QueryRow(`SELECT next_seq FROM project_sequence WHERE name = ?`, ProjectSequence).Scan(&next))
	assert.Equal(t, 1, next)
}

func TestMigrate_BackfillRaisesSequencePastExistingShortIDs(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "P007")
	insertProject(t, db, "p2", "P012")

	require.NoError(t, Migrate(db))

	var next int
	require.NoError(t, db.QueryRow(`SELECT next_seq FROM project_sequence WHERE name = ?`, ProjectSequence).Scan(&next))
	assert.Equal(t, 13, next)
}

func TestMigrate_OutputSetsAreImmutable(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "P001")
	_, err := db.Exec(`INSERT INTO output_sets
		(id, project_id, version, contract_value, input_json, matches_json, budget_json, billing_json, sov_json, created_at)
		VALUES ('o1', 'p1', 1, 100, '{}', '[]', '{}', '{}', '{}', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`UPDATE output_sets SET contract_value = 200 WHERE id = 'o1'`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "immutable")
}

func TestMigrate_OutputSetsCascadeWithProject(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "P001")
	_, err := db.Exec(`INSERT INTO output_sets
		(id, project_id, version, contract_value, input_json, matches_json, budget_json, billing_json, sov_json, created_at)
		VALUES ('o1', 'p1', 1, 100, '{}', '[]', '{}', '{}', '{}', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM projects WHERE id = 'p1'`)
	require.NoError(t, err)
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM output_sets`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_RejectsNegativeContractValue(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, contract_value, start_date, created_at, updated_at)
		VALUES ('p1', 'P001', 'Bad', -1, '2025-01-06', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

// TestMigrate_UpgradeAddsOutputSetColumns applies the current migrations
// over an output_sets table created before the source and submittals
// columns existed.
func TestMigrate_UpgradeAddsOutputSetColumns(t *testing.T) {
	db, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	legacy := []string{
		migrations[0],
		`CREATE TABLE output_sets (
			id TEXT PRIMARY KEY, project_id TEXT NOT NULL, version INTEGER NOT NULL,
			contract_value INTEGER NOT NULL, input_json TEXT NOT NULL, matches_json TEXT NOT NULL,
			budget_json TEXT NOT NULL, billing_json TEXT NOT NULL, sov_json TEXT NOT NULL,
			drafts_json TEXT NOT NULL DEFAULT '[]', warnings_json TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL)`,
		`INSERT INTO projects (id, short_id, name, start_date, created_at, updated_at)
			VALUES ('p1', 'P003', 'Legacy', '2024-06-03', '2024-06-01T00:00:00Z', '2024-06-01T00:00:00Z')`,
		`INSERT INTO output_sets (id, project_id, version, contract_value, input_json, matches_json, budget_json, billing_json, sov_json, created_at)
			VALUES ('o1', 'p1', 1, 100, '{}', '[]', '{}', '{}', '{}', '2024-06-01T00:00:00Z')`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var source, submittals string
	require.NoError(t, db.QueryRow(`SELECT source, submittals_json FROM output_sets WHERE id = 'o1'`).Scan(&source, &submittals))
	assert.Equal(t, "", source)
	assert.Equal(t, "{}", submittals)

	var next int
	require.NoError(t, db.QueryRow(`SELECT next_seq FROM project_sequence WHERE name = ?`, ProjectSequence).Scan(&next))
	assert.Equal(t, 4, next)
}
