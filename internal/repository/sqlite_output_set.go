package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/glazingpm/internal/db"
	"github.com/alexanderramin/glazingpm/internal/domain"
)

// SQLiteOutputSetRepo implements OutputSetRepo using a SQLite database.
type SQLiteOutputSetRepo struct {
	db db.DBTX
}

// NewSQLiteOutputSetRepo creates a new SQLiteOutputSetRepo.
func NewSQLiteOutputSetRepo(conn db.DBTX) *SQLiteOutputSetRepo {
	return &SQLiteOutputSetRepo{db: conn}
}

const outputSetColumns = `id, project_id, version, contract_value, source, input_json, matches_json,
	budget_json, billing_json, sov_json, submittals_json, drafts_json, warnings_json, created_at`

// NextVersion returns one past the project's highest stored version. Call
// it inside the same transaction as Create.
func (r *SQLiteOutputSetRepo) NextVersion(ctx context.Context, projectID string) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM output_sets WHERE project_id = ?`, projectID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("reading next output version: %w", err)
	}
	return next, nil
}

func (r *SQLiteOutputSetRepo) Create(ctx context.Context, o *domain.OutputSet) error {
	query := `INSERT INTO output_sets (` + outputSetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.ProjectID,
		o.Version,
		int64(o.ContractValue),
		o.Source,
		rawOrDefault(o.Input, "{}"),
		rawOrDefault(o.Matches, "[]"),
		rawOrDefault(o.Budget, "{}"),
		rawOrDefault(o.Billing, "{}"),
		rawOrDefault(o.SOV, "{}"),
		rawOrDefault(o.Submittals, "{}"),
		rawOrDefault(o.Drafts, "[]"),
		rawOrDefault(o.Warnings, "[]"),
		o.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting output set: %w", err)
	}
	return nil
}

func (r *SQLiteOutputSetRepo) Latest(ctx context.Context, projectID string) (*domain.OutputSet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+outputSetColumns+` FROM output_sets WHERE project_id = ? ORDER BY version DESC LIMIT 1`, projectID)
	return scanOutputSet(row)
}

func (r *SQLiteOutputSetRepo) GetVersion(ctx context.Context, projectID string, version int) (*domain.OutputSet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+outputSetColumns+` FROM output_sets WHERE project_id = ? AND version = ?`, projectID, version)
	return scanOutputSet(row)
}

// ListByProject returns every version, oldest first.
func (r *SQLiteOutputSetRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.OutputSet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+outputSetColumns+` FROM output_sets WHERE project_id = ? ORDER BY version`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing output sets: %w", err)
	}
	defer rows.Close()

	var sets []*domain.OutputSet
	for rows.Next() {
		o, err := scanOutputSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating output sets: %w", err)
	}
	return sets, nil
}

func scanOutputSet(row scanner) (*domain.OutputSet, error) {
	var o domain.OutputSet
	var value int64
	var input, matches, budget, billing, sov, submittals, drafts, warnings, createdAtStr string

	err := row.Scan(
		&o.ID, &o.ProjectID, &o.Version, &value, &o.Source,
		&input, &matches, &budget, &billing, &sov, &submittals, &drafts, &warnings,
		&createdAtStr,
	)
	if err != nil {
		return nil, notFound(err, "output set")
	}
	o.ContractValue = domain.Cents(value)
	o.Input = json.RawMessage(input)
	o.Matches = json.RawMessage(matches)
	o.Budget = json.RawMessage(budget)
	o.Billing = json.RawMessage(billing)
	o.SOV = json.RawMessage(sov)
	o.Submittals = json.RawMessage(submittals)
	o.Drafts = json.RawMessage(drafts)
	o.Warnings = json.RawMessage(warnings)
	if o.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
		return nil, err
	}
	return &o, nil
}
