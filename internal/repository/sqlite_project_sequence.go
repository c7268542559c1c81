package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/glazingpm/internal/db"
)

// SQLiteProjectSequenceRepo allocates registry numbers atomically using the
// project_sequence table.
type SQLiteProjectSequenceRepo struct {
	db db.DBTX
}

// NewSQLiteProjectSequenceRepo creates a new SQLiteProjectSequenceRepo.
func NewSQLiteProjectSequenceRepo(conn db.DBTX) *SQLiteProjectSequenceRepo {
	return &SQLiteProjectSequenceRepo{db: conn}
}

// NextProjectSeq returns the next registry number. Allocation is atomic and
// safe under concurrent writes; numbers are never reused, even after a
// project is deleted.
func (r *SQLiteProjectSequenceRepo) NextProjectSeq(ctx context.Context) (int, error) {
	seedQuery := `INSERT OR IGNORE INTO project_sequence (name, next_seq)
		SELECT ?, COALESCE(MAX(CAST(SUBSTR(short_id, 2) AS INTEGER)), 0) + 1
		FROM projects WHERE short_id GLOB 'P[0-9]*'`
	if _, err := r.db.ExecContext(ctx, seedQuery, db.ProjectSequence); err != nil {
		return 0, fmt.Errorf("seeding project sequence: %w", err)
	}

	var next int
	allocQuery := `UPDATE project_sequence
		SET next_seq = next_seq + 1
		WHERE name = ?
		RETURNING next_seq - 1`
	if err := r.db.QueryRowContext(ctx, allocQuery, db.ProjectSequence).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating next project seq: %w", err)
	}
	return next, nil
}
