package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// --- Deletion journal operations ---

// BeginDeletion records a deletion before any store is modified: the
// deletion row, the keys it targets and one pending row per stage, in a
// single transaction. An empty ID is filled in.
func (s *Store) BeginDeletion(ctx context.Context, d *Deletion, keys []string, stages []string) error {
	if d.ID == "" {
		d.ID = NewID()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin deletion: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO deletions (id, scan_id, project_root, manifest_path, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.ID, nullString(d.ScanID), d.ProjectRoot, d.ManifestPath, d.StartedAt,
	); err != nil {
		return fmt.Errorf("begin deletion: insert: %w", err)
	}

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO deletion_keys (deletion_id, key) VALUES (?, ?)", d.ID, k,
		); err != nil {
			return fmt.Errorf("begin deletion: key %q: %w", k, err)
		}
	}
	for i, stage := range stages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deletion_stages (deletion_id, ordinal, stage, status, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			d.ID, i, stage, StatusPending, d.StartedAt,
		); err != nil {
			return fmt.Errorf("begin deletion: stage %q: %w", stage, err)
		}
	}
	return tx.Commit()
}

// SetStageStatus updates one stage of a recorded deletion.
func (s *Store) SetStageStatus(ctx context.Context, deletionID, stage, status, detail string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE deletion_stages SET status = ?, detail = ?, updated_at = ?
		 WHERE deletion_id = ? AND stage = ?`,
		status, nullString(detail), time.Now(), deletionID, stage,
	)
	if err != nil {
		return fmt.Errorf("set stage status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set stage status: no stage %q for deletion %s", stage, deletionID)
	}
	return nil
}

// FinishDeletion marks a deletion as finished. errMsg is empty on success.
func (s *Store) FinishDeletion(ctx context.Context, id string, finishedAt time.Time, errMsg string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE deletions SET finished_at = ?, error = ? WHERE id = ?",
		finishedAt, nullString(errMsg), id,
	)
	if err != nil {
		return fmt.Errorf("finish deletion: %w", err)
	}
	return nil
}

const deletionCols = `id, scan_id, project_root, manifest_path, started_at, finished_at, error`

func scanDeletion(scanner interface{ Scan(...any) error }) (*Deletion, error) {
	d := &Deletion{}
	var scanID, errMsg sql.NullString
	var finished sql.NullTime
	if err := scanner.Scan(&d.ID, &scanID, &d.ProjectRoot, &d.ManifestPath, &d.StartedAt, &finished, &errMsg); err != nil {
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		d.FinishedAt = &t
	}
	d.ScanID = scanID.String
	d.Error = errMsg.String
	return d, nil
}

func (s *Store) queryDeletions(ctx context.Context, query string, args ...any) ([]*Deletion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Deletion
	for rows.Next() {
		d, err := scanDeletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deletion: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Deletions returns the most recent deletions first. A limit <= 0 returns all.
func (s *Store) Deletions(ctx context.Context, limit int) ([]*Deletion, error) {
	query := "SELECT " + deletionCols + " FROM deletions ORDER BY id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	out, err := s.queryDeletions(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("deletions: %w", err)
	}
	return out, nil
}

// UnfinishedDeletions returns deletions that were started but never
// finished, i.e. the process died between stages.
func (s *Store) UnfinishedDeletions(ctx context.Context) ([]*Deletion, error) {
	out, err := s.queryDeletions(ctx,
		"SELECT "+deletionCols+" FROM deletions WHERE finished_at IS NULL ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("unfinished deletions: %w", err)
	}
	return out, nil
}

// DeletionKeys returns the keys targeted by a deletion.
func (s *Store) DeletionKeys(ctx context.Context, deletionID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM deletion_keys WHERE deletion_id = ? ORDER BY id", deletionID,
	)
	if err != nil {
		return nil, fmt.Errorf("deletion keys: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan deletion key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// DeletionStages returns the stages of a deletion in execution order.
func (s *Store) DeletionStages(ctx context.Context, deletionID string) ([]*DeletionStage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, deletion_id, ordinal, stage, status, detail, updated_at
		 FROM deletion_stages WHERE deletion_id = ? ORDER BY ordinal`, deletionID,
	)
	if err != nil {
		return nil, fmt.Errorf("deletion stages: %w", err)
	}
	defer rows.Close()
	var stages []*DeletionStage
	for rows.Next() {
		st := &DeletionStage{}
		var detail sql.NullString
		if err := rows.Scan(&st.ID, &st.DeletionID, &st.Ordinal, &st.Stage, &st.Status, &detail, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan deletion stage: %w", err)
		}
		st.Detail = detail.String
		stages = append(stages, st)
	}
	return stages, rows.Err()
}
