package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewID returns a new time-ordered identifier for scans and deletions.
func NewID() string {
	return ulid.Make().String()
}

// --- Scan operations ---

// InsertScan records the start of a scan. An empty ID is filled in.
func (s *Store) InsertScan(ctx context.Context, sc *Scan) error {
	if sc.ID == "" {
		sc.ID = NewID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scans (id, project_root, manifest_path, extensions, reference_formats,
			exclude_prefixes, match_mode, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.ProjectRoot, sc.ManifestPath, sc.Extensions, sc.ReferenceFormats,
		sc.ExcludePrefixes, sc.MatchMode, sc.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

// FinishScan stores the outcome of a scan and its unused keys in a single
// transaction. errMsg is empty for a successful scan.
func (s *Store) FinishScan(ctx context.Context, id string, finishedAt time.Time, candidates, files int, unused []UnusedKey, errMsg string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("finish scan: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE scans SET finished_at = ?, candidate_count = ?, file_count = ?, unused_count = ?, error = ?
		 WHERE id = ?`,
		finishedAt, candidates, files, len(unused), nullString(errMsg), id,
	)
	if err != nil {
		return fmt.Errorf("finish scan: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish scan: no scan %s", id)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO unused_keys (scan_id, key, value) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("finish scan: prepare: %w", err)
	}
	defer stmt.Close()
	for _, u := range unused {
		if _, err := stmt.ExecContext(ctx, id, u.Key, u.Value); err != nil {
			return fmt.Errorf("finish scan: unused key %q: %w", u.Key, err)
		}
	}
	return tx.Commit()
}

const scanCols = `id, project_root, manifest_path, extensions, reference_formats, exclude_prefixes,
	match_mode, started_at, finished_at, candidate_count, file_count, unused_count, error`

func scanScan(scanner interface{ Scan(...any) error }) (*Scan, error) {
	sc := &Scan{}
	var finished sql.NullTime
	var errMsg, exts, formats, excludes, mode sql.NullString
	err := scanner.Scan(
		&sc.ID, &sc.ProjectRoot, &sc.ManifestPath, &exts, &formats, &excludes,
		&mode, &sc.StartedAt, &finished, &sc.CandidateCount, &sc.FileCount, &sc.UnusedCount, &errMsg,
	)
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		sc.FinishedAt = &t
	}
	sc.Extensions = exts.String
	sc.ReferenceFormats = formats.String
	sc.ExcludePrefixes = excludes.String
	sc.MatchMode = mode.String
	sc.Error = errMsg.String
	return sc, nil
}

// ScanByID returns the scan with the given ID, or nil if none exists.
func (s *Store) ScanByID(ctx context.Context, id string) (*Scan, error) {
	sc, err := scanScan(s.db.QueryRowContext(ctx, "SELECT "+scanCols+" FROM scans WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan by id: %w", err)
	}
	return sc, nil
}

// Scans returns the most recent scans first. A limit <= 0 returns all.
func (s *Store) Scans(ctx context.Context, limit int) ([]*Scan, error) {
	query := "SELECT " + scanCols + " FROM scans ORDER BY id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scans: %w", err)
	}
	defer rows.Close()
	var scans []*Scan
	for rows.Next() {
		sc, err := scanScan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		scans = append(scans, sc)
	}
	return scans, rows.Err()
}

// UnusedKeys returns the unused keys recorded for a scan in insertion order.
func (s *Store) UnusedKeys(ctx context.Context, scanID string) ([]*UnusedKey, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, scan_id, key, value FROM unused_keys WHERE scan_id = ? ORDER BY id", scanID,
	)
	if err != nil {
		return nil, fmt.Errorf("unused keys: %w", err)
	}
	defer rows.Close()
	var keys []*UnusedKey
	for rows.Next() {
		u := &UnusedKey{}
		var value sql.NullString
		if err := rows.Scan(&u.ID, &u.ScanID, &u.Key, &value); err != nil {
			return nil, fmt.Errorf("scan unused key: %w", err)
		}
		u.Value = value.String
		keys = append(keys, u)
	}
	return keys, rows.Err()
}

// PruneScans deletes all but the newest keep scans together with their
// unused keys. It returns the number of scans removed.
func (s *Store) PruneScans(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM scans ORDER BY id DESC LIMIT -1 OFFSET ?", keep)
	if err != nil {
		return 0, fmt.Errorf("prune scans: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("prune scans: scan id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("prune scans: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("prune scans: begin: %w", err)
	}
	defer tx.Rollback()

	placeholders := placeholderList(len(ids))
	args := stringsToArgs(ids)
	for _, q := range []string{
		"DELETE FROM unused_keys WHERE scan_id IN (" + placeholders + ")",
		"DELETE FROM scans WHERE id IN (" + placeholders + ")",
	} {
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return 0, fmt.Errorf("prune scans: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("prune scans: commit: %w", err)
	}
	return len(ids), nil
}
