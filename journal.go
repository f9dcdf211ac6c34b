package resxsweep

import (
	"context"
	"strings"
	"time"

	"github.com/jward/resxsweep/internal/store"
)

// journalScanStart records the start of a scan and returns its id. It
// returns "" when journaling is off or the insert failed; a scan never
// fails because of its journal.
func (e *Engine) journalScanStart(ctx context.Context, cfg ScanConfig, started time.Time) string {
	if e.store == nil {
		return ""
	}
	sc := &store.Scan{
		ProjectRoot:      cfg.ProjectRoot,
		ManifestPath:     cfg.ManifestPath,
		Extensions:       strings.Join(cfg.Extensions, ","),
		ReferenceFormats: strings.Join(cfg.ReferenceFormats, ","),
		ExcludePrefixes:  strings.Join(cfg.ExcludePrefixes, ","),
		MatchMode:        cfg.Match.String(),
		StartedAt:        started,
	}
	if err := e.store.InsertScan(ctx, sc); err != nil {
		e.logger.WarnContext(ctx, "journal: record scan", "error", err)
		return ""
	}
	return sc.ID
}

func (e *Engine) journalScanFinish(ctx context.Context, id string, res *scanResult, scanErr error) {
	if e.store == nil || id == "" {
		return
	}
	var (
		candidates, files int
		unused            []store.UnusedKey
		msg               string
	)
	if res != nil {
		files = res.fileCount
		candidates = res.candidates
		unused = make([]store.UnusedKey, 0, len(res.records))
		for _, r := range res.records {
			unused = append(unused, store.UnusedKey{Key: r.Key, Value: r.Value})
		}
	}
	if scanErr != nil {
		msg = scanErr.Error()
	}
	if err := e.store.FinishScan(ctx, id, time.Now(), candidates, files, unused, msg); err != nil {
		e.logger.WarnContext(ctx, "journal: finish scan", "scan_id", id, "error", err)
	}
}

// deletionJournal tracks one journaled deletion. A nil *deletionJournal is
// valid and records nothing.
type deletionJournal struct {
	e  *Engine
	id string
}

// journalDeletion writes the deletion and its pending stages before any
// store is touched. A failure here aborts the deletion.
func (e *Engine) journalDeletion(ctx context.Context, s *Session, keys []string) (*deletionJournal, error) {
	if e.store == nil {
		return nil, nil
	}
	d := &store.Deletion{
		ScanID:       s.scanID,
		ProjectRoot:  s.cfg.ProjectRoot,
		ManifestPath: s.cfg.ManifestPath,
		StartedAt:    time.Now(),
	}
	if err := e.store.BeginDeletion(ctx, d, keys, Stages); err != nil {
		return nil, &FileError{Op: "write deletion journal", Err: err}
	}
	return &deletionJournal{e: e, id: d.ID}, nil
}

// ID returns the journal id, or "" for a nil journal.
func (j *deletionJournal) ID() string {
	if j == nil {
		return ""
	}
	return j.id
}

func (j *deletionJournal) stage(ctx context.Context, r StageResult) {
	if j == nil {
		return
	}
	if err := j.e.store.SetStageStatus(ctx, j.id, r.Stage, r.Status, r.Detail); err != nil {
		j.e.logger.WarnContext(ctx, "journal: stage status", "deletion_id", j.id, "stage", r.Stage, "error", err)
	}
}

func (j *deletionJournal) finish(ctx context.Context, delErr error) {
	if j == nil {
		return
	}
	var msg string
	if delErr != nil {
		msg = delErr.Error()
	}
	if err := j.e.store.FinishDeletion(ctx, j.id, time.Now(), msg); err != nil {
		j.e.logger.WarnContext(ctx, "journal: finish deletion", "deletion_id", j.id, "error", err)
	}
}
