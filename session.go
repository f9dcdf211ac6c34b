package resxsweep

import (
	"context"
	"strings"
)

// Session holds the result of a scan: the configuration it ran with, the
// unused key set and the records shown to the user.
// The unused keys and the records always name the same set of keys.
//
// A Session is not safe for concurrent use. The owning Engine rejects a
// second scan or deletion while one is in flight.
type Session struct {
	engine *Engine
	scanID string
	cfg    ScanConfig
	keys   KeySet
	view   View
	files  int
}

func (s *Session) apply(res *scanResult) {
	s.cfg = res.cfg
	s.keys = res.keys
	s.files = res.fileCount
	s.view = View{}.WithRecords(res.records)
}

// ID returns the journal id of the scan, or "" when journaling is off.
func (s *Session) ID() string { return s.scanID }

// Config returns the normalized configuration of the scan.
func (s *Session) Config() ScanConfig { return s.cfg }

// FileCount returns how many source files the scan read.
func (s *Session) FileCount() int { return s.files }

// Keys returns a copy of the unused key set.
func (s *Session) Keys() KeySet { return s.keys.Clone() }

// Records returns a copy of the unused records in manifest order.
func (s *Session) Records() []UnusedRecord {
	return s.view.cloneRecords()
}

// KeysText returns the unused keys one per line, in display order, the
// text a collaborator copies to the clipboard.
func (s *Session) KeysText() string {
	keys := make([]string, 0, len(s.view.Records))
	for _, r := range s.view.Records {
		keys = append(keys, r.Key)
	}
	return strings.Join(keys, "\n")
}

// View returns the current presentation state.
func (s *Session) View() View {
	return s.view.WithBusy(s.engine.Busy())
}

// Flags returns the derived command availabilities of the current view.
func (s *Session) Flags() Flags {
	return Derive(s.View())
}

// Refresh re-runs the scan with the session's configuration. On failure
// the session keeps its previous state.
func (s *Session) Refresh(ctx context.Context) error {
	e := s.engine
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	id, res, err := e.scan(ctx, s.cfg)
	if err != nil {
		return err
	}
	s.scanID = id
	s.apply(res)
	return nil
}

// Select marks or unmarks the record with key.
func (s *Session) Select(key string, selected bool) {
	s.view = s.view.WithSelection(key, selected)
}

// SelectAll marks or unmarks every record.
func (s *Session) SelectAll(selected bool) {
	s.view = s.view.WithAllSelected(selected)
}

// Selected returns the selected keys in display order.
func (s *Session) Selected() []string {
	return s.view.SelectedKeys()
}

// Exclude drops keys from the unused set and the records without touching
// any file on disk. It returns how many unused keys were dropped.
func (s *Session) Exclude(ctx context.Context, keys ...string) int {
	drop := make(KeySet, len(keys))
	for _, k := range keys {
		if s.keys.Has(k) {
			drop.Add(k)
		}
	}
	s.prune(drop)
	s.engine.status(ctx, "Excluded %d item(s).", drop.Len())
	return drop.Len()
}

// ExcludeSelected excludes the selected records.
func (s *Session) ExcludeSelected(ctx context.Context) int {
	return s.Exclude(ctx, s.Selected()...)
}

// prune removes keys from both the unused set and the records.
func (s *Session) prune(keys KeySet) {
	for k := range keys {
		s.keys.Remove(k)
	}
	s.view = s.view.Without(keys)
}
