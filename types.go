package resxsweep

import "github.com/jward/resxsweep/internal/store"

// Public aliases for the journal types returned by Engine.Journal.

type Journal = store.Store
type ScanEntry = store.Scan
type UnusedKeyEntry = store.UnusedKey
type DeletionEntry = store.Deletion
type DeletionStageEntry = store.DeletionStage

// Deletion stage statuses as recorded in a DeleteReport and the journal.
const (
	StagePending = store.StatusPending
	StageDone    = store.StatusDone
	StageFailed  = store.StatusFailed
	StageSkipped = store.StatusSkipped
)
