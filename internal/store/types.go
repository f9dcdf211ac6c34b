package store

import "time"

// Scan is one recorded scan session.
type Scan struct {
	ID               string
	ProjectRoot      string
	ManifestPath     string
	Extensions       string
	ReferenceFormats string
	ExcludePrefixes  string
	MatchMode        string
	StartedAt        time.Time
	FinishedAt       *time.Time
	CandidateCount   int
	FileCount        int
	UnusedCount      int
	Error            string
}

// UnusedKey is a key a scan found no reference for.
type UnusedKey struct {
	ID     int64
	ScanID string
	Key    string
	Value  string
}

// Deletion is one recorded deletion run across the three stores.
type Deletion struct {
	ID           string
	ScanID       string
	ProjectRoot  string
	ManifestPath string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Error        string
}

// Stage status values.
const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// DeletionStage is the recorded progress of one deletion stage.
type DeletionStage struct {
	ID         int64
	DeletionID string
	Ordinal    int
	Stage      string
	Status     string
	Detail     string
	UpdatedAt  time.Time
}
