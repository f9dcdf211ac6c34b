package main

import (
	"time"

	"github.com/jward/resxsweep"
)

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLIScan is the result of the scan command.
type CLIScan struct {
	ScanID      string                   `json:"scan_id,omitempty"`
	ProjectRoot string                   `json:"project_root"`
	Resx        string                   `json:"resx"`
	FileCount   int                      `json:"file_count"`
	Unused      []resxsweep.UnusedRecord `json:"unused"`
	Copied      bool                     `json:"copied,omitempty"`
}

// CLIDeletion is one journaled deletion as listed by history.
type CLIDeletion struct {
	ID         string                  `json:"id"`
	ScanID     string                  `json:"scan_id,omitempty"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt *time.Time              `json:"finished_at,omitempty"`
	Error      string                  `json:"error,omitempty"`
	Keys       []string                `json:"keys"`
	Stages     []resxsweep.StageResult `json:"stages"`
}

// CLIScanEntry is one journaled scan as listed by history.
type CLIScanEntry struct {
	ID          string     `json:"id"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Resx        string     `json:"resx"`
	Candidates  int        `json:"candidates"`
	FileCount   int        `json:"file_count"`
	UnusedCount int        `json:"unused_count"`
	Error       string     `json:"error,omitempty"`
}

// CLIHistory is the result of the history command.
type CLIHistory struct {
	Scans     []CLIScanEntry `json:"scans"`
	Deletions []CLIDeletion  `json:"deletions"`
}

func toCLIScanEntry(s *resxsweep.ScanEntry) CLIScanEntry {
	return CLIScanEntry{
		ID:          s.ID,
		StartedAt:   s.StartedAt,
		FinishedAt:  s.FinishedAt,
		Resx:        s.ManifestPath,
		Candidates:  s.CandidateCount,
		FileCount:   s.FileCount,
		UnusedCount: s.UnusedCount,
		Error:       s.Error,
	}
}

func toStageResults(stages []*resxsweep.DeletionStageEntry) []resxsweep.StageResult {
	out := make([]resxsweep.StageResult, 0, len(stages))
	for _, st := range stages {
		out = append(out, resxsweep.StageResult{Stage: st.Stage, Status: st.Status, Detail: st.Detail})
	}
	return out
}
