package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jward/resxsweep"
	"github.com/spf13/cobra"
)

var (
	flagLimit int
	flagPrune int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show journaled scans and deletions",
	Long:  "Lists recent scans and deletions from the journal. Deletions that never finished were interrupted; their stages show which stores were already updated.",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "maximum number of scans and deletions to list")
	historyCmd.Flags().IntVar(&flagPrune, "prune", 0, "keep only the newest N scans before listing (0 keeps all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if flagNoJournal {
		return outputError("history", errors.New("history needs the journal; drop --no-journal"))
	}
	root, err := projectRoot(cfg)
	if err != nil {
		return outputError("history", err)
	}
	if _, err := os.Stat(resolveDBPath(root)); err != nil {
		return outputError("history", fmt.Errorf("no journal at %s", resolveDBPath(root)))
	}

	engine, err := openEngine(root)
	if err != nil {
		return outputError("history", err)
	}
	defer engine.Close()

	ctx := context.Background()
	if flagPrune > 0 {
		lock, err := acquireLock(root)
		if err != nil {
			return outputError("history", err)
		}
		defer lock.Release()

		n, err := engine.Journal().PruneScans(ctx, flagPrune)
		if err != nil {
			return outputError("history", err)
		}
		logger.Info("pruned scans", "removed", n, "kept", flagPrune)
	}

	h, err := loadHistory(ctx, engine.Journal(), flagLimit)
	if err != nil {
		return outputError("history", err)
	}
	return outputResult(CLIResult{Command: "history", Results: h})
}

func loadHistory(ctx context.Context, j *resxsweep.Journal, limit int) (CLIHistory, error) {
	h := CLIHistory{Scans: []CLIScanEntry{}, Deletions: []CLIDeletion{}}

	scans, err := j.Scans(ctx, limit)
	if err != nil {
		return h, err
	}
	for _, s := range scans {
		h.Scans = append(h.Scans, toCLIScanEntry(s))
	}

	deletions, err := j.Deletions(ctx, limit)
	if err != nil {
		return h, err
	}
	for _, d := range deletions {
		keys, err := j.DeletionKeys(ctx, d.ID)
		if err != nil {
			return h, err
		}
		stages, err := j.DeletionStages(ctx, d.ID)
		if err != nil {
			return h, err
		}
		h.Deletions = append(h.Deletions, CLIDeletion{
			ID:         d.ID,
			ScanID:     d.ScanID,
			StartedAt:  d.StartedAt,
			FinishedAt: d.FinishedAt,
			Error:      d.Error,
			Keys:       keys,
			Stages:     toStageResults(stages),
		})
	}
	return h, nil
}
