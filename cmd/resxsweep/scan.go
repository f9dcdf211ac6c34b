package main

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/jward/resxsweep"
	"github.com/spf13/cobra"
)

var flagCopy bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List resources no source file references",
	Long:  "Reads the resource file, searches every source file for each key in every reference format and lists the keys that were never found.",
	Args:  cobra.NoArgs,
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&flagCopy, "copy", false, "copy the unused keys to the clipboard, one per line")
}

func runScan(cmd *cobra.Command, args []string) error {
	sc, err := scanConfig()
	if err != nil {
		return outputError("scan", err)
	}
	lock, err := acquireLock(sc.ProjectRoot)
	if err != nil {
		return outputError("scan", err)
	}
	defer lock.Release()

	engine, err := openEngine(sc.ProjectRoot)
	if err != nil {
		return outputError("scan", err)
	}
	defer engine.Close()

	session, err := engine.Scan(context.Background(), sc)
	if err != nil {
		return outputError("scan", err)
	}

	result := toCLIScan(session)
	if flagCopy && len(result.Unused) > 0 {
		if err := clipboard.WriteAll(session.KeysText()); err != nil {
			return outputError("scan", fmt.Errorf("copying to clipboard: %w", err))
		}
		result.Copied = true
	}
	count := len(result.Unused)
	return outputResult(CLIResult{Command: "scan", Results: result, TotalCount: &count})
}

func toCLIScan(s *resxsweep.Session) CLIScan {
	sc := s.Config()
	return CLIScan{
		ScanID:      s.ID(),
		ProjectRoot: sc.ProjectRoot,
		Resx:        sc.ManifestPath,
		FileCount:   s.FileCount(),
		Unused:      s.Records(),
	}
}
