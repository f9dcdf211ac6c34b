package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jward/resxsweep"
	"github.com/jward/resxsweep/internal/lockfile"
	"github.com/spf13/cobra"
)

var (
	flagDB        string
	flagFormat    string
	flagConfig    string
	flagNoJournal bool
	flagVerbose   bool
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

// logger is configured in the root PersistentPreRunE.
var logger = slog.New(slog.DiscardHandler)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "resxsweep",
	Short:         "Find and delete unused .resx string resources",
	Long:          "resxsweep scans a project's source files for references to the keys of a .resx resource file and deletes the unreferenced ones from the resource file, the project file and the Resources folder.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(flagFormat); err != nil {
			return err
		}
		logger = newLogger(flagVerbose)
		return loadConfig(cmd)
	},
	// No Run: prints help by default.
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDB, "db", "", "journal path (default: .resxsweep/journal.db under the project root)")
	pf.StringVar(&flagFormat, "format", "text", "output format: json|text")
	pf.StringVar(&flagConfig, "config", "", "config file (default: .resxsweep.yaml in the project root)")
	pf.BoolVar(&flagNoJournal, "no-journal", false, "do not record scans and deletions")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	addScanFlags(pf)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openEngine creates an Engine for the configured project, with the journal
// unless --no-journal is set. Status lines go to stderr in text mode.
func openEngine(root string) (*resxsweep.Engine, error) {
	opts := []resxsweep.Option{resxsweep.WithLogger(logger)}
	if flagFormat == "text" {
		opts = append(opts, resxsweep.WithProgress(func(status string) {
			fmt.Fprintln(os.Stderr, mutedStyle.Render(status))
		}))
	}
	if !flagNoJournal {
		dbPath := resolveDBPath(root)
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
		}
		opts = append(opts, resxsweep.WithJournal(dbPath))
	}
	engine, err := resxsweep.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	return engine, nil
}

// acquireLock takes the project's cross-process lock so two resxsweep
// processes never edit the same project at once.
func acquireLock(root string) (*lockfile.Lock, error) {
	l, err := lockfile.Acquire(filepath.Join(root, stateDir, "lock"))
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", root, err)
	}
	return l, nil
}

const stateDir = ".resxsweep"

// findProjectRoot walks up from startDir looking for a directory that holds
// a project file. Returns startDir if none is found.
func findProjectRoot(startDir string, extensions []string) string {
	if len(extensions) == 0 {
		extensions = []string{".csproj"}
	}
	dir := startDir
	for {
		for _, ext := range extensions {
			if matches, _ := filepath.Glob(filepath.Join(dir, "*"+ext)); len(matches) > 0 {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding a project file.
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the journal path from the --db flag or the default.
func resolveDBPath(root string) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(root, flagDB)
	}
	return filepath.Join(root, stateDir, "journal.db")
}
