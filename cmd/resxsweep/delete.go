package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/jward/resxsweep"
	"github.com/spf13/cobra"
)

var (
	flagAll    bool
	flagSelect bool
	flagYes    bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete [key...]",
	Short: "Delete unused resources from the resource file, project and Resources folder",
	Long: `Rescans the project, then deletes the given unused keys (or all of them with --all,
or those picked interactively with --select). For each key the resource entry is
removed, project None items whose Include appears in the entry's value are removed,
and the file the value points at is deleted from the Resources folder.

The stages are not transactional: if one fails, earlier stages stay applied and the
report lists exactly which stages completed.`,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&flagAll, "all", false, "delete every unused resource")
	deleteCmd.Flags().BoolVar(&flagSelect, "select", false, "pick the resources to delete interactively")
	deleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "do not ask for confirmation")
	deleteCmd.MarkFlagsMutuallyExclusive("all", "select")
}

func runDelete(cmd *cobra.Command, args []string) error {
	if !flagAll && !flagSelect && len(args) == 0 {
		return outputError("delete", errors.New("nothing to delete: pass keys, --all or --select"))
	}
	if (flagAll || flagSelect) && len(args) > 0 {
		return outputError("delete", errors.New("keys cannot be combined with --all or --select"))
	}

	sc, err := scanConfig()
	if err != nil {
		return outputError("delete", err)
	}
	lock, err := acquireLock(sc.ProjectRoot)
	if err != nil {
		return outputError("delete", err)
	}
	defer lock.Release()

	engine, err := openEngine(sc.ProjectRoot)
	if err != nil {
		return outputError("delete", err)
	}
	defer engine.Close()

	ctx := context.Background()
	session, err := engine.Scan(ctx, sc)
	if err != nil {
		return outputError("delete", err)
	}

	switch {
	case flagAll:
		session.SelectAll(true)
	case flagSelect:
		if err := selectInteractively(session); err != nil {
			return handleAbort(err)
		}
	default:
		unused := session.Keys()
		for _, k := range args {
			if !unused.Has(k) {
				return outputError("delete", fmt.Errorf("%q is not an unused resource", k))
			}
			session.Select(k, true)
		}
	}

	keys := session.Selected()
	if len(keys) > 0 && !flagYes {
		ok, err := confirmDelete(len(keys))
		if err != nil {
			return handleAbort(err)
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Delete cancelled.")
			return nil
		}
	}

	report, err := session.DeleteSelected(ctx)
	if err != nil {
		if report != nil && flagFormat == "text" {
			formatDeleteText(os.Stderr, report)
		}
		return outputError("delete", err)
	}
	return outputResult(CLIResult{Command: "delete", Results: report})
}

// selectInteractively lets the user pick records with a multi-select form.
func selectInteractively(s *resxsweep.Session) error {
	records := s.Records()
	if len(records) == 0 {
		return nil
	}
	options := make([]huh.Option[string], 0, len(records))
	for _, r := range records {
		label := r.Key
		if r.Value != "" {
			label = fmt.Sprintf("%s  %s", r.Key, mutedStyle.Render(truncate(r.Value, 50)))
		}
		options = append(options, huh.NewOption(label, r.Key))
	}

	var picked []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Unused resources").
				Description("Space toggles, enter confirms.").
				Options(options...).
				Value(&picked),
		),
	).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		return err
	}
	for _, k := range picked {
		s.Select(k, true)
	}
	return nil
}

func confirmDelete(n int) (bool, error) {
	ok := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Are you sure you want to delete %d resource(s)?", n)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	return ok, err
}

// handleAbort turns a cancelled form into a clean exit.
func handleAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Fprintln(os.Stderr, "Delete cancelled.")
		return nil
	}
	return outputError("delete", fmt.Errorf("form error: %w", err))
}
