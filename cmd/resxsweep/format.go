package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/jward/resxsweep"
)

// Styles for text output.
var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"})
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"})
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"})
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"})
)

// validateFormat checks that the --format flag value is valid.
func validateFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("invalid format %q: must be json or text", format)
	}
}

// outputResult writes a result in the selected format to stdout.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(os.Stdout, result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "%s %s\n", failStyle.Render("Error:"), err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// outputResultText dispatches on the result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch r := result.Results.(type) {
	case CLIScan:
		formatScanText(w, r)
	case *resxsweep.DeleteReport:
		formatDeleteText(w, r)
	case CLIHistory:
		formatHistoryText(w, r)
	case CLIConfig:
		formatConfigText(w, r)
	case map[string]string:
		for k, v := range r {
			fmt.Fprintf(w, "%s: %s\n", k, v)
		}
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Results)
	}
	return nil
}

// formatScanText lists the unused resources as aligned columns.
func formatScanText(w io.Writer, s CLIScan) {
	if len(s.Unused) == 0 {
		fmt.Fprintln(w, passStyle.Render("No unused resources."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d unused resource(s) in %s", len(s.Unused), s.Resx)))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE")
	for _, r := range s.Unused {
		fmt.Fprintf(tw, "%s\t%s\n", r.Key, truncate(r.Value, 60))
	}
	tw.Flush()
	if s.Copied {
		fmt.Fprintf(w, "Copied %d key(s) to the clipboard.\n", len(s.Unused))
	}
}

// formatDeleteText reports what each stage of a deletion did.
func formatDeleteText(w io.Writer, r *resxsweep.DeleteReport) {
	if len(r.Keys) == 0 {
		fmt.Fprintln(w, "Nothing to delete.")
		return
	}
	formatStagesText(w, r.Stages)
	for _, f := range r.FilesDeleted {
		fmt.Fprintf(w, "  deleted %s\n", f)
	}
}

func formatStagesText(w io.Writer, stages []resxsweep.StageResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tSTATUS\tDETAIL")
	for _, st := range stages {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", st.Stage, styleStatus(st.Status), st.Detail)
	}
	tw.Flush()
}

func styleStatus(status string) string {
	switch status {
	case resxsweep.StageDone:
		return passStyle.Render(status)
	case resxsweep.StageFailed:
		return failStyle.Render(status)
	case resxsweep.StageSkipped, resxsweep.StagePending:
		return warnStyle.Render(status)
	}
	return status
}

// formatHistoryText lists journaled scans and deletions.
func formatHistoryText(w io.Writer, h CLIHistory) {
	fmt.Fprintln(w, headerStyle.Render("Scans"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tCANDIDATES\tFILES\tUNUSED\tERROR")
	for _, s := range h.Scans {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			s.ID, s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.Candidates, s.FileCount, s.UnusedCount, s.Error)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Deletions"))
	for _, d := range h.Deletions {
		state := passStyle.Render("finished")
		switch {
		case d.FinishedAt == nil:
			state = failStyle.Render("interrupted")
		case d.Error != "":
			state = warnStyle.Render("failed")
		}
		fmt.Fprintf(w, "%s  %s  %s  %d key(s)\n", d.ID, d.StartedAt.Local().Format("2006-01-02 15:04:05"), state, len(d.Keys))
		if d.Error != "" {
			fmt.Fprintf(w, "  %s\n", mutedStyle.Render(d.Error))
		}
		formatStagesText(w, d.Stages)
	}
}

func formatConfigText(w io.Writer, c CLIConfig) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "project\t%s\n", c.ProjectRoot)
	fmt.Fprintf(tw, "resx\t%s\n", c.Resx)
	fmt.Fprintf(tw, "extensions\t%v\n", c.Extensions)
	fmt.Fprintf(tw, "formats\t%v\n", c.Formats)
	fmt.Fprintf(tw, "exclude\t%v\n", c.Exclude)
	fmt.Fprintf(tw, "skip\t%v\n", c.Skip)
	fmt.Fprintf(tw, "match\t%s\n", c.Match)
	fmt.Fprintf(tw, "project-extensions\t%v\n", c.ProjectExtensions)
	tw.Flush()
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
