package resxsweep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jward/resxsweep/internal/msbuild"
	"github.com/jward/resxsweep/internal/resx"
)

// ResourcesDir is the name of the project subdirectory holding the files
// that file-backed resources point at.
const ResourcesDir = "Resources"

// Deletion stages, in the order they run.
const (
	StageManifest = "manifest"
	StageProject  = "project"
	StageFolder   = "folder"
	StageSession  = "session"
)

// Stages lists every deletion stage in order.
var Stages = []string{StageManifest, StageProject, StageFolder, StageSession}

// StageResult is the outcome of one deletion stage.
type StageResult struct {
	Stage  string `json:"stage"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// DeleteReport describes what a deletion changed. After a failure it still
// lists everything the completed stages did.
type DeleteReport struct {
	ID             string        `json:"id,omitempty"`
	Keys           []string      `json:"keys"`
	EntriesRemoved []string      `json:"entries_removed,omitempty"`
	ProjectFile    string        `json:"project_file,omitempty"`
	ItemsRemoved   []string      `json:"items_removed,omitempty"`
	FilesDeleted   []string      `json:"files_deleted,omitempty"`
	Stages         []StageResult `json:"stages"`
}

// Completed reports whether stage finished successfully.
func (r *DeleteReport) Completed(stage string) bool {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s.Status == StageDone
		}
	}
	return false
}

func (r *DeleteReport) set(res StageResult) {
	for i := range r.Stages {
		if r.Stages[i].Stage == res.Stage {
			r.Stages[i] = res
			return
		}
	}
	r.Stages = append(r.Stages, res)
}

// DeleteSelected deletes the selected records.
func (s *Session) DeleteSelected(ctx context.Context) (*DeleteReport, error) {
	return s.Delete(ctx, s.Selected())
}

// DeleteAll deletes every unused record.
func (s *Session) DeleteAll(ctx context.Context) (*DeleteReport, error) {
	return s.Delete(ctx, s.keys.Sorted())
}

// Delete removes keys from the manifest, the project file and the Resources
// folder, then from the session. Every key must be in the unused set.
//
// The stages run in order and stop at the first failure; stores already
// modified are not rolled back. Once the manifest stage has succeeded the
// session stage always runs, so the session never lists a key that is gone
// from the manifest. An empty key list changes nothing.
func (s *Session) Delete(ctx context.Context, keys []string) (*DeleteReport, error) {
	e := s.engine
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	set := NewKeySet(keys...)
	report := &DeleteReport{Keys: set.Sorted()}
	if set.Len() == 0 {
		return report, nil
	}
	for _, k := range report.Keys {
		if !s.keys.Has(k) {
			return nil, &ParseError{Path: s.cfg.ManifestPath, Msg: fmt.Sprintf("%q is not an unused resource", k)}
		}
	}

	e.status(ctx, "Deleting %d unused resource(s)...", set.Len())

	// The project file is located up front so a project without one fails
	// before the manifest is modified.
	projectFile, err := s.locateProject(ctx)
	if err != nil {
		e.logger.ErrorContext(ctx, "delete aborted", "error", err)
		return report, err
	}
	report.ProjectFile = projectFile

	j, err := e.journalDeletion(ctx, s, report.Keys)
	if err != nil {
		e.logger.ErrorContext(ctx, "delete aborted", "error", err)
		return report, err
	}
	report.ID = j.ID()
	for _, stage := range Stages {
		report.Stages = append(report.Stages, StageResult{Stage: stage, Status: StagePending})
	}

	err = s.runStages(ctx, j, report, set, projectFile)

	for i := range report.Stages {
		if report.Stages[i].Status == StagePending {
			report.Stages[i].Status = StageSkipped
			j.stage(ctx, report.Stages[i])
		}
	}
	j.finish(ctx, err)

	if err != nil {
		e.logger.ErrorContext(ctx, "delete failed",
			"keys", len(report.Keys),
			"entries_removed", len(report.EntriesRemoved),
			"items_removed", len(report.ItemsRemoved),
			"files_deleted", len(report.FilesDeleted),
			"error", err,
		)
		return report, err
	}
	e.status(ctx, "Deleted %d unused resource(s).", len(report.Keys))
	return report, nil
}

func (s *Session) runStages(ctx context.Context, j *deletionJournal, report *DeleteReport, set KeySet, projectFile string) error {
	run := func(stage string, fn func() (string, error)) error {
		detail, err := fn()
		res := StageResult{Stage: stage, Status: StageDone, Detail: detail}
		if err != nil {
			res.Status = StageFailed
			res.Detail = err.Error()
		}
		report.set(res)
		j.stage(ctx, res)
		s.engine.logger.DebugContext(ctx, "delete stage", "stage", stage, "status", res.Status, "detail", res.Detail)
		return err
	}

	var removed []resx.Entry
	if err := run(StageManifest, func() (string, error) {
		var err error
		removed, err = removeFromManifest(s.cfg.ManifestPath, set)
		return fmt.Sprintf("%d entries removed", len(removed)), err
	}); err != nil {
		return err
	}
	for _, r := range removed {
		report.EntriesRemoved = append(report.EntriesRemoved, r.Name)
	}

	err := run(StageProject, func() (string, error) {
		items, err := removeFromProject(projectFile, removed)
		report.ItemsRemoved = items
		return fmt.Sprintf("%d items removed", len(items)), err
	})
	if err == nil {
		err = run(StageFolder, func() (string, error) {
			files, err := removeFromFolder(s.cfg.ProjectRoot, removed)
			report.FilesDeleted = files
			return fmt.Sprintf("%d files deleted", len(files)), err
		})
	}

	// The manifest no longer holds these keys; the session must not either.
	run(StageSession, func() (string, error) {
		s.prune(set)
		return fmt.Sprintf("%d records remaining", len(s.view.Records)), nil
	})
	return err
}

// locateProject finds the project file in the project root. Several
// candidates are tolerated: the first in name order is used.
func (s *Session) locateProject(ctx context.Context) (string, error) {
	root := s.cfg.ProjectRoot
	found, err := msbuild.Find(root, s.cfg.ProjectExtensions)
	if errors.Is(err, msbuild.ErrNoProject) {
		return "", &ParseError{Path: root, Msg: "no project file found"}
	}
	if err != nil {
		return "", &FileError{Op: "find project file", Path: root, Err: err}
	}
	if len(found) > 1 {
		s.engine.logger.WarnContext(ctx, "several project files found, using the first",
			"project", found[0], "candidates", len(found))
	}
	return found[0], nil
}

// removeFromManifest reloads the manifest from disk, removes the entries
// named in keys and saves it. It returns the removed entries.
func removeFromManifest(manifestPath string, keys KeySet) ([]resx.Entry, error) {
	m, err := resx.Load(manifestPath)
	if err != nil {
		return nil, &FileError{Op: "reload resource file", Path: manifestPath, Err: err}
	}
	removed, err := m.Remove(keys)
	if err != nil {
		return nil, &ParseError{Path: manifestPath, Msg: "invalid resource file", Err: err}
	}
	if err := m.Save(); err != nil {
		return nil, &FileError{Op: "save resource file", Path: manifestPath, Err: err}
	}
	return removed, nil
}

// removeFromProject drops every None item whose Include occurs in the value
// of a removed entry, and saves the project. It returns the removed
// Include values.
func removeFromProject(projectFile string, removed []resx.Entry) ([]string, error) {
	p, err := msbuild.Load(projectFile)
	if err != nil {
		return nil, &FileError{Op: "load project file", Path: projectFile, Err: err}
	}
	items := p.RemoveItems(msbuild.NoneItem, func(include string) bool {
		for _, r := range removed {
			if strings.Contains(r.Value, include) {
				return true
			}
		}
		return false
	})
	if err := p.Save(); err != nil {
		return nil, &FileError{Op: "save project file", Path: projectFile, Err: err}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Include)
	}
	return out, nil
}

// removeFromFolder deletes, for every removed entry with a file-backed
// value, the file of the same base name in the Resources folder. Values
// without a ";" are not file-backed and are skipped.
func removeFromFolder(projectRoot string, removed []resx.Entry) ([]string, error) {
	dir, err := findResourcesDir(projectRoot)
	if err != nil {
		return nil, err
	}
	var deleted []string
	for _, r := range removed {
		rel := embeddedPath(r.Value)
		if rel == "" {
			continue
		}
		target := filepath.Join(dir, path.Base(strings.ReplaceAll(rel, `\`, "/")))
		if err := os.Remove(target); err != nil {
			return deleted, &FileError{Op: "delete resource file", Path: target, Err: err}
		}
		deleted = append(deleted, target)
	}
	return deleted, nil
}

// findResourcesDir returns the Resources subdirectory of the project root.
func findResourcesDir(projectRoot string) (string, error) {
	dir := filepath.Join(projectRoot, ResourcesDir)
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) || (err == nil && !info.IsDir()) {
		return "", &ParseError{Path: projectRoot, Msg: "no " + ResourcesDir + " folder found"}
	}
	if err != nil {
		return "", &FileError{Op: "find resources folder", Path: dir, Err: err}
	}
	return dir, nil
}
