package resxsweep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jward/resxsweep/internal/msbuild"
	"github.com/jward/resxsweep/internal/resx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manifestKeys(t *testing.T, path string) []string {
	t.Helper()
	m, err := resx.Load(path)
	require.NoError(t, err)
	entries, err := m.Entries()
	require.NoError(t, err)
	var keys []string
	for _, e := range entries {
		keys = append(keys, e.Name)
	}
	return keys
}

func projectIncludes(t *testing.T, path string) []string {
	t.Helper()
	p, err := msbuild.Load(path)
	require.NoError(t, err)
	var out []string
	for _, it := range p.Items(msbuild.NoneItem) {
		out = append(out, it.Include)
	}
	return out
}

// fileBackedProject has one plain string, two file-backed resources and
// their files in Resources/.
func fileBackedProject(t *testing.T) testProject {
	t.Helper()
	p := newTestProject(t, []testEntry{
		{"Hello", "Hello"},
		{"Logo", `..\Resources\logo.png;System.Drawing.Bitmap, System.Drawing`},
		{"Banner", `..\Resources\banner.png;System.Drawing.Bitmap, System.Drawing`},
	}, map[string]string{
		"Main.cs":              "AppResources.Hello",
		"Resources/logo.png":   "png",
		"Resources/banner.png": "png",
	})
	return p
}

func TestDelete_AllStages(t *testing.T) {
	p := fileBackedProject(t)
	s := scanProject(t, newTestEngine(t), p.config(""))
	require.Equal(t, []string{"Banner", "Logo"}, s.Keys().Sorted())

	report, err := s.Delete(t.Context(), []string{"Logo"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello", "Banner"}, manifestKeys(t, p.Manifest))
	assert.Equal(t, []string{`Resources\banner.png`}, projectIncludes(t, p.Project))
	assert.NoFileExists(t, filepath.Join(p.Root, "Resources", "logo.png"))
	assert.FileExists(t, filepath.Join(p.Root, "Resources", "banner.png"))

	assert.Equal(t, []string{"Logo"}, report.EntriesRemoved)
	assert.Equal(t, []string{`Resources\logo.png`}, report.ItemsRemoved)
	assert.Equal(t, p.Project, report.ProjectFile)
	for _, stage := range Stages {
		assert.True(t, report.Completed(stage), stage)
	}
	assert.Equal(t, []string{"Banner"}, s.Keys().Sorted())
	require.Len(t, s.Records(), 1)
	assert.Equal(t, "Banner", s.Records()[0].Key)
}

func TestDelete_SlashValueUsesBaseName(t *testing.T) {
	p := newTestProject(t, []testEntry{{"Logo", "images/logo.png;image/png"}}, map[string]string{
		"Resources/logo.png": "png",
	})
	writeFile(t, p.Root, "App.csproj", `<Project>
  <ItemGroup>
    <None Include="images/logo.png" />
  </ItemGroup>
</Project>
`)
	s := scanProject(t, newTestEngine(t), p.config(""))

	report, err := s.DeleteAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, manifestKeys(t, p.Manifest))
	assert.Empty(t, projectIncludes(t, p.Project))
	assert.NotContains(t, readFile(t, p.Project), "ItemGroup", "emptied item group is removed")
	assert.NoFileExists(t, filepath.Join(p.Root, "Resources", "logo.png"))
	assert.Equal(t, []string{filepath.Join(p.Root, "Resources", "logo.png")}, report.FilesDeleted)
}

func TestDelete_MissingResourceFileIsNotRolledBack(t *testing.T) {
	p := fileBackedProject(t)
	s := scanProject(t, newTestEngine(t), p.config(""))
	require.NoError(t, os.Remove(filepath.Join(p.Root, "Resources", "logo.png")))

	report, err := s.Delete(t.Context(), []string{"Logo"})
	require.Error(t, err)
	assert.True(t, IsFileError(err))

	// Manifest and project stay modified.
	assert.Equal(t, []string{"Hello", "Banner"}, manifestKeys(t, p.Manifest))
	assert.Equal(t, []string{`Resources\banner.png`}, projectIncludes(t, p.Project))

	assert.True(t, report.Completed(StageManifest))
	assert.True(t, report.Completed(StageProject))
	assert.False(t, report.Completed(StageFolder))
	assert.True(t, report.Completed(StageSession))
	assert.Equal(t, []string{"Banner"}, s.Keys().Sorted())
}

func TestDelete_FolderStopsAtFirstFailure(t *testing.T) {
	p := newTestProject(t, []testEntry{
		{"A", `..\Resources\a.png;System.Drawing.Bitmap, System.Drawing`},
		{"B", `..\Resources\b.png;System.Drawing.Bitmap, System.Drawing`},
		{"C", `..\Resources\c.png;System.Drawing.Bitmap, System.Drawing`},
	}, map[string]string{
		"Resources/a.png": "png",
		"Resources/c.png": "png",
	})
	s := scanProject(t, newTestEngine(t), p.config(""))
	require.Equal(t, []string{"A", "B", "C"}, s.Keys().Sorted())

	report, err := s.DeleteAll(t.Context())
	require.Error(t, err)
	assert.True(t, IsFileError(err), "got %T", err)

	assert.Equal(t, []string{filepath.Join(p.Root, "Resources", "a.png")}, report.FilesDeleted)
	assert.NoFileExists(t, filepath.Join(p.Root, "Resources", "a.png"))
	assert.FileExists(t, filepath.Join(p.Root, "Resources", "c.png"), "files after the failure are not attempted")

	assert.True(t, report.Completed(StageManifest))
	assert.True(t, report.Completed(StageProject))
	assert.False(t, report.Completed(StageFolder))
	assert.True(t, report.Completed(StageSession))
	assert.Empty(t, manifestKeys(t, p.Manifest))
	assert.Empty(t, s.Keys())
}

func TestDelete_NoProjectFileModifiesNothing(t *testing.T) {
	p := fileBackedProject(t)
	s := scanProject(t, newTestEngine(t), p.config(""))
	require.NoError(t, os.Remove(p.Project))
	before := readFile(t, p.Manifest)

	_, err := s.Delete(t.Context(), []string{"Logo"})
	require.Error(t, err)
	assert.True(t, IsParseError(err))
	assert.Equal(t, before, readFile(t, p.Manifest))
	assert.FileExists(t, filepath.Join(p.Root, "Resources", "logo.png"))
	assert.Equal(t, []string{"Banner", "Logo"}, s.Keys().Sorted())
}

func TestDelete_NoResourcesFolder(t *testing.T) {
	p := fileBackedProject(t)
	s := scanProject(t, newTestEngine(t), p.config(""))
	require.NoError(t, os.RemoveAll(filepath.Join(p.Root, "Resources")))

	report, err := s.Delete(t.Context(), []string{"Logo"})
	require.Error(t, err)
	assert.True(t, IsParseError(err))

	assert.Equal(t, []string{"Hello", "Banner"}, manifestKeys(t, p.Manifest))
	assert.Equal(t, []string{`Resources\banner.png`}, projectIncludes(t, p.Project))
	assert.True(t, report.Completed(StageManifest))
	assert.False(t, report.Completed(StageFolder))
}

func TestDelete_PlainStringSkipsFolder(t *testing.T) {
	p := newTestProject(t, []testEntry{{"Hello", "Hello"}, {"Bye", "Bye"}}, map[string]string{
		"Main.cs":           "AppResources.Hello",
		"Resources/keep.md": "x",
	})
	s := scanProject(t, newTestEngine(t), p.config(""))

	report, err := s.DeleteAll(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello"}, manifestKeys(t, p.Manifest))
	assert.Empty(t, report.FilesDeleted)
	assert.Empty(t, report.ItemsRemoved)
	assert.FileExists(t, filepath.Join(p.Root, "Resources", "keep.md"))
}

func TestDelete_EmptySetChangesNothing(t *testing.T) {
	p := fileBackedProject(t)
	s := scanProject(t, newTestEngine(t), p.config(""))
	manifest, project := readFile(t, p.Manifest), readFile(t, p.Project)

	report, err := s.DeleteSelected(t.Context())
	require.NoError(t, err)
	assert.Empty(t, report.Keys)
	assert.Empty(t, report.Stages)
	assert.Equal(t, manifest, readFile(t, p.Manifest))
	assert.Equal(t, project, readFile(t, p.Project))
}

func TestDelete_UnknownKeyRejected(t *testing.T) {
	p := fileBackedProject(t)
	s := scanProject(t, newTestEngine(t), p.config(""))
	before := readFile(t, p.Manifest)

	_, err := s.Delete(t.Context(), []string{"Hello"})
	require.Error(t, err)
	assert.True(t, IsParseError(err), "got %T", err)
	assert.Contains(t, err.Error(), `"Hello" is not an unused resource`)
	assert.Equal(t, before, readFile(t, p.Manifest))
	assert.Equal(t, []string{"Banner", "Logo"}, s.Keys().Sorted())
}

func TestDelete_RepeatIsNoop(t *testing.T) {
	p := fileBackedProject(t)
	s := scanProject(t, newTestEngine(t), p.config(""))
	s.Select("Logo", true)
	_, err := s.DeleteSelected(t.Context())
	require.NoError(t, err)

	// The key is gone from the session, so selecting it again selects nothing.
	s.Select("Logo", true)
	report, err := s.DeleteSelected(t.Context())
	require.NoError(t, err)
	assert.Empty(t, report.Keys)

	require.NoError(t, s.Refresh(t.Context()))
	assert.Equal(t, []string{"Banner"}, s.Keys().Sorted())
}

func TestDelete_PreservesManifestLayout(t *testing.T) {
	p := newTestProject(t, []testEntry{{"A", "a"}, {"B", "b"}}, map[string]string{
		"Main.cs":        "AppResources.A",
		"Resources/x.md": "",
	})
	s := scanProject(t, newTestEngine(t), p.config(""))
	_, err := s.DeleteAll(t.Context())
	require.NoError(t, err)

	got := readFile(t, p.Manifest)
	assert.Contains(t, got, "<resheader name=\"resmimetype\">")
	assert.Contains(t, got, "  <data name=\"A\" xml:space=\"preserve\">\n    <value>a</value>\n  </data>\n</root>")
	assert.NotContains(t, got, `name="B"`)
}

func TestDelete_Journaled(t *testing.T) {
	p := fileBackedProject(t)
	e := newTestEngine(t, WithJournal(filepath.Join(t.TempDir(), "journal.db")))
	s := scanProject(t, e, p.config(""))
	require.NoError(t, os.Remove(filepath.Join(p.Root, "Resources", "banner.png")))

	report, err := s.DeleteAll(t.Context())
	require.Error(t, err)
	require.NotEmpty(t, report.ID)

	ctx := t.Context()
	keys, err := e.Journal().DeletionKeys(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Banner", "Logo"}, keys)

	stages, err := e.Journal().DeletionStages(ctx, report.ID)
	require.NoError(t, err)
	require.Len(t, stages, len(Stages))
	got := map[string]string{}
	for _, st := range stages {
		got[st.Stage] = st.Status
	}
	assert.Equal(t, map[string]string{
		StageManifest: StageDone,
		StageProject:  StageDone,
		StageFolder:   StageFailed,
		StageSession:  StageDone,
	}, got)

	unfinished, err := e.Journal().UnfinishedDeletions(ctx)
	require.NoError(t, err)
	assert.Empty(t, unfinished)
}
