package msbuild

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csproj = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
  </PropertyGroup>
  <ItemGroup>
    <None Include="Resources\logo.png" />
    <None Include="Resources\icon.png" />
    <Compile Include="Program.cs" />
  </ItemGroup>
  <ItemGroup>
    <None Include="Resources\banner.png" />
  </ItemGroup>
</Project>
`

func writeProject(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, "b.csproj", csproj)
	writeProject(t, dir, "a.csproj", csproj)
	writeProject(t, dir, "readme.md", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csproj"), 0o755))

	paths, err := Find(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.csproj"), filepath.Join(dir, "b.csproj")}, paths)
}

func TestFind_CustomExtension(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, "app.vbproj", csproj)

	_, err := Find(dir, nil)
	assert.ErrorIs(t, err, ErrNoProject)

	paths, err := Find(dir, []string{".vbproj"})
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestFind_MissingRoot(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "gone"), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoProject)
}

func TestItems(t *testing.T) {
	path := writeProject(t, t.TempDir(), "app.csproj", csproj)
	p, err := Load(path)
	require.NoError(t, err)

	items := p.Items(NoneItem)
	require.Len(t, items, 3)
	assert.Equal(t, `Resources\logo.png`, items[0].Include)
	assert.Equal(t, `Resources\banner.png`, items[2].Include)
}

func TestRemoveItems_DropsEmptyGroups(t *testing.T) {
	path := writeProject(t, t.TempDir(), "app.csproj", csproj)
	p, err := Load(path)
	require.NoError(t, err)

	removed := p.RemoveItems(NoneItem, func(include string) bool {
		return strings.Contains(`..\Resources\logo.png;x ..\Resources\banner.png;y`, include)
	})
	require.Len(t, removed, 2)
	require.NoError(t, p.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(raw)
	assert.NotContains(t, s, "logo.png")
	assert.NotContains(t, s, "banner.png")
	assert.Contains(t, s, "icon.png")
	assert.Contains(t, s, "Program.cs")
	assert.Equal(t, 1, strings.Count(s, "<ItemGroup>"), "emptied item group is removed")
}

func TestRemoveItems_IncludeIsNotEvaluated(t *testing.T) {
	path := writeProject(t, t.TempDir(), "app.csproj", `<Project>
  <ItemGroup>
    <None Include="Resources\*.png" />
    <None Include="$(AssetDir)\logo.png" />
  </ItemGroup>
</Project>
`)
	p, err := Load(path)
	require.NoError(t, err)

	items := p.Items(NoneItem)
	require.Len(t, items, 2)
	assert.Equal(t, `Resources\*.png`, items[0].Include)
	assert.Equal(t, `$(AssetDir)\logo.png`, items[1].Include)

	removed := p.RemoveItems(NoneItem, func(include string) bool {
		return strings.Contains(`..\Resources\logo.png;x`, include)
	})
	assert.Empty(t, removed)
	assert.Len(t, p.Items(NoneItem), 2)
}

func TestLoad_Malformed(t *testing.T) {
	path := writeProject(t, t.TempDir(), "app.csproj", "<Project Sdk=")
	_, err := Load(path)
	require.Error(t, err)
}
