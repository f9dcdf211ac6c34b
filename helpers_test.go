package resxsweep

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEntry is one data entry of a generated manifest.
type testEntry struct {
	Name, Value string
}

func manifestXML(entries ...testEntry) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<root>\n")
	b.WriteString("  <resheader name=\"resmimetype\">\n    <value>text/microsoft-resx</value>\n  </resheader>\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "  <data name=%q xml:space=\"preserve\">\n    <value>%s</value>\n  </data>\n", e.Name, e.Value)
	}
	b.WriteString("</root>\n")
	return b.String()
}

const testProjectXML = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
  </PropertyGroup>
  <ItemGroup>
    <None Include="Resources\logo.png" />
    <None Include="Resources\banner.png" />
  </ItemGroup>
  <ItemGroup>
    <Compile Include="Program.cs" />
  </ItemGroup>
</Project>
`

// testProject is a project tree on disk.
type testProject struct {
	Root     string
	Manifest string
	Project  string
}

// writeFile writes content to root/rel, creating parent directories.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newTestProject lays out a project with a manifest at
// Properties/AppResources.resx, an App.csproj and the given source files.
func newTestProject(t *testing.T, entries []testEntry, sources map[string]string) testProject {
	t.Helper()
	root := t.TempDir()
	p := testProject{
		Root:     root,
		Manifest: writeFile(t, root, "Properties/AppResources.resx", manifestXML(entries...)),
		Project:  writeFile(t, root, "App.csproj", testProjectXML),
	}
	for rel, content := range sources {
		writeFile(t, root, rel, content)
	}
	return p
}

func (p testProject) config(formats string) ScanConfig {
	return ParseScanConfig(p.Root, p.Manifest, ".cs,.xaml", formats, "")
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func scanProject(t *testing.T, e *Engine, cfg ScanConfig) *Session {
	t.Helper()
	s, err := e.Scan(t.Context(), cfg)
	require.NoError(t, err)
	return s
}
