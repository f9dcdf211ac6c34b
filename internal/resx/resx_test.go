package resx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `<?xml version="1.0" encoding="utf-8"?>
<root>
  <resheader name="resmimetype">
    <value>text/microsoft-resx</value>
  </resheader>
  <data name="Hello" xml:space="preserve">
    <value>Hello</value>
  </data>
  <data name="Logo" type="System.Resources.ResXFileRef, System.Windows.Forms">
    <value>..\Resources\logo.png;System.Drawing.Bitmap, System.Drawing</value>
  </data>
  <data name="NoValue" />
</root>
`

func TestEntries(t *testing.T) {
	m, err := Parse("a.resx", []byte(manifest))
	require.NoError(t, err)

	entries, err := m.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Name: "Hello", Value: "Hello", HasValue: true}, entries[0])
	assert.Equal(t, "Logo", entries[1].Name)
	assert.Equal(t, `..\Resources\logo.png;System.Drawing.Bitmap, System.Drawing`, entries[1].Value)
	assert.Equal(t, Entry{Name: "NoValue"}, entries[2])
}

func TestEntries_NoRoot(t *testing.T) {
	m, err := Parse("empty.resx", []byte(`<?xml version="1.0"?>`))
	require.NoError(t, err)

	_, err = m.Entries()
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestEntries_MissingName(t *testing.T) {
	m, err := Parse("a.resx", []byte(`<root><data name="A"/><data><value>x</value></data></root>`))
	require.NoError(t, err)

	_, err = m.Entries()
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestRemove_SavesOnlySurvivors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.resx")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	removed, err := m.Remove(map[string]struct{}{"Logo": {}, "Missing": {}})
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "Logo", removed[0].Name)
	require.NoError(t, m.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	entries, err := reloaded.Entries()
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Hello", "NoValue"}, names)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "text/microsoft-resx", "non-data elements are untouched")
}

func TestRemove_Nothing(t *testing.T) {
	m, err := Parse("a.resx", []byte(manifest))
	require.NoError(t, err)
	removed, err := m.Remove(nil)
	require.NoError(t, err)
	assert.Empty(t, removed)
}
