package resxsweep

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	assert.Equal(t, "AppResources.Hello", Expand("AppResources.%", "Hello"))
	assert.Equal(t, `GetString("Hello")`, Expand(`GetString("%")`, "Hello"))
}

func TestScanReferences(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.cs", "Title = App.Hello;")
	b := writeFile(t, root, "b.xaml", `<Label Text="{x:Static App.World}" />`)

	keys := NewKeySet("Hello", "World", "Unused")
	require.NoError(t, ScanReferences(keys, []string{a, b}, []string{"App.%"}, MatchSubstring))
	assert.Equal(t, []string{"Unused"}, keys.Sorted())
}

func TestRemoveFoundKeys_EachKeyCountedOnce(t *testing.T) {
	keys := NewKeySet("Hello", "Title", "Unused")
	text := `Text = App.Hello; Get("Hello"); Get("Title");`

	found := removeFoundKeys(keys, text, []string{"App.%", `Get("%")`}, MatchSubstring)
	assert.Equal(t, 2, found)
	assert.Equal(t, []string{"Unused"}, keys.Sorted())
}

func TestScanReferences_StopsWhenAllFound(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.cs", "App.Hello")

	// The second file does not exist; it is never read.
	keys := NewKeySet("Hello")
	err := ScanReferences(keys, []string{a, filepath.Join(root, "missing.cs")}, []string{"App.%"}, MatchSubstring)
	require.NoError(t, err)
	assert.Zero(t, keys.Len())
}

func TestScanReferences_UnreadableFile(t *testing.T) {
	keys := NewKeySet("Hello")
	err := ScanReferences(keys, []string{filepath.Join(t.TempDir(), "missing.cs")}, []string{"App.%"}, MatchSubstring)
	require.Error(t, err)
	assert.True(t, IsFileError(err))
}

func TestScanReferences_UTF16WithBOM(t *testing.T) {
	root := t.TempDir()
	// "App.Hi" in UTF-16LE with a byte order mark.
	data := []byte{0xFF, 0xFE}
	for _, r := range "App.Hi" {
		data = append(data, byte(r), 0)
	}
	path := filepath.Join(root, "a.cs")
	writeFile(t, root, "a.cs", string(data))

	keys := NewKeySet("Hi", "Other")
	require.NoError(t, ScanReferences(keys, []string{path}, []string{"App.%"}, MatchSubstring))
	assert.Equal(t, []string{"Other"}, keys.Sorted())
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text, needle string
		want         bool
	}{
		{"x = AppResources.Hello;", "AppResources.Hello", true},
		{"AppResources.HelloWorld", "AppResources.Hello", false},
		{"AppResources.HelloWorld AppResources.Hello", "AppResources.Hello", true},
		{"MyAppResources.Hello", "AppResources.Hello", false},
		{"AppResources.Hello", "AppResources.Hello", true},
		{`GetString("Hello")`, `("Hello")`, true},
		{"AppResources.Héllo", "AppResources.H", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, containsWord(tt.text, tt.needle), "%q in %q", tt.needle, tt.text)
	}
}
