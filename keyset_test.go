package resxsweep

import (
	"testing"

	"github.com/jward/resxsweep/internal/resx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseManifest(t *testing.T, entries ...testEntry) *resx.Manifest {
	t.Helper()
	m, err := resx.Parse("a.resx", []byte(manifestXML(entries...)))
	require.NoError(t, err)
	return m
}

func TestBuildKeySet(t *testing.T) {
	m := parseManifest(t, testEntry{"TestFoo", "x"}, testEntry{"Bar", "y"}, testEntry{"testLower", "z"})
	keys, err := BuildKeySet(m, []string{"Test"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bar", "testLower"}, keys.Sorted())
}

func TestBuildKeySet_EmptyManifest(t *testing.T) {
	keys, err := BuildKeySet(parseManifest(t), nil)
	require.NoError(t, err)
	assert.Zero(t, keys.Len())
}

func TestBuildKeySet_NoRoot(t *testing.T) {
	m, err := resx.Parse("a.resx", []byte(`<?xml version="1.0"?>`))
	require.NoError(t, err)
	_, err = BuildKeySet(m, nil)
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestBuildRecords(t *testing.T) {
	m := parseManifest(t, testEntry{"A", "a"}, testEntry{"B", "img/b.png;image/png"}, testEntry{"C", "c"})
	records, err := BuildRecords(m, NewKeySet("C", "B", "Gone"))
	require.NoError(t, err)
	assert.Equal(t, []UnusedRecord{
		{Key: "B", Value: "img/b.png;image/png"},
		{Key: "C", Value: "c"},
	}, records)
	assert.Equal(t, "img/b.png", records[0].FilePath())
	assert.Empty(t, records[1].FilePath())
}

func TestKeySet_Clone(t *testing.T) {
	s := NewKeySet("a", "b")
	c := s.Clone()
	c.Remove("a")
	assert.True(t, s.Has("a"))
	assert.False(t, c.Has("a"))
	assert.Equal(t, 1, c.Len())
}
