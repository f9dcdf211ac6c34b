package resxsweep

import (
	"sort"
	"strings"

	"github.com/jward/resxsweep/internal/resx"
)

// KeySet is a set of resource names.
type KeySet map[string]struct{}

// NewKeySet returns a set holding keys.
func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s KeySet) Add(key string)    { s[key] = struct{}{} }
func (s KeySet) Remove(key string) { delete(s, key) }
func (s KeySet) Len() int          { return len(s) }

func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the keys in lexical order.
func (s KeySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy.
func (s KeySet) Clone() KeySet {
	c := make(KeySet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// BuildKeySet returns the candidate keys of a manifest: every data entry's
// name, minus names starting with any of excludePrefixes (case-sensitive,
// literal). A manifest without a root element or with a nameless entry is a
// *ParseError.
func BuildKeySet(m *resx.Manifest, excludePrefixes []string) (KeySet, error) {
	entries, err := manifestEntries(m)
	if err != nil {
		return nil, err
	}
	keys := make(KeySet, len(entries))
	for _, e := range entries {
		if hasAnyPrefix(e.Name, excludePrefixes) {
			continue
		}
		keys.Add(e.Name)
	}
	return keys, nil
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// manifestEntries reads a manifest's entries, mapping structural failures
// to *ParseError.
func manifestEntries(m *resx.Manifest) ([]resx.Entry, error) {
	entries, err := m.Entries()
	if err != nil {
		return nil, &ParseError{Path: m.Path(), Msg: "invalid resource file", Err: err}
	}
	return entries, nil
}
