// Package resx reads and edits .resx resource manifests: an XML root holding
// zero or more <data name="..."> entries, each with an optional <value>
// child. For file-backed resources the value is "<relative-path>;<type>".
package resx

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/jward/resxsweep/internal/xmlfile"
)

var (
	// ErrNoRoot is returned when the manifest has no root element.
	ErrNoRoot = errors.New("no root element found")
	// ErrMissingName is returned when a data entry has no name attribute.
	ErrMissingName = errors.New("name attribute missing on data")
)

// Entry is one declared resource.
type Entry struct {
	Name     string
	Value    string
	HasValue bool
}

// Manifest is a loaded resource manifest.
type Manifest struct {
	doc *xmlfile.Document
}

// Load reads the manifest at path. See xmlfile.Load for error shapes.
func Load(path string) (*Manifest, error) {
	doc, err := xmlfile.Load(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{doc: doc}, nil
}

// Parse builds a Manifest from in-memory content.
func Parse(path string, data []byte) (*Manifest, error) {
	doc, err := xmlfile.Parse(path, data)
	if err != nil {
		return nil, err
	}
	return &Manifest{doc: doc}, nil
}

// Path returns the file the manifest was loaded from.
func (m *Manifest) Path() string { return m.doc.Path }

// Save writes the manifest back to its path.
func (m *Manifest) Save() error { return m.doc.Save() }

// dataElements returns the <data> children of the root, failing if the
// document has no root.
func (m *Manifest) dataElements() ([]*etree.Element, error) {
	root := m.doc.Root()
	if root == nil {
		return nil, ErrNoRoot
	}
	return root.SelectElements("data"), nil
}

func entryOf(el *etree.Element) (Entry, error) {
	attr := el.SelectAttr("name")
	if attr == nil {
		return Entry{}, ErrMissingName
	}
	e := Entry{Name: attr.Value}
	if v := el.SelectElement("value"); v != nil {
		e.Value = v.Text()
		e.HasValue = true
	}
	return e, nil
}

// Entries returns every data entry in document order.
func (m *Manifest) Entries() ([]Entry, error) {
	els, err := m.dataElements()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(els))
	for i, el := range els {
		e, err := entryOf(el)
		if err != nil {
			return nil, fmt.Errorf("data entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Remove deletes every data entry whose name is in names and returns the
// removed entries in document order. The manifest is not saved.
func (m *Manifest) Remove(names map[string]struct{}) ([]Entry, error) {
	els, err := m.dataElements()
	if err != nil {
		return nil, err
	}
	var removed []Entry
	for i, el := range els {
		e, err := entryOf(el)
		if err != nil {
			return nil, fmt.Errorf("data entry %d: %w", i, err)
		}
		if _, ok := names[e.Name]; !ok {
			continue
		}
		xmlfile.RemoveElement(el)
		removed = append(removed, e)
	}
	return removed, nil
}
