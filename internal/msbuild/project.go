// Package msbuild edits the item lists of MSBuild project files (.csproj and
// friends). Only the literal Include attribute is considered; property and
// wildcard evaluation are out of scope.
package msbuild

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/beevik/etree"
	"github.com/jward/resxsweep/internal/xmlfile"
)

// ErrNoProject is returned by Find when root holds no project file.
var ErrNoProject = errors.New("no project file found")

// DefaultExtensions are the project file extensions Find looks for when none
// are given.
var DefaultExtensions = []string{".csproj"}

// NoneItem is the item type MSBuild uses for files that are tracked by the
// project but not compiled.
const NoneItem = "None"

// Find returns the project files directly inside root whose extension is one
// of extensions, sorted by name. It returns ErrNoProject when there are none.
func Find(root string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		for _, want := range extensions {
			if ext == want {
				paths = append(paths, filepath.Join(root, e.Name()))
				break
			}
		}
	}
	if len(paths) == 0 {
		return nil, ErrNoProject
	}
	sort.Strings(paths)
	return paths, nil
}

// Project is a loaded project file.
type Project struct {
	doc *xmlfile.Document
}

// Item is one project item.
type Item struct {
	Kind    string
	Include string
}

// Load reads the project file at path.
func Load(path string) (*Project, error) {
	doc, err := xmlfile.Load(path)
	if err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, &xmlfile.SyntaxError{Path: path, Err: errors.New("no root element")}
	}
	return &Project{doc: doc}, nil
}

// Path returns the project file path.
func (p *Project) Path() string { return p.doc.Path }

// Save writes the project back to its path.
func (p *Project) Save() error { return p.doc.Save() }

func (p *Project) itemElements(kind string) []*etree.Element {
	var els []*etree.Element
	for _, group := range p.doc.Root().SelectElements("ItemGroup") {
		els = append(els, group.SelectElements(kind)...)
	}
	return els
}

// Items lists every item of the given kind in document order.
func (p *Project) Items(kind string) []Item {
	var items []Item
	for _, el := range p.itemElements(kind) {
		items = append(items, Item{Kind: kind, Include: el.SelectAttrValue("Include", "")})
	}
	return items
}

// RemoveItems removes every item of kind for which match returns true and
// returns the removed items. Item groups left without any element are
// removed as well. Items without an Include attribute are never offered to
// match.
func (p *Project) RemoveItems(kind string, match func(include string) bool) []Item {
	var removed []Item
	touched := map[*etree.Element]bool{}
	for _, el := range p.itemElements(kind) {
		include := el.SelectAttrValue("Include", "")
		if include == "" || !match(include) {
			continue
		}
		if parent := el.Parent(); parent != nil {
			touched[parent] = true
		}
		xmlfile.RemoveElement(el)
		removed = append(removed, Item{Kind: kind, Include: include})
	}
	for group := range touched {
		if len(group.ChildElements()) == 0 {
			xmlfile.RemoveElement(group)
		}
	}
	return removed
}
