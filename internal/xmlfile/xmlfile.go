// Package xmlfile loads and saves the XML documents resxsweep edits in place
// (resource manifests and MSBuild project files). Documents are parsed with
// etree so that comments, processing instructions and whitespace between
// untouched elements survive a load/save round trip.
package xmlfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/beevik/etree"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is a parsed XML file and the path it was read from.
type Document struct {
	*etree.Document
	Path string

	// bom records whether the file started with a UTF-8 byte order mark,
	// so Save can write it back.
	bom bool
}

// SyntaxError reports a file that was read but is not well-formed XML.
type SyntaxError struct {
	Path string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed xml in %s: %v", e.Path, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// IsSyntax reports whether err is (or wraps) a *SyntaxError.
func IsSyntax(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// Load reads and parses the XML file at path. Read failures are returned
// wrapped as-is (so os.IsNotExist and friends still work); parse failures
// are returned as *SyntaxError.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 - caller-controlled path
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse parses data as the contents of the file at path.
func Parse(path string, data []byte) (*Document, error) {
	d := &Document{Document: etree.NewDocument(), Path: path}
	if bytes.HasPrefix(data, utf8BOM) {
		d.bom = true
		data = data[len(utf8BOM):]
	}
	d.ReadSettings.PreserveCData = true
	if err := d.ReadFromBytes(data); err != nil {
		return nil, &SyntaxError{Path: path, Err: err}
	}
	return d, nil
}

// Bytes serializes the document, including the byte order mark if the
// source had one.
func (d *Document) Bytes() ([]byte, error) {
	out, err := d.WriteToBytes()
	if err != nil {
		return nil, &SyntaxError{Path: d.Path, Err: err}
	}
	if d.bom {
		out = append(append([]byte{}, utf8BOM...), out...)
	}
	return out, nil
}

// Save writes the document back to the path it was loaded from, keeping the
// existing file mode.
func (d *Document) Save() error {
	out, err := d.Bytes()
	if err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(d.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(d.Path, out, mode); err != nil {
		return fmt.Errorf("write %s: %w", d.Path, err)
	}
	return nil
}

// RemoveElement detaches el from its parent together with the whitespace
// run that indents it, so removed entries do not leave blank lines behind.
func RemoveElement(el *etree.Element) {
	parent := el.Parent()
	if parent == nil {
		return
	}
	i := el.Index()
	if i < 0 {
		return
	}
	parent.RemoveChildAt(i)
	if i > 0 {
		if cd, ok := parent.Child[i-1].(*etree.CharData); ok && cd.IsWhitespace() {
			parent.RemoveChildAt(i - 1)
		}
	}
}
