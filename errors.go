package resxsweep

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a scan or delete is started on an Engine that is
// already running one.
var ErrBusy = errors.New("resxsweep: an operation is already in progress")

// FileError reports an I/O failure: a missing file, a permission denial, a
// disk error or a document that could not be written back. It always wraps
// the underlying cause.
type FileError struct {
	Op   string // what was being attempted, e.g. "save resource file"
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// ParseError reports a structural problem with the project or its
// configuration: a manifest without a root element, a data entry without a
// name, no project file, no Resources folder, or an invalid template.
// Retrying without fixing the project will fail the same way.
type ParseError struct {
	Path string
	Msg  string
	Err  error // optional cause
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsFileError reports whether err is or wraps a *FileError.
func IsFileError(err error) bool {
	var fe *FileError
	return errors.As(err, &fe)
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
