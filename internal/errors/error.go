package errors

import (
	"bytes"
	"fmt"
)

// Category groups error codes by the subsystem that raised them.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryManifest Category = "manifest"
	CategoryDocument Category = "document"
	CategoryBrowser  Category = "browser"
	CategoryCLI      Category = "cli"
)

// Location is a position inside a file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// QError is a coded error with optional location and fix hint.
type QError struct {
	// Code is the registry code (e.g. "E201").
	Code string

	Category Category
	Message  string
	Detail   string

	// Location points into the file that caused the error, if known.
	Location *Location

	// Context holds source lines around Location.Line.
	Context []string

	Suggestion string

	// Wrapped is the underlying cause.
	Wrapped error
}

// Error implements the error interface.
func (e *QError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *QError) Unwrap() error {
	return e.Wrapped
}

// WithDetail sets the detail line.
func (e *QError) WithDetail(d string) *QError {
	e.Detail = d
	return e
}

// WithDetailf sets a formatted detail line.
func (e *QError) WithDetailf(format string, args ...any) *QError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion sets the fix hint.
func (e *QError) WithSuggestion(s string) *QError {
	e.Suggestion = s
	return e
}

// WithLocation sets the location without context lines.
func (e *QError) WithLocation(file string, line, column int) *QError {
	e.Location = &Location{File: file, Line: line, Column: column}
	return e
}

// WithOffset derives a location from a byte offset into data, as reported
// by encoding/json syntax errors, and captures two lines of context on
// each side.
func (e *QError) WithOffset(file string, data []byte, offset int64) *QError {
	if offset < 0 || offset > int64(len(data)) {
		return e
	}
	line, col := lineCol(data, int(offset))
	e.Location = &Location{File: file, Line: line, Column: col}
	e.Context = contextLines(data, line, 2)
	return e
}

// Wrap sets the underlying cause.
func (e *QError) Wrap(err error) *QError {
	e.Wrapped = err
	return e
}

// lineCol converts a byte offset to 1-based line and column.
func lineCol(data []byte, offset int) (int, int) {
	before := data[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	col := offset - bytes.LastIndexByte(before, '\n')
	return line, col
}

// contextLines returns the lines in [target-size, target+size].
func contextLines(data []byte, target, size int) []string {
	all := bytes.Split(data, []byte{'\n'})
	start := target - size
	if start < 1 {
		start = 1
	}
	end := target + size
	if end > len(all) {
		end = len(all)
	}
	lines := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		lines = append(lines, string(all[i-1]))
	}
	return lines
}

// New creates a QError from a registered code.
func New(code string) *QError {
	template, ok := registry[code]
	if !ok {
		return &QError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &QError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates an uncoded QError with a formatted message.
func Newf(category Category, format string, args ...any) *QError {
	return &QError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err under code unless it already is a *QError.
func FromError(err error, code string) *QError {
	if err == nil {
		return nil
	}
	if qe, ok := err.(*QError); ok {
		return qe
	}
	return New(code).Wrap(err)
}
