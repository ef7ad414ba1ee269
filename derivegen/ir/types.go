// Package ir defines the intermediate representation shared by the derive
// pipeline: records extracted from source, their fields, and the structural
// type descriptors the synthesis engines analyze.
package ir

import "fmt"

// Source represents source code location information.
type Source struct {
	File   string
	Line   int
	Column int
}

// IsZero returns true if the source location is empty.
func (s Source) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// String formats the location as file:line:column, omitting empty parts.
func (s Source) String() string {
	switch {
	case s.IsZero():
		return "<unknown>"
	case s.Line == 0:
		return s.File
	case s.Column == 0:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	}
}

// Documentation holds doc comments attached to a record or field.
type Documentation struct {
	// Body is the comment text with the comment markers stripped.
	Body string
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Body == ""
}

// Warning represents a non-fatal issue encountered during extraction or generation.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Source is the location that triggered the warning, if applicable.
	Source *Source

	// RecordName is the record that triggered the warning, if applicable.
	RecordName string
}

func (w Warning) String() string {
	if w.Source != nil {
		return fmt.Sprintf("%s: %s: %s", w.Source, w.Code, w.Message)
	}
	return w.Code + ": " + w.Message
}
