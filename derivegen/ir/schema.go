package ir

import "fmt"

// File groups the records extracted from one source file.
type File struct {
	// Path is the file path relative to the schema root, using / separators.
	Path string

	// Records contains the records in declaration order.
	Records []*RecordDescriptor
}

// Schema represents every record to generate code for.
type Schema struct {
	// Root is the directory input paths are relative to.
	Root string

	// Files contains the extracted files, sorted by path.
	// Files without any deriving record are omitted.
	Files []*File

	// Warnings contains non-fatal issues encountered during extraction.
	Warnings []Warning
}

// AddFile adds a file to the schema.
func (s *Schema) AddFile(f *File) {
	s.Files = append(s.Files, f)
}

// AddWarning adds a warning to the schema.
func (s *Schema) AddWarning(w Warning) {
	s.Warnings = append(s.Warnings, w)
}

// RecordCount returns the total number of records across all files.
func (s *Schema) RecordCount() int {
	n := 0
	for _, f := range s.Files {
		n += len(f.Records)
	}
	return n
}

// FindRecord looks up a record by file path and name. Returns nil if not found.
func (s *Schema) FindRecord(path, name string) *RecordDescriptor {
	for _, f := range s.Files {
		if f.Path != path {
			continue
		}
		for _, r := range f.Records {
			if r.Name == name {
				return r
			}
		}
	}
	return nil
}

// Validate checks the schema for structural issues.
// Returns all validation errors found (not just the first).
func (s *Schema) Validate() []error {
	var errs []error
	for _, f := range s.Files {
		names := make(map[string]bool)
		for _, r := range f.Records {
			if names[r.Name] {
				errs = append(errs, &ValidationError{
					Code:    "duplicate_record",
					Message: fmt.Sprintf("%s: duplicate record name %s", f.Path, r.Name),
				})
			}
			names[r.Name] = true

			fields := make(map[string]bool)
			for _, field := range r.Fields {
				if field.Type == nil {
					errs = append(errs, &ValidationError{
						Code:    "missing_field_type",
						Message: fmt.Sprintf("%s: field %s.%s has no type", field.Source, r.Name, field.Name),
					})
				}
				if fields[field.Name] {
					errs = append(errs, &ValidationError{
						Code:    "duplicate_field",
						Message: fmt.Sprintf("%s: duplicate field %s.%s", field.Source, r.Name, field.Name),
					})
				}
				fields[field.Name] = true
			}
		}
	}
	return errs
}

// ValidationError represents a schema validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
