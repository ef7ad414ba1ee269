package constdef

import (
	"errors"
	"fmt"

	"github.com/broady/derive/derivegen/ir"
)

// ErrUnprovableDefault is the only error Synthesize produces: a field's type
// cannot be reduced to a compile-time default.
var ErrUnprovableDefault = errors.New("type not provable as compile-time default")

// FieldError identifies the field that stopped a synthesis pass.
type FieldError struct {
	// Field is the field name as declared.
	Field string

	// Position is the zero-based index of the field in declaration order.
	Position int

	// Type is the offending field's type as written.
	Type string

	// Source is the field's location, if the provider recorded one.
	Source ir.Source
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q (#%d, %s): %v", e.Field, e.Position, e.Type, ErrUnprovableDefault)
}

// Unwrap returns ErrUnprovableDefault.
func (e *FieldError) Unwrap() error { return ErrUnprovableDefault }

// FieldDefault pairs a field with its rendered default literal.
type FieldDefault struct {
	Name  string
	Value string
}

// Synthesize computes the default of every field, in order.
//
// An empty field list succeeds with an empty result. Otherwise the first
// field whose type Analyze rejects ends the pass with a *FieldError; no
// partial result is returned.
func Synthesize(fields []ir.FieldDescriptor) ([]FieldDefault, error) {
	out := make([]FieldDefault, 0, len(fields))
	for i, f := range fields {
		expr, ok := Analyze(f.Type)
		if !ok {
			return nil, &FieldError{
				Field:    f.Name,
				Position: i,
				Type:     f.TypeSource(),
				Source:   f.Source,
			}
		}
		out = append(out, FieldDefault{Name: f.Name, Value: Render(expr)})
	}
	return out, nil
}
