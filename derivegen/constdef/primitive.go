// Package constdef synthesizes compile-time zero values for record fields.
//
// Given a field's structural type descriptor, Analyze decides whether a
// default can be proven without any runtime computation and, if so, returns
// a Default Expression that Render turns into a literal. Synthesize drives
// this over every field of a record and fails on the first field whose type
// is outside the provable subset: primitive scalars, fixed arrays of
// primitive scalars, and (possibly nested) tuples of those.
package constdef

// LeafKind is the default-value category of a primitive type.
type LeafKind int

const (
	Numeric LeafKind = iota
	Boolean
	Character
	FloatingPoint
	UnitKind
)

// String returns the string representation of the leaf kind.
func (k LeafKind) String() string {
	switch k {
	case Numeric:
		return "Numeric"
	case Boolean:
		return "Boolean"
	case Character:
		return "Character"
	case FloatingPoint:
		return "FloatingPoint"
	case UnitKind:
		return "Unit"
	default:
		return "Unknown"
	}
}

// UnitName is the registry key of the unit type.
const UnitName = "()"

// registry maps canonical primitive names to their leaf kind.
// Read-only after package initialization.
var registry = map[string]LeafKind{
	"u8":    Numeric,
	"i8":    Numeric,
	"u16":   Numeric,
	"i16":   Numeric,
	"u32":   Numeric,
	"i32":   Numeric,
	"u64":   Numeric,
	"i64":   Numeric,
	"u128":  Numeric,
	"i128":  Numeric,
	"usize": Numeric,
	"isize": Numeric,

	"bool": Boolean,
	"char": Character,

	"f32": FloatingPoint,
	"f64": FloatingPoint,

	UnitName: UnitKind,
}

// Lookup returns the leaf kind registered for a canonical primitive name.
// The match is exact and case-sensitive; no path normalization is applied.
func Lookup(name string) (LeafKind, bool) {
	kind, ok := registry[name]
	return kind, ok
}

// Primitives returns the registered canonical names in a stable order.
func Primitives() []string {
	return []string{
		"u8", "i8", "u16", "i16", "u32", "i32", "u64", "i64", "u128", "i128", "usize", "isize",
		"bool", "char", "f32", "f64", UnitName,
	}
}
