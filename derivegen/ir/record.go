package ir

// Derive names one generator requested through #[derive(...)].
type Derive string

const (
	DeriveCtor     Derive = "Ctor"     // Constructor: Name::new(...)
	DeriveGtor     Derive = "Gtor"     // Getters: get_<field>()
	DeriveStor     Derive = "Stor"     // Setters: set_<field>(value)
	DeriveConstdef Derive = "Constdef" // Compile-time default: Name::default()
)

// KnownDerives lists the derives this toolkit generates code for, in emission order.
var KnownDerives = []Derive{DeriveCtor, DeriveGtor, DeriveStor, DeriveConstdef}

// IsKnown reports whether d is generated by this toolkit.
func (d Derive) IsKnown() bool {
	for _, k := range KnownDerives {
		if d == k {
			return true
		}
	}
	return false
}

// Attribute is one outer attribute attached to a record or field,
// e.g. #[gtor_copy] or #[gtor(get, get_mut)].
type Attribute struct {
	// Name is the attribute path as written ("gtor_copy", "serde").
	Name string

	// Args are the top-level comma separated arguments inside the
	// parentheses, trimmed. Nil when the attribute has no argument list.
	Args []string

	// Source is where the attribute appears.
	Source Source
}

// Generics captures the generic parameter lists of a record, split the way
// an impl block needs them.
type Generics struct {
	// Params is the full parameter list including bounds: "<'a, T: ToString>".
	Params string

	// Args is the parameter names only, for the self type: "<'a, T>".
	Args string

	// Where is the where clause including the keyword, or empty.
	Where string
}

// IsZero returns true if the record is not generic.
func (g Generics) IsZero() bool {
	return g.Params == "" && g.Args == "" && g.Where == ""
}

// RecordDescriptor represents a struct declaration with named fields.
type RecordDescriptor struct {
	// Name is the record identifier.
	Name string

	// Generics are the record's generic parameters.
	Generics Generics

	// Derives are the toolkit derives requested on this record, in the
	// order they were written. Unknown derives (Clone, Debug...) are dropped.
	Derives []Derive

	// Attributes are the record's outer attributes other than derive.
	Attributes []Attribute

	// Fields contains all fields in declaration order.
	Fields []FieldDescriptor

	// Documentation for this record.
	Documentation Documentation

	// Source location of the record name.
	Source Source
}

// Has reports whether the record requests derive d.
func (r *RecordDescriptor) Has(d Derive) bool {
	for _, x := range r.Derives {
		if x == d {
			return true
		}
	}
	return false
}

// FieldDescriptor represents a single named field within a record.
type FieldDescriptor struct {
	// Name is the field identifier as written, including any r# prefix.
	Name string

	// Type is the structural descriptor of the field's declared type.
	Type TypeDescriptor

	// TypeText is the declared type exactly as written in source.
	// Emitters prefer it over Type.String() to preserve lifetimes and spacing.
	TypeText string

	// Attributes are the field's outer attributes.
	Attributes []Attribute

	// Documentation for this field.
	Documentation Documentation

	// Source location of the field name.
	Source Source
}

// TypeSource returns the text to emit for the field's type.
func (f FieldDescriptor) TypeSource() string {
	if f.TypeText != "" {
		return f.TypeText
	}
	return typeString(f.Type)
}
