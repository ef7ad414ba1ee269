package ir

// DescriptorKind identifies the category of a type descriptor.
type DescriptorKind int

const (
	KindPath  DescriptorKind = iota // Possibly-qualified name (u8, core::primitive::u8, User)
	KindArray                       // Fixed-size array [T; N]
	KindTuple                       // Tuple (A, B, ...), including the empty tuple ()
	KindOther                       // Anything else: references, generics, fn types, slices...
)

// String returns the string representation of the descriptor kind.
func (k DescriptorKind) String() string {
	switch k {
	case KindPath:
		return "Path"
	case KindArray:
		return "Array"
	case KindTuple:
		return "Tuple"
	case KindOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// TypeDescriptor describes the declared type of one field.
//
// Descriptors are immutable once built by a provider. The set of variants is
// closed: PathDescriptor, ArrayDescriptor, TupleDescriptor and OtherDescriptor.
type TypeDescriptor interface {
	// Kind returns the descriptor kind for type switching.
	Kind() DescriptorKind

	// String renders the type back to source syntax.
	String() string

	// Ensure only types in this package can implement TypeDescriptor.
	sealed()
}

// exprBase seals the descriptor union.
type exprBase struct{}

func (exprBase) sealed() {}
