package ir

import "strings"

// PathDescriptor represents a possibly-qualified type name.
//
// A bare primitive is a single segment ("u8"); the same primitive spelled
// through its standard-library alias has three ("core", "primitive", "u8").
// A leading "::" is not preserved.
type PathDescriptor struct {
	exprBase

	// Segments are the identifiers of the path, in order. Never empty.
	Segments []string
}

// Kind returns KindPath.
func (d *PathDescriptor) Kind() DescriptorKind { return KindPath }

func (d *PathDescriptor) String() string { return strings.Join(d.Segments, "::") }

// Path returns a PathDescriptor for the given segments.
func Path(segments ...string) *PathDescriptor {
	return &PathDescriptor{Segments: segments}
}

// ArrayDescriptor represents a fixed-size array [T; N].
type ArrayDescriptor struct {
	exprBase

	// Element is the array element type.
	Element TypeDescriptor

	// Length is the length expression exactly as written in source
	// ("10", "N", "SIZE * 2"). It is never evaluated, only echoed back.
	Length string
}

// Kind returns KindArray.
func (d *ArrayDescriptor) Kind() DescriptorKind { return KindArray }

func (d *ArrayDescriptor) String() string {
	return "[" + typeString(d.Element) + "; " + d.Length + "]"
}

// Array returns an ArrayDescriptor for a fixed-size array.
func Array(element TypeDescriptor, length string) *ArrayDescriptor {
	return &ArrayDescriptor{Element: element, Length: length}
}

// TupleDescriptor represents a tuple type. An empty Elements slice is the unit type ().
type TupleDescriptor struct {
	exprBase

	// Elements are the tuple member types, in order.
	Elements []TypeDescriptor
}

// Kind returns KindTuple.
func (d *TupleDescriptor) Kind() DescriptorKind { return KindTuple }

func (d *TupleDescriptor) String() string {
	parts := make([]string, len(d.Elements))
	for i, e := range d.Elements {
		parts[i] = typeString(e)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Tuple returns a TupleDescriptor for the given element types.
func Tuple(elements ...TypeDescriptor) *TupleDescriptor {
	return &TupleDescriptor{Elements: elements}
}

// Unit returns the empty tuple ().
func Unit() *TupleDescriptor {
	return &TupleDescriptor{}
}

// OtherForm classifies types outside the path/array/tuple subset.
type OtherForm string

const (
	FormReference OtherForm = "reference" // &T, &'a mut T
	FormPointer   OtherForm = "pointer"   // *const T, *mut T
	FormFunction  OtherForm = "function"  // fn(A) -> B
	FormNever     OtherForm = "never"     // !
	FormGeneric   OtherForm = "generic"   // Vec<T>, PhantomData<&'a u8>
	FormSlice     OtherForm = "slice"     // [T]
	FormDynamic   OtherForm = "dynamic"   // dyn Trait
	FormAbstract  OtherForm = "abstract"  // impl Trait
	FormOther     OtherForm = "other"
)

// OtherDescriptor represents any type the synthesis engines do not model
// structurally. The source text is kept so emitters can echo it.
type OtherDescriptor struct {
	exprBase

	// Form classifies the type syntactically.
	Form OtherForm

	// Text is the type as written in source.
	Text string
}

// Kind returns KindOther.
func (d *OtherDescriptor) Kind() DescriptorKind { return KindOther }

func (d *OtherDescriptor) String() string { return d.Text }

// Other returns an OtherDescriptor.
func Other(form OtherForm, text string) *OtherDescriptor {
	return &OtherDescriptor{Form: form, Text: text}
}

func typeString(td TypeDescriptor) string {
	if td == nil {
		return "_"
	}
	return td.String()
}
