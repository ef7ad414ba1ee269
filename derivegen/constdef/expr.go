package constdef

import "strings"

// Expr is a Default Expression: a provably constructible zero value.
// The variants are Leaf, ArrayOf and TupleOf.
type Expr interface {
	// IsLeaf reports whether the expression is a Leaf.
	IsLeaf() bool

	sealed()
}

// Leaf is the default of a registered primitive.
type Leaf struct {
	Kind LeafKind
}

// ArrayOf is the default of a fixed array: Element repeated Length times.
type ArrayOf struct {
	Element Expr

	// Length is echoed verbatim from the array type.
	Length string
}

// TupleOf is the default of a non-empty tuple, one element per member.
type TupleOf struct {
	Elements []Expr
}

func (Leaf) IsLeaf() bool    { return true }
func (ArrayOf) IsLeaf() bool { return false }
func (TupleOf) IsLeaf() bool { return false }

func (Leaf) sealed()    {}
func (ArrayOf) sealed() {}
func (TupleOf) sealed() {}

// leafLiterals holds the literal for each leaf kind.
var leafLiterals = map[LeafKind]string{
	Numeric:       "0",
	Boolean:       "false",
	Character:     `'\0'`,
	FloatingPoint: "0.0",
	UnitKind:      "()",
}

// Render returns the literal text of a default expression.
// The output is deterministic: equal expressions render to identical text.
func Render(e Expr) string {
	var b strings.Builder
	render(&b, e)
	return b.String()
}

func render(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case Leaf:
		b.WriteString(leafLiterals[e.Kind])
	case ArrayOf:
		b.WriteByte('[')
		render(b, e.Element)
		b.WriteString("; ")
		b.WriteString(e.Length)
		b.WriteByte(']')
	case TupleOf:
		b.WriteByte('(')
		for i, elem := range e.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			render(b, elem)
		}
		// (x,) is a one-element tuple; (x) would be a parenthesized x.
		if len(e.Elements) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	}
}
