package constdef

import "github.com/broady/derive/derivegen/ir"

// MaxDepth is the deepest descriptor nesting Analyze will descend into.
// Types nested deeper are reported as unprovable.
const MaxDepth = 64

// Analyze reduces a type descriptor to a default expression.
// It reports false when the type cannot be proven to have a compile-time
// default: unregistered names, arrays of composites, tuples with any
// unprovable member, and every Other descriptor.
func Analyze(td ir.TypeDescriptor) (Expr, bool) {
	return analyze(td, 0)
}

func analyze(td ir.TypeDescriptor, depth int) (Expr, bool) {
	if depth >= MaxDepth {
		return nil, false
	}
	switch d := td.(type) {
	case *ir.PathDescriptor:
		return analyzePath(d)
	case *ir.ArrayDescriptor:
		elem, ok := analyze(d.Element, depth+1)
		if !ok || !elem.IsLeaf() {
			return nil, false
		}
		return ArrayOf{Element: elem, Length: d.Length}, true
	case *ir.TupleDescriptor:
		if len(d.Elements) == 0 {
			return lookupLeaf(UnitName)
		}
		elems := make([]Expr, 0, len(d.Elements))
		for _, member := range d.Elements {
			e, ok := analyze(member, depth+1)
			if !ok {
				return nil, false
			}
			elems = append(elems, e)
		}
		return TupleOf{Elements: elems}, true
	default:
		return nil, false
	}
}

func analyzePath(d *ir.PathDescriptor) (Expr, bool) {
	if len(d.Segments) == 1 {
		return lookupLeaf(d.Segments[0])
	}
	name, ok := Normalize(d.Segments)
	if !ok {
		return nil, false
	}
	return lookupLeaf(name)
}

func lookupLeaf(name string) (Expr, bool) {
	kind, ok := Lookup(name)
	if !ok {
		return nil, false
	}
	return Leaf{Kind: kind}, true
}
