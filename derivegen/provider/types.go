package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/broady/derive/derivegen/ir"
	sitter "github.com/smacker/go-tree-sitter"
)

// typeOf converts a type node into a descriptor.
func (p *fileParser) typeOf(n *sitter.Node) ir.TypeDescriptor {
	text := p.text(n)
	switch n.Type() {
	case "primitive_type", "type_identifier":
		return ir.Path(text)
	case "scoped_type_identifier":
		return scopedPath(text)
	case "array_type":
		elem := n.ChildByFieldName("element")
		length := n.ChildByFieldName("length")
		if elem == nil {
			return ir.Other(ir.FormOther, text)
		}
		if length == nil {
			return ir.Other(ir.FormSlice, text)
		}
		return ir.Array(p.typeOf(elem), strings.TrimSpace(p.text(length)))
	case "tuple_type":
		if inner := parenthesized(n); inner != nil {
			return p.typeOf(inner)
		}
		elems := []ir.TypeDescriptor{}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "line_comment" || c.Type() == "block_comment" {
				continue
			}
			elems = append(elems, p.typeOf(c))
		}
		return ir.Tuple(elems...)
	case "unit_type":
		return ir.Unit()
	case "reference_type":
		return ir.Other(ir.FormReference, text)
	case "pointer_type":
		return ir.Other(ir.FormPointer, text)
	case "function_type":
		return ir.Other(ir.FormFunction, text)
	case "never_type":
		return ir.Other(ir.FormNever, text)
	case "generic_type":
		return ir.Other(ir.FormGeneric, text)
	case "dynamic_type":
		return ir.Other(ir.FormDynamic, text)
	case "abstract_type":
		return ir.Other(ir.FormAbstract, text)
	}
	return ir.Other(ir.FormOther, text)
}

// parenthesized returns the inner type of a grouping such as "(u8)", which
// the grammar reports as a tuple_type without a comma. It returns nil for
// real tuples, including "(u8,)".
func parenthesized(n *sitter.Node) *sitter.Node {
	var inner *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch {
		case c.Type() == ",":
			return nil
		case !c.IsNamed(), c.Type() == "line_comment", c.Type() == "block_comment":
		case inner != nil:
			return nil
		default:
			inner = c
		}
	}
	return inner
}

// scopedPath splits a qualified type name into segments. A leading "::"
// is dropped. Paths with generic or qualified segments are not plain paths.
func scopedPath(text string) ir.TypeDescriptor {
	trimmed := strings.TrimPrefix(strings.Join(strings.Fields(text), ""), "::")
	segments := strings.Split(trimmed, "::")
	for _, s := range segments {
		if !isIdent(s) {
			return ir.Other(ir.FormGeneric, text)
		}
	}
	return ir.Path(segments...)
}

func isIdent(s string) bool {
	s = strings.TrimPrefix(s, "r#")
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// generics reads the type_parameters and where_clause of a struct item.
func (p *fileParser) generics(node *sitter.Node) ir.Generics {
	var g ir.Generics
	if params := node.ChildByFieldName("type_parameters"); params != nil {
		g.Params = p.text(params)
		var names []string
		for i := 0; i < int(params.NamedChildCount()); i++ {
			c := params.NamedChild(i)
			if c.Type() == "attribute_item" || strings.HasSuffix(c.Type(), "comment") {
				continue
			}
			names = append(names, paramName(p.text(c)))
		}
		if len(names) > 0 {
			g.Args = "<" + strings.Join(names, ", ") + ">"
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if c := node.NamedChild(i); c.Type() == "where_clause" {
			g.Where = strings.TrimSuffix(strings.Join(strings.Fields(p.text(c)), " "), ",")
			break
		}
	}
	return g
}

// paramName strips bounds, defaults and the const keyword from a generic
// parameter: "T: Clone = u8" -> "T", "const N: usize" -> "N".
func paramName(param string) string {
	param = strings.TrimSpace(param)
	param = strings.TrimPrefix(param, "const ")
	if i := strings.IndexAny(param, ":="); i >= 0 {
		param = param[:i]
	}
	return strings.TrimSpace(param)
}

// ParseType parses a single Rust type expression such as "[(u8, bool); 4]".
func ParseType(ctx context.Context, text string) (ir.TypeDescriptor, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty type")
	}
	const prefix = "struct __Probe { __t: "
	content := []byte(prefix + text + " }\n")

	parser := newParser()
	defer parser.Close()
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse type: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("invalid type %q", text)
	}
	p := &fileParser{path: "<type>", content: content}
	if root.NamedChildCount() != 1 {
		return nil, fmt.Errorf("invalid type %q", text)
	}
	item := root.NamedChild(0)
	if item.Type() != "struct_item" {
		return nil, fmt.Errorf("invalid type %q", text)
	}
	body := item.ChildByFieldName("body")
	if body == nil {
		return nil, fmt.Errorf("invalid type %q", text)
	}
	var decls []*sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		if c := body.NamedChild(i); c.Type() == "field_declaration" {
			decls = append(decls, c)
		}
	}
	if len(decls) != 1 {
		return nil, fmt.Errorf("invalid type %q", text)
	}
	typeNode := decls[0].ChildByFieldName("type")
	if typeNode == nil {
		return nil, fmt.Errorf("invalid type %q", text)
	}
	return p.typeOf(typeNode), nil
}
