package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/broady/derive/derivegen/ir"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// parsed is the extraction result of one file.
type parsed struct {
	file     *ir.File
	warnings []ir.Warning
}

// fileParser walks one syntax tree. Not safe for concurrent use.
type fileParser struct {
	path     string
	content  []byte
	warnings []ir.Warning
}

// newParser returns a tree-sitter parser for Rust. Parsers are not safe for
// concurrent use; each goroutine needs its own.
func newParser() *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())
	return parser
}

func parse(ctx context.Context, path string, content []byte) (*parsed, error) {
	parser := newParser()
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		n := firstError(root)
		return nil, &ExtractError{Source: position(path, n), Message: "syntax error near " + quoteSnippet(n.Content(content))}
	}

	p := &fileParser{path: path, content: content}
	file := &ir.File{Path: path}
	if err := p.items(root, true, func(r *ir.RecordDescriptor) { file.Records = append(file.Records, r) }); err != nil {
		return nil, err
	}
	return &parsed{file: file, warnings: p.warnings}, nil
}

// items walks the items of a source file or module body, attaching the
// preceding attributes and doc comments to each item.
func (p *fileParser) items(list *sitter.Node, topLevel bool, emit func(*ir.RecordDescriptor)) error {
	var attrs []*sitter.Node
	var docs []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		switch child.Type() {
		case "attribute_item":
			attrs = append(attrs, child)
			continue
		case "line_comment":
			if doc, ok := docLine(p.text(child)); ok {
				docs = append(docs, doc)
			}
			continue
		case "block_comment":
			continue
		case "struct_item", "enum_item", "union_item":
			rec, err := p.item(child, attrs, docs)
			if err != nil {
				return err
			}
			if rec != nil {
				if topLevel {
					emit(rec)
				} else {
					src := rec.Source
					p.warnings = append(p.warnings, ir.Warning{
						Code:       "NESTED_RECORD",
						Message:    fmt.Sprintf("%s is declared inside a module and was skipped; move it to the file's top level", rec.Name),
						Source:     &src,
						RecordName: rec.Name,
					})
				}
			}
		case "mod_item":
			if body := child.ChildByFieldName("body"); body != nil {
				if err := p.items(body, false, emit); err != nil {
					return err
				}
			}
		}
		attrs, docs = nil, nil
	}
	return nil
}

// item converts a struct declaration carrying toolkit derives into a record.
// It returns nil for items that request none of them.
func (p *fileParser) item(node *sitter.Node, attrNodes []*sitter.Node, docs []string) (*ir.RecordDescriptor, error) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil, nil
	}
	name := p.text(nameNode)

	var derives []ir.Derive
	var attrs []ir.Attribute
	for _, an := range attrNodes {
		a, ok := p.attribute(an)
		if !ok {
			continue
		}
		if a.Name == "derive" {
			for _, arg := range a.Args {
				d := ir.Derive(lastSegment(arg))
				if d.IsKnown() {
					derives = append(derives, d)
				}
			}
			continue
		}
		attrs = append(attrs, a)
	}
	if len(derives) == 0 {
		return nil, nil
	}

	src := position(p.path, nameNode)
	if node.Type() != "struct_item" {
		return nil, &ExtractError{Source: src, Record: name, Message: "derive can only be used on structs"}
	}
	body := node.ChildByFieldName("body")
	if body == nil || body.Type() != "field_declaration_list" {
		return nil, &ExtractError{Source: src, Record: name, Message: "derive can only be used on structs with named fields"}
	}

	rec := &ir.RecordDescriptor{
		Name:          name,
		Generics:      p.generics(node),
		Derives:       derives,
		Attributes:    attrs,
		Documentation: ir.Documentation{Body: strings.Join(docs, "\n")},
		Source:        src,
	}
	fields, err := p.fields(body)
	if err != nil {
		return nil, err
	}
	rec.Fields = fields
	return rec, nil
}

func (p *fileParser) fields(body *sitter.Node) ([]ir.FieldDescriptor, error) {
	var fields []ir.FieldDescriptor
	var attrs []ir.Attribute
	var docs []string
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "attribute_item":
			if a, ok := p.attribute(child); ok {
				attrs = append(attrs, a)
			}
		case "line_comment":
			if doc, ok := docLine(p.text(child)); ok {
				docs = append(docs, doc)
			}
		case "field_declaration":
			nameNode := child.ChildByFieldName("name")
			typeNode := child.ChildByFieldName("type")
			if nameNode == nil || typeNode == nil {
				return nil, &ExtractError{Source: position(p.path, child), Message: "malformed field declaration"}
			}
			fields = append(fields, ir.FieldDescriptor{
				Name:          p.text(nameNode),
				Type:          p.typeOf(typeNode),
				TypeText:      p.text(typeNode),
				Attributes:    attrs,
				Documentation: ir.Documentation{Body: strings.Join(docs, "\n")},
				Source:        position(p.path, nameNode),
			})
			attrs, docs = nil, nil
		}
	}
	return fields, nil
}

// attribute reads #[name] / #[name(args...)] / #[name = value].
// Inner attributes (#![...]) are not reported.
func (p *fileParser) attribute(item *sitter.Node) (ir.Attribute, bool) {
	if strings.HasPrefix(p.text(item), "#!") {
		return ir.Attribute{}, false
	}
	var attr *sitter.Node
	for i := 0; i < int(item.NamedChildCount()); i++ {
		if c := item.NamedChild(i); c.Type() == "attribute" {
			attr = c
			break
		}
	}
	if attr == nil {
		return ir.Attribute{}, false
	}

	text := p.text(attr)
	a := ir.Attribute{Source: position(p.path, item)}
	if args := attr.ChildByFieldName("arguments"); args != nil {
		a.Name = strings.TrimSpace(text[:args.StartByte()-attr.StartByte()])
		inner := strings.TrimSpace(p.text(args))
		if len(inner) >= 2 {
			inner = inner[1 : len(inner)-1]
		}
		a.Args = splitArgs(inner)
		return a, true
	}
	name, _, _ := strings.Cut(text, "=")
	a.Name = strings.TrimSpace(name)
	return a, true
}

func (p *fileParser) text(n *sitter.Node) string {
	return n.Content(p.content)
}

// position converts a node's start point to a 1-based source location.
func position(path string, n *sitter.Node) ir.Source {
	pt := n.StartPoint()
	return ir.Source{File: path, Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
}

// firstError returns the first ERROR or MISSING node under n, or n itself.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.HasError() || c.IsMissing() {
			return firstError(c)
		}
	}
	return n
}

func quoteSnippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return fmt.Sprintf("%q", s)
}

// docLine returns the text of an outer doc comment line.
func docLine(comment string) (string, bool) {
	if !strings.HasPrefix(comment, "///") || strings.HasPrefix(comment, "////") {
		return "", false
	}
	line := strings.TrimPrefix(comment, "///")
	line = strings.TrimPrefix(line, " ")
	return strings.TrimRight(line, "\r\n"), true
}

// splitArgs splits an attribute argument list on top-level commas,
// ignoring commas nested in brackets or string literals.
func splitArgs(s string) []string {
	args := []string{}
	depth := 0
	inString := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '(' || c == '[' || c == '{' || c == '<':
			depth++
		case c == ')' || c == ']' || c == '}' || c == '>':
			depth--
		case c == ',' && depth == 0:
			if arg := strings.TrimSpace(s[start:i]); arg != "" {
				args = append(args, arg)
			}
			start = i + 1
		}
	}
	if arg := strings.TrimSpace(s[start:]); arg != "" {
		args = append(args, arg)
	}
	return args
}

func lastSegment(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.LastIndex(path, "::"); i >= 0 {
		return strings.TrimSpace(path[i+2:])
	}
	return path
}
