package rust

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsrust "github.com/smacker/go-tree-sitter/rust"
)

const maxSyntaxErrors = 20

// SyntaxError locates one parse error in generated output.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e SyntaxError) String() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// VerifyError reports generated output that does not parse as Rust.
type VerifyError struct {
	Path   string
	Errors []SyntaxError
}

func (e *VerifyError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, se := range e.Errors {
		parts[i] = se.String()
	}
	return fmt.Sprintf("generated %s does not parse: %s", e.Path, strings.Join(parts, "; "))
}

// Verify parses content as Rust and returns a *VerifyError listing the
// syntax errors found, if any.
func Verify(ctx context.Context, path string, content []byte) error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tsrust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return fmt.Errorf("parse generated %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	var errs []SyntaxError
	collectSyntaxErrors(root, content, &errs, 0)
	if len(errs) == 0 {
		errs = append(errs, SyntaxError{Line: 1, Column: 1, Message: "syntax error"})
	}
	return &VerifyError{Path: path, Errors: errs}
}

func collectSyntaxErrors(n *sitter.Node, content []byte, errs *[]SyntaxError, depth int) {
	if depth > 1000 || len(*errs) >= maxSyntaxErrors {
		return
	}
	if n.IsError() || n.IsMissing() {
		pt := n.StartPoint()
		msg := "unexpected " + quoteSnippet(n.Content(content))
		if n.IsMissing() {
			msg = "missing " + n.Type()
		}
		*errs = append(*errs, SyntaxError{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1, Message: msg})
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.HasError() || c.IsMissing() {
			collectSyntaxErrors(c, content, errs, depth+1)
		}
	}
}

func quoteSnippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return fmt.Sprintf("%q", s)
}
