package rust

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/broady/derive/derivegen/annotate"
	"github.com/broady/derive/derivegen/constdef"
	"github.com/broady/derive/derivegen/ir"
)

// Types whose getters return a copy instead of a reference.
var copyTypes = map[string]bool{
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"str": true, "bool": true, "char": true, "f32": true, "f64": true,
}

const phantomData = "::core::marker::PhantomData"

// RecordError reports a record the emitter could not generate code for.
type RecordError struct {
	Source ir.Source
	Record string
	Derive ir.Derive
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %v", e.Source, e.Record, e.Derive, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Emitter writes impl blocks for records.
type Emitter struct {
	config GeneratorConfig
	indent string
}

// NewEmitter returns an Emitter for config, filling in formatting defaults.
func NewEmitter(config GeneratorConfig) *Emitter {
	size := config.IndentSize
	if size <= 0 {
		size = 4
	}
	return &Emitter{config: config, indent: strings.Repeat(" ", size)}
}

// EmitRecord writes one impl block per derive requested by r, separated by
// blank lines. It reports whether anything was written.
func (e *Emitter) EmitRecord(buf *bytes.Buffer, r *ir.RecordDescriptor) (bool, error) {
	marks, err := annotate.Interpret(r)
	if err != nil {
		return false, err
	}

	seen := make(map[ir.Derive]bool)
	wrote := false
	for _, d := range r.Derives {
		if seen[d] {
			continue
		}
		seen[d] = true

		var block bytes.Buffer
		switch d {
		case ir.DeriveCtor:
			err = e.emitCtor(&block, r, marks)
		case ir.DeriveGtor:
			err = e.emitGtor(&block, r, marks)
		case ir.DeriveStor:
			err = e.emitStor(&block, r, marks)
		case ir.DeriveConstdef:
			err = e.emitConstdef(&block, r, marks)
		default:
			continue
		}
		if err != nil {
			src := r.Source
			var fe *constdef.FieldError
			if errors.As(err, &fe) && !fe.Source.IsZero() {
				src = fe.Source
			}
			return false, &RecordError{Source: src, Record: r.Name, Derive: d, Err: err}
		}
		if block.Len() == 0 {
			continue
		}
		if wrote {
			buf.WriteString("\n")
		}
		buf.Write(block.Bytes())
		wrote = true
	}
	return wrote, nil
}

func (e *Emitter) emitCtor(buf *bytes.Buffer, r *ir.RecordDescriptor, marks *annotate.Record) error {
	name, err := ident(marks.Options.CtorName)
	if err != nil {
		return err
	}

	var params []string
	var inits []string
	for i, f := range r.Fields {
		if marks.Fields[i].Phantom {
			inits = append(inits, f.Name+": "+phantomData)
			continue
		}
		params = append(params, f.Name+": "+f.TypeSource())
		inits = append(inits, f.Name)
	}

	e.implHeader(buf, r, "")
	if e.config.EmitComments {
		e.line(buf, 1, fmt.Sprintf("/// Creates a new [`%s`]", r.Name))
	}
	e.line(buf, 1, fmt.Sprintf("%s %s(%s) -> Self {", fnKeyword(marks.CtorConst), name, strings.Join(params, ", ")))
	e.structLiteral(buf, inits)
	e.line(buf, 1, "}")
	buf.WriteString("}\n")
	return nil
}

func (e *Emitter) emitGtor(buf *bytes.Buffer, r *ir.RecordDescriptor, marks *annotate.Record) error {
	var methods []string
	for i, f := range r.Fields {
		m := marks.Fields[i]
		if m.Phantom || m.GtorSkip {
			continue
		}
		bare := bareName(f.Name)
		ty := f.TypeSource()

		if marks.Getters.Get {
			name, err := methodIdent(marks.Options.GetterPrefix, f.Name, "")
			if err != nil {
				return err
			}
			var b bytes.Buffer
			if e.config.EmitComments {
				e.line(&b, 1, fmt.Sprintf("/// Returns the value for the `%s` field in struct [`%s`]", bare, r.Name))
			}
			if copyable(f, m) {
				e.line(&b, 1, fmt.Sprintf("%s %s(&self) -> %s {", fnKeyword(marks.GtorConst), name, ty))
				e.line(&b, 2, "self."+f.Name)
			} else {
				e.line(&b, 1, fmt.Sprintf("%s %s(&self) -> %s {", fnKeyword(marks.GtorConst), name, refTo(ty)))
				e.line(&b, 2, "&self."+f.Name)
			}
			e.line(&b, 1, "}")
			methods = append(methods, b.String())
		}

		if marks.Getters.GetMut {
			name, err := methodIdent(marks.Options.GetterPrefix, f.Name, marks.Options.GetterMutSuffix)
			if err != nil {
				return err
			}
			var b bytes.Buffer
			if e.config.EmitComments {
				e.line(&b, 1, fmt.Sprintf("/// Returns a mutable reference to the `%s` field in struct [`%s`]", bare, r.Name))
			}
			e.line(&b, 1, fmt.Sprintf("pub fn %s(&mut self) -> &mut %s {", name, ty))
			e.line(&b, 2, "&mut self."+f.Name)
			e.line(&b, 1, "}")
			methods = append(methods, b.String())
		}
	}
	e.methodBlock(buf, r, methods)
	return nil
}

func (e *Emitter) emitStor(buf *bytes.Buffer, r *ir.RecordDescriptor, marks *annotate.Record) error {
	var methods []string
	for i, f := range r.Fields {
		m := marks.Fields[i]
		if m.Phantom || m.StorSkip {
			continue
		}
		name, err := methodIdent(marks.Options.SetterPrefix, f.Name, "")
		if err != nil {
			return err
		}
		var b bytes.Buffer
		if e.config.EmitComments {
			e.line(&b, 1, fmt.Sprintf("/// Sets the value for the `%s` field in struct [`%s`]", bareName(f.Name), r.Name))
		}
		e.line(&b, 1, fmt.Sprintf("pub fn %s(&mut self, %s: %s) {", name, f.Name, f.TypeSource()))
		e.line(&b, 2, fmt.Sprintf("self.%s = %s;", f.Name, f.Name))
		e.line(&b, 1, "}")
		methods = append(methods, b.String())
	}
	e.methodBlock(buf, r, methods)
	return nil
}

func (e *Emitter) emitConstdef(buf *bytes.Buffer, r *ir.RecordDescriptor, marks *annotate.Record) error {
	// Phantom fields are filled with PhantomData; the rest must be provable.
	var fields []ir.FieldDescriptor
	var index []int
	for i, f := range r.Fields {
		if !marks.Fields[i].Phantom {
			fields = append(fields, f)
			index = append(index, i)
		}
	}
	defaults, err := constdef.Synthesize(fields)
	if err != nil {
		var fe *constdef.FieldError
		if errors.As(err, &fe) {
			fe.Position = index[fe.Position]
		}
		return err
	}

	values := make(map[string]string, len(defaults))
	for _, d := range defaults {
		values[d.Name] = d.Value
	}
	inits := make([]string, 0, len(r.Fields))
	for i, f := range r.Fields {
		if marks.Fields[i].Phantom {
			inits = append(inits, f.Name+": "+phantomData)
			continue
		}
		inits = append(inits, f.Name+": "+values[f.Name])
	}

	e.implHeader(buf, r, "")
	if e.config.EmitComments {
		e.line(buf, 1, fmt.Sprintf("/// Returns the compile-time default of [`%s`]", r.Name))
	}
	e.line(buf, 1, "pub const fn default() -> Self {")
	e.structLiteral(buf, inits)
	e.line(buf, 1, "}")
	buf.WriteString("}\n\n")

	e.implHeader(buf, r, "::core::default::Default")
	e.line(buf, 1, "fn default() -> Self {")
	e.line(buf, 2, "Self::default()")
	e.line(buf, 1, "}")
	buf.WriteString("}\n")
	return nil
}

// methodBlock wraps methods in an inherent impl. Nothing is written when
// methods is empty.
func (e *Emitter) methodBlock(buf *bytes.Buffer, r *ir.RecordDescriptor, methods []string) {
	if len(methods) == 0 {
		return
	}
	e.implHeader(buf, r, "")
	buf.WriteString(strings.Join(methods, "\n"))
	buf.WriteString("}\n")
}

// implHeader writes "impl<P> [Trait for ]Name<A> [where ...] {".
func (e *Emitter) implHeader(buf *bytes.Buffer, r *ir.RecordDescriptor, trait string) {
	buf.WriteString("impl")
	buf.WriteString(r.Generics.Params)
	buf.WriteString(" ")
	if trait != "" {
		buf.WriteString(trait)
		buf.WriteString(" for ")
	}
	buf.WriteString(r.Name)
	buf.WriteString(r.Generics.Args)
	if r.Generics.Where != "" {
		buf.WriteString(" ")
		buf.WriteString(r.Generics.Where)
	}
	buf.WriteString(" {\n")
}

// structLiteral writes a Self { ... } body at method depth.
func (e *Emitter) structLiteral(buf *bytes.Buffer, inits []string) {
	if len(inits) == 0 {
		e.line(buf, 2, "Self {}")
		return
	}
	e.line(buf, 2, "Self {")
	for _, init := range inits {
		e.line(buf, 3, init+",")
	}
	e.line(buf, 2, "}")
}

func (e *Emitter) line(buf *bytes.Buffer, depth int, s string) {
	for i := 0; i < depth; i++ {
		buf.WriteString(e.indent)
	}
	buf.WriteString(s)
	buf.WriteString("\n")
}

// refTo returns the shared reference type to ty. A space keeps "& &T" from
// lexing as the "&&" operator.
func refTo(ty string) string {
	if strings.HasPrefix(ty, "&") {
		return "& " + ty
	}
	return "&" + ty
}

func fnKeyword(isConst bool) string {
	if isConst {
		return "pub const fn"
	}
	return "pub fn"
}

// copyable reports whether a getter for f returns by value.
func copyable(f ir.FieldDescriptor, m annotate.Field) bool {
	if m.GtorCopy {
		return true
	}
	switch t := f.Type.(type) {
	case *ir.PathDescriptor:
		name, ok := constdef.Normalize(t.Segments)
		return ok && copyTypes[name]
	case *ir.OtherDescriptor:
		switch t.Form {
		case ir.FormReference:
			return !mutableRef(t.Text)
		case ir.FormPointer, ir.FormFunction, ir.FormNever:
			return true
		}
	}
	return false
}

// mutableRef reports whether a reference type is "&mut T" or "&'a mut T".
// Mutable references are not Copy.
func mutableRef(text string) bool {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "&"))
	if strings.HasPrefix(rest, "'") {
		end := strings.IndexFunc(rest[1:], func(r rune) bool {
			return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
		})
		if end < 0 {
			return false
		}
		rest = strings.TrimSpace(rest[1+end:])
	}
	if !strings.HasPrefix(rest, "mut") {
		return false
	}
	next := strings.TrimPrefix(rest, "mut")
	if next == "" {
		return false
	}
	r := next[0]
	return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
}
