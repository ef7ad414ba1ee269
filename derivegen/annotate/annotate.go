// Package annotate interprets the marker attributes that steer the
// constructor and accessor generators.
//
// Record markers:
//
//	#[ctor_const]                 constructor is a const fn
//	#[gtor_const]                 getters are const fns
//	#[gtor(get, get_mut)]         getter variants to emit (default: get)
//	#[derived(ctor = "create")]   naming options, see Options
//
// Field markers:
//
//	#[phantom]     PhantomData field: not a constructor parameter, no accessors
//	#[gtor_copy]   getter returns the value instead of a reference
//	#[gtor_skip]   no getters
//	#[stor_skip]   no setter
//
// Attributes that are not markers (doc, serde, allow...) are ignored.
package annotate

import (
	"fmt"
	"strings"

	"github.com/broady/derive/derivegen/ir"
)

// Marker names.
const (
	MarkerCtorConst = "ctor_const"
	MarkerGtorConst = "gtor_const"
	MarkerGtor      = "gtor"
	MarkerOptions   = "derived"
	MarkerPhantom   = "phantom"
	MarkerGtorCopy  = "gtor_copy"
	MarkerGtorSkip  = "gtor_skip"
	MarkerStorSkip  = "stor_skip"
)

// level says where a marker may appear.
type level int

const (
	levelRecord level = iota
	levelField
)

var markers = map[string]level{
	MarkerCtorConst: levelRecord,
	MarkerGtorConst: levelRecord,
	MarkerGtor:      levelRecord,
	MarkerOptions:   levelRecord,
	MarkerPhantom:   levelField,
	MarkerGtorCopy:  levelField,
	MarkerGtorSkip:  levelField,
	MarkerStorSkip:  levelField,
}

// markers that take an argument list
var withArgs = map[string]bool{
	MarkerGtor:    true,
	MarkerOptions: true,
}

// Error reports a misused marker.
type Error struct {
	Source    ir.Source
	Attribute string
	Message   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: #[%s]: %s", e.Source, e.Attribute, e.Message)
}

// Getters selects which getter variants are emitted.
type Getters struct {
	Get    bool
	GetMut bool
}

// Record is the interpreted marker set of a record and its fields.
type Record struct {
	CtorConst bool
	GtorConst bool
	Getters   Getters
	Options   Options

	// Fields holds one entry per record field, in declaration order.
	Fields []Field
}

// Field is the interpreted marker set of one field.
type Field struct {
	Phantom  bool
	GtorCopy bool
	GtorSkip bool
	StorSkip bool
}

// Interpret reads the markers of a record and its fields.
func Interpret(r *ir.RecordDescriptor) (*Record, error) {
	rec := &Record{
		Getters: Getters{Get: true},
		Options: DefaultOptions(),
		Fields:  make([]Field, len(r.Fields)),
	}

	found, err := collect(r.Attributes, levelRecord, "the entire struct")
	if err != nil {
		return nil, err
	}
	rec.CtorConst = found[MarkerCtorConst] != nil
	rec.GtorConst = found[MarkerGtorConst] != nil
	if a := found[MarkerGtor]; a != nil {
		if rec.Getters, err = parseGetters(*a); err != nil {
			return nil, err
		}
	}
	if a := found[MarkerOptions]; a != nil {
		if rec.Options, err = parseOptions(*a); err != nil {
			return nil, err
		}
	}

	for i, f := range r.Fields {
		found, err := collect(f.Attributes, levelField, "a field")
		if err != nil {
			return nil, err
		}
		rec.Fields[i] = Field{
			Phantom:  found[MarkerPhantom] != nil,
			GtorCopy: found[MarkerGtorCopy] != nil,
			GtorSkip: found[MarkerGtorSkip] != nil,
			StorSkip: found[MarkerStorSkip] != nil,
		}
	}
	return rec, nil
}

// collect indexes the markers in attrs, rejecting duplicates, markers used at
// the wrong level and unexpected argument lists.
func collect(attrs []ir.Attribute, at level, where string) (map[string]*ir.Attribute, error) {
	found := make(map[string]*ir.Attribute)
	for i := range attrs {
		a := &attrs[i]
		lvl, ok := markers[a.Name]
		if !ok {
			continue
		}
		if lvl != at {
			return nil, &Error{Source: a.Source, Attribute: a.Name, Message: "cannot be used on " + where}
		}
		if _, dup := found[a.Name]; dup {
			return nil, &Error{Source: a.Source, Attribute: a.Name, Message: "may only appear once"}
		}
		if a.Args != nil && !withArgs[a.Name] {
			return nil, &Error{Source: a.Source, Attribute: a.Name, Message: "takes no arguments"}
		}
		found[a.Name] = a
	}
	return found, nil
}

func parseGetters(a ir.Attribute) (Getters, error) {
	if len(a.Args) == 0 {
		return Getters{}, &Error{Source: a.Source, Attribute: a.Name, Message: "expected at least one of get, get_mut"}
	}
	var g Getters
	for _, arg := range a.Args {
		switch strings.TrimSpace(arg) {
		case "get":
			g.Get = true
		case "get_mut":
			g.GetMut = true
		default:
			return Getters{}, &Error{Source: a.Source, Attribute: a.Name, Message: fmt.Sprintf("unknown getter variant %q", arg)}
		}
	}
	return g, nil
}
