package annotate

import (
	"strings"
	"testing"

	"github.com/broady/derive/derivegen/ir"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Options
	}{
		{
			name: "no args",
			args: []string{},
			want: DefaultOptions(),
		},
		{
			name: "ctor",
			args: []string{`ctor = "create"`},
			want: Options{CtorName: "create", GetterPrefix: "get_", GetterMutSuffix: "_mut", SetterPrefix: "set_"},
		},
		{
			name: "all",
			args: []string{`ctor = "make"`, `getter_prefix = "read_"`, `getter_mut_suffix = "_ref"`, `setter_prefix="with_"`},
			want: Options{CtorName: "make", GetterPrefix: "read_", GetterMutSuffix: "_ref", SetterPrefix: "with_"},
		},
		{
			name: "bare value",
			args: []string{"ctor = build"},
			want: Options{CtorName: "build", GetterPrefix: "get_", GetterMutSuffix: "_mut", SetterPrefix: "set_"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOptions(attr("derived", tt.args...))
			if err != nil {
				t.Fatalf("parseOptions() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseOptions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseOptions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		errWant string
	}{
		{"not key value", []string{"ctor"}, `expected key = "value"`},
		{"unknown key", []string{`colour = "red"`}, `unknown option "colour"`},
		{"bad identifier", []string{`ctor = "new-user"`}, `option CtorName: "new-user" is not a valid identifier`},
		{"leading digit", []string{`setter_prefix = "1set"`}, "SetterPrefix"},
		{"repeated", []string{`ctor = "a"`, `ctor = "b"`}, `option "ctor" set more than once`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOptions(attr("derived", tt.args...))
			if err == nil {
				t.Fatal("parseOptions() error = nil")
			}
			if !strings.Contains(err.Error(), tt.errWant) {
				t.Errorf("parseOptions() error = %q, want containing %q", err, tt.errWant)
			}
		})
	}
}

func TestInterpret_Options(t *testing.T) {
	r := &ir.RecordDescriptor{Attributes: []ir.Attribute{attr("derived", `ctor = "with_defaults"`)}}
	got, err := Interpret(r)
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if got.Options.CtorName != "with_defaults" {
		t.Errorf("CtorName = %q", got.Options.CtorName)
	}
}
