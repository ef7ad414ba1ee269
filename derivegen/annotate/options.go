package annotate

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/broady/derive/derivegen/ir"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()

	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

func init() {
	// "rust_ident" accepts identifier-shaped text; prefixes like "get_" pass.
	if err := validate.RegisterValidation("rust_ident", func(fl validator.FieldLevel) bool {
		return identPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

// Options controls the names of generated methods.
// Set with #[derived(ctor = "create", getter_prefix = "fetch_", setter_prefix = "with_")].
type Options struct {
	// CtorName is the constructor function name.
	CtorName string `schema:"ctor" validate:"required,rust_ident"`

	// GetterPrefix is prepended to the field name for getters.
	GetterPrefix string `schema:"getter_prefix" validate:"required,rust_ident"`

	// GetterMutSuffix is appended to the getter name for mutable getters.
	GetterMutSuffix string `schema:"getter_mut_suffix" validate:"required,rust_ident"`

	// SetterPrefix is prepended to the field name for setters.
	SetterPrefix string `schema:"setter_prefix" validate:"required,rust_ident"`
}

// DefaultOptions returns the naming used when no #[derived(...)] is present.
func DefaultOptions() Options {
	return Options{
		CtorName:        "new",
		GetterPrefix:    "get_",
		GetterMutSuffix: "_mut",
		SetterPrefix:    "set_",
	}
}

// parseOptions decodes key = "value" arguments over the defaults.
func parseOptions(a ir.Attribute) (Options, error) {
	values := url.Values{}
	for _, arg := range a.Args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return Options{}, &Error{Source: a.Source, Attribute: a.Name, Message: fmt.Sprintf("expected key = \"value\", got %q", arg)}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if unquoted, err := strconv.Unquote(value); err == nil {
			value = unquoted
		}
		if values.Has(key) {
			return Options{}, &Error{Source: a.Source, Attribute: a.Name, Message: fmt.Sprintf("option %q set more than once", key)}
		}
		values.Set(key, value)
	}

	opts := DefaultOptions()
	if err := schemaDecoder.Decode(&opts, values); err != nil {
		return Options{}, &Error{Source: a.Source, Attribute: a.Name, Message: decodeMessage(err)}
	}
	if err := validate.Struct(opts); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return Options{}, &Error{Source: a.Source, Attribute: a.Name, Message: fmt.Sprintf("option %s: %q is not a valid identifier", fe.Field(), fe.Value())}
		}
		return Options{}, &Error{Source: a.Source, Attribute: a.Name, Message: err.Error()}
	}
	return opts, nil
}

func decodeMessage(err error) string {
	var multi schema.MultiError
	if errors.As(err, &multi) {
		msgs := make([]string, 0, len(multi))
		for key, e := range multi {
			var unknown schema.UnknownKeyError
			if errors.As(e, &unknown) {
				msgs = append(msgs, fmt.Sprintf("unknown option %q", key))
				continue
			}
			msgs = append(msgs, e.Error())
		}
		if len(msgs) > 0 {
			sort.Strings(msgs)
			return strings.Join(msgs, "; ")
		}
	}
	return err.Error()
}
