package rust

import (
	"fmt"
	"strings"
)

// Strict and reserved keywords of the 2021 edition.
var keywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true,
	"abstract": true, "become": true, "box": true, "do": true, "final": true,
	"macro": true, "override": true, "priv": true, "try": true, "typeof": true,
	"unsized": true, "virtual": true, "yield": true,
}

// These cannot be written as raw identifiers.
var unrawable = map[string]bool{
	"crate": true, "self": true, "Self": true, "super": true, "_": true,
}

// bareName strips the raw identifier prefix: "r#type" -> "type".
func bareName(name string) string {
	return strings.TrimPrefix(name, "r#")
}

// methodIdent builds a method name from a prefix, a field name and a
// suffix, e.g. ("get_", "r#type", "_mut") -> "get_type_mut". Keyword
// results are escaped as raw identifiers.
func methodIdent(prefix, field, suffix string) (string, error) {
	return ident(prefix + bareName(field) + suffix)
}

// ident returns name as a usable identifier, escaping keywords.
func ident(name string) (string, error) {
	if unrawable[name] {
		return "", fmt.Errorf("%q cannot be used as a method name", name)
	}
	if keywords[name] {
		return "r#" + name, nil
	}
	return name, nil
}
