package ir

import (
	"bytes"
	"encoding/json"
)

// JSON serialization support for type descriptors.
// Every descriptor includes a "kind" field for type discrimination.
// Type text is written verbatim: "&str" stays "&str", not "\u0026str".

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalJSON implements json.Marshaler for PathDescriptor.
func (d *PathDescriptor) MarshalJSON() ([]byte, error) {
	return marshal(&struct {
		Kind     string   `json:"kind"`
		Segments []string `json:"segments"`
	}{
		Kind:     "path",
		Segments: d.Segments,
	})
}

// MarshalJSON implements json.Marshaler for ArrayDescriptor.
func (d *ArrayDescriptor) MarshalJSON() ([]byte, error) {
	return marshal(&struct {
		Kind    string         `json:"kind"`
		Element TypeDescriptor `json:"element"`
		Length  string         `json:"length"`
	}{
		Kind:    "array",
		Element: d.Element,
		Length:  d.Length,
	})
}

// MarshalJSON implements json.Marshaler for TupleDescriptor.
func (d *TupleDescriptor) MarshalJSON() ([]byte, error) {
	elems := d.Elements
	if elems == nil {
		elems = []TypeDescriptor{}
	}
	return marshal(&struct {
		Kind     string           `json:"kind"`
		Elements []TypeDescriptor `json:"elements"`
	}{
		Kind:     "tuple",
		Elements: elems,
	})
}

// MarshalJSON implements json.Marshaler for OtherDescriptor.
func (d *OtherDescriptor) MarshalJSON() ([]byte, error) {
	return marshal(&struct {
		Kind string    `json:"kind"`
		Form OtherForm `json:"form"`
		Text string    `json:"text"`
	}{
		Kind: "other",
		Form: d.Form,
		Text: d.Text,
	})
}
