package ir

import "encoding/json"

// JSON serialization support for the tree.
// Payloads include a "kind" field for type discrimination.

// MarshalJSON implements json.Marshaler for Tree.
func (t *Tree) MarshalJSON() ([]byte, error) {
	enums := t.Enums
	if enums == nil {
		enums = []*EnumDef{}
	}
	return json.Marshal(&struct {
		Module string     `json:"module"`
		Root   string     `json:"root"`
		Enums  []*EnumDef `json:"enums"`
	}{
		Module: t.Module,
		Root:   t.Root,
		Enums:  enums,
	})
}

// MarshalJSON implements json.Marshaler for EnumDef.
func (e *EnumDef) MarshalJSON() ([]byte, error) {
	variants := e.Variants
	if variants == nil {
		variants = []VariantDef{}
	}
	return json.Marshal(&struct {
		Name     string       `json:"name"`
		Variants []VariantDef `json:"variants"`
	}{
		Name:     e.Name,
		Variants: variants,
	})
}

// MarshalJSON implements json.Marshaler for VariantDef.
func (v VariantDef) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name         string  `json:"name"`
		Discriminant int     `json:"index"`
		Payload      Payload `json:"payload"`
	}{
		Name:         v.Name,
		Discriminant: v.Discriminant,
		Payload:      v.Payload,
	})
}

// MarshalJSON implements json.Marshaler for Payload.
func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PayloadOpaque:
		return json.Marshal(&struct {
			Kind string `json:"kind"`
			Type string `json:"type"`
		}{
			Kind: "opaque",
			Type: p.Type,
		})
	case PayloadFields:
		return json.Marshal(&struct {
			Kind   string     `json:"kind"`
			Fields []FieldDef `json:"fields"`
		}{
			Kind:   "fields",
			Fields: p.Fields,
		})
	default:
		return json.Marshal(&struct {
			Kind string `json:"kind"`
		}{
			Kind: "empty",
		})
	}
}

// MarshalJSON implements json.Marshaler for FieldDef.
func (f FieldDef) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Fallback bool   `json:"fallback,omitempty"`
	}{
		Name:     f.Name,
		Type:     f.Type,
		Fallback: f.Fallback,
	})
}
