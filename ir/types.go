// Package ir defines the TypeDefinitionTree: a language-agnostic description
// of nested tagged unions with explicit discriminants. Emitters render a
// Tree into target source text.
package ir

// MaxDiscriminant is the largest discriminant the one-byte index encoding
// can carry.
const MaxDiscriminant = 255

// Tree is the output of one generation pass. Enums[0] is the root union;
// the remaining enums appear in the order the root references them.
type Tree struct {
	// Module is the target namespace the tree is generated into.
	Module string

	// Root is the name of the top-level union, e.g. "RuntimeCall".
	Root string

	Enums []*EnumDef
}

// AddEnum appends an enum definition.
func (t *Tree) AddEnum(e *EnumDef) {
	t.Enums = append(t.Enums, e)
}

// FindEnum looks up an enum by name. Returns nil if not found.
func (t *Tree) FindEnum(name string) *EnumDef {
	for _, e := range t.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// RootEnum returns the top-level union, or nil for an empty tree.
func (t *Tree) RootEnum() *EnumDef {
	return t.FindEnum(t.Root)
}

// EnumDef is a tagged union.
type EnumDef struct {
	Name     string
	Variants []VariantDef
}

// AddVariant appends a variant.
func (e *EnumDef) AddVariant(v VariantDef) {
	e.Variants = append(e.Variants, v)
}

// FindVariant looks up a variant by name. Returns nil if not found.
func (e *EnumDef) FindVariant(name string) *VariantDef {
	for i := range e.Variants {
		if e.Variants[i].Name == name {
			return &e.Variants[i]
		}
	}
	return nil
}

// VariantDef is one arm of a tagged union.
type VariantDef struct {
	Name         string
	Discriminant int
	Payload      Payload
}

// PayloadKind identifies the shape of a variant payload.
type PayloadKind int

const (
	PayloadEmpty  PayloadKind = iota // unit variant
	PayloadOpaque                    // a single value of a named type
	PayloadFields                    // named fields in declaration order
)

// String returns the string representation of the payload kind.
func (k PayloadKind) String() string {
	switch k {
	case PayloadEmpty:
		return "empty"
	case PayloadOpaque:
		return "opaque"
	case PayloadFields:
		return "fields"
	default:
		return "unknown"
	}
}

// Payload is the data a variant carries.
type Payload struct {
	Kind PayloadKind

	// Type is the payload type name when Kind is PayloadOpaque.
	Type string

	// Fields are the named fields when Kind is PayloadFields.
	Fields []FieldDef
}

// Empty returns a unit payload.
func Empty() Payload {
	return Payload{Kind: PayloadEmpty}
}

// Opaque returns a payload holding a single value of the named type.
func Opaque(typeName string) Payload {
	return Payload{Kind: PayloadOpaque, Type: typeName}
}

// Fields returns a payload of named fields. With no fields it returns an
// empty payload.
func Fields(fields ...FieldDef) Payload {
	if len(fields) == 0 {
		return Empty()
	}
	return Payload{Kind: PayloadFields, Fields: fields}
}

// FieldDef is a named field with its resolved type name.
type FieldDef struct {
	Name string
	Type string

	// Fallback is set when Type is the substitute for a type without a
	// simple identifier.
	Fallback bool
}

// Warning represents a non-fatal issue encountered during generation.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Path names the entity that triggered the warning, outermost first.
	Path []string
}
