package metadata

import "fmt"

// TypeID is an opaque key into the TypeRegistry.
type TypeID uint32

// DefKind identifies the shape of a type definition.
type DefKind int

const (
	KindComposite DefKind = iota
	KindVariant
	KindSequence
	KindArray
	KindTuple
	KindPrimitive
	KindCompact
	KindBitSequence
)

// String returns the string representation of the definition kind.
func (k DefKind) String() string {
	switch k {
	case KindComposite:
		return "Composite"
	case KindVariant:
		return "Variant"
	case KindSequence:
		return "Sequence"
	case KindArray:
		return "Array"
	case KindTuple:
		return "Tuple"
	case KindPrimitive:
		return "Primitive"
	case KindCompact:
		return "Compact"
	case KindBitSequence:
		return "BitSequence"
	default:
		return "Unknown"
	}
}

// Type is a registry entry: the resolved shape of a TypeID.
type Type struct {
	ID     TypeID
	Path   []string
	Params []TypeParam
	Def    TypeDef
	Docs   []string
}

// Ident returns the simple nameable identifier of the type: the primitive
// name for primitives, the last path segment for types that carry a path.
// Sequences, arrays, tuples, compacts and other unnamed shapes report false.
func (t *Type) Ident() (string, bool) {
	if p, ok := t.Def.(*PrimitiveType); ok {
		return p.Prim.String(), true
	}
	if n := len(t.Path); n > 0 && t.Path[n-1] != "" {
		return t.Path[n-1], true
	}
	return "", false
}

// TypeParam is a generic parameter of a registry type. Type is nil when the
// parameter was erased by the schema producer.
type TypeParam struct {
	Name string
	Type *TypeID
}

// TypeDef is the structural definition of a registry type.
type TypeDef interface {
	Kind() DefKind

	sealed()
}

// CompositeType is a struct or tuple struct.
type CompositeType struct {
	Fields []Field
}

// VariantType is a tagged union with explicit per-variant indices.
type VariantType struct {
	Variants []Variant
}

// SequenceType is a variable-length sequence.
type SequenceType struct {
	Elem TypeID
}

// ArrayType is a fixed-length array.
type ArrayType struct {
	Len  uint32
	Elem TypeID
}

// TupleType is an anonymous tuple. The unit type is an empty tuple.
type TupleType struct {
	Elems []TypeID
}

// PrimitiveType is a built-in scalar.
type PrimitiveType struct {
	Prim Primitive
}

// CompactType is a compact-encoded wrapper around an integer type.
type CompactType struct {
	Elem TypeID
}

// BitSequenceType is a bit vector with explicit store and order types.
type BitSequenceType struct {
	Store TypeID
	Order TypeID
}

func (*CompositeType) Kind() DefKind   { return KindComposite }
func (*VariantType) Kind() DefKind     { return KindVariant }
func (*SequenceType) Kind() DefKind    { return KindSequence }
func (*ArrayType) Kind() DefKind       { return KindArray }
func (*TupleType) Kind() DefKind       { return KindTuple }
func (*PrimitiveType) Kind() DefKind   { return KindPrimitive }
func (*CompactType) Kind() DefKind     { return KindCompact }
func (*BitSequenceType) Kind() DefKind { return KindBitSequence }

func (*CompositeType) sealed()   {}
func (*VariantType) sealed()     {}
func (*SequenceType) sealed()    {}
func (*ArrayType) sealed()       {}
func (*TupleType) sealed()       {}
func (*PrimitiveType) sealed()   {}
func (*CompactType) sealed()     {}
func (*BitSequenceType) sealed() {}

// Field is a named or positional member of a composite or variant.
// Name is empty when the schema does not declare one.
type Field struct {
	Name     string
	Type     TypeID
	TypeName string
	Docs     []string
}

// Variant is one arm of a VariantType.
type Variant struct {
	Name   string
	Fields []Field
	Index  uint8
	Docs   []string
}

// CallVariant is a pallet call: a variant of the pallet's call type.
type CallVariant = Variant

// Primitive enumerates the scalar types of the registry, in wire order.
type Primitive uint8

const (
	PrimBool Primitive = iota
	PrimChar
	PrimStr
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimU128
	PrimU256
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimI128
	PrimI256
)

var primitiveNames = [...]string{
	PrimBool: "bool",
	PrimChar: "char",
	PrimStr:  "str",
	PrimU8:   "u8",
	PrimU16:  "u16",
	PrimU32:  "u32",
	PrimU64:  "u64",
	PrimU128: "u128",
	PrimU256: "u256",
	PrimI8:   "i8",
	PrimI16:  "i16",
	PrimI32:  "i32",
	PrimI64:  "i64",
	PrimI128: "i128",
	PrimI256: "i256",
}

// String returns the schema name of the primitive, e.g. "u32".
func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Primitive(%d)", uint8(p))
}

// Valid reports whether p is a known primitive.
func (p Primitive) Valid() bool {
	return int(p) < len(primitiveNames)
}
