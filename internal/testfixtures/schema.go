// Package testfixtures builds metadata blobs in memory for tests.
package testfixtures

import (
	"github.com/broady/callgen/metadata"
)

// Schema accumulates registry types and pallets and encodes them as a
// metadata blob.
type Schema struct {
	version uint8
	types   []*metadata.Type
	prims   map[metadata.Primitive]metadata.TypeID
	pallets []*Pallet
}

// NewSchema returns an empty V14 schema.
func NewSchema() *Schema {
	return &Schema{
		version: metadata.V14,
		prims:   make(map[metadata.Primitive]metadata.TypeID),
	}
}

// Version sets the metadata version to encode.
func (s *Schema) Version(v uint8) *Schema {
	s.version = v
	return s
}

// Add registers a type and returns its id.
func (s *Schema) Add(def metadata.TypeDef, path ...string) metadata.TypeID {
	id := metadata.TypeID(len(s.types))
	s.types = append(s.types, &metadata.Type{ID: id, Path: path, Def: def})
	return id
}

// Primitive returns the id of a primitive type, registering it once.
func (s *Schema) Primitive(p metadata.Primitive) metadata.TypeID {
	if id, ok := s.prims[p]; ok {
		return id
	}
	id := s.Add(&metadata.PrimitiveType{Prim: p})
	s.prims[p] = id
	return id
}

// Named registers a composite type with the given path and fields.
func (s *Schema) Named(path []string, fields ...metadata.Field) metadata.TypeID {
	return s.Add(&metadata.CompositeType{Fields: fields}, path...)
}

// Tuple registers an anonymous tuple.
func (s *Schema) Tuple(elems ...metadata.TypeID) metadata.TypeID {
	return s.Add(&metadata.TupleType{Elems: elems})
}

// Sequence registers a variable-length sequence.
func (s *Schema) Sequence(elem metadata.TypeID) metadata.TypeID {
	return s.Add(&metadata.SequenceType{Elem: elem})
}

// Array registers a fixed-length array.
func (s *Schema) Array(n uint32, elem metadata.TypeID) metadata.TypeID {
	return s.Add(&metadata.ArrayType{Len: n, Elem: elem})
}

// Compact registers a compact wrapper.
func (s *Schema) Compact(elem metadata.TypeID) metadata.TypeID {
	return s.Add(&metadata.CompactType{Elem: elem})
}

// Pallet adds a pallet without calls. Calls are attached with Pallet.Call.
func (s *Schema) Pallet(name string, index uint8) *Pallet {
	p := &Pallet{schema: s, name: name, index: index}
	s.pallets = append(s.pallets, p)
	return p
}

// Metadata returns the in-memory model the schema encodes to.
func (s *Schema) Metadata() *metadata.Metadata {
	reg, err := metadata.NewTypeRegistry(s.types)
	if err != nil {
		panic(err)
	}
	md := &metadata.Metadata{
		Version: s.version,
		Types:   reg,
	}
	if s.version >= metadata.V15 {
		md.OuterEnums = &metadata.OuterEnums{}
	}
	for _, p := range s.pallets {
		mp := metadata.Pallet{
			Name:     p.name,
			Index:    p.index,
			CallType: p.callType,
		}
		if p.calls != nil {
			mp.Calls = append([]metadata.CallVariant(nil), p.calls.Variants...)
		}
		md.Pallets = append(md.Pallets, mp)
	}
	return md
}

// Bytes encodes the schema as a metadata blob.
func (s *Schema) Bytes() []byte {
	b, err := metadata.Encode(s.Metadata())
	if err != nil {
		panic(err)
	}
	return b
}

// Pallet builds one pallet of a Schema.
type Pallet struct {
	schema   *Schema
	name     string
	index    uint8
	callType *metadata.TypeID
	calls    *metadata.VariantType
}

// Calls gives the pallet an empty call type.
func (p *Pallet) Calls() *Pallet {
	if p.calls == nil {
		p.calls = &metadata.VariantType{}
		id := p.schema.Add(p.calls, "pallet_"+p.name, "pallet", "Call")
		p.callType = &id
	}
	return p
}

// Call appends a call to the pallet's call type.
func (p *Pallet) Call(name string, index uint8, fields ...metadata.Field) *Pallet {
	p.Calls()
	p.calls.Variants = append(p.calls.Variants, metadata.Variant{
		Name:   name,
		Index:  index,
		Fields: fields,
	})
	return p
}

// F returns a named field.
func F(name string, ty metadata.TypeID) metadata.Field {
	return metadata.Field{Name: name, Type: ty}
}

// Pos returns an unnamed field.
func Pos(ty metadata.TypeID) metadata.Field {
	return metadata.Field{Type: ty}
}
