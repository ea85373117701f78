package metadata

import (
	"fmt"

	"github.com/broady/callgen/internal/scale"
)

// Encode serializes md in the layout Decode reads. Pallet calls are not
// written directly; they are carried by each pallet's call type.
func Encode(md *Metadata) ([]byte, error) {
	if md.Version != V14 && md.Version != V15 {
		return nil, fmt.Errorf("metadata: cannot encode version %d", md.Version)
	}
	e := &encoder{w: scale.NewWriter(), version: md.Version}

	e.w.U32LE(Magic)
	e.w.Byte(md.Version)

	var types []*Type
	if md.Types != nil {
		types = md.Types.types
	}
	e.w.Compact(uint64(len(types)))
	for _, t := range types {
		if err := e.typ(t); err != nil {
			return nil, err
		}
	}

	e.w.Compact(uint64(len(md.Pallets)))
	for i := range md.Pallets {
		e.pallet(&md.Pallets[i])
	}

	e.extrinsic(&md.Extrinsic)
	e.typeID(md.RuntimeType)

	if md.Version >= V15 {
		e.w.Compact(uint64(len(md.APIs)))
		for _, api := range md.APIs {
			e.w.String(api.Name)
			e.w.Compact(uint64(len(api.Methods)))
			for _, m := range api.Methods {
				e.w.String(m.Name)
				e.w.Compact(uint64(len(m.Inputs)))
				for _, in := range m.Inputs {
					e.w.String(in.Name)
					e.typeID(in.Type)
				}
				e.typeID(m.Output)
				e.w.Strings(m.Docs)
			}
			e.w.Strings(api.Docs)
		}

		var oe OuterEnums
		if md.OuterEnums != nil {
			oe = *md.OuterEnums
		}
		e.typeID(oe.CallType)
		e.typeID(oe.EventType)
		e.typeID(oe.ErrorType)

		e.w.Compact(uint64(len(md.Custom)))
		for _, c := range md.Custom {
			e.w.String(c.Key)
			e.typeID(c.Type)
			e.w.ByteVec(c.Value)
		}
	}

	return e.w.Bytes(), nil
}

type encoder struct {
	w       *scale.Writer
	version uint8
}

func (e *encoder) typeID(id TypeID) {
	e.w.Compact(uint64(id))
}

func (e *encoder) optTypeID(id *TypeID) {
	if id == nil {
		e.w.None()
		return
	}
	e.w.Some()
	e.typeID(*id)
}

func (e *encoder) typ(t *Type) error {
	e.typeID(t.ID)
	e.w.Strings(t.Path)
	e.w.Compact(uint64(len(t.Params)))
	for _, p := range t.Params {
		e.w.String(p.Name)
		e.optTypeID(p.Type)
	}

	if t.Def == nil {
		return fmt.Errorf("metadata: type %d has no definition", t.ID)
	}
	e.w.Byte(byte(t.Def.Kind()))
	switch d := t.Def.(type) {
	case *CompositeType:
		e.fields(d.Fields)
	case *VariantType:
		e.w.Compact(uint64(len(d.Variants)))
		for _, v := range d.Variants {
			e.w.String(v.Name)
			e.fields(v.Fields)
			e.w.Byte(v.Index)
			e.w.Strings(v.Docs)
		}
	case *SequenceType:
		e.typeID(d.Elem)
	case *ArrayType:
		e.w.U32LE(d.Len)
		e.typeID(d.Elem)
	case *TupleType:
		e.w.Compact(uint64(len(d.Elems)))
		for _, id := range d.Elems {
			e.typeID(id)
		}
	case *PrimitiveType:
		e.w.Byte(byte(d.Prim))
	case *CompactType:
		e.typeID(d.Elem)
	case *BitSequenceType:
		e.typeID(d.Store)
		e.typeID(d.Order)
	}
	e.w.Strings(t.Docs)
	return nil
}

func (e *encoder) fields(fields []Field) {
	e.w.Compact(uint64(len(fields)))
	for _, f := range fields {
		e.w.OptionString(f.Name, f.Name != "")
		e.typeID(f.Type)
		e.w.OptionString(f.TypeName, f.TypeName != "")
		e.w.Strings(f.Docs)
	}
}

func (e *encoder) pallet(p *Pallet) {
	e.w.String(p.Name)

	if p.Storage == nil {
		e.w.None()
	} else {
		e.w.Some()
		e.w.String(p.Storage.Prefix)
		e.w.Compact(uint64(len(p.Storage.Entries)))
		for _, se := range p.Storage.Entries {
			e.w.String(se.Name)
			e.w.Byte(byte(se.Modifier))
			if se.Map {
				e.w.Byte(1)
				e.w.Compact(uint64(len(se.Hashers)))
				for _, h := range se.Hashers {
					e.w.Byte(byte(h))
				}
				e.typeID(se.Key)
				e.typeID(se.Value)
			} else {
				e.w.Byte(0)
				e.typeID(se.Value)
			}
			e.w.ByteVec(se.Default)
			e.w.Strings(se.Docs)
		}
	}

	e.optTypeID(p.CallType)
	e.optTypeID(p.EventType)

	e.w.Compact(uint64(len(p.Constants)))
	for _, c := range p.Constants {
		e.w.String(c.Name)
		e.typeID(c.Type)
		e.w.ByteVec(c.Value)
		e.w.Strings(c.Docs)
	}

	e.optTypeID(p.ErrorType)
	e.w.Byte(p.Index)
	if e.version >= V15 {
		e.w.Strings(p.Docs)
	}
}

func (e *encoder) extrinsic(x *Extrinsic) {
	if e.version == V14 {
		e.typeID(x.Type)
		e.w.Byte(x.Version)
	} else {
		e.w.Byte(x.Version)
		e.typeID(x.AddressType)
		e.typeID(x.CallType)
		e.typeID(x.SignatureType)
		e.typeID(x.ExtraType)
	}
	e.w.Compact(uint64(len(x.SignedExtensions)))
	for _, se := range x.SignedExtensions {
		e.w.String(se.Identifier)
		e.typeID(se.Type)
		e.typeID(se.AdditionalSigned)
	}
}
