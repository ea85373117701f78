package metadata

import (
	"errors"
	"fmt"
	"strconv"

	callerrors "github.com/broady/callgen/errors"
	"github.com/broady/callgen/internal/scale"
)

// Decode deserializes a metadata blob. Malformed, truncated or unsupported
// input fails with a decode-phase *errors.Error; no partial Metadata is
// returned. After decoding, every type reference is checked against the
// registry and each pallet's calls are materialized from its call type.
func Decode(b []byte) (*Metadata, error) {
	d := &decoder{r: scale.NewReader(b), section: "magic"}
	md, err := d.decode()
	if err != nil {
		var ce *callerrors.Error
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, callerrors.Decode(d.r.Position(), d.section, err)
	}
	if err := link(md); err != nil {
		return nil, err
	}
	return md, nil
}

type decoder struct {
	r       *scale.Reader
	version uint8
	// section names what is being read, for error reporting.
	section string
}

func (d *decoder) decode() (*Metadata, error) {
	magic, err := d.r.ReadU32LE()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, callerrors.New(callerrors.PhaseDecode, callerrors.KindDecode).
			Offset(0).
			Detail("bad magic %#08x", magic).
			Value(magic).
			Build()
	}

	d.section = "version"
	d.version, err = d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if d.version != V14 && d.version != V15 {
		return nil, callerrors.UnsupportedVersion(d.version)
	}

	md := &Metadata{Version: d.version}

	d.section = "types"
	types, err := d.types()
	if err != nil {
		return nil, err
	}
	if md.Types, err = NewTypeRegistry(types); err != nil {
		return nil, err
	}

	d.section = "pallets"
	if md.Pallets, err = d.pallets(); err != nil {
		return nil, err
	}

	d.section = "extrinsic"
	if md.Extrinsic, err = d.extrinsic(); err != nil {
		return nil, err
	}

	d.section = "runtime type"
	if md.RuntimeType, err = d.typeID(); err != nil {
		return nil, err
	}

	if d.version >= V15 {
		d.section = "runtime apis"
		if md.APIs, err = d.apis(); err != nil {
			return nil, err
		}

		d.section = "outer enums"
		var oe OuterEnums
		if oe.CallType, err = d.typeID(); err != nil {
			return nil, err
		}
		if oe.EventType, err = d.typeID(); err != nil {
			return nil, err
		}
		if oe.ErrorType, err = d.typeID(); err != nil {
			return nil, err
		}
		md.OuterEnums = &oe

		d.section = "custom"
		if md.Custom, err = d.custom(); err != nil {
			return nil, err
		}
	}

	if n := d.r.Remaining(); n > 0 {
		return nil, callerrors.New(callerrors.PhaseDecode, callerrors.KindDecode).
			Offset(d.r.Position()).
			Detail("%d trailing bytes after metadata", n).
			Build()
	}
	return md, nil
}

func (d *decoder) typeID() (TypeID, error) {
	v, err := d.r.ReadCompactU32()
	return TypeID(v), err
}

func (d *decoder) optTypeID() (*TypeID, error) {
	ok, err := d.r.ReadOption()
	if err != nil || !ok {
		return nil, err
	}
	id, err := d.typeID()
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (d *decoder) types() ([]*Type, error) {
	n, err := d.r.ReadLen()
	if err != nil {
		return nil, err
	}
	out := make([]*Type, 0, n)
	for i := 0; i < n; i++ {
		t := &Type{}
		if t.ID, err = d.typeID(); err != nil {
			return nil, err
		}
		d.section = "type " + strconv.FormatUint(uint64(t.ID), 10)
		if t.Path, err = d.r.ReadStrings(); err != nil {
			return nil, err
		}
		if t.Params, err = d.typeParams(); err != nil {
			return nil, err
		}
		if t.Def, err = d.typeDef(); err != nil {
			return nil, err
		}
		if t.Docs, err = d.r.ReadStrings(); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (d *decoder) typeParams() ([]TypeParam, error) {
	n, err := d.r.ReadLen()
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]TypeParam, n)
	for i := range out {
		if out[i].Name, err = d.r.ReadString(); err != nil {
			return nil, err
		}
		if out[i].Type, err = d.optTypeID(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *decoder) typeDef() (TypeDef, error) {
	tag, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch DefKind(tag) {
	case KindComposite:
		fields, err := d.fields()
		if err != nil {
			return nil, err
		}
		return &CompositeType{Fields: fields}, nil
	case KindVariant:
		variants, err := d.variants()
		if err != nil {
			return nil, err
		}
		return &VariantType{Variants: variants}, nil
	case KindSequence:
		elem, err := d.typeID()
		if err != nil {
			return nil, err
		}
		return &SequenceType{Elem: elem}, nil
	case KindArray:
		n, err := d.r.ReadU32LE()
		if err != nil {
			return nil, err
		}
		elem, err := d.typeID()
		if err != nil {
			return nil, err
		}
		return &ArrayType{Len: n, Elem: elem}, nil
	case KindTuple:
		n, err := d.r.ReadLen()
		if err != nil {
			return nil, err
		}
		elems := make([]TypeID, n)
		for i := range elems {
			if elems[i], err = d.typeID(); err != nil {
				return nil, err
			}
		}
		return &TupleType{Elems: elems}, nil
	case KindPrimitive:
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		p := Primitive(b)
		if !p.Valid() {
			return nil, fmt.Errorf("unknown primitive %d", b)
		}
		return &PrimitiveType{Prim: p}, nil
	case KindCompact:
		elem, err := d.typeID()
		if err != nil {
			return nil, err
		}
		return &CompactType{Elem: elem}, nil
	case KindBitSequence:
		store, err := d.typeID()
		if err != nil {
			return nil, err
		}
		order, err := d.typeID()
		if err != nil {
			return nil, err
		}
		return &BitSequenceType{Store: store, Order: order}, nil
	default:
		return nil, fmt.Errorf("unknown type definition tag %d", tag)
	}
}

func (d *decoder) fields() ([]Field, error) {
	n, err := d.r.ReadLen()
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]Field, n)
	for i := range out {
		f := &out[i]
		if f.Name, _, err = d.r.ReadOptionString(); err != nil {
			return nil, err
		}
		if f.Type, err = d.typeID(); err != nil {
			return nil, err
		}
		if f.TypeName, _, err = d.r.ReadOptionString(); err != nil {
			return nil, err
		}
		if f.Docs, err = d.r.ReadStrings(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *decoder) variants() ([]Variant, error) {
	n, err := d.r.ReadLen()
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]Variant, n)
	for i := range out {
		v := &out[i]
		if v.Name, err = d.r.ReadString(); err != nil {
			return nil, err
		}
		if v.Fields, err = d.fields(); err != nil {
			return nil, err
		}
		if v.Index, err = d.r.ReadByte(); err != nil {
			return nil, err
		}
		if v.Docs, err = d.r.ReadStrings(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *decoder) pallets() ([]Pallet, error) {
	n, err := d.r.ReadLen()
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]Pallet, n)
	for i := range out {
		p := &out[i]
		if p.Name, err = d.r.ReadString(); err != nil {
			return nil, err
		}
		d.section = "pallet " + p.Name
		if p.Storage, err = d.storage(); err != nil {
			return nil, err
		}
		if p.CallType, err = d.optTypeID(); err != nil {
			return nil, err
		}
		if p.EventType, err = d.optTypeID(); err != nil {
			return nil, err
		}
		if p.Constants, err = d.constants(); err != nil {
			return nil, err
		}
		if p.ErrorType, err = d.optTypeID(); err != nil {
			return nil, err
		}
		if p.Index, err = d.r.ReadByte(); err != nil {
			return nil, err
		}
		if d.version >= V15 {
			if p.Docs, err = d.r.ReadStrings(); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (d *decoder) storage() (*Storage, error) {
	ok, err := d.r.ReadOption()
	if err != nil || !ok {
		return nil, err
	}
	s := &Storage{}
	if s.Prefix, err = d.r.ReadString(); err != nil {
		return nil, err
	}
	n, err := d.r.ReadLen()
	if err != nil {
		return nil, err
	}
	s.Entries = make([]StorageEntry, n)
	for i := range s.Entries {
		e := &s.Entries[i]
		if e.Name, err = d.r.ReadString(); err != nil {
			return nil, err
		}
		m, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		if m > uint8(ModifierDefault) {
			return nil, fmt.Errorf("storage %s: unknown modifier %d", e.Name, m)
		}
		e.Modifier = StorageModifier(m)

		tag, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		switch tag {
		case 0:
			if e.Value, err = d.typeID(); err != nil {
				return nil, err
			}
		case 1:
			e.Map = true
			hn, err := d.r.ReadLen()
			if err != nil {
				return nil, err
			}
			e.Hashers = make([]StorageHasher, hn)
			for j := range e.Hashers {
				h, err := d.r.ReadByte()
				if err != nil {
					return nil, err
				}
				if h > uint8(HasherIdentity) {
					return nil, fmt.Errorf("storage %s: unknown hasher %d", e.Name, h)
				}
				e.Hashers[j] = StorageHasher(h)
			}
			if e.Key, err = d.typeID(); err != nil {
				return nil, err
			}
			if e.Value, err = d.typeID(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("storage %s: unknown entry type %d", e.Name, tag)
		}

		if e.Default, err = d.r.ReadByteVec(); err != nil {
			return nil, err
		}
		if e.Docs, err = d.r.ReadStrings(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (d *decoder) constants() ([]Constant, error) {
	n, err := d.r.ReadLen()
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]Constant, n)
	for i := range out {
		c := &out[i]
		if c.Name, err = d.r.ReadString(); err != nil {
			return nil, err
		}
		if c.Type, err = d.typeID(); err != nil {
			return nil, err
		}
		if c.Value, err = d.r.ReadByteVec(); err != nil {
			return nil, err
		}
		if c.Docs, err = d.r.ReadStrings(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *decoder) extrinsic() (Extrinsic, error) {
	var x Extrinsic
	var err error
	if d.version == V14 {
		if x.Type, err = d.typeID(); err != nil {
			return x, err
		}
		if x.Version, err = d.r.ReadByte(); err != nil {
			return x, err
		}
	} else {
		if x.Version, err = d.r.ReadByte(); err != nil {
			return x, err
		}
		for _, dst := range []*TypeID{&x.AddressType, &x.CallType, &x.SignatureType, &x.ExtraType} {
			if *dst, err = d.typeID(); err != nil {
				return x, err
			}
		}
	}

	n, err := d.r.ReadLen()
	if err != nil || n == 0 {
		return x, err
	}
	x.SignedExtensions = make([]SignedExtension, n)
	for i := range x.SignedExtensions {
		se := &x.SignedExtensions[i]
		if se.Identifier, err = d.r.ReadString(); err != nil {
			return x, err
		}
		if se.Type, err = d.typeID(); err != nil {
			return x, err
		}
		if se.AdditionalSigned, err = d.typeID(); err != nil {
			return x, err
		}
	}
	return x, nil
}

func (d *decoder) apis() ([]RuntimeAPI, error) {
	n, err := d.r.ReadLen()
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]RuntimeAPI, n)
	for i := range out {
		api := &out[i]
		if api.Name, err = d.r.ReadString(); err != nil {
			return nil, err
		}
		mn, err := d.r.ReadLen()
		if err != nil {
			return nil, err
		}
		api.Methods = make([]RuntimeAPIMethod, mn)
		for j := range api.Methods {
			m := &api.Methods[j]
			if m.Name, err = d.r.ReadString(); err != nil {
				return nil, err
			}
			in, err := d.r.ReadLen()
			if err != nil {
				return nil, err
			}
			m.Inputs = make([]RuntimeAPIParam, in)
			for k := range m.Inputs {
				if m.Inputs[k].Name, err = d.r.ReadString(); err != nil {
					return nil, err
				}
				if m.Inputs[k].Type, err = d.typeID(); err != nil {
					return nil, err
				}
			}
			if m.Output, err = d.typeID(); err != nil {
				return nil, err
			}
			if m.Docs, err = d.r.ReadStrings(); err != nil {
				return nil, err
			}
		}
		if api.Docs, err = d.r.ReadStrings(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *decoder) custom() ([]CustomValue, error) {
	n, err := d.r.ReadLen()
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]CustomValue, n)
	for i := range out {
		c := &out[i]
		if c.Key, err = d.r.ReadString(); err != nil {
			return nil, err
		}
		if c.Type, err = d.typeID(); err != nil {
			return nil, err
		}
		if c.Value, err = d.r.ReadByteVec(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
