package metadata

import (
	"strconv"

	callerrors "github.com/broady/callgen/errors"
)

// link checks referential integrity of a freshly decoded Metadata and
// materializes each pallet's calls from its call type.
func link(md *Metadata) error {
	reg := md.Types

	for _, t := range reg.types {
		for _, ref := range refs(t) {
			if _, ok := reg.Lookup(ref); !ok {
				return callerrors.MissingType(callerrors.PhaseDecode,
					[]string{"types", strconv.FormatUint(uint64(t.ID), 10)}, uint32(ref))
			}
		}
	}

	for i := range md.Pallets {
		p := &md.Pallets[i]
		for _, ref := range []struct {
			what string
			id   *TypeID
		}{
			{"event", p.EventType},
			{"error", p.ErrorType},
		} {
			if ref.id == nil {
				continue
			}
			if _, ok := reg.Lookup(*ref.id); !ok {
				return callerrors.MissingType(callerrors.PhaseDecode, []string{p.Name, ref.what}, uint32(*ref.id))
			}
		}

		if p.CallType == nil {
			continue
		}
		t, ok := reg.Lookup(*p.CallType)
		if !ok {
			return callerrors.MissingType(callerrors.PhaseDecode, []string{p.Name, "calls"}, uint32(*p.CallType))
		}
		vt, ok := t.Def.(*VariantType)
		if !ok {
			return callerrors.New(callerrors.PhaseDecode, callerrors.KindSchemaIntegrity).
				Path(p.Name, "calls").
				Detail("call type %d is a %s, not a variant", t.ID, t.Def.Kind()).
				Value(uint32(t.ID)).
				Build()
		}
		p.Calls = append([]CallVariant(nil), vt.Variants...)
	}
	return nil
}

// refs returns every type id a registry entry refers to directly.
func refs(t *Type) []TypeID {
	var out []TypeID
	for _, p := range t.Params {
		if p.Type != nil {
			out = append(out, *p.Type)
		}
	}
	switch d := t.Def.(type) {
	case *CompositeType:
		for _, f := range d.Fields {
			out = append(out, f.Type)
		}
	case *VariantType:
		for _, v := range d.Variants {
			for _, f := range v.Fields {
				out = append(out, f.Type)
			}
		}
	case *SequenceType:
		out = append(out, d.Elem)
	case *ArrayType:
		out = append(out, d.Elem)
	case *TupleType:
		out = append(out, d.Elems...)
	case *CompactType:
		out = append(out, d.Elem)
	case *BitSequenceType:
		out = append(out, d.Store, d.Order)
	}
	return out
}
