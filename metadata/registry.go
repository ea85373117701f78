package metadata

import (
	"strconv"

	callerrors "github.com/broady/callgen/errors"
)

// TypeRegistry is the decoded type table. It is immutable after
// construction and safe for concurrent use.
type TypeRegistry struct {
	types []*Type // declaration order
	dense bool    // types[i].ID == i for every i
	byID  map[TypeID]*Type
}

// NewTypeRegistry builds a registry from types in declaration order.
// Duplicate ids are a schema integrity error.
func NewTypeRegistry(types []*Type) (*TypeRegistry, error) {
	r := &TypeRegistry{
		types: types,
		dense: true,
	}
	for i, t := range types {
		if t.ID != TypeID(i) {
			r.dense = false
			break
		}
	}
	if r.dense {
		return r, nil
	}

	r.byID = make(map[TypeID]*Type, len(types))
	for _, t := range types {
		if _, dup := r.byID[t.ID]; dup {
			return nil, callerrors.New(callerrors.PhaseDecode, callerrors.KindSchemaIntegrity).
				Path("types", strconv.FormatUint(uint64(t.ID), 10)).
				Detail("duplicate type id").
				Value(t.ID).
				Build()
		}
		r.byID[t.ID] = t
	}
	return r, nil
}

// Lookup returns the type for id, if present.
func (r *TypeRegistry) Lookup(id TypeID) (*Type, bool) {
	if r.dense {
		if int64(id) < int64(len(r.types)) {
			return r.types[id], true
		}
		return nil, false
	}
	t, ok := r.byID[id]
	return t, ok
}

// Resolve returns the type descriptor for id. A missing id is a schema
// integrity error.
func (r *TypeRegistry) Resolve(id TypeID) (*Type, error) {
	t, ok := r.Lookup(id)
	if !ok {
		return nil, callerrors.MissingType(callerrors.PhaseResolve, nil, uint32(id))
	}
	return t, nil
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int {
	return len(r.types)
}

// All returns the registered types in declaration order.
func (r *TypeRegistry) All() []*Type {
	out := make([]*Type, len(r.types))
	copy(out, r.types)
	return out
}
