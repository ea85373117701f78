package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	callerrors "github.com/broady/callgen/errors"
)

func TestTypeRegistry_Dense(t *testing.T) {
	reg, err := NewTypeRegistry([]*Type{
		{ID: 0, Def: &PrimitiveType{Prim: PrimU8}},
		{ID: 1, Def: &PrimitiveType{Prim: PrimU32}},
	})
	require.NoError(t, err)
	assert.True(t, reg.dense)
	assert.Equal(t, 2, reg.Len())

	ty, err := reg.Resolve(1)
	require.NoError(t, err)
	name, ok := ty.Ident()
	assert.True(t, ok)
	assert.Equal(t, "u32", name)

	_, err = reg.Resolve(2)
	assert.ErrorIs(t, err, callerrors.ErrSchemaIntegrity)
}

func TestTypeRegistry_Sparse(t *testing.T) {
	reg, err := NewTypeRegistry([]*Type{
		{ID: 10, Def: &PrimitiveType{Prim: PrimBool}},
		{ID: 3, Path: []string{"frame", "Weight"}, Def: &CompositeType{}},
	})
	require.NoError(t, err)
	assert.False(t, reg.dense)

	ty, ok := reg.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, TypeID(3), ty.ID)

	_, ok = reg.Lookup(0)
	assert.False(t, ok)

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, TypeID(10), all[0].ID, "declaration order is kept")
}

func TestTypeRegistry_DuplicateID(t *testing.T) {
	_, err := NewTypeRegistry([]*Type{
		{ID: 1, Def: &PrimitiveType{Prim: PrimU8}},
		{ID: 1, Def: &PrimitiveType{Prim: PrimU16}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, callerrors.ErrSchemaIntegrity)
	assert.Contains(t, err.Error(), "duplicate type id")
}

func TestType_Ident(t *testing.T) {
	tests := []struct {
		name   string
		typ    Type
		want   string
		wantOK bool
	}{
		{"primitive", Type{Def: &PrimitiveType{Prim: PrimI128}}, "i128", true},
		{"named composite", Type{Path: []string{"sp_runtime", "MultiAddress"}, Def: &VariantType{}}, "MultiAddress", true},
		{"tuple", Type{Def: &TupleType{Elems: []TypeID{1, 2}}}, "", false},
		{"unit", Type{Def: &TupleType{}}, "", false},
		{"sequence", Type{Def: &SequenceType{Elem: 1}}, "", false},
		{"array", Type{Def: &ArrayType{Len: 32, Elem: 1}}, "", false},
		{"compact", Type{Def: &CompactType{Elem: 1}}, "", false},
		{"bit sequence", Type{Def: &BitSequenceType{}}, "", false},
		{"anonymous composite", Type{Def: &CompositeType{}}, "", false},
		{"empty last segment", Type{Path: []string{"a", ""}, Def: &CompositeType{}}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.typ.Ident()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrimitive_String(t *testing.T) {
	assert.Equal(t, "bool", PrimBool.String())
	assert.Equal(t, "str", PrimStr.String())
	assert.Equal(t, "u256", PrimU256.String())
	assert.Equal(t, "Primitive(99)", Primitive(99).String())
	assert.False(t, Primitive(15).Valid())
	assert.True(t, PrimI256.Valid())
}
