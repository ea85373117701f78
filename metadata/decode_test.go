package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	callerrors "github.com/broady/callgen/errors"
	"github.com/broady/callgen/internal/testfixtures"
	"github.com/broady/callgen/metadata"
)

func sampleSchema() *testfixtures.Schema {
	s := testfixtures.NewSchema()
	u32 := s.Primitive(metadata.PrimU32)
	u128 := s.Primitive(metadata.PrimU128)
	account := s.Named([]string{"sp_core", "crypto", "AccountId32"}, testfixtures.Pos(s.Array(32, s.Primitive(metadata.PrimU8))))
	s.Pallet("System", 0).Call("remark", 1, testfixtures.F("remark", s.Sequence(s.Primitive(metadata.PrimU8))))
	s.Pallet("Balances", 5).
		Call("transfer", 0, testfixtures.F("dest", account), testfixtures.F("value", s.Compact(u128))).
		Call("set_lock", 3, testfixtures.F("id", u32))
	s.Pallet("Timestamp", 2)
	return s
}

func TestDecode_V14(t *testing.T) {
	md, err := metadata.Decode(sampleSchema().Bytes())
	require.NoError(t, err)

	assert.Equal(t, metadata.V14, md.Version)
	require.Len(t, md.Pallets, 3)

	// Pallets keep the blob's order; sorting is the resolver's job.
	assert.Equal(t, "System", md.Pallets[0].Name)
	assert.Equal(t, "Balances", md.Pallets[1].Name)
	assert.Equal(t, uint8(5), md.Pallets[1].Index)

	balances, ok := md.Pallet("Balances")
	require.True(t, ok)
	require.True(t, balances.HasCalls())
	require.Len(t, balances.Calls, 2)
	assert.Equal(t, "transfer", balances.Calls[0].Name)
	assert.Equal(t, uint8(3), balances.Calls[1].Index)

	transfer, ok := balances.Call("transfer")
	require.True(t, ok)
	require.Len(t, transfer.Fields, 2)
	assert.Equal(t, "dest", transfer.Fields[0].Name)

	dest, err := md.Types.Resolve(transfer.Fields[0].Type)
	require.NoError(t, err)
	name, ok := dest.Ident()
	assert.True(t, ok)
	assert.Equal(t, "AccountId32", name)

	value, err := md.Types.Resolve(transfer.Fields[1].Type)
	require.NoError(t, err)
	_, ok = value.Ident()
	assert.False(t, ok, "compact has no simple identifier")

	timestamp, ok := md.Pallet("Timestamp")
	require.True(t, ok)
	assert.False(t, timestamp.HasCalls())
	assert.Empty(t, timestamp.Calls)

	_, ok = md.Pallet("Missing")
	assert.False(t, ok)
}

func TestDecode_V15(t *testing.T) {
	md, err := metadata.Decode(sampleSchema().Version(metadata.V15).Bytes())
	require.NoError(t, err)
	assert.Equal(t, metadata.V15, md.Version)
	require.NotNil(t, md.OuterEnums)
	require.Len(t, md.Pallets, 3)
}

func TestDecode_FullRoundTrip(t *testing.T) {
	for _, version := range []uint8{metadata.V14, metadata.V15} {
		s := sampleSchema().Version(version)
		md := s.Metadata()

		u32 := metadata.TypeID(0)
		md.Pallets[0].Storage = &metadata.Storage{
			Prefix: "System",
			Entries: []metadata.StorageEntry{
				{Name: "Number", Modifier: metadata.ModifierDefault, Value: u32, Default: []byte{0, 0, 0, 0}},
				{
					Name:    "BlockHash",
					Map:     true,
					Hashers: []metadata.StorageHasher{metadata.HasherTwox64Concat},
					Key:     u32,
					Value:   u32,
					Docs:    []string{"Map of block numbers to block hashes."},
				},
			},
		}
		md.Pallets[0].Constants = []metadata.Constant{{Name: "SS58Prefix", Type: u32, Value: []byte{42, 0, 0, 0}}}
		md.Pallets[0].EventType = &u32
		md.Pallets[0].ErrorType = &u32
		md.Extrinsic = metadata.Extrinsic{
			Version: 4,
			SignedExtensions: []metadata.SignedExtension{
				{Identifier: "CheckNonce", Type: u32, AdditionalSigned: u32},
			},
		}
		if version == metadata.V15 {
			md.Pallets[0].Docs = []string{"System pallet."}
			md.APIs = []metadata.RuntimeAPI{{
				Name: "Core",
				Methods: []metadata.RuntimeAPIMethod{{
					Name:   "version",
					Inputs: []metadata.RuntimeAPIParam{{Name: "at", Type: u32}},
					Output: u32,
				}},
			}}
			md.OuterEnums = &metadata.OuterEnums{CallType: u32, EventType: u32, ErrorType: u32}
			md.Custom = []metadata.CustomValue{{Key: "chain", Type: u32, Value: []byte{1}}}
		}

		blob, err := metadata.Encode(md)
		require.NoError(t, err)

		got, err := metadata.Decode(blob)
		require.NoError(t, err, "version %d", version)

		system := got.Pallets[0]
		require.NotNil(t, system.Storage)
		assert.Equal(t, md.Pallets[0].Storage, system.Storage)
		assert.Equal(t, md.Pallets[0].Constants, system.Constants)
		assert.Equal(t, md.Pallets[0].Docs, system.Docs)
		assert.Equal(t, md.Extrinsic, got.Extrinsic)
		assert.Equal(t, md.APIs, got.APIs)
		assert.Equal(t, md.Custom, got.Custom)

		again, err := metadata.Encode(got)
		require.NoError(t, err)
		assert.Equal(t, blob, again, "re-encoding decoded metadata is stable")
	}
}

func TestDecode_Malformed(t *testing.T) {
	valid := sampleSchema().Bytes()

	tests := []struct {
		name string
		blob []byte
		kind callerrors.Kind
	}{
		{"empty", nil, callerrors.KindDecode},
		{"bad magic", append([]byte("atem"), valid[4:]...), callerrors.KindDecode},
		{"version 13", withVersion(valid, 13), callerrors.KindUnsupportedVersion},
		{"version 16", withVersion(valid, 16), callerrors.KindUnsupportedVersion},
		{"trailing bytes", append(append([]byte(nil), valid...), 0), callerrors.KindDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := metadata.Decode(tt.blob)
			require.Error(t, err)
			assert.Nil(t, md)
			assert.True(t, callerrors.IsKind(err, tt.kind), "got %v", err)

			var ce *callerrors.Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, callerrors.PhaseDecode, ce.Phase)
		})
	}
}

func TestDecode_EveryTruncationFails(t *testing.T) {
	valid := sampleSchema().Version(metadata.V15).Bytes()
	for n := 0; n < len(valid); n++ {
		md, err := metadata.Decode(valid[:n])
		require.Error(t, err, "prefix of %d bytes", n)
		assert.Nil(t, md)
		assert.ErrorIs(t, err, callerrors.ErrDecode, "prefix of %d bytes: %v", n, err)
	}
}

func TestDecode_IntegrityErrors(t *testing.T) {
	t.Run("field references missing type", func(t *testing.T) {
		s := testfixtures.NewSchema()
		s.Pallet("A", 0).Call("foo", 0, testfixtures.F("x", 99))

		_, err := metadata.Decode(s.Bytes())
		require.Error(t, err)
		assert.ErrorIs(t, err, callerrors.ErrSchemaIntegrity)
		assert.Contains(t, err.Error(), "type 99 not found")
	})

	t.Run("call type is not a variant", func(t *testing.T) {
		s := testfixtures.NewSchema()
		u8 := s.Primitive(metadata.PrimU8)
		md := s.Metadata()
		md.Pallets = []metadata.Pallet{{Name: "A", CallType: &u8}}
		blob, err := metadata.Encode(md)
		require.NoError(t, err)

		_, err = metadata.Decode(blob)
		require.Error(t, err)
		assert.ErrorIs(t, err, callerrors.ErrSchemaIntegrity)
		assert.Contains(t, err.Error(), "not a variant")
	})

	t.Run("missing event type", func(t *testing.T) {
		s := testfixtures.NewSchema()
		s.Pallet("A", 0)
		md := s.Metadata()
		missing := metadata.TypeID(7)
		md.Pallets[0].EventType = &missing
		blob, err := metadata.Encode(md)
		require.NoError(t, err)

		_, err = metadata.Decode(blob)
		assert.ErrorIs(t, err, callerrors.ErrSchemaIntegrity)
	})
}

func withVersion(blob []byte, v byte) []byte {
	out := append([]byte(nil), blob...)
	out[4] = v
	return out
}
