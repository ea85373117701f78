// Package metadata decodes SCALE-encoded runtime metadata (versions 14 and
// 15) into an immutable Metadata value and exposes its type registry.
package metadata

// Magic is the little-endian "meta" prefix of every metadata blob.
const Magic uint32 = 0x6174656d

// Supported metadata versions.
const (
	V14 uint8 = 14
	V15 uint8 = 15
)

// Metadata is the decoded schema. It is immutable once decoded and lives
// for one generation pass.
type Metadata struct {
	Version     uint8
	Types       *TypeRegistry
	Pallets     []Pallet
	Extrinsic   Extrinsic
	RuntimeType TypeID

	// V15 only.
	APIs       []RuntimeAPI
	OuterEnums *OuterEnums
	Custom     []CustomValue
}

// Pallet returns the pallet with the given name.
func (m *Metadata) Pallet(name string) (*Pallet, bool) {
	for i := range m.Pallets {
		if m.Pallets[i].Name == name {
			return &m.Pallets[i], true
		}
	}
	return nil, false
}

// Pallet is a named, indexed group of calls.
type Pallet struct {
	Name      string
	Index     uint8
	Storage   *Storage
	CallType  *TypeID
	EventType *TypeID
	Constants []Constant
	ErrorType *TypeID
	Docs      []string

	// Calls are the variants of CallType in schema order.
	Calls []CallVariant
}

// HasCalls reports whether the pallet declares a call type.
func (p *Pallet) HasCalls() bool {
	return p.CallType != nil
}

// Call returns the call with the given name.
func (p *Pallet) Call(name string) (*CallVariant, bool) {
	for i := range p.Calls {
		if p.Calls[i].Name == name {
			return &p.Calls[i], true
		}
	}
	return nil, false
}

// Storage describes a pallet's storage items.
type Storage struct {
	Prefix  string
	Entries []StorageEntry
}

// StorageModifier tells whether a storage value is optional.
type StorageModifier uint8

const (
	ModifierOptional StorageModifier = iota
	ModifierDefault
)

// StorageHasher is the hashing algorithm applied to a map key.
type StorageHasher uint8

const (
	HasherBlake2_128 StorageHasher = iota
	HasherBlake2_256
	HasherBlake2_128Concat
	HasherTwox128
	HasherTwox256
	HasherTwox64Concat
	HasherIdentity
)

// StorageEntry is a single storage item.
type StorageEntry struct {
	Name     string
	Modifier StorageModifier
	// Map is false for plain values; Key and Hashers are unused then.
	Map     bool
	Hashers []StorageHasher
	Key     TypeID
	Value   TypeID
	Default []byte
	Docs    []string
}

// Constant is a pallet constant and its encoded value.
type Constant struct {
	Name  string
	Type  TypeID
	Value []byte
	Docs  []string
}

// Extrinsic describes the transaction format. V14 sets Type; V15 sets the
// address, call, signature and extra types instead.
type Extrinsic struct {
	Version          uint8
	Type             TypeID
	AddressType      TypeID
	CallType         TypeID
	SignatureType    TypeID
	ExtraType        TypeID
	SignedExtensions []SignedExtension
}

// SignedExtension is an extra piece of data attached to signed extrinsics.
type SignedExtension struct {
	Identifier       string
	Type             TypeID
	AdditionalSigned TypeID
}

// RuntimeAPI is a runtime API trait and its methods.
type RuntimeAPI struct {
	Name    string
	Methods []RuntimeAPIMethod
	Docs    []string
}

// RuntimeAPIMethod is a single runtime API method.
type RuntimeAPIMethod struct {
	Name   string
	Inputs []RuntimeAPIParam
	Output TypeID
	Docs   []string
}

// RuntimeAPIParam is a named runtime API argument.
type RuntimeAPIParam struct {
	Name string
	Type TypeID
}

// OuterEnums names the aggregate call, event and error types.
type OuterEnums struct {
	CallType  TypeID
	EventType TypeID
	ErrorType TypeID
}

// CustomValue is an entry of the V15 custom metadata map.
type CustomValue struct {
	Key   string
	Type  TypeID
	Value []byte
}
