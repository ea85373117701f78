package golang

// builtinTypes maps primitive type names to Go types.
var builtinTypes = map[string]string{
	"bool": "bool",
	"char": "rune",
	"str":  "string",
	"u8":   "uint8",
	"u16":  "uint16",
	"u32":  "uint32",
	"u64":  "uint64",
	"u128": "*big.Int",
	"u256": "*big.Int",
	"i8":   "int8",
	"i16":  "int16",
	"i32":  "int32",
	"i64":  "int64",
	"i128": "*big.Int",
	"i256": "*big.Int",
}

// Config controls Go emission.
type Config struct {
	// Package overrides the package clause. Defaults to the lowercased
	// tree module.
	Package string

	// TypeMappings maps schema type names to Go type expressions and takes
	// precedence over the builtin mapping.
	TypeMappings map[string]string

	// Imports are added to the generated file for types named in
	// TypeMappings. Standard library imports are resolved automatically.
	Imports []string

	// EmitComments adds doc comments to generated declarations.
	EmitComments bool
}

// WarnOpaqueType is recorded when a schema type name has no Go mapping and
// is declared as raw encoded bytes.
const WarnOpaqueType = "opaque_type"
