// Package callgen generates typed call definitions from runtime metadata.
//
// A metadata blob is decoded, its pallets and calls are resolved into named
// fields, and the result is built into an ir.Tree: a root RuntimeCall union
// with one variant per pallet and one call union per pallet. Every variant
// carries the explicit index the runtime encodes it with.
//
// The core is a pure function:
//
//	tree, err := callgen.Generate(blob, "runtime")
//
// The fluent Generator adds emission and output:
//
//	callgen.FromFile("metadata.scale").
//	    Module("runtime").
//	    TypeMapping("AccountId32", "[32]byte").
//	    ToDir("./gen/runtime")
package callgen
