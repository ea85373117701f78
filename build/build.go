// Package build turns a resolved schema into an ir.Tree: one root union
// of pallets and one call union per pallet.
package build

import (
	callerrors "github.com/broady/callgen/errors"
	"github.com/broady/callgen/ir"
	"github.com/broady/callgen/resolve"
)

// RootName is the name of the top-level union.
const RootName = "RuntimeCall"

// CallEnumName returns the name of the call union generated for a pallet.
func CallEnumName(pallet string) string {
	return pallet + "Call"
}

// Build produces the tree for s in module. It fails on the first problem
// tree validation reports; no partial tree is returned.
func Build(s *resolve.Schema, module string) (*ir.Tree, error) {
	if s == nil {
		return nil, callerrors.InvalidInput(callerrors.PhaseBuild, "nil schema")
	}

	tree := &ir.Tree{Module: module, Root: RootName}
	root := &ir.EnumDef{Name: RootName}
	tree.AddEnum(root)

	for _, p := range s.Pallets {
		enum := &ir.EnumDef{Name: CallEnumName(p.Name)}
		for _, c := range p.Calls {
			fields := make([]ir.FieldDef, 0, len(c.Fields))
			for _, f := range c.Fields {
				fields = append(fields, ir.FieldDef{Name: f.Name, Type: f.Type, Fallback: f.Fallback})
			}
			enum.AddVariant(ir.VariantDef{
				Name:         c.Name,
				Discriminant: int(c.Index),
				Payload:      ir.Fields(fields...),
			})
		}
		root.AddVariant(ir.VariantDef{
			Name:         p.Name,
			Discriminant: int(p.Index),
			Payload:      ir.Opaque(enum.Name),
		})
		tree.AddEnum(enum)
	}

	if errs := tree.Validate(); len(errs) > 0 {
		return nil, errs[0]
	}
	return tree, nil
}
