// Package resolve normalizes decoded metadata into an ordered list of
// pallets, calls and fields with resolved type names.
package resolve

import (
	"fmt"
	"sort"
	"strconv"

	callerrors "github.com/broady/callgen/errors"
	"github.com/broady/callgen/ir"
	"github.com/broady/callgen/metadata"
)

// DefaultFallbackType is used for fields whose type has no simple
// identifier.
const DefaultFallbackType = "u8"

// WarnLossyFallback is the warning code recorded for every fallback field.
const WarnLossyFallback = "lossy_fallback"

// Options configures resolution.
type Options struct {
	// FallbackType replaces the type name of fields whose type cannot be
	// named. Defaults to DefaultFallbackType.
	FallbackType string

	// OmitEmptyPallets drops pallets that declare no calls.
	OmitEmptyPallets bool
}

// Schema is the normalized call surface of a runtime.
type Schema struct {
	// Pallets in ascending index order.
	Pallets []Pallet

	Warnings []ir.Warning
}

// Pallet is a module with its calls in declaration order.
type Pallet struct {
	Name  string
	Index uint8
	Calls []Call
}

// Call is a dispatchable operation of a pallet.
type Call struct {
	Name   string
	Index  uint8
	Fields []Field
}

// Field is a named call argument with its resolved type name.
type Field struct {
	Name     string
	Type     string
	TypeID   metadata.TypeID
	Fallback bool
}

// Resolve walks md and returns the normalized schema. Pallets are stably
// sorted by index; calls keep the order the metadata declares them in.
func Resolve(md *metadata.Metadata, opts Options) (*Schema, error) {
	if md == nil || md.Types == nil {
		return nil, callerrors.InvalidInput(callerrors.PhaseResolve, "metadata has no type registry")
	}
	if opts.FallbackType == "" {
		opts.FallbackType = DefaultFallbackType
	}

	r := &resolver{
		types: md.Types,
		opts:  opts,
		names: make(map[metadata.TypeID]typeName),
	}

	pallets := make([]metadata.Pallet, len(md.Pallets))
	copy(pallets, md.Pallets)
	sort.SliceStable(pallets, func(i, j int) bool {
		return pallets[i].Index < pallets[j].Index
	})

	s := &Schema{Pallets: make([]Pallet, 0, len(pallets))}
	for i := range pallets {
		p := &pallets[i]
		if opts.OmitEmptyPallets && len(p.Calls) == 0 {
			continue
		}
		out, err := r.pallet(p)
		if err != nil {
			return nil, err
		}
		s.Pallets = append(s.Pallets, out)
	}
	s.Warnings = r.warnings
	return s, nil
}

type typeName struct {
	name     string
	fallback bool
}

type resolver struct {
	types    *metadata.TypeRegistry
	opts     Options
	names    map[metadata.TypeID]typeName
	warnings []ir.Warning
}

func (r *resolver) pallet(p *metadata.Pallet) (Pallet, error) {
	out := Pallet{Name: p.Name, Index: p.Index}
	if len(p.Calls) > 0 {
		out.Calls = make([]Call, 0, len(p.Calls))
	}
	for _, c := range p.Calls {
		call := Call{Name: c.Name, Index: c.Index}
		for i, f := range c.Fields {
			if f.Name == "" {
				return Pallet{}, callerrors.UnnamedField(callerrors.PhaseResolve,
					[]string{p.Name, c.Name, "#" + strconv.Itoa(i)})
			}
			path := []string{p.Name, c.Name, f.Name}
			tn, err := r.typeName(f.Type, path)
			if err != nil {
				return Pallet{}, err
			}
			if tn.fallback {
				r.warnings = append(r.warnings, ir.Warning{
					Code:    WarnLossyFallback,
					Message: fmt.Sprintf("type %d has no identifier, using %s", f.Type, tn.name),
					Path:    path,
				})
			}
			call.Fields = append(call.Fields, Field{
				Name:     f.Name,
				Type:     tn.name,
				TypeID:   f.Type,
				Fallback: tn.fallback,
			})
		}
		out.Calls = append(out.Calls, call)
	}
	return out, nil
}

// typeName resolves one hop: the type's own identifier or the fallback.
func (r *resolver) typeName(id metadata.TypeID, path []string) (typeName, error) {
	if tn, ok := r.names[id]; ok {
		return tn, nil
	}
	t, ok := r.types.Lookup(id)
	if !ok {
		return typeName{}, callerrors.MissingType(callerrors.PhaseResolve, path, uint32(id))
	}
	tn := typeName{fallback: true, name: r.opts.FallbackType}
	if name, ok := t.Ident(); ok {
		tn = typeName{name: name}
	}
	r.names[id] = tn
	return tn, nil
}
