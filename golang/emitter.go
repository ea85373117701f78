// Package golang renders an ir.Tree as Go source.
//
// Every union becomes a sealed interface with an index method, and every
// variant a struct implementing it. Unions also get a constructor that maps
// a discriminant back to the zero value of its variant.
package golang

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/tools/imports"

	callerrors "github.com/broady/callgen/errors"
	"github.com/broady/callgen/ir"
)

// Emitter renders trees as Go source files.
type Emitter struct {
	config Config
}

// NewEmitter creates an Emitter.
func NewEmitter(cfg Config) *Emitter {
	return &Emitter{config: cfg}
}

// Emit renders tree as a single formatted Go file. The returned warnings
// list schema types declared as opaque byte slices.
func (e *Emitter) Emit(tree *ir.Tree) ([]byte, []ir.Warning, error) {
	st := &emitState{
		config: e.config,
		idents: make(map[string]string),
		enums:  make(map[string]string),
		opaque: make(map[string]string),
	}
	src, err := st.file(tree)
	if err != nil {
		return nil, nil, err
	}
	out, err := imports.Process("callgen.go", src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
	if err != nil {
		return nil, nil, callerrors.Wrap(callerrors.PhaseEmit, callerrors.KindInvalidInput, err, "formatting generated source")
	}
	return out, st.warnings, nil
}

type emitState struct {
	config Config
	buf    bytes.Buffer

	// idents maps each generated Go identifier to the entity it came from.
	idents map[string]string

	// enums maps union names of the tree to their Go interface names.
	enums map[string]string

	// opaque maps schema type names to declared Go types.
	opaque      map[string]string
	opaqueOrder []string

	warnings []ir.Warning
}

func (s *emitState) file(tree *ir.Tree) ([]byte, error) {
	pkg := s.config.Package
	if pkg == "" {
		pkg = packageName(tree.Module)
	}

	s.printf("// Code generated by callgen. DO NOT EDIT.\n\n")
	s.printf("package %s\n\n", pkg)
	if len(s.config.Imports) > 0 {
		s.printf("import (\n")
		for _, imp := range s.config.Imports {
			s.printf("\t%s\n", strconv.Quote(imp))
		}
		s.printf(")\n\n")
	}

	// Union names are claimed first so variant structs cannot take them.
	for _, enum := range tree.Enums {
		if err := s.claim(exportedName(enum.Name), enum.Name); err != nil {
			return nil, err
		}
		s.enums[enum.Name] = exportedName(enum.Name)
	}
	for _, enum := range tree.Enums {
		if err := s.enum(enum); err != nil {
			return nil, err
		}
	}
	s.opaqueTypes()
	return s.buf.Bytes(), nil
}

func (s *emitState) enum(enum *ir.EnumDef) error {
	name := exportedName(enum.Name)
	method := name + "Index"

	if s.config.EmitComments {
		s.printf("// %s is implemented by every variant of the %s union.\n", name, enum.Name)
	}
	s.printf("type %s interface {\n", name)
	s.printf("\t%s() uint8\n", method)
	s.printf("}\n\n")

	structs := make([]string, len(enum.Variants))
	for i, v := range enum.Variants {
		sname := name + exportedName(v.Name)
		if err := s.claim(sname, enum.Name+"."+v.Name); err != nil {
			return err
		}
		structs[i] = sname

		if s.config.EmitComments {
			s.printf("// %s is variant %d of %s.\n", sname, v.Discriminant, name)
		}
		if err := s.variantStruct(sname, enum.Name, v); err != nil {
			return err
		}
		s.printf("func (%s) %s() uint8 { return %d }\n\n", sname, method, v.Discriminant)
	}

	ctor := "New" + name
	if err := s.claim(ctor, enum.Name); err != nil {
		return err
	}
	if s.config.EmitComments {
		s.printf("// %s returns the zero value of the %s variant with the given index.\n", ctor, name)
	}
	s.printf("func %s(index uint8) (%s, bool) {\n", ctor, name)
	s.printf("\tswitch index {\n")
	for i, v := range enum.Variants {
		s.printf("\tcase %d:\n\t\treturn &%s{}, true\n", v.Discriminant, structs[i])
	}
	s.printf("\t}\n\treturn nil, false\n}\n\n")
	return nil
}

func (s *emitState) variantStruct(sname, enum string, v ir.VariantDef) error {
	switch v.Payload.Kind {
	case ir.PayloadEmpty:
		s.printf("type %s struct{}\n\n", sname)
	case ir.PayloadOpaque:
		s.printf("type %s struct {\n\tCall %s\n}\n\n", sname, exportedName(v.Payload.Type))
	case ir.PayloadFields:
		seen := make(map[string]string, len(v.Payload.Fields))
		s.printf("type %s struct {\n", sname)
		for _, f := range v.Payload.Fields {
			fname := exportedName(f.Name)
			if prev, dup := seen[fname]; dup {
				return callerrors.New(callerrors.PhaseEmit, callerrors.KindIdentifierCollision).
					Path(enum, v.Name, f.Name).
					Detail("fields %q and %q both become %s", prev, f.Name, fname).
					Build()
			}
			seen[fname] = f.Name
			typ, err := s.goType(f.Type, []string{enum, v.Name, f.Name})
			if err != nil {
				return err
			}
			s.printf("\t%s %s", fname, typ)
			if f.Fallback {
				s.printf(" // lossy: schema type has no identifier")
			}
			s.printf("\n")
		}
		s.printf("}\n\n")
	default:
		return callerrors.New(callerrors.PhaseEmit, callerrors.KindInvalidInput).
			Path(enum, v.Name).
			Detail("unsupported payload kind %s", v.Payload.Kind).
			Build()
	}
	return nil
}

// goType maps a schema type name to a Go type expression. Names of unions
// in the tree refer to their interface, e.g. a boxed RuntimeCall argument.
// Names without a mapping are declared once as opaque byte slices.
func (s *emitState) goType(name string, path []string) (string, error) {
	if t, ok := s.config.TypeMappings[name]; ok {
		return t, nil
	}
	if t, ok := builtinTypes[name]; ok {
		return t, nil
	}
	if t, ok := s.enums[name]; ok {
		return t, nil
	}
	if t, ok := s.opaque[name]; ok {
		return t, nil
	}
	t := exportedName(name)
	if err := s.claim(t, name); err != nil {
		return "", err
	}
	s.opaque[name] = t
	s.opaqueOrder = append(s.opaqueOrder, name)
	s.warnings = append(s.warnings, ir.Warning{
		Code:    WarnOpaqueType,
		Message: fmt.Sprintf("type %s has no Go mapping, declared as []byte", name),
		Path:    path,
	})
	return t, nil
}

func (s *emitState) opaqueTypes() {
	names := append([]string(nil), s.opaqueOrder...)
	sort.Strings(names)
	for _, name := range names {
		t := s.opaque[name]
		if s.config.EmitComments {
			s.printf("// %s holds the encoded bytes of a %s value.\n", t, name)
		}
		s.printf("type %s []byte\n\n", t)
	}
}

func (s *emitState) claim(ident, owner string) error {
	if prev, dup := s.idents[ident]; dup {
		return callerrors.New(callerrors.PhaseEmit, callerrors.KindIdentifierCollision).
			Path(owner).
			Value(ident).
			Detail("%s and %s both generate Go identifier %s", prev, owner, ident).
			Build()
	}
	s.idents[ident] = owner
	return nil
}

func (s *emitState) printf(format string, args ...any) {
	fmt.Fprintf(&s.buf, format, args...)
}
