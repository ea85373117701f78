package ir

import (
	"strconv"

	callerrors "github.com/broady/callgen/errors"
)

// Validate checks the tree for structural issues and returns every problem
// found. Discriminant problems are reported before naming problems, so two
// pallets sharing both an index and a name surface as a duplicate
// discriminant. Checked:
//   - sibling variants have distinct discriminants in 0-255
//   - Module, enum, variant and field names are identifiers
//   - enum names are unique and sibling variant names are distinct
//   - field names are unique within a variant
//   - opaque payloads name an enum of the tree
func (t *Tree) Validate() []error {
	var errs []error
	phase := callerrors.PhaseBuild

	for _, e := range t.Enums {
		byDisc := make(map[int]string, len(e.Variants))
		for _, v := range e.Variants {
			if v.Discriminant < 0 || v.Discriminant > MaxDiscriminant {
				errs = append(errs, callerrors.InvalidDiscriminant(phase, []string{e.Name, v.Name}, v.Discriminant))
			} else if prev, dup := byDisc[v.Discriminant]; dup {
				errs = append(errs, callerrors.DuplicateDiscriminant(phase, []string{e.Name}, v.Discriminant, prev, v.Name))
			} else {
				byDisc[v.Discriminant] = v.Name
			}
		}
	}

	if !IsIdentifier(t.Module) {
		errs = append(errs, callerrors.InvalidInput(phase, "module name "+strconv.Quote(t.Module)+" is not an identifier"))
	}

	enums := make(map[string]bool, len(t.Enums))
	for _, e := range t.Enums {
		if !IsIdentifier(e.Name) {
			errs = append(errs, invalidName(phase, []string{e.Name}, "enum", e.Name))
		}
		if enums[e.Name] {
			errs = append(errs, callerrors.IdentifierCollision(phase, []string{e.Name}, e.Name))
		}
		enums[e.Name] = true
	}

	for _, e := range t.Enums {
		names := make(map[string]bool, len(e.Variants))
		for _, v := range e.Variants {
			path := []string{e.Name, v.Name}
			if !IsIdentifier(v.Name) {
				errs = append(errs, invalidName(phase, path, "variant", v.Name))
			}
			if names[v.Name] {
				errs = append(errs, callerrors.IdentifierCollision(phase, path, v.Name))
			}
			names[v.Name] = true

			errs = append(errs, validatePayload(v.Payload, enums, path)...)
		}
	}
	return errs
}

func validatePayload(p Payload, enums map[string]bool, path []string) []error {
	var errs []error
	phase := callerrors.PhaseBuild

	switch p.Kind {
	case PayloadOpaque:
		if !enums[p.Type] {
			errs = append(errs, callerrors.New(phase, callerrors.KindSchemaIntegrity).
				Path(path...).
				Detail("payload references unknown enum %q", p.Type).
				Build())
		}
	case PayloadFields:
		fields := make(map[string]bool, len(p.Fields))
		for _, f := range p.Fields {
			fpath := append(append([]string(nil), path...), f.Name)
			if !IsIdentifier(f.Name) {
				errs = append(errs, invalidName(phase, fpath, "field", f.Name))
			}
			if fields[f.Name] {
				errs = append(errs, callerrors.IdentifierCollision(phase, fpath, f.Name))
			}
			fields[f.Name] = true
			if f.Type == "" {
				errs = append(errs, callerrors.New(phase, callerrors.KindSchemaIntegrity).
					Path(fpath...).
					Detail("field has no type").
					Build())
			}
		}
	}
	return errs
}

func invalidName(phase callerrors.Phase, path []string, what, name string) error {
	return callerrors.New(phase, callerrors.KindInvalidInput).
		Path(path...).
		Detail("%s name %q is not an identifier", what, name).
		Build()
}

// IsIdentifier reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
