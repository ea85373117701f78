package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates which generation stage produced the error.
type Phase string

const (
	PhaseDecode  Phase = "decode"  // schema bytes to Metadata
	PhaseResolve Phase = "resolve" // Metadata to normalized schema
	PhaseBuild   Phase = "build"   // normalized schema to ir.Tree
	PhaseEmit    Phase = "emit"    // ir.Tree to source text
	PhaseConfig  Phase = "config"  // configuration loading
)

// Kind categorizes the error.
type Kind string

const (
	KindDecode                Kind = "decode"
	KindUnsupportedVersion    Kind = "unsupported_version"
	KindSchemaIntegrity       Kind = "schema_integrity"
	KindDuplicateDiscriminant Kind = "duplicate_discriminant"
	KindInvalidDiscriminant   Kind = "invalid_discriminant"
	KindIdentifierCollision   Kind = "identifier_collision"
	KindInvalidInput          Kind = "invalid_input"
)

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrDecode                = &Error{Kind: KindDecode}
	ErrUnsupportedVersion    = &Error{Kind: KindUnsupportedVersion}
	ErrSchemaIntegrity       = &Error{Kind: KindSchemaIntegrity}
	ErrDuplicateDiscriminant = &Error{Kind: KindDuplicateDiscriminant}
	ErrInvalidDiscriminant   = &Error{Kind: KindInvalidDiscriminant}
	ErrIdentifierCollision   = &Error{Kind: KindIdentifierCollision}
	ErrInvalidInput          = &Error{Kind: KindInvalidInput}
)

// Error is the structured error returned by every generation stage.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	// Offset is the byte position in the schema blob, or -1 when unknown.
	Offset int
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if e.Offset >= 0 && e.Phase == PhaseDecode {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target with an empty
// Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return t.Kind == e.Kind
}

// IsKind reports whether any error in err's chain is an *Error of kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the entity path.
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte offset into the schema blob.
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value.
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail.
func (b *Builder) Detail(format string, args ...any) *Builder {
	if len(args) == 0 {
		b.err.Detail = format
	} else {
		b.err.Detail = fmt.Sprintf(format, args...)
	}
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	err := b.err
	return &err
}

// Decode creates a malformed-input error at the given blob offset.
func Decode(offset int, section string, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindDecode,
		Offset: offset,
		Detail: "reading " + section,
		Cause:  cause,
	}
}

// UnsupportedVersion creates an error for an unknown metadata version.
func UnsupportedVersion(version uint8) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnsupportedVersion,
		Offset: 4,
		Detail: fmt.Sprintf("metadata version %d is not supported", version),
		Value:  version,
	}
}

// MissingType creates an integrity error for a type id absent from the registry.
func MissingType(phase Phase, path []string, id uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSchemaIntegrity,
		Offset: -1,
		Path:   path,
		Detail: fmt.Sprintf("type %d not found in registry", id),
		Value:  id,
	}
}

// UnnamedField creates an integrity error for a call argument without a name.
func UnnamedField(phase Phase, path []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSchemaIntegrity,
		Offset: -1,
		Path:   path,
		Detail: "field has no name",
	}
}

// DuplicateDiscriminant creates an error for two sibling variants sharing a tag.
func DuplicateDiscriminant(phase Phase, path []string, disc int, first, second string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateDiscriminant,
		Offset: -1,
		Path:   path,
		Detail: fmt.Sprintf("discriminant %d used by both %q and %q", disc, first, second),
		Value:  disc,
	}
}

// InvalidDiscriminant creates an error for a discriminant outside the
// one-byte index range.
func InvalidDiscriminant(phase Phase, path []string, disc int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidDiscriminant,
		Offset: -1,
		Path:   path,
		Detail: fmt.Sprintf("discriminant %d out of range (0-255)", disc),
		Value:  disc,
	}
}

// IdentifierCollision creates an error for two generated entities sharing a name.
func IdentifierCollision(phase Phase, path []string, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIdentifierCollision,
		Offset: -1,
		Path:   path,
		Detail: fmt.Sprintf("identifier %q is generated more than once", name),
		Value:  name,
	}
}

// InvalidInput creates an error for a caller-supplied value that cannot be used.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Offset: -1,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}
