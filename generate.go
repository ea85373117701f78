package callgen

import (
	"time"

	"go.uber.org/zap"

	"github.com/broady/callgen/build"
	"github.com/broady/callgen/ir"
	"github.com/broady/callgen/metadata"
	"github.com/broady/callgen/resolve"
)

// Option configures Generate.
type Option func(*resolve.Options)

// WithFallbackType sets the type name used for fields whose type has no
// simple identifier.
func WithFallbackType(name string) Option {
	return func(o *resolve.Options) {
		o.FallbackType = name
	}
}

// WithOmitEmptyPallets drops pallets that declare no calls.
func WithOmitEmptyPallets() Option {
	return func(o *resolve.Options) {
		o.OmitEmptyPallets = true
	}
}

// Generate decodes schemaBytes and builds the call tree for module.
// Either a complete tree or an error is returned, never both.
func Generate(schemaBytes []byte, module string, opts ...Option) (*ir.Tree, error) {
	var o resolve.Options
	for _, opt := range opts {
		opt(&o)
	}
	p, err := run(schemaBytes, module, o)
	if err != nil {
		return nil, err
	}
	return p.tree, nil
}

// pass holds the products of one pipeline run.
type pass struct {
	md       *metadata.Metadata
	tree     *ir.Tree
	warnings []ir.Warning
}

func run(schemaBytes []byte, module string, o resolve.Options) (*pass, error) {
	log := Logger()

	start := time.Now()
	md, err := metadata.Decode(schemaBytes)
	if err != nil {
		return nil, err
	}
	log.Debug("decoded metadata",
		zap.Uint8("version", md.Version),
		zap.Int("types", md.Types.Len()),
		zap.Int("pallets", len(md.Pallets)),
		zap.Duration("elapsed", time.Since(start)))

	start = time.Now()
	schema, err := resolve.Resolve(md, o)
	if err != nil {
		return nil, err
	}
	for _, w := range schema.Warnings {
		log.Warn(w.Message, zap.String("code", w.Code), zap.Strings("path", w.Path))
	}
	log.Debug("resolved schema",
		zap.Int("pallets", len(schema.Pallets)),
		zap.Int("warnings", len(schema.Warnings)),
		zap.Duration("elapsed", time.Since(start)))

	start = time.Now()
	tree, err := build.Build(schema, module)
	if err != nil {
		return nil, err
	}
	log.Debug("built call tree",
		zap.String("module", module),
		zap.Int("enums", len(tree.Enums)),
		zap.Duration("elapsed", time.Since(start)))

	return &pass{md: md, tree: tree, warnings: schema.Warnings}, nil
}
