package callgen

import (
	"context"
	"encoding/json"
	"os"

	"go.uber.org/zap"

	callerrors "github.com/broady/callgen/errors"
	"github.com/broady/callgen/golang"
	"github.com/broady/callgen/ir"
	"github.com/broady/callgen/metadata"
	"github.com/broady/callgen/resolve"
	"github.com/broady/callgen/sink"
)

// Generator provides a fluent API for code generation.
// Create with FromFile, FromBytes or FromConfig and configure with method
// chaining.
//
// Example:
//
//	callgen.FromFile("metadata.scale").
//	    Module("runtime").
//	    OmitEmptyPallets().
//	    ToDir("./gen/runtime")
type Generator struct {
	schema []byte
	cfg    Config
}

// GenerateResult contains generation output.
type GenerateResult struct {
	// Tree is the generated call tree.
	Tree *ir.Tree

	// Metadata is the decoded schema the tree was built from.
	Metadata *metadata.Metadata

	// Files lists all files that were written.
	Files []OutputFile

	// Warnings contains non-fatal issues encountered.
	Warnings []ir.Warning
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the relative path of the generated file.
	Path string

	// Content is the file content.
	Content []byte
}

// FromFile creates a Generator that reads the metadata blob at path.
func FromFile(path string) *Generator {
	return &Generator{cfg: Config{Schema: path}}
}

// FromBytes creates a Generator for an in-memory metadata blob.
func FromBytes(b []byte) *Generator {
	return &Generator{schema: b}
}

// FromConfig creates a Generator from a loaded configuration.
func FromConfig(cfg *Config) *Generator {
	g := &Generator{cfg: *cfg}
	g.cfg.TypeMappings = append([]TypeMapping(nil), cfg.TypeMappings...)
	g.cfg.Imports = append([]string(nil), cfg.Imports...)
	return g
}

// Module sets the target namespace.
func (g *Generator) Module(name string) *Generator {
	g.cfg.Module = name
	return g
}

// Package overrides the Go package clause.
func (g *Generator) Package(name string) *Generator {
	g.cfg.Package = name
	return g
}

// FallbackType sets the type name used for fields whose type has no
// identifier.
func (g *Generator) FallbackType(name string) *Generator {
	g.cfg.FallbackType = name
	return g
}

// TypeMapping maps a schema type name to a Go type expression.
func (g *Generator) TypeMapping(from, to string) *Generator {
	g.cfg.TypeMappings = append(g.cfg.TypeMappings, TypeMapping{From: from, To: to})
	return g
}

// Import adds an import path to generated Go code.
func (g *Generator) Import(path string) *Generator {
	g.cfg.Imports = append(g.cfg.Imports, path)
	return g
}

// OmitEmptyPallets drops pallets that declare no calls.
func (g *Generator) OmitEmptyPallets() *Generator {
	g.cfg.OmitEmptyPallets = true
	return g
}

// EmitComments controls doc comments in generated Go code.
func (g *Generator) EmitComments(on bool) *Generator {
	g.cfg.EmitComments = on
	return g
}

// Format selects the output format: FormatGo or FormatJSON.
func (g *Generator) Format(format string) *Generator {
	g.cfg.Format = format
	return g
}

// FileName sets the generated file name.
func (g *Generator) FileName(name string) *Generator {
	g.cfg.FileName = name
	return g
}

// ToDir generates files to the specified directory.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(dir string) (*GenerateResult, error) {
	g.cfg.OutDir = dir
	fs := sink.NewFilesystemSink(dir)
	fs.Logger = Logger()
	return g.ToSink(context.Background(), fs)
}

// Generate returns generated files in memory without writing to disk.
// Use ToDir() to write files to disk instead.
func (g *Generator) Generate() (*GenerateResult, error) {
	return g.ToSink(context.Background(), sink.NewMemorySink())
}

// ToSink generates files into out.
func (g *Generator) ToSink(ctx context.Context, out sink.OutputSink) (*GenerateResult, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	cfg := applyConfigDefaults(&g.cfg)

	blob := g.schema
	if blob == nil {
		if cfg.Schema == "" {
			return nil, callerrors.InvalidInput(callerrors.PhaseConfig, "no schema given")
		}
		b, err := os.ReadFile(cfg.Schema)
		if err != nil {
			return nil, callerrors.Wrap(callerrors.PhaseDecode, callerrors.KindInvalidInput, err, "reading schema")
		}
		blob = b
	}

	p, err := run(blob, cfg.Module, resolve.Options{
		FallbackType:     cfg.FallbackType,
		OmitEmptyPallets: cfg.OmitEmptyPallets,
	})
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Tree:     p.tree,
		Metadata: p.md,
		Warnings: p.warnings,
	}

	content, warnings, err := emit(cfg, p.tree)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		Logger().Warn(w.Message, zap.String("code", w.Code), zap.Strings("path", w.Path))
	}
	result.Warnings = append(result.Warnings, warnings...)

	if err := out.WriteFile(ctx, cfg.FileName, content); err != nil {
		return nil, callerrors.Wrap(callerrors.PhaseEmit, callerrors.KindInvalidInput, err, "writing "+cfg.FileName)
	}
	result.Files = append(result.Files, OutputFile{Path: cfg.FileName, Content: content})

	Logger().Info("generated calls",
		zap.String("module", cfg.Module),
		zap.String("file", cfg.FileName),
		zap.Int("pallets", len(p.tree.RootEnum().Variants)),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

func emit(cfg *Config, tree *ir.Tree) ([]byte, []ir.Warning, error) {
	switch cfg.Format {
	case FormatJSON:
		b, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return nil, nil, callerrors.Wrap(callerrors.PhaseEmit, callerrors.KindInvalidInput, err, "encoding tree")
		}
		return append(b, '\n'), nil, nil
	default:
		return golang.NewEmitter(golang.Config{
			Package:      cfg.Package,
			TypeMappings: cfg.typeMap(),
			Imports:      cfg.Imports,
			EmitComments: cfg.EmitComments,
		}).Emit(tree)
	}
}
