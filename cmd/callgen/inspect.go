package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/broady/callgen/metadata"
	"github.com/broady/callgen/resolve"
)

type InspectCmd struct {
	Schema   string `arg:"" help:"Metadata blob to read." type:"existingfile"`
	Pallet   string `help:"Only show this pallet." short:"p"`
	Fallback string `help:"Type name for fields without an identifier." default:"u8"`

	stdout io.Writer `kong:"-"`
}

func (c *InspectCmd) Run(log *zap.Logger) error {
	b, err := os.ReadFile(c.Schema)
	if err != nil {
		return err
	}
	md, err := metadata.Decode(b)
	if err != nil {
		return err
	}
	log.Debug("decoded metadata", zap.Uint8("version", md.Version), zap.Int("pallets", len(md.Pallets)))

	s, err := resolve.Resolve(md, resolve.Options{FallbackType: c.Fallback})
	if err != nil {
		return err
	}
	w := c.stdout
	if w == nil {
		w = color.Output
	}
	return inspect(w, md, s, c.Pallet)
}

func inspect(w io.Writer, md *metadata.Metadata, s *resolve.Schema, only string) error {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()
	fallback := color.New(color.FgYellow).SprintFunc()

	if only == "" {
		fmt.Fprintf(w, "%s V%d: %d types, %d pallets\n", bold("metadata"), md.Version, md.Types.Len(), len(s.Pallets))
	}

	found := false
	for _, p := range s.Pallets {
		if only != "" && p.Name != only {
			continue
		}
		found = true
		fmt.Fprintf(w, "%s %s %s\n", dim(fmt.Sprintf("[%3d]", p.Index)), bold(p.Name), dim(fmt.Sprintf("(%d calls)", len(p.Calls))))
		for _, c := range p.Calls {
			args := make([]string, len(c.Fields))
			for i, f := range c.Fields {
				typ := f.Type
				if f.Fallback {
					typ = fallback(typ + "?")
				}
				args[i] = f.Name + ": " + typ
			}
			fmt.Fprintf(w, "      %s %s(%s)\n", dim(fmt.Sprintf("%3d", c.Index)), c.Name, strings.Join(args, ", "))
		}
	}
	if only != "" && !found {
		return fmt.Errorf("no pallet named %q", only)
	}
	return nil
}
