package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/broady/callgen"
	"github.com/broady/callgen/ir"
)

type GenCmd struct {
	Config string   `help:"Config file. Defaults to ./callgen.yaml when present." short:"c" type:"path"`
	Schema string   `help:"Metadata blob to read." short:"s" type:"path"`
	Module string   `help:"Target module name." short:"m"`
	Out    string   `help:"Output directory." short:"o" type:"path"`
	Format string   `help:"Output format (go or json)." short:"f"`
	Set    []string `help:"Override a config key." placeholder:"KEY=VALUE"`

	stderr io.Writer `kong:"-"`
}

func (c *GenCmd) Run(log *zap.Logger) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	log.Debug("loaded config", zap.String("schema", cfg.Schema), zap.String("module", cfg.Module), zap.String("out_dir", cfg.OutDir))

	res, err := callgen.FromConfig(cfg).ToDir(cfg.OutDir)
	if err != nil {
		return err
	}

	w := c.stderr
	if w == nil {
		w = os.Stderr
	}
	printWarnings(w, res.Warnings)
	for _, f := range res.Files {
		fmt.Fprintf(w, "%s %s (%d pallets)\n", color.GreenString("wrote"), f.Path, len(res.Tree.RootEnum().Variants))
	}
	return nil
}

// config merges the config file, flags and --set overrides, in that order
// of increasing precedence.
func (c *GenCmd) config() (*callgen.Config, error) {
	cfg, err := callgen.LoadConfig(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Schema != "" {
		cfg.Schema = c.Schema
	}
	if c.Module != "" {
		cfg.Module = c.Module
	}
	if c.Out != "" {
		cfg.OutDir = c.Out
	}
	if c.Format != "" {
		cfg.Format = c.Format
	}
	values, err := callgen.ParseOverrides(c.Set)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(values); err != nil {
		return nil, err
	}
	if cfg.Schema == "" {
		return nil, fmt.Errorf("no schema: pass --schema or set schema in the config file")
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	return cfg, nil
}

func printWarnings(w io.Writer, warnings []ir.Warning) {
	warn := color.New(color.FgYellow).SprintFunc()
	for _, wr := range warnings {
		fmt.Fprintf(w, "%s %s: %s\n", warn("warning"), wr.Code, wr.Message)
	}
}
