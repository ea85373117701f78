// Command callgen generates typed runtime call definitions from a metadata
// blob.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/broady/callgen"
)

type CLI struct {
	Verbose bool `help:"Enable debug logging." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     GenCmd     `cmd:"" help:"Generate call definitions from a metadata blob."`
	Inspect InspectCmd `cmd:"" help:"Print the pallets and calls of a metadata blob."`
}

type VersionCmd struct {
	Short bool `help:"Print only the version number."`
}

func (c *VersionCmd) Run() error {
	v := readBuildVersion(debug.ReadBuildInfo())
	if c.Short {
		fmt.Println(v.Short())
		return nil
	}
	fmt.Println(v.String())
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("callgen"),
		kong.Description("Generate typed runtime call definitions from SCALE metadata."),
		kong.UsageOnError(),
	)

	log, err := newLogger(cli.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "callgen: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	callgen.SetLogger(log)

	err = ctx.Run(log)
	ctx.FatalIfErrorf(err)
}
