package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/broady/callgen/internal/testfixtures"
	"github.com/broady/callgen/metadata"
)

func init() {
	color.NoColor = true
}

func writeSchema(t *testing.T, dir string) string {
	t.Helper()
	s := testfixtures.NewSchema()
	u8 := s.Primitive(metadata.PrimU8)
	u32 := s.Primitive(metadata.PrimU32)
	s.Pallet("Balances", 5).Call("transfer", 0, testfixtures.F("dest", u32), testfixtures.F("value", s.Compact(u32)))
	s.Pallet("System", 0).Call("remark", 1, testfixtures.F("remark", s.Sequence(u8)))
	path := filepath.Join(dir, "metadata.scale")
	require.NoError(t, os.WriteFile(path, s.Bytes(), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	assert.Contains(t, Version(), strings.TrimSpace(embeddedVersion))
}

func TestReadBuildVersion(t *testing.T) {
	base := strings.TrimSpace(embeddedVersion)
	tests := []struct {
		name      string
		info      *debug.BuildInfo
		ok        bool
		wantShort string
		wantLine  string
	}{
		{
			name:      "no build info",
			wantShort: base,
			wantLine:  "callgen " + base + " (metadata V14-V15)",
		},
		{
			name:      "installed",
			info:      &debug.BuildInfo{GoVersion: "go1.25.3", Main: debug.Module{Version: "v0.3.1"}},
			ok:        true,
			wantShort: "v0.3.1",
			wantLine:  "callgen v0.3.1 (metadata V14-V15) go1.25.3",
		},
		{
			name: "local dirty checkout",
			info: &debug.BuildInfo{
				GoVersion: "go1.25.3",
				Main:      debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abcdef0123456789"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			ok:        true,
			wantShort: "devel-" + base + "+abcdef0.dirty",
			wantLine:  "callgen devel-" + base + "+abcdef0.dirty (metadata V14-V15) go1.25.3",
		},
		{
			name:      "local without vcs",
			info:      &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			ok:        true,
			wantShort: "devel-" + base,
			wantLine:  "callgen devel-" + base + " (metadata V14-V15)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := readBuildVersion(tt.info, tt.ok)
			assert.Equal(t, tt.wantShort, v.Short())
			assert.Equal(t, tt.wantLine, v.String())
		})
	}
}

func TestGenCmd(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	cmd := &GenCmd{
		Config: filepath.Join(dir, "absent-ok.yaml"),
		Schema: writeSchema(t, dir),
		Module: "runtime",
		Out:    filepath.Join(dir, "gen"),
		stderr: &stderr,
	}
	// An explicit config path must exist.
	require.Error(t, cmd.Run(zap.NewNop()))

	cmd.Config = filepath.Join(dir, "callgen.yaml")
	require.NoError(t, os.WriteFile(cmd.Config, []byte("module: ignored\n"), 0o644))
	cmd.Set = []string{"package=calls"}
	require.NoError(t, cmd.Run(zap.NewNop()))

	src, err := os.ReadFile(filepath.Join(dir, "gen", "calls.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package calls")
	assert.Contains(t, string(src), "type RuntimeCallSystem struct")

	out := stderr.String()
	assert.Contains(t, out, "warning lossy_fallback")
	assert.Contains(t, out, "wrote calls.go (2 pallets)")
}

func TestGenCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "callgen.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("module: runtime\nformat: json\n"), 0o644))
	cmd := &GenCmd{
		Config: cfgPath,
		Schema: writeSchema(t, dir),
		Out:    dir,
		stderr: &bytes.Buffer{},
	}
	require.NoError(t, cmd.Run(zap.NewNop()))
	_, err := os.Stat(filepath.Join(dir, "calls.json"))
	assert.NoError(t, err)
}

func TestGenCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "callgen.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("module: runtime\n"), 0o644))

	cmd := &GenCmd{Config: cfgPath, stderr: &bytes.Buffer{}}
	assert.ErrorContains(t, cmd.Run(zap.NewNop()), "no schema")

	cmd = &GenCmd{Config: cfgPath, Schema: writeSchema(t, dir), Set: []string{"bogus"}, stderr: &bytes.Buffer{}}
	assert.Error(t, cmd.Run(zap.NewNop()))
}

func TestInspectCmd(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	cmd := &InspectCmd{Schema: writeSchema(t, dir), Fallback: "u8", stdout: &out}
	require.NoError(t, cmd.Run(zap.NewNop()))

	got := out.String()
	assert.Contains(t, got, "metadata V14:")
	assert.Contains(t, got, "2 pallets")
	assert.Less(t, strings.Index(got, "System"), strings.Index(got, "Balances"))
	assert.Contains(t, got, "transfer(dest: u32, value: u8?)")
	assert.Contains(t, got, "remark(remark: u8?)")
}

func TestInspectCmd_Pallet(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	cmd := &InspectCmd{Schema: writeSchema(t, dir), Pallet: "Balances", Fallback: "u8", stdout: &out}
	require.NoError(t, cmd.Run(zap.NewNop()))
	assert.NotContains(t, out.String(), "System")
	assert.Contains(t, out.String(), "[  5] Balances (1 calls)")

	cmd.Pallet = "Nope"
	assert.ErrorContains(t, cmd.Run(zap.NewNop()), `no pallet named "Nope"`)
}
