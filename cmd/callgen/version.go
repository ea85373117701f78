package main

import (
	_ "embed"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/broady/callgen/metadata"
)

//go:embed VERSION
var embeddedVersion string

// buildVersion describes the running binary.
type buildVersion struct {
	Version   string
	Revision  string
	Modified  bool
	GoVersion string
}

// readBuildVersion prefers the module version of installed builds and
// falls back to the embedded VERSION plus VCS state for local builds.
func readBuildVersion(info *debug.BuildInfo, ok bool) buildVersion {
	v := buildVersion{Version: strings.TrimSpace(embeddedVersion)}
	if !ok || info == nil {
		return v
	}
	v.GoVersion = info.GoVersion
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		v.Version = mv
		return v
	}
	v.Version = "devel-" + v.Version
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			v.Revision = s.Value
			if len(v.Revision) > 7 {
				v.Revision = v.Revision[:7]
			}
		case "vcs.modified":
			v.Modified = s.Value == "true"
		}
	}
	return v
}

// Short returns just the version, with the revision appended for
// development builds.
func (v buildVersion) Short() string {
	if v.Revision == "" {
		return v.Version
	}
	s := v.Version + "+" + v.Revision
	if v.Modified {
		s += ".dirty"
	}
	return s
}

// String returns the full version line printed by `callgen version`.
func (v buildVersion) String() string {
	s := fmt.Sprintf("callgen %s (metadata V%d-V%d)", v.Short(), metadata.V14, metadata.V15)
	if v.GoVersion != "" {
		s += " " + v.GoVersion
	}
	return s
}

// Version returns the version of the running binary.
func Version() string {
	return readBuildVersion(debug.ReadBuildInfo()).Short()
}
