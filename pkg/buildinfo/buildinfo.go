// Package buildinfo contains build information.
//
// Some of the exported fields may be set during compilation by passing
// -ldflags "-X src.iok.sh/pkg/buildinfo.Var=value" to "go build" or "go get".
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"src.iok.sh/pkg/prog"
)

// This section contains constants and variables that can be overridden with
// -ldflags.

// VersionBase is the base version, without any suffix. On release commits it
// is the version of the release; on development commits it is the version of
// the next release.
const VersionBase = "0.1.0"

// VCSOverride may be set during compilation to "time-commit" (e.g.
// "20220320172241-5dc8c02a32cf") for identifying the version of development
// builds.
//
// It is only needed if the automatic population of version information
// implemented in devVersion fails.
var VCSOverride string

// Reproducible identifies whether the build is reproducible. This may be set
// during compilation to "true".
var Reproducible = "false"

// Type contains all the build information fields.
type Type struct {
	Version      string `json:"version"`
	Reproducible bool   `json:"reproducible"`
	GoVersion    string `json:"goversion"`
}

// Value contains all the build information.
var Value = Type{
	Version:      devVersion(VersionBase, VCSOverride, debug.ReadBuildInfo),
	Reproducible: Reproducible == "true",
	GoVersion:    runtime.Version(),
}

func devVersion(base, vcsOverride string, readBuildInfo func() (*debug.BuildInfo, bool)) string {
	version := base + "-dev."
	if vcsOverride != "" {
		return version + "0." + vcsOverride
	}
	if info, ok := readBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			// Installed with "go install", which produces a pseudo-version
			// that already has the VCS information.
			return strings.TrimPrefix(info.Main.Version, "v")
		}
		var revision, timestamp string
		modified := false
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.time":
				timestamp = setting.Value
			case "vcs.modified":
				modified = setting.Value == "true"
			}
		}
		if revision != "" && timestamp != "" {
			t, err := time.Parse(time.RFC3339Nano, timestamp)
			if err == nil {
				version += "0." + t.UTC().Format("20060102150405") + "-" + shorten(revision, 12)
				if modified {
					version += "-dirty"
				}
				return version
			}
		}
	}
	return version + "unknown"
}

func shorten(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Program is the subprogram for -version and -buildinfo.
var Program prog.Program = &program{}

type program struct {
	version, buildinfo bool
	json               *bool
}

func (p *program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.version, "version", false, "Output the iok version and quit")
	fs.BoolVar(&p.buildinfo, "buildinfo", false, "Output information about the iok build and quit")
	p.json = fs.JSON()
}

func (p *program) Run(fds [3]*os.File, _ []string) error {
	switch {
	case p.buildinfo:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value))
		} else {
			fmt.Fprintln(fds[1], "Version:", Value.Version)
			fmt.Fprintln(fds[1], "Go version:", Value.GoVersion)
			fmt.Fprintln(fds[1], "Reproducible build:", Value.Reproducible)
		}
	case p.version:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value.Version))
		} else {
			fmt.Fprintln(fds[1], Value.Version)
		}
	default:
		return prog.ErrNextProgram
	}
	return nil
}

func mustToJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
