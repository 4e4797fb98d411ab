// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X github.com/weftui/weft/pkg/buildinfo.Var=value" to "go build".
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/weftui/weft/pkg/must"
	"github.com/weftui/weft/pkg/prog"
)

// Version identifies the version of weft. On development commits, it
// identifies the next release.
const Version = "v0.1.0"

// VersionSuffix is appended to Version to build the full version string. It
// can be overridden when building weft.
var VersionSuffix = "-dev.unknown"

// Reproducible identifies whether the build is reproducible. It can be
// overridden when building weft.
var Reproducible = "false"

// Program is the buildinfo subprogram, handling the --version and
// --buildinfo flags.
type Program struct {
	version, buildinfo bool
	json               *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.version, "version", false, "show version and quit")
	fs.BoolVar(&p.buildinfo, "buildinfo", false, "show build information and quit")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	switch {
	case p.buildinfo:
		if *p.json {
			fmt.Fprintln(fds[1], string(must.OK1(json.Marshal(info{
				Version:      Version + VersionSuffix,
				GoVersion:    runtime.Version(),
				Reproducible: Reproducible == "true",
			}))))
		} else {
			fmt.Fprintln(fds[1], "Version:", Version+VersionSuffix)
			fmt.Fprintln(fds[1], "Go version:", runtime.Version())
			fmt.Fprintln(fds[1], "Reproducible build:", Reproducible)
		}
		return nil
	case p.version:
		if *p.json {
			fmt.Fprintln(fds[1], string(must.OK1(json.Marshal(Version+VersionSuffix))))
		} else {
			fmt.Fprintln(fds[1], Version+VersionSuffix)
		}
		return nil
	}
	return prog.ErrNextProgram
}

type info struct {
	Version      string `json:"version"`
	GoVersion    string `json:"goversion"`
	Reproducible bool   `json:"reproducible"`
}
