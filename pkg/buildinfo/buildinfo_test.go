package buildinfo

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/weftui/weft/pkg/testutil"

	. "github.com/weftui/weft/pkg/prog/progtest"
)

func TestProgram(t *testing.T) {
	testutil.Set(t, &VersionSuffix, "-test")
	testutil.Set(t, &Reproducible, "true")
	full := Version + "-test"
	Test(t, &Program{},
		ThatWeft("--version").WritesStdout(full+"\n"),
		ThatWeft("--version", "--json").WritesStdout(`"`+full+`"`+"\n"),

		ThatWeft("--buildinfo").WritesStdout(fmt.Sprintf(
			"Version: %v\nGo version: %v\nReproducible build: true\n",
			full, runtime.Version())),
		ThatWeft("--buildinfo", "--json").WritesStdout(fmt.Sprintf(
			`{"version":%q,"goversion":%q,"reproducible":true}`+"\n",
			full, runtime.Version())),

		ThatWeft().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}
