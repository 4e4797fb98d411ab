package prog_test

import (
	"io"
	"os"
	"testing"

	. "github.com/weftui/weft/pkg/prog"
	"github.com/weftui/weft/pkg/prog/progtest"
	"github.com/weftui/weft/pkg/testutil"

	"github.com/weftui/weft/pkg/logutil"
)

var (
	Test     = progtest.Test
	ThatWeft = progtest.ThatWeft
)

func TestCommonFlagHandling(t *testing.T) {
	testutil.InTempDir(t)
	defer logutil.SetOutput(io.Discard)

	Test(t, testProgram{},
		ThatWeft("--bad-flag").
			ExitsWith(2).
			WritesStderrContaining("unknown flag: --bad-flag\nUsage:"),

		ThatWeft("-h").
			WritesStdoutContaining("Usage: weft [flags] [args]"),
		ThatWeft("--help").
			WritesStdoutContaining("Usage: weft [flags] [args]"),

		ThatWeft("--cpuprofile", "cpuprof").DoesNothing(),
		ThatWeft("--cpuprofile", "/a/bad/path").
			WritesStderrContaining("Warning: cannot create CPU profile:"),

		ThatWeft("--log", "log").DoesNothing(),
	)

	// Check for the effect of --cpuprofile and --log. There isn't much to
	// test beyond a sanity check that the files now exist.
	for _, name := range []string{"cpuprof", "log"} {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("%s file does not exist: %v", name, err)
		}
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, testProgram{nextProgram: true},
		ThatWeft().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(testProgram{nextProgram: true}, testProgram{writeOut: "program 2"}),
		ThatWeft().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(testProgram{nextProgram: true}, testProgram{nextProgram: true}),
		ThatWeft().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		ThatWeft().WritesStdout("program 1"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatWeft().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatWeft().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatWeft().ExitsWith(0),
	)
}

type testProgram struct {
	nextProgram bool
	writeOut    string
	returnErr   error
}

func (p testProgram) RegisterFlags(*FlagSet) {}

func (p testProgram) Run(fds [3]*os.File, args []string) error {
	if p.nextProgram {
		return ErrNextProgram
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}
