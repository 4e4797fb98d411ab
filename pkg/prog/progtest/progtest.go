// Package progtest provides a framework for testing subprograms.
//
// The framework is declarative: a test calls Test with the [prog.Program]
// under test and any number of [Case] values built with ThatWeft. Output
// capture runs concurrently, so programs that write more than a pipe buffers
// do not deadlock the test.
package progtest

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/weftui/weft/pkg/must"
	"github.com/weftui/weft/pkg/prog"
)

// Case is a test case for Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exit           int
	stdout, stderr output
}

type output struct {
	text    string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return fmt.Sprintf("text containing %q", o.text)
	}
	return fmt.Sprintf("text %q", o.text)
}

// ThatWeft returns a Case that tests an invocation of the weft command with
// the given arguments.
func ThatWeft(args ...string) Case {
	return Case{args: append([]string{"weft"}, args...)}
}

// WithStdin returns an altered Case that feeds the given input to the
// command's stdin.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise
// assert nothing.
func (c Case) DoesNothing() Case { return c }

// ExitsWith returns an altered Case that requires the command to exit with
// the given status.
func (c Case) ExitsWith(code int) Case {
	c.want.exit = code
	return c
}

// WritesStdout returns an altered Case that requires the command to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = output{text: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the command to
// write output to stdout containing the given text.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = output{text: s, partial: true}
	return c
}

// WritesStderr returns an altered Case that requires the command to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = output{text: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the command to
// write output to stderr containing the given text.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = output{text: s, partial: true}
	return c
}

// Test runs the test cases against the program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args[1:], " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exit != c.want.exit {
				t.Errorf("got exit code %v, want %v", r.exit, c.want.exit)
			}
			if !matchOutput(r.stdout, c.want.stdout) {
				t.Errorf("got stdout %q, want %s", r.stdout, c.want.stdout)
			}
			if !matchOutput(r.stderr, c.want.stderr) {
				t.Errorf("got stderr %q, want %s", r.stderr, c.want.stderr)
			}
		})
	}
}

func matchOutput(got string, want output) bool {
	if want.partial {
		return strings.Contains(got, want.text)
	}
	return got == want.text
}

type runResult struct {
	exit           int
	stdout, stderr string
}

func run(p prog.Program, args []string, stdin string) runResult {
	r0, w0 := must.Pipe()
	r1, w1 := must.Pipe()
	r2, w2 := must.Pipe()

	go func() {
		w0.WriteString(stdin)
		w0.Close()
	}()
	stdout := readAsync(r1)
	stderr := readAsync(r2)

	exit := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	w1.Close()
	w2.Close()
	r0.Close()
	return runResult{exit, <-stdout, <-stderr}
}

func readAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.OK1(io.ReadAll(r)))
		r.Close()
	}()
	return ch
}
