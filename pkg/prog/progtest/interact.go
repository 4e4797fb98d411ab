//go:build unix

package progtest

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"

	"github.com/weftui/weft/pkg/must"
	"github.com/weftui/weft/pkg/prog"
	"github.com/weftui/weft/pkg/testutil"
)

// Interact is a program running on a pseudoterminal, for testing interactive
// use. The test talks to the control end: Send writes terminal input, WaitFor
// matches accumulated terminal output.
type Interact struct {
	ptmx *os.File
	exit chan int

	mu  sync.Mutex
	buf strings.Builder
}

// Interactive starts p with all three byte streams connected to the replica
// end of a fresh pseudoterminal. The terminal is closed when the test
// finishes.
func Interactive(c testutil.Cleanuper, p prog.Program, args ...string) *Interact {
	ptmx, tty := must.OK2(pty.Open())
	i := &Interact{ptmx: ptmx, exit: make(chan int, 1)}
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				i.mu.Lock()
				i.buf.Write(buf[:n])
				i.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	go func() {
		exit := prog.Run([3]*os.File{tty, tty, tty}, append([]string{"weft"}, args...), p)
		tty.Close()
		i.exit <- exit
	}()
	c.Cleanup(func() { ptmx.Close() })
	return i
}

// Send writes s to the program's terminal input.
func (i *Interact) Send(s string) {
	must.OK1(i.ptmx.WriteString(s))
}

// Output returns everything the program has written to the terminal so far.
// Terminal echo is on, so sent input shows up here too.
func (i *Interact) Output() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.buf.String()
}

// WaitFor blocks until the accumulated terminal output contains s, failing
// the test after a timeout.
func (i *Interact) WaitFor(t *testing.T, s string) {
	t.Helper()
	deadline := time.After(testutil.Scaled(5 * time.Second))
	for {
		if strings.Contains(i.Output(), s) {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %q in terminal output; got:\n%s", s, i.Output())
		case <-time.After(testutil.ScaledMs(10)):
		}
	}
}

// WaitExit blocks until the program exits and returns its exit status,
// failing the test after a timeout.
func (i *Interact) WaitExit(t *testing.T) int {
	t.Helper()
	select {
	case exit := <-i.exit:
		return exit
	case <-time.After(testutil.Scaled(5 * time.Second)):
		t.Fatalf("program did not exit; terminal output so far:\n%s", i.Output())
		return 0
	}
}
