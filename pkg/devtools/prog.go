package devtools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/weftui/weft/pkg/must"
	"github.com/weftui/weft/pkg/prog"
)

// Program is the devtools-client subprogram. With --call it connects to a
// running instance's devtools socket, calls one method and prints the result
// as JSON.
type Program struct {
	call      string
	id        uint64
	dataPaths *prog.DataPaths
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.StringVar(&p.call, "call", "",
		"call a devtools method on a running instance and print the result")
	fs.Uint64Var(&p.id, "id", 0, "group id for --call weft/invalidate")
	p.dataPaths = fs.DataPaths()
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	if p.call == "" {
		return prog.ErrNextProgram
	}
	if p.dataPaths.Sock == "" {
		return prog.BadUsage("--call requires --sock")
	}
	cl, err := Dial(p.dataPaths.Sock)
	if err != nil {
		return fmt.Errorf("connect to devtools socket: %w", err)
	}
	defer cl.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var result any
	switch p.call {
	case methodPing:
		result, err = cl.Ping(ctx)
	case methodStats:
		result, err = cl.Stats(ctx)
	case methodDump:
		result, err = cl.Dump(ctx)
	case methodInvalidate:
		var found bool
		found, err = cl.Invalidate(ctx, p.id)
		result = InvalidateResult{Found: found}
	default:
		return prog.BadUsage(fmt.Sprintf(
			"unknown method %q; supported: %s, %s, %s, %s",
			p.call, methodPing, methodStats, methodDump, methodInvalidate))
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(fds[1], string(must.OK1(json.MarshalIndent(result, "", "  "))))
	return nil
}
