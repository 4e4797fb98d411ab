package devtools

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/weftui/weft/pkg/comp"
)

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// Starts a server for c on a socket under the test's temp directory and
// returns a connected client. Both are shut down when the test finishes.
func startServer(t *testing.T, c *comp.Cache) (*Client, string) {
	t.Helper()
	sockpath := filepath.Join(t.TempDir(), "sock")
	listener, err := net.Listen("unix", sockpath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := NewServer(c)
	done := make(chan struct{})
	go func() {
		s.ServeListener(listener)
		close(done)
	}()
	t.Cleanup(func() {
		s.Close()
		<-done
	})
	cl, err := Dial(sockpath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { cl.Close() })
	return cl, sockpath
}

func mustRun[T any](t *testing.T, c *comp.Cache, body func(*comp.Context) T) T {
	t.Helper()
	v, err := comp.Run(c, body)
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}
	return v
}

func TestPing(t *testing.T) {
	c := comp.New()
	defer c.Close()
	mustRun(t, c, func(cx *comp.Context) int { return 1 })

	cl, _ := startServer(t, c)
	result, err := cl.Ping(testContext(t))
	if err != nil {
		t.Fatalf("Ping -> error %v", err)
	}
	if result.Gen != 1 {
		t.Errorf("Gen = %v, want 1", result.Gen)
	}
}

func TestStats(t *testing.T) {
	c := comp.New()
	defer c.Close()
	mustRun(t, c, func(cx *comp.Context) int {
		comp.Group(cx, "a", func(cx *comp.Context) int { return 1 })
		comp.Memo(cx, "b", 0, func(cx *comp.Context) int { return 2 })
		return 0
	})

	cl, _ := startServer(t, c)
	result, err := cl.Stats(testContext(t))
	if err != nil {
		t.Fatalf("Stats -> error %v", err)
	}
	if result.Gen != 1 {
		t.Errorf("Gen = %v, want 1", result.Gen)
	}
	if result.Last.Evaluated != 2 {
		t.Errorf("Last.Evaluated = %v, want 2", result.Last.Evaluated)
	}
	if result.Last.Entries == 0 {
		t.Errorf("Last.Entries = 0, want > 0")
	}
}

func TestDumpAndInvalidate(t *testing.T) {
	c := comp.New()
	defer c.Close()
	runs := 0
	body := func(cx *comp.Context) int {
		return comp.Group(cx, "a", func(cx *comp.Context) int {
			runs++
			return runs
		})
	}
	mustRun(t, c, body)

	cl, _ := startServer(t, c)
	ctx := testContext(t)

	dump, err := cl.Dump(ctx)
	if err != nil {
		t.Fatalf("Dump -> error %v", err)
	}
	if len(dump.Children) != 1 || dump.Children[0].Tag != "a" {
		t.Fatalf("dump root children = %v, want one node tagged a", dump.Children)
	}
	id := dump.Children[0].ID

	found, err := cl.Invalidate(ctx, id)
	if err != nil {
		t.Fatalf("Invalidate -> error %v", err)
	}
	if !found {
		t.Errorf("Invalidate(%v) = false, want true", id)
	}
	mustRun(t, c, body)
	if runs != 2 {
		t.Errorf("runs = %v, want 2 after invalidation", runs)
	}

	found, err = cl.Invalidate(ctx, 1<<40)
	if err != nil {
		t.Fatalf("Invalidate -> error %v", err)
	}
	if found {
		t.Errorf("Invalidate of unknown id = true, want false")
	}
}

func TestUnknownMethod(t *testing.T) {
	c := comp.New()
	defer c.Close()
	_, sockpath := startServer(t, c)

	conn, err := net.Dial("unix", sockpath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	jc := jsonrpc2.NewConn(context.Background(),
		jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{}),
		noopHandler{})
	defer jc.Close()

	var result any
	err = jc.Call(testContext(t), "weft/nope", nil, &result)
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("Call of unknown method -> error %v, want method-not-found", err)
	}
}

func TestServerClose_StopsServing(t *testing.T) {
	c := comp.New()
	defer c.Close()
	sockpath := filepath.Join(t.TempDir(), "sock")
	s := NewServer(c)
	done := make(chan error, 1)
	go func() { done <- s.Serve(sockpath) }()

	// Wait for the socket to appear.
	var cl *Client
	var err error
	for i := 0; i < 100; i++ {
		cl, err = Dial(sockpath)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if _, err := cl.Ping(testContext(t)); err != nil {
		t.Fatalf("Ping -> error %v", err)
	}
	cl.Close()

	if err := s.Close(); err != nil {
		t.Errorf("Close -> error %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve -> error %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Errorf("Serve did not return after Close")
	}
	if s.Close() != nil {
		t.Errorf("second Close -> error")
	}
}
