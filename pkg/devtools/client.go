package devtools

import (
	"context"
	"net"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/weftui/weft/pkg/comp"
)

// Client is a connection to a devtools server.
type Client struct {
	conn *jsonrpc2.Conn
}

// Dial connects to the devtools server listening on the Unix domain socket at
// sockpath.
func Dial(sockpath string) (*Client, error) {
	conn, err := net.Dial("unix", sockpath)
	if err != nil {
		return nil, err
	}
	jc := jsonrpc2.NewConn(context.Background(),
		jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{}),
		noopHandler{})
	return &Client{jc}, nil
}

// The server never sends requests to the client.
type noopHandler struct{}

func (noopHandler) Handle(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) {}

func (c *Client) Close() error { return c.conn.Close() }

// Ping checks that the server is alive and returns its current generation.
func (c *Client) Ping(ctx context.Context) (PingResult, error) {
	var result PingResult
	err := c.conn.Call(ctx, methodPing, nil, &result)
	return result, err
}

// Stats returns the generation and the statistics of the last pass.
func (c *Client) Stats(ctx context.Context) (StatsResult, error) {
	var result StatsResult
	err := c.conn.Call(ctx, methodStats, nil, &result)
	return result, err
}

// Dump returns the cache tree.
func (c *Client) Dump(ctx context.Context) (*comp.DumpNode, error) {
	var result comp.DumpNode
	err := c.conn.Call(ctx, methodDump, nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Invalidate requests invalidation of the group with the given id, reporting
// whether the server knew the group. The group reruns on the owner's next
// pass.
func (c *Client) Invalidate(ctx context.Context, id uint64) (bool, error) {
	var result InvalidateResult
	err := c.conn.Call(ctx, methodInvalidate, InvalidateParams{ID: id}, &result)
	return result.Found, err
}
