package devtools

import (
	"context"
	"encoding/json"
	"net"
	"sync"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/weftui/weft/pkg/comp"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// Server serves inspection methods for one cache. Multiple clients may be
// connected at the same time.
type Server struct {
	cache *comp.Cache

	// OnInvalidate, if non-nil, is called after a weft/invalidate request
	// has been accepted. The cache's owner typically schedules a pass from
	// it. It must be safe to call from connection goroutines. Set it before
	// calling Serve.
	OnInvalidate func()

	mu       sync.Mutex
	listener net.Listener
	conns    map[*jsonrpc2.Conn]struct{}
	closed   bool
}

// NewServer returns a Server exposing the given cache.
func NewServer(c *comp.Cache) *Server {
	return &Server{cache: c, conns: make(map[*jsonrpc2.Conn]struct{})}
}

// Serve listens on a Unix domain socket at sockpath and serves clients until
// Close is called. It blocks.
func (s *Server) Serve(sockpath string) error {
	listener, err := net.Listen("unix", sockpath)
	if err != nil {
		return err
	}
	return s.ServeListener(listener)
}

// ServeListener serves clients from an existing listener until Close is
// called. It blocks.
func (s *Server) ServeListener(listener net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		listener.Close()
		return nil
	}
	s.listener = listener
	s.mu.Unlock()

	h := handler(s)
	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			return err
		}
		jc := jsonrpc2.NewConn(context.Background(),
			jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{}), h)
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			jc.Close()
			continue
		}
		s.conns[jc] = struct{}{}
		s.mu.Unlock()
		go func() {
			<-jc.DisconnectNotify()
			s.mu.Lock()
			delete(s.conns, jc)
			s.mu.Unlock()
		}()
	}
}

// Close stops the server, closing the listener and all client connections.
// The cache itself is left alone.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	listener := s.listener
	conns := make([]*jsonrpc2.Conn, 0, len(s.conns))
	for jc := range s.conns {
		conns = append(conns, jc)
	}
	s.mu.Unlock()

	var err error
	if listener != nil {
		err = listener.Close()
	}
	for _, jc := range conns {
		jc.Close()
	}
	return err
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func handler(s *Server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		methodPing:       s.ping,
		methodStats:      s.stats,
		methodDump:       s.dump,
		methodInvalidate: s.invalidate,
	})
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			logger.Println("unknown method", req.Method)
			return nil, errMethodNotFound
		}
		var rawParams json.RawMessage
		if req.Params != nil {
			rawParams = *req.Params
		}
		return fn(ctx, conn, rawParams)
	})
}

// Method implementations. The cache methods they call are all safe for
// concurrent use, so these never block a running pass beyond the cache's own
// locking.

func (s *Server) ping(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &PingResult{Gen: s.cache.Gen()}, nil
}

func (s *Server) stats(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &StatsResult{Gen: s.cache.Gen(), Last: s.cache.LastStats()}, nil
}

func (s *Server) dump(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return s.cache.Dump(), nil
}

func (s *Server) invalidate(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params InvalidateParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	found := s.cache.Invalidate(params.ID)
	if found && s.OnInvalidate != nil {
		s.OnInvalidate()
	}
	return &InvalidateResult{Found: found}, nil
}
