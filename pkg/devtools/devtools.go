// Package devtools exposes a running comp.Cache for inspection over a local
// JSON-RPC connection, typically a Unix domain socket. A debugging client can
// dump the cache tree, read pass statistics and invalidate groups by id while
// the program owning the cache keeps running; the cache's own locking keeps
// inspection off mid-pass state.
package devtools

import (
	"github.com/weftui/weft/pkg/comp"
	"github.com/weftui/weft/pkg/logutil"
)

var logger = logutil.GetLogger("[devtools] ")

// Method names served and called by this package.
const (
	methodPing       = "weft/ping"
	methodStats      = "weft/stats"
	methodDump       = "weft/dump"
	methodInvalidate = "weft/invalidate"
)

// PingResult is the result of the weft/ping method.
type PingResult struct {
	Gen uint64 `json:"gen"`
}

// StatsResult is the result of the weft/stats method.
type StatsResult struct {
	Gen  uint64     `json:"gen"`
	Last comp.Stats `json:"last"`
}

// InvalidateParams is the parameter of the weft/invalidate method.
type InvalidateParams struct {
	ID uint64 `json:"id"`
}

// InvalidateResult is the result of the weft/invalidate method.
type InvalidateResult struct {
	// Found reports whether a live group with the requested id existed.
	// The invalidation itself takes effect at the start of the next pass.
	Found bool `json:"found"`
}
