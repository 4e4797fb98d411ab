// Package comps provides reusable building blocks over the build cache:
// small components written as ordinary functions taking a [comp.Context]
// first, returning nodes of the result tree.
package comps

import (
	"fmt"

	"github.com/weftui/weft/pkg/comp"
	"github.com/weftui/weft/pkg/view"
)

// Label returns a text node for the formatted string. The node is rebuilt
// only when the formatted string changes; formatting itself is assumed
// cheap, the fence is for whatever observes the node's identity.
func Label(cx *comp.Context, site string, format string, args ...any) *view.Node {
	text := fmt.Sprintf(format, args...)
	return comp.Memo(cx, site, text, func(cx *comp.Context) *view.Node {
		return view.T("label", text)
	})
}

// CounterOut is what [Counter] returns: the rendered node and an increment
// function. Bump stays valid across passes; each call adds one, applied at
// the next pass.
type CounterOut struct {
	Node *view.Node
	Bump func()
}

// Counter declares a counter cell at site and renders its current value.
func Counter(cx *comp.Context, site string) CounterOut {
	return comp.Group(cx, site, func(cx *comp.Context) CounterOut {
		v := comp.State(cx, "n", func() int { return 0 })
		n := v.Get()
		set := v.Setter()
		node := view.T("counter", fmt.Sprintf("%d", n))
		bump := func() { set.Update(func(n int) int { return n + 1 }) }
		return CounterOut{node, bump}
	})
}

// ForEachKeyed builds one keyed child per element of keys, in order, and
// returns the results. Each child re-runs only when its own args change or
// its own state is written; reordering or shrinking keys neither re-runs
// nor reinitializes the surviving children.
func ForEachKeyed[K comparable, A comparable, R any](
	cx *comp.Context, site string, keys []K,
	args func(K) A, body func(*comp.Context, K, A) R) []R {
	out := make([]R, 0, len(keys))
	for _, k := range keys {
		a := args(k)
		out = append(out, comp.MemoKeyed(cx, site, k, a, func(cx *comp.Context) R {
			return body(cx, k, a)
		}))
	}
	return out
}

// Row wraps child nodes in a "row" node carrying its key, the per-item
// shape the sequence demos render.
func Row(key string, children ...*view.Node) *view.Node {
	return view.N("row", children...).WithAttr("key", key)
}
