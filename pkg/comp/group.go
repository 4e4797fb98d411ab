package comp

import (
	"fmt"
	"reflect"

	"github.com/weftui/weft/pkg/slots"
)

// groupState tracks where a group is in its lifecycle. A group is created
// Fresh, becomes Evaluating while its body runs, Cached when a pass commits
// it, and Stale when a dependency write or token fire invalidates it.
type groupState uint8

const (
	stateFresh groupState = iota
	stateEvaluating
	stateCached
	stateStale
)

func (s groupState) String() string {
	switch s {
	case stateFresh:
		return "fresh"
	case stateEvaluating:
		return "evaluating"
	case stateCached:
		return "cached"
	case stateStale:
		return "stale"
	default:
		return fmt.Sprintf("bad state %d", uint8(s))
	}
}

// group is the cache's record of one decision point. It lives in the data
// field of the group's start entry and in the cache's registry, and keeps
// its identity across passes and sibling reorders.
type group struct {
	id     uint64
	tag    slots.Tag
	parent *group

	state groupState
	// staleBelow means some descendant is stale, so the body must re-run to
	// reach it even though this group's own inputs are unchanged.
	staleBelow bool
	evalGen    uint64

	deps  []*cellCore // cells read while this group was innermost
	hooks []func()
	dead  bool
}

// Group runs body as a child decision point of the current group. When
// nothing observable below the site changed, the body is skipped in constant
// time and the result of the last run is returned instead. A group under a
// parent that re-ran as dirty always re-runs, so its body may freely use
// values from the enclosing scope; use [Memo] to cut that dependency.
func Group[R any](cx *Context, site string, body func(*Context) R) R {
	return groupImpl(cx, cx.nextTag(site), body)
}

// GroupKeyed is [Group] with a caller-chosen key that pins the group's
// identity when siblings reorder. The key must be comparable and non-nil,
// and unique for the site within the parent group during one pass.
func GroupKeyed[R any](cx *Context, site string, key any, body func(*Context) R) R {
	return groupImpl(cx, cx.keyedTag(site, key), body)
}

func groupImpl[R any](cx *Context, tag slots.Tag, body func(*Context) R) R {
	c := cx.c
	g, existed := c.seekGroup(cx, tag)
	if existed {
		dirty := cx.dirty || g.state == stateStale
		if !dirty && !g.staleBelow {
			return skipGroup[R](c, g, groupOutOff)
		}
		return runBody(cx, g, dirty, nil, body)
	}
	return runBody(cx, g, true, nil, body)
}

// Offsets of the stored result relative to a group's start entry. A plain
// group stores its result first; a memo group stores its arguments first and
// the result after them.
const (
	groupOutOff = 2
	memoArgsOff = 2
	memoOutOff  = 4
)

// skipGroup reuses a group without entering it: the stored result is read
// through the group's fixed layout and the cursor jumps the whole span.
func skipGroup[R any](c *Cache, g *group, outOff int) R {
	v := c.tab.PeekValue(outOff, outTag)
	c.tab.SkipGroup()
	c.stats.Skipped++
	return resultAs[R](g.tag, v)
}

// resultAs converts a stored result payload back to its static type. A nil
// payload means the body returned a nil interface value, which converts to
// the zero value; any other type means the site changed its result type
// without changing anything the guard can see, which is not recoverable.
func resultAs[R any](tag slots.Tag, v any) R {
	if v == nil {
		var zero R
		return zero
	}
	r, ok := v.(R)
	if !ok {
		var zero R
		panic(&UsageError{Err: TypeMismatch{
			Site: tag.String(),
			Want: reflect.TypeOf(&zero).Elem().String(),
			Got:  fmt.Sprintf("%T", v),
		}})
	}
	return r
}

// runBody enters the group and runs its body. With dirty set the run is an
// evaluation: the group's own inputs changed, and children inherit the
// dirtiness. Without it the run is a traversal: the body re-runs only as a
// road to stale descendants, and children decide for themselves. pre, if not
// nil, runs between entering the group and seeking the result slot; memo
// groups use it to place their arguments slot first.
func runBody[R any](cx *Context, g *group, dirty bool, pre func(), body func(*Context) R) R {
	c := cx.c
	if dirty {
		c.stats.Evaluated++
	} else {
		c.stats.Traversed++
	}
	c.saveGroup(g)
	c.resetDeps(g)
	c.resetHooks(g)
	g.state = stateEvaluating
	g.evalGen = c.gen + 1

	c.tab.EnterGroup()
	if pre != nil {
		pre()
	}
	outIdx, _ := c.tab.SeekValue(outTag)
	child := &Context{c: c, grp: g, dirty: dirty, seq: c.passSeq}
	prev := c.cur
	c.cur = g
	r := body(child)
	c.cur = prev
	c.tab.SetValueAt(outIdx, r)

	g.state = stateCached
	g.staleBelow = false
	c.noteDrained(c.tab.EndGroup())
	return r
}

// Cleanup registers a teardown hook on the innermost group. The hooks in
// effect are the ones registered by the group's most recent body run; they
// run exactly once, children before parents, when the group's site stops
// being reached, or when the cache is closed.
func Cleanup(cx *Context, f func()) {
	cx.checkLive("Cleanup")
	g := cx.grp
	g.hooks = append(g.hooks, f)
	cx.c.pushUndo(func() { g.hooks = g.hooks[:len(g.hooks)-1] })
}

// SkipToGroupEnd skips the unvisited remainder of the innermost group,
// keeping its recorded entries alive. It is the raw primitive for custom
// guard conditions; [Memo] is the packaged one.
func SkipToGroupEnd(cx *Context) {
	cx.checkLive("SkipToGroupEnd")
	cx.c.tab.SkipToGroupEnd()
}
