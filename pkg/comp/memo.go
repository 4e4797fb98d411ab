package comp

import "github.com/weftui/weft/pkg/slots"

// Memo sites get their own namespace, so a site that switches between Group
// and Memo across passes is an ordinary miss instead of a layout clash.
const memoSitePrefix = "#m:"

// Memo runs body as a child group that re-runs only for its own reasons: on
// its first pass, when args differs from the previous pass, when its state
// is written, or when its token fires. A parent re-running as dirty does
// not force it, which makes Memo the fence that keeps an expensive subtree
// out of a cheap rebuild. When skipped, the stored result of the last run
// is returned.
//
// args must carry everything from the enclosing scope that body reads.
// Values captured by the closure but left out of args do not count as
// changes, and a skipped body keeps its stale captures.
func Memo[A comparable, R any](cx *Context, site string, args A, body func(*Context) R) R {
	tag := cx.nextTag(site)
	tag.Site = memoSitePrefix + tag.Site
	return memoImpl(cx, tag, args, body)
}

// MemoKeyed is [Memo] with a caller-chosen key, under the same key rules as
// [GroupKeyed].
func MemoKeyed[A comparable, R any](cx *Context, site string, key any, args A, body func(*Context) R) R {
	tag := cx.keyedTag(site, key)
	tag.Site = memoSitePrefix + tag.Site
	return memoImpl(cx, tag, args, body)
}

func memoImpl[A comparable, R any](cx *Context, tag slots.Tag, args A, body func(*Context) R) R {
	c := cx.c
	g, existed := c.seekGroup(cx, tag)
	setArgs := func() {
		idx, _ := c.tab.SeekValue(argsTag)
		c.tab.SetValueAt(idx, args)
	}
	if !existed {
		return runBody(cx, g, true, setArgs, body)
	}
	prev, ok := c.tab.PeekValue(memoArgsOff, argsTag).(A)
	dirty := g.state == stateStale || !ok || prev != args
	if !dirty && !g.staleBelow {
		return skipGroup[R](c, g, memoOutOff)
	}
	return runBody(cx, g, dirty, setArgs, body)
}

// Changed stores val at site and reports whether it differs from the value
// stored by the previous pass; the first pass reports true. Together with
// [SkipToGroupEnd] it builds custom guards where [Memo] is too coarse.
func Changed[T comparable](cx *Context, site string, val T) bool {
	c := cx.c
	tag := cx.nextTag(site)
	idx, existed := c.tab.SeekValue(tag)
	if existed {
		if prev, ok := c.tab.ValueAt(idx).(T); ok && prev == val {
			return false
		}
	}
	c.tab.SetValueAt(idx, val)
	return true
}
