package comp

import "github.com/weftui/weft/pkg/must"

// Run executes body as one build pass against c and returns its result.
//
// The pass sees every write enqueued before the call and none enqueued
// during it. If the pass fails, the table and every group are restored to
// their pre-pass shape, a zero result is returned, and the error says why:
// usage errors and stale handles are returned as errors, while any other
// panic resumes unwinding after the rollback. Pending writes survive a
// failed pass and are served again by the next one.
//
// A pass that reaches the end always commits. If teardown hooks panic while
// it commits, their errors are collected and returned alongside the result;
// the committed pass stands.
//
// Run does not nest and does not queue: calling it while a pass is in
// flight, from inside that pass or from another goroutine, fails with
// ReentrancyError.
func Run[T any](c *Cache, body func(*Context) T) (T, error) {
	var out T
	committed, err := c.runPass(func(cx *Context) { out = body(cx) })
	if !committed {
		var zero T
		return zero, err
	}
	return out, err
}

func (c *Cache) runPass(body func(*Context)) (committed bool, err error) {
	if !c.runMu.TryLock() {
		return false, ReentrancyError{}
	}
	defer c.runMu.Unlock()
	if c.closed {
		return false, ClosedError{}
	}

	c.passSeq++
	c.stats = Stats{}
	c.drain()

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		c.abort()
		if e := asPassError(r); e != nil {
			err = e
			return
		}
		panic(r)
	}()

	cx := c.beginRoot()
	body(cx)
	c.finishRoot(cx)
	return true, c.commit()
}

// beginRoot opens the implicit group that wraps every pass. The root always
// re-runs as a traversal, so top-level child groups decide for themselves.
func (c *Cache) beginRoot() *Context {
	g, _ := c.seekGroup(&Context{c: c}, rootTag)
	c.saveGroup(g)
	c.resetDeps(g)
	c.resetHooks(g)
	g.state = stateEvaluating
	g.evalGen = c.gen + 1
	c.tab.EnterGroup()
	c.cur = g
	return &Context{c: c, grp: g, seq: c.passSeq}
}

func (c *Cache) finishRoot(cx *Context) {
	g := cx.grp
	c.cur = nil
	c.noteDrained(c.tab.EndGroup())
	// The root group spans the whole table, so nothing can be left after
	// it and no group can still be open.
	c.noteDrained(must.OK1(c.tab.Finish()))
	g.state = stateCached
	g.staleBelow = false
}
