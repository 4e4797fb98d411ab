package comp

import (
	"fmt"
	"sync"

	"github.com/weftui/weft/pkg/errutil"
	"github.com/weftui/weft/pkg/logutil"
	"github.com/weftui/weft/pkg/slots"
)

var logger = logutil.GetLogger("[comp] ")

// Reserved tags for the cache's own slots inside each group.
var (
	rootTag = slots.Tag{Site: "#root"}
	argsTag = slots.Tag{Site: "#args"}
	outTag  = slots.Tag{Site: "#out"}
)

// Cache owns a slot table and everything needed to replay build passes
// against it. Create one with New, build with [Run], and release it with
// Close. Methods on Cache are safe for concurrent use; they serialize with
// running passes.
type Cache struct {
	// runMu is held for the duration of a pass, and by the methods that
	// inspect or release the cache.
	runMu sync.Mutex

	tab    *slots.Table
	groups map[uint64]*group
	nextID uint64
	// gen counts committed passes. A pass that rolls back does not bump it.
	gen     uint64
	passSeq uint64
	closed  bool

	qmu     sync.Mutex
	queue   []mutation
	qclosed bool

	// Pass-local fields, only touched between the start and the end of a
	// pass, on the pass goroutine.
	cur     *group
	undo    []func()
	drained [][]slots.Entry
	stats   Stats
	last    Stats
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{tab: slots.New(), groups: make(map[uint64]*group)}
}

// Gen returns the number of committed passes.
func (c *Cache) Gen() uint64 {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	return c.gen
}

// LastStats returns the statistics of the last committed pass.
func (c *Cache) LastStats() Stats {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	return c.last
}

// Close tears down every live group, deepest first, running their cleanup
// hooks, and marks the cache closed. Further passes fail with ClosedError;
// writes through surviving Setters and Tokens are dropped. Close returns the
// collected errors of hooks that panicked, and is idempotent.
func (c *Cache) Close() error {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.qmu.Lock()
	c.qclosed = true
	c.queue = nil
	c.qmu.Unlock()
	c.drained = [][]slots.Entry{c.tab.Entries()}
	err := c.runTeardowns()
	c.drained = nil
	c.tab = slots.New()
	c.groups = make(map[uint64]*group)
	return err
}

// seekGroup finds or creates the group for tag at the cursor, leaving the
// cursor at its start entry.
func (c *Cache) seekGroup(cx *Context, tag slots.Tag) (*group, bool) {
	if c.tab.SeekGroup(tag) {
		return c.tab.GroupData().(*group), true
	}
	g := c.newGroup(tag, cx.grp)
	c.tab.SetGroupData(g)
	return g, false
}

func (c *Cache) newGroup(tag slots.Tag, parent *group) *group {
	c.nextID++
	id := c.nextID
	g := &group{id: id, tag: tag, parent: parent, state: stateFresh}
	c.groups[id] = g
	c.pushUndo(func() {
		delete(c.groups, id)
		g.dead = true
	})
	return g
}

// pushUndo records how to revert one pass-local mutation. The undo stack
// runs in reverse on abort and is discarded on commit.
func (c *Cache) pushUndo(f func()) {
	c.undo = append(c.undo, f)
}

func (c *Cache) saveGroup(g *group) {
	state, staleBelow, evalGen := g.state, g.staleBelow, g.evalGen
	c.pushUndo(func() {
		g.state, g.staleBelow, g.evalGen = state, staleBelow, evalGen
	})
}

// resetDeps disconnects a group from the cells its last body run read; the
// re-run registers the current reads afresh.
func (c *Cache) resetDeps(g *group) {
	if len(g.deps) == 0 {
		return
	}
	old := g.deps
	for _, cc := range old {
		delete(cc.readers, g)
	}
	g.deps = nil
	c.pushUndo(func() {
		g.deps = old
		for _, cc := range old {
			cc.readers[g] = struct{}{}
		}
	})
}

func (c *Cache) resetHooks(g *group) {
	if len(g.hooks) == 0 {
		return
	}
	old := g.hooks
	g.hooks = nil
	c.pushUndo(func() { g.hooks = old })
}

// addDep records that the innermost group read the given cell.
func (c *Cache) addDep(cc *cellCore) {
	g := c.cur
	if g == nil {
		return
	}
	if _, ok := cc.readers[g]; ok {
		return
	}
	cc.readers[g] = struct{}{}
	g.deps = append(g.deps, cc)
	c.pushUndo(func() {
		delete(cc.readers, g)
		g.deps = g.deps[:len(g.deps)-1]
	})
}

func (c *Cache) noteDrained(span []slots.Entry) {
	if len(span) > 0 {
		c.drained = append(c.drained, span)
	}
}

// abort rolls the pass back: registry and flag mutations undone in reverse,
// then the table itself. Entries drained during the pass are restored by the
// table rollback, so no teardown runs. Mutations applied by the pre-pass
// drain stay applied; the staleness they caused is simply served by the next
// pass.
func (c *Cache) abort() {
	for i := len(c.undo) - 1; i >= 0; i-- {
		c.undo[i]()
	}
	c.undo = nil
	c.drained = nil
	c.tab.Rollback()
	c.cur = nil
}

// commit finalizes a pass that walked to the end: stale entries torn down,
// the generation bumped, the journal cleared. The returned error collects
// teardown hooks that panicked; the commit itself stands regardless.
func (c *Cache) commit() error {
	err := c.runTeardowns()
	c.drained = nil
	c.undo = nil
	c.gen++
	c.stats.Entries = c.tab.Len()
	c.last = c.stats
	c.tab.Commit()
	return err
}

// runTeardowns releases everything in the drained spans. Iterating each span
// backwards visits group starts children-first, which gives hooks the
// child-before-parent order.
func (c *Cache) runTeardowns() error {
	var errs []error
	for _, span := range c.drained {
		for i := len(span) - 1; i >= 0; i-- {
			e := span[i]
			switch e.Kind {
			case slots.KindGroupStart:
				if g, ok := e.Data.(*group); ok {
					errs = append(errs, c.teardownGroup(g))
				}
			case slots.KindValue:
				if cv, ok := e.Data.(cellValue); ok {
					cv.core().dead = true
				}
			}
		}
	}
	return errutil.Multi(errs...)
}

func (c *Cache) teardownGroup(g *group) error {
	if g.dead {
		return nil
	}
	g.dead = true
	delete(c.groups, g.id)
	for _, cc := range g.deps {
		delete(cc.readers, g)
	}
	g.deps = nil
	var errs []error
	for i := len(g.hooks) - 1; i >= 0; i-- {
		if err := runHook(g.hooks[i]); err != nil {
			errs = append(errs, err)
			logger.Printf("teardown hook of %s: %v", g.tag, err)
		}
	}
	g.hooks = nil
	c.stats.TornDown++
	return errutil.Multi(errs...)
}

func runHook(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = &hookPanicError{r}
			}
		}
	}()
	f()
	return nil
}

type hookPanicError struct{ reason any }

func (e *hookPanicError) Error() string {
	return fmt.Sprintf("teardown hook panicked: %v", e.reason)
}
