package comp

// cellCore is the type-independent part of a state cell: its identity, the
// groups subscribed to it, and whether it has been torn down.
type cellCore struct {
	site    string
	readers map[*group]struct{}
	dead    bool
}

type cell[T any] struct {
	cellCore
	val T
}

func (c *cell[T]) core() *cellCore { return &c.cellCore }

// cellValue is the view of a cell[T] that the teardown walk needs, which
// does not depend on the type parameter.
type cellValue interface{ core() *cellCore }

// State declares a state cell at site in the current group and returns a
// pass-scoped handle to it. The init function runs only when the cell is
// created; on every later pass the cell keeps the value it last held, even
// when the declaring body re-runs. The cell is torn down with its group.
//
// If the stored type at the site changes between passes, the old cell is
// discarded with a log line and init runs again, as if the site were new.
func State[T any](cx *Context, site string, init func() T) Var[T] {
	c := cx.c
	tag := cx.nextTag(site)
	idx, existed := c.tab.SeekValue(tag)
	if existed {
		if cl, ok := c.tab.ValueAt(idx).(*cell[T]); ok {
			return Var[T]{c: c, cl: cl, seq: c.passSeq}
		}
		old := c.tab.ValueAt(idx).(cellValue).core()
		logger.Printf("state %s: stored type changed, discarding old value", tag)
		c.retireCell(old)
	}
	cl := &cell[T]{
		cellCore: cellCore{site: tag.String(), readers: make(map[*group]struct{})},
		val:      init(),
	}
	c.tab.SetValueAt(idx, cl)
	c.pushUndo(func() { cl.dead = true })
	return Var[T]{c: c, cl: cl, seq: c.passSeq}
}

func (c *Cache) retireCell(cc *cellCore) {
	cc.dead = true
	c.pushUndo(func() { cc.dead = false })
}

// Var is a pass-scoped handle to a state cell. The zero Var is invalid. Use
// [Var.Setter] to write to the cell from outside the pass.
type Var[T any] struct {
	c   *Cache
	cl  *cell[T]
	seq uint64
}

// Get returns the cell's current value and subscribes the innermost group
// to the cell, so that a write to it re-runs that group.
func (v Var[T]) Get() T {
	v.check("Var.Get")
	v.c.addDep(&v.cl.cellCore)
	return v.cl.val
}

// Set enqueues a write of val to the cell. The write is not visible to the
// running pass; the next pass applies it first and re-runs the cell's
// readers.
func (v Var[T]) Set(val T) {
	v.check("Var.Set")
	cl := v.cl
	v.c.enqueue(mutation{cell: &cl.cellCore, apply: func() { cl.val = val }})
}

// Setter returns a write-only handle to the cell that stays valid across
// passes.
func (v Var[T]) Setter() Setter[T] {
	v.check("Var.Setter")
	return Setter[T]{c: v.c, cl: v.cl}
}

func (v Var[T]) check(op string) {
	if v.c == nil || v.seq != v.c.passSeq || v.c.cur == nil {
		panic(StaleHandleError{Op: op})
	}
}

// Setter writes to a state cell from outside the pass that declared it: an
// event callback, a timer, another goroutine. Writes are queued and applied
// at the start of the next pass. Writes to a cell that has since been torn
// down, or whose cache was closed, are dropped with a log line.
type Setter[T any] struct {
	c  *Cache
	cl *cell[T]
}

// Set enqueues a write of val to the cell. Safe for concurrent use.
func (s Setter[T]) Set(val T) {
	cl := s.cl
	s.c.enqueue(mutation{cell: &cl.cellCore, apply: func() { cl.val = val }})
}

// Update enqueues a read-modify-write: f receives the value the cell holds
// when the queue drains, after any writes queued before this one. Use it
// when the new value depends on the old one, where a Set of a captured
// value would lose writes queued in between.
func (s Setter[T]) Update(f func(T) T) {
	cl := s.cl
	s.c.enqueue(mutation{cell: &cl.cellCore, apply: func() { cl.val = f(cl.val) }})
}
