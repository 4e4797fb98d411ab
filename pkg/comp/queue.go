package comp

// mutation is one queued write: either a cell write or a group
// invalidation. Exactly one of cell and grp is set.
type mutation struct {
	cell  *cellCore
	apply func()
	grp   *group
}

func (m mutation) what() string {
	if m.cell != nil {
		return "cell " + m.cell.site
	}
	return "group " + m.grp.tag.String()
}

// enqueue adds a mutation to the write queue. It is the one entry point for
// all writes and is safe for concurrent use; it inspects nothing but the
// queue, so callers need no other lock.
func (c *Cache) enqueue(m mutation) {
	c.qmu.Lock()
	defer c.qmu.Unlock()
	if c.qclosed {
		logger.Printf("dropped write to closed cache: %s", m.what())
		return
	}
	c.queue = append(c.queue, m)
}

// drain applies every queued write in order. It runs with the run lock
// held, before the walk starts, so the pass sees one consistent snapshot of
// all writes enqueued before it. Drain effects are not journaled: a rollback
// of the pass keeps them, so an invalidation is never lost to a failed
// pass.
func (c *Cache) drain() {
	c.qmu.Lock()
	queue := c.queue
	c.queue = nil
	c.qmu.Unlock()

	for _, m := range queue {
		switch {
		case m.cell != nil:
			if m.cell.dead {
				c.stats.Dropped++
				logger.Printf("dropped write to dead %s", m.what())
				continue
			}
			m.apply()
			c.stats.Writes++
			for g := range m.cell.readers {
				c.markStale(g)
			}
		case m.grp != nil:
			if m.grp.dead {
				c.stats.Dropped++
				logger.Printf("dropped invalidation of dead %s", m.what())
				continue
			}
			c.stats.Writes++
			c.markStale(m.grp)
		}
	}
}

// markStale marks g for re-evaluation and flags the path above it so the
// next pass can reach it. The ancestor walk stops at the first group already
// flagged; everything above that one is flagged too.
func (c *Cache) markStale(g *group) {
	if g.dead {
		return
	}
	g.state = stateStale
	for p := g.parent; p != nil && !p.staleBelow; p = p.parent {
		p.staleBelow = true
	}
}

// Token identifies a group for out-of-band invalidation, for callers that
// depend on inputs the cache cannot see: clocks, files, sockets. It stays
// valid across passes and is safe for concurrent use. Invalidating a group
// that has since been torn down is dropped like any dead write.
type Token struct {
	c *Cache
	g *group
}

// InvalidationToken returns a Token for the innermost group.
func InvalidationToken(cx *Context) Token {
	cx.checkLive("InvalidationToken")
	return Token{c: cx.c, g: cx.grp}
}

// Invalidate enqueues a forced re-evaluation of the token's group. Like any
// write it takes effect at the start of the next pass.
func (t Token) Invalidate() {
	t.c.enqueue(mutation{grp: t.g})
}
