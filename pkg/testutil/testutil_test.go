package testutil

// cleanuper implements Cleanuper by recording callbacks, for running them
// before the test finishes.
type cleanuper struct{ fns []func() }

func (c *cleanuper) Cleanup(fn func()) { c.fns = append(c.fns, fn) }

// runAll runs the recorded callbacks, last first, like testing.TB.Cleanup.
func (c *cleanuper) runAll() {
	for i := len(c.fns) - 1; i >= 0; i-- {
		c.fns[i]()
	}
	c.fns = nil
}
