package comp

import (
	"fmt"

	"github.com/weftui/weft/pkg/slots"
)

// DumpNode is one group in a structure dump, with its value slots and child
// groups in table order.
type DumpNode struct {
	ID         uint64      `json:"id"`
	Tag        string      `json:"tag"`
	State      string      `json:"state"`
	Gen        uint64      `json:"gen"`
	StaleBelow bool        `json:"staleBelow,omitempty"`
	Deps       int         `json:"deps,omitempty"`
	Hooks      int         `json:"hooks,omitempty"`
	Values     []DumpValue `json:"values,omitempty"`
	Children   []*DumpNode `json:"children,omitempty"`
}

// DumpValue is one tagged value slot in a structure dump.
type DumpValue struct {
	Tag  string `json:"tag"`
	Type string `json:"type"`
}

// Dump returns the cached structure as of the last committed pass, rooted
// at the implicit root group. It blocks while a pass is running.
func (c *Cache) Dump() *DumpNode {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	var root *DumpNode
	var stack []*DumpNode
	var pendingTag string
	for _, e := range c.tab.Entries() {
		switch e.Kind {
		case slots.KindGroupStart:
			n := &DumpNode{Tag: e.Tag.String()}
			if g, ok := e.Data.(*group); ok {
				n.ID = g.id
				n.State = g.state.String()
				n.Gen = g.evalGen
				n.StaleBelow = g.staleBelow
				n.Deps = len(g.deps)
				n.Hooks = len(g.hooks)
			}
			if len(stack) == 0 {
				root = n
			} else {
				p := stack[len(stack)-1]
				p.Children = append(p.Children, n)
			}
			stack = append(stack, n)
		case slots.KindGroupEnd:
			stack = stack[:len(stack)-1]
		case slots.KindTag:
			pendingTag = e.Tag.String()
		case slots.KindValue:
			if len(stack) > 0 {
				p := stack[len(stack)-1]
				p.Values = append(p.Values,
					DumpValue{Tag: pendingTag, Type: fmt.Sprintf("%T", e.Data)})
			}
		}
	}
	if root == nil {
		// No pass has committed yet.
		root = &DumpNode{Tag: rootTag.String(), State: "empty"}
	}
	return root
}

// Invalidate enqueues a forced re-evaluation of the group with the given
// id, as reported by [Cache.Dump]. It reports whether the id named a live
// group.
func (c *Cache) Invalidate(id uint64) bool {
	c.runMu.Lock()
	g, ok := c.groups[id]
	c.runMu.Unlock()
	if !ok {
		return false
	}
	c.enqueue(mutation{grp: g})
	return true
}
