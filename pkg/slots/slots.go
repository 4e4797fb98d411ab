// Package slots implements the slot table underlying the incremental build
// cache: a flat, ordered sequence of entries mirroring the call structure of
// the last build pass.
//
// Entries come in four kinds. A group start and a matching group end bracket
// everything written while one decision point of the build was active; groups
// nest, and the start entry records the length of the whole bracket, so
// skipping a group is a single cursor addition. A tag entry names the call
// site that produced the value entry immediately after it.
//
// A pass replays the build against the table through a cursor that only moves
// forward. When the next entries match what the build is doing, they are
// reused in place; when the build diverges, the table is edited at the
// cursor. Lookahead within the current group can rotate an existing sibling
// span to the cursor instead of rebuilding it, which preserves identity when
// children reorder.
//
// All edits go through a journal. Abandoning a pass with Rollback undoes
// them, restoring the table exactly; Commit clears the journal. Entries
// removed by EndGroup or Finish are reported to the caller, which owns
// whatever teardown their payloads need.
//
// A Table is not safe for concurrent use; the layer above serializes passes.
package slots

import (
	"fmt"
	"strings"
)

// Kind enumerates the kinds of entries in a Table.
type Kind uint8

const (
	// KindGroupStart opens a group and records its extent.
	KindGroupStart Kind = iota
	// KindGroupEnd closes the innermost open group.
	KindGroupEnd
	// KindTag identifies the call site of the value entry after it.
	KindTag
	// KindValue holds one cached payload.
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindGroupStart:
		return "group start"
	case KindGroupEnd:
		return "group end"
	case KindTag:
		return "tag"
	case KindValue:
		return "value"
	default:
		return fmt.Sprintf("bad kind %d", uint8(k))
	}
}

// Tag identifies a call site within its parent group. A positional site
// carries the ordinal of the call among calls to the same site in the group
// during one pass. A keyed site carries a caller-chosen key instead, which
// must be comparable.
type Tag struct {
	Site  string
	Occur int
	Key   any
}

func (t Tag) String() string {
	if t.Key != nil {
		return fmt.Sprintf("%s[%v]", t.Site, t.Key)
	}
	if t.Occur > 0 {
		return fmt.Sprintf("%s#%d", t.Site, t.Occur)
	}
	return t.Site
}

// entry is one slot of the table. The fields used depend on the kind: tag is
// set for group starts and tag entries, span for group starts, data for group
// starts and values.
type entry struct {
	kind Kind
	tag  Tag
	span int
	data any
}

// Entry is a read-only view of one table entry, as returned by Entries,
// EndGroup and Finish.
type Entry struct {
	Kind Kind
	Tag  Tag
	Span int
	Data any
}

func viewOf(e entry) Entry {
	return Entry{Kind: e.kind, Tag: e.tag, Span: e.span, Data: e.data}
}

// Table is a slot table. The zero value is an empty table ready for its
// first pass.
type Table struct {
	entries []entry
	cur     int
	open    []int // indexes of open group starts, innermost last
	journal []journalOp
}

// New returns a new empty Table.
func New() *Table {
	return &Table{}
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Cursor returns the current cursor position.
func (t *Table) Cursor() int {
	return t.cur
}

// Depth returns the number of open groups.
func (t *Table) Depth() int {
	return len(t.open)
}

// Entries returns a view of all entries, for inspection.
func (t *Table) Entries() []Entry {
	views := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		views[i] = viewOf(e)
	}
	return views
}

// String renders the table with one entry per line, indented by group depth.
// It is meant for debugging and test failure messages.
func (t *Table) String() string {
	var sb strings.Builder
	depth := 0
	for i, e := range t.entries {
		if e.kind == KindGroupEnd {
			depth--
		}
		fmt.Fprintf(&sb, "%3d %s%s", i, strings.Repeat("  ", depth), e.kind)
		switch e.kind {
		case KindGroupStart:
			fmt.Fprintf(&sb, " %s span=%d", e.tag, e.span)
			depth++
		case KindTag:
			fmt.Fprintf(&sb, " %s", e.tag)
		case KindValue:
			fmt.Fprintf(&sb, " %v", e.data)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
