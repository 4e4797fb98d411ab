package slots

// SeekGroup positions the cursor at a group with the given tag, creating an
// empty one if necessary, and reports whether the group already existed.
// After the call the cursor is at the group's start entry; the caller decides
// between EnterGroup and SkipGroup.
//
// The search covers the remainder of the current group, hopping over whole
// child spans, so a match further ahead is found without visiting what it
// contains. A match is rotated to the cursor together with its span; the
// siblings hopped over shift behind it, preserving their own spans.
func (t *Table) SeekGroup(tag Tag) bool {
	if i, ok := t.find(KindGroupStart, tag); ok {
		t.rotateToCursor(i, i+t.entries[i].span)
		return true
	}
	t.insert(t.cur,
		entry{kind: KindGroupStart, tag: tag, span: 2},
		entry{kind: KindGroupEnd})
	return false
}

// EnterGroup moves the cursor into the group at the cursor, so that
// subsequent operations address its children. It returns the group's data.
func (t *Table) EnterGroup() any {
	e := t.mustKind("EnterGroup", KindGroupStart)
	t.open = append(t.open, t.cur)
	t.cur++
	return e.data
}

// GroupData returns the data of the group start entry at the cursor.
func (t *Table) GroupData() any {
	return t.mustKind("GroupData", KindGroupStart).data
}

// SetGroupData sets the data of the group start entry at the cursor.
func (t *Table) SetGroupData(data any) {
	t.mustKind("SetGroupData", KindGroupStart)
	t.recordOverwrite(t.cur)
	t.entries[t.cur].data = data
}

// GroupSpan returns the recorded span of the group start entry at the cursor.
func (t *Table) GroupSpan() int {
	return t.mustKind("GroupSpan", KindGroupStart).span
}

// SkipGroup jumps the cursor past the group at the cursor without visiting
// its children. The cost does not depend on the size of the group.
func (t *Table) SkipGroup() {
	e := t.mustKind("SkipGroup", KindGroupStart)
	t.cur += e.span
}

// SkipToGroupEnd moves the cursor to the end entry of the innermost open
// group, hopping over whole child spans, so that a following EndGroup drains
// nothing.
func (t *Table) SkipToGroupEnd() {
	t.mustOpen("SkipToGroupEnd")
	t.cur = t.findGroupEnd()
}

// EndGroup closes the innermost open group. Entries between the cursor and
// the group's end entry were not visited this pass; they are removed from the
// table and returned, so the caller can release whatever their payloads held.
// The group's recorded span is updated to its new extent.
func (t *Table) EndGroup() []Entry {
	t.mustOpen("EndGroup")
	dropped := t.remove(t.cur, t.findGroupEnd())
	start := t.open[len(t.open)-1]
	t.open = t.open[:len(t.open)-1]
	if span := t.cur - start + 1; t.entries[start].span != span {
		t.recordOverwrite(start)
		t.entries[start].span = span
	}
	t.cur++
	return dropped
}

// SeekValue positions the cursor after a tagged value entry, creating an
// empty one if necessary, and reports the entry's index and whether it
// already existed. The index stays valid for ValueAt and SetValueAt for the
// rest of the pass. The search and rotation behave like SeekGroup's.
func (t *Table) SeekValue(tag Tag) (int, bool) {
	if i, ok := t.find(KindTag, tag); ok {
		t.rotateToCursor(i, i+2)
		t.cur += 2
		return t.cur - 1, true
	}
	t.insert(t.cur, entry{kind: KindTag, tag: tag}, entry{kind: KindValue})
	t.cur += 2
	return t.cur - 1, false
}

// ValueAt returns the payload of the value entry at index i.
func (t *Table) ValueAt(i int) any {
	return t.mustKindAt("ValueAt", i, KindValue).data
}

// SetValueAt replaces the payload of the value entry at index i.
func (t *Table) SetValueAt(i int, v any) {
	t.mustKindAt("SetValueAt", i, KindValue)
	t.recordOverwrite(i)
	t.entries[i].data = v
}

// PeekValue returns the payload of the value entry at the given offset from
// the cursor without moving the cursor. The entry before it must be a tag
// entry matching wantTag; reading through a mismatched tag means the table no
// longer has the layout the caller baked in, which is not recoverable.
func (t *Table) PeekValue(off int, wantTag Tag) any {
	i := t.cur + off
	tagEntry := t.mustKindAt("PeekValue", i-1, KindTag)
	if tagEntry.tag != wantTag {
		panic(TagMismatch{At: i - 1, Want: wantTag, Got: tagEntry.tag})
	}
	return t.mustKindAt("PeekValue", i, KindValue).data
}

// Finish ends the walk of a pass. Entries after the cursor correspond to
// top-level work that did not recur this pass; they are removed and returned
// like EndGroup's drain. Finishing with open groups is an error, and leaves
// the table unchanged.
func (t *Table) Finish() ([]Entry, error) {
	if len(t.open) > 0 {
		start := t.open[len(t.open)-1]
		return nil, UnterminatedGroup{Tag: t.entries[start].tag}
	}
	return t.remove(t.cur, len(t.entries)), nil
}

// find searches for an entry of the given kind with the given tag, from the
// cursor to the end of the current group. Closed sibling spans are hopped
// over whole; the scan never descends into them.
func (t *Table) find(kind Kind, tag Tag) (int, bool) {
	i := t.cur
	for i < len(t.entries) {
		e := &t.entries[i]
		switch e.kind {
		case KindGroupStart:
			if kind == KindGroupStart && e.tag == tag {
				return i, true
			}
			i += e.span
		case KindTag:
			if kind == KindTag && e.tag == tag {
				return i, true
			}
			i += 2
		case KindGroupEnd:
			// End of the current group.
			return 0, false
		default:
			panic(BadCursor{Op: "find", At: i, Want: KindTag, Got: e.kind.String()})
		}
	}
	return 0, false
}

// findGroupEnd returns the index of the end entry of the innermost open
// group, hopping over whole child spans.
func (t *Table) findGroupEnd() int {
	i := t.cur
	for i < len(t.entries) {
		e := &t.entries[i]
		switch e.kind {
		case KindGroupStart:
			i += e.span
		case KindTag:
			i += 2
		case KindGroupEnd:
			return i
		default:
			panic(BadCursor{Op: "findGroupEnd", At: i, Want: KindGroupEnd, Got: e.kind.String()})
		}
	}
	start := t.open[len(t.open)-1]
	panic(UnterminatedGroup{Tag: t.entries[start].tag})
}

// rotateToCursor rotates the window from the cursor to end so that the span
// starting at start lands at the cursor.
func (t *Table) rotateToCursor(start, end int) {
	if start == t.cur {
		return
	}
	k := start - t.cur
	t.recordRotate(t.cur, end, k)
	rotateLeft(t.entries[t.cur:end], k)
}

func rotateLeft(s []entry, k int) {
	reverse(s[:k])
	reverse(s[k:])
	reverse(s)
}

func reverse(s []entry) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// insert splices entries into the table at index at.
func (t *Table) insert(at int, es ...entry) {
	t.recordInsert(at, len(es))
	t.insertRaw(at, es)
}

// remove deletes entries[from:to] and returns views of them.
func (t *Table) remove(from, to int) []Entry {
	if from == to {
		return nil
	}
	raw := make([]entry, to-from)
	copy(raw, t.entries[from:to])
	t.recordRemove(from, raw)
	t.entries = append(t.entries[:from], t.entries[to:]...)
	views := make([]Entry, len(raw))
	for i, e := range raw {
		views[i] = viewOf(e)
	}
	return views
}

func (t *Table) mustKind(op string, want Kind) *entry {
	return t.mustKindAt(op, t.cur, want)
}

func (t *Table) mustKindAt(op string, i int, want Kind) *entry {
	if i < 0 || i >= len(t.entries) {
		panic(BadCursor{Op: op, At: i, Want: want, Got: "no entry"})
	}
	if e := &t.entries[i]; e.kind == want {
		return e
	}
	panic(BadCursor{Op: op, At: i, Want: want, Got: t.entries[i].kind.String()})
}

func (t *Table) mustOpen(op string) {
	if len(t.open) == 0 {
		panic(BadCursor{Op: op, At: t.cur, Want: KindGroupEnd, Got: "no open group"})
	}
}
