package slots

// The journal records every structural edit of a pass, so that an abandoned
// pass can be undone without committing a half-rebuilt table. Operations are
// appended in the order they happen and undone in reverse; each undo restores
// exactly the state its operation saw, so saved indexes stay valid.

type opKind uint8

const (
	opInsert opKind = iota
	opRemove
	opOverwrite
	opRotate
)

type journalOp struct {
	kind  opKind
	at    int
	n     int     // opInsert: entry count; opRotate: left-rotation amount
	end   int     // opRotate: window end
	saved []entry // opRemove: removed entries; opOverwrite: the old entry
}

func (t *Table) recordInsert(at, n int) {
	t.journal = append(t.journal, journalOp{kind: opInsert, at: at, n: n})
}

func (t *Table) recordRemove(at int, removed []entry) {
	t.journal = append(t.journal, journalOp{kind: opRemove, at: at, saved: removed})
}

func (t *Table) recordOverwrite(at int) {
	t.journal = append(t.journal, journalOp{kind: opOverwrite, at: at, saved: []entry{t.entries[at]}})
}

func (t *Table) recordRotate(at, end, n int) {
	t.journal = append(t.journal, journalOp{kind: opRotate, at: at, end: end, n: n})
}

// Commit ends the pass, keeping its edits: the journal is cleared and the
// cursor rewound for the next pass.
func (t *Table) Commit() {
	t.journal = nil
	t.cur = 0
}

// Rollback abandons the pass: all edits since the last Commit or Rollback are
// undone in reverse order, and the cursor is rewound. The table is left as it
// was before the pass, so the cache keeps serving its last committed content.
func (t *Table) Rollback() {
	for i := len(t.journal) - 1; i >= 0; i-- {
		op := t.journal[i]
		switch op.kind {
		case opInsert:
			t.entries = append(t.entries[:op.at], t.entries[op.at+op.n:]...)
		case opRemove:
			t.insertRaw(op.at, op.saved)
		case opOverwrite:
			t.entries[op.at] = op.saved[0]
		case opRotate:
			// Undo a left rotation by k with a left rotation by size-k.
			rotateLeft(t.entries[op.at:op.end], (op.end-op.at)-op.n)
		}
	}
	t.journal = nil
	t.open = nil
	t.cur = 0
}

// insertRaw splices entries without recording a journal entry.
func (t *Table) insertRaw(at int, es []entry) {
	t.entries = append(t.entries, es...)
	copy(t.entries[at+len(es):], t.entries[at:])
	copy(t.entries[at:], es)
}
