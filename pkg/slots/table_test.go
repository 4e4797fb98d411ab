package slots

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	rootTag = Tag{Site: "root"}
	cellTag = Tag{Site: "cell"}
)

func rowTag(k int) Tag { return Tag{Site: "row", Key: k} }

// visitRows replays a pass that builds one keyed group per key under a root
// group, with one value slot per row holding key*10. It returns the keys
// whose groups already existed.
func visitRows(t *Table, keys ...int) []int {
	var reused []int
	t.SeekGroup(rootTag)
	t.EnterGroup()
	for _, k := range keys {
		if t.SeekGroup(rowTag(k)) {
			reused = append(reused, k)
		}
		t.EnterGroup()
		i, found := t.SeekValue(cellTag)
		if !found {
			t.SetValueAt(i, k*10)
		}
		t.EndGroup()
	}
	t.EndGroup()
	return reused
}

func finishPass(t *testing.T, tab *Table) []Entry {
	t.Helper()
	dropped, err := tab.Finish()
	if err != nil {
		t.Fatalf("Finish() -> error %v, want nil", err)
	}
	tab.Commit()
	return dropped
}

func TestFirstPassBuildsTable(t *testing.T) {
	tab := New()

	found := tab.SeekGroup(rootTag)
	if found {
		t.Errorf("SeekGroup on empty table -> found")
	}
	tab.EnterGroup()
	i, found := tab.SeekValue(cellTag)
	if found {
		t.Errorf("SeekValue on fresh group -> found")
	}
	tab.SetValueAt(i, 7)
	if dropped := tab.EndGroup(); len(dropped) > 0 {
		t.Errorf("EndGroup dropped %d entries, want 0", len(dropped))
	}
	finishPass(t, tab)

	if tab.Len() != 4 {
		t.Errorf("Len() = %d, want 4\n%s", tab.Len(), tab)
	}
	if tab.Cursor() != 0 {
		t.Errorf("Cursor() = %d after Commit, want 0", tab.Cursor())
	}
}

func TestSecondPassReusesSlots(t *testing.T) {
	tab := New()
	visitRows(tab, 1, 2)
	finishPass(t, tab)
	before := tab.Entries()

	reused := visitRows(tab, 1, 2)
	finishPass(t, tab)

	if want := []int{1, 2}; !reflect.DeepEqual(reused, want) {
		t.Errorf("reused groups for %v, want %v", reused, want)
	}
	if diff := cmp.Diff(before, tab.Entries()); diff != "" {
		t.Errorf("table changed across identical passes (-before +after):\n%s", diff)
	}
}

func TestSkipGroupJumpsWholeSpan(t *testing.T) {
	tab := New()
	visitRows(tab, 1, 2, 3)
	finishPass(t, tab)

	tab.SeekGroup(rootTag)
	tab.SkipGroup()
	if tab.Cursor() != tab.Len() {
		t.Errorf("Cursor() = %d after skipping root, want %d", tab.Cursor(), tab.Len())
	}
	finishPass(t, tab)
}

func TestSeekGroup_RotatesKeyedMatchToCursor(t *testing.T) {
	tab := New()
	visitRows(tab, 1, 2, 3)
	finishPass(t, tab)
	before := tab.Len()

	reused := visitRows(tab, 3, 1, 2)
	finishPass(t, tab)

	if want := []int{3, 1, 2}; !reflect.DeepEqual(reused, want) {
		t.Errorf("reused groups for %v, want %v\n%s", reused, want, tab)
	}
	if tab.Len() != before {
		t.Errorf("Len() = %d after reorder, want %d\n%s", tab.Len(), before, tab)
	}
	// Payloads moved with their groups.
	assertRowValues(t, tab, 3, 1, 2)
}

// assertRowValues checks that visiting the keys in the given order reuses
// every group and finds the payload written when the group was built.
func assertRowValues(t *testing.T, tab *Table, keys ...int) {
	t.Helper()
	tab.SeekGroup(rootTag)
	tab.EnterGroup()
	for _, k := range keys {
		if !tab.SeekGroup(rowTag(k)) {
			t.Fatalf("row group %d not found", k)
		}
		tab.EnterGroup()
		i, found := tab.SeekValue(cellTag)
		if !found {
			t.Fatalf("cell value of row %d not found", k)
		}
		if got := tab.ValueAt(i); got != k*10 {
			t.Errorf("row %d holds %v, want %v", k, got, k*10)
		}
		tab.EndGroup()
	}
	tab.EndGroup()
	finishPass(t, tab)
}

func TestEndGroup_DrainsUnvisitedChildren(t *testing.T) {
	tab := New()
	visitRows(tab, 1, 2, 3)
	finishPass(t, tab)

	visitRows(tab, 2)
	dropped, err := tab.Finish()
	if err != nil {
		t.Fatalf("Finish() -> error %v", err)
	}
	tab.Commit()

	if len(dropped) > 0 {
		t.Errorf("Finish dropped %d entries, want 0 (drain happens at EndGroup)", len(dropped))
	}
	// Root still has its bracket pair plus one row of 4 entries.
	if tab.Len() != 6 {
		t.Errorf("Len() = %d after dropping two rows, want 6\n%s", tab.Len(), tab)
	}
	assertRowValues(t, tab, 2)
}

func TestEndGroup_ReportsDroppedEntries(t *testing.T) {
	tab := New()
	visitRows(tab, 1, 2)
	finishPass(t, tab)

	tab.SeekGroup(rootTag)
	tab.EnterGroup()
	tab.SeekGroup(rowTag(2))
	tab.EnterGroup()
	tab.SkipToGroupEnd()
	tab.EndGroup()
	dropped := tab.EndGroup() // drops row 1, rotated behind row 2

	if len(dropped) != 4 {
		t.Fatalf("dropped %d entries, want 4\n%s", len(dropped), tab)
	}
	if dropped[0].Kind != KindGroupStart || dropped[0].Tag != rowTag(1) {
		t.Errorf("dropped[0] = %v, want start of row 1", dropped[0])
	}
	if dropped[2].Kind != KindValue || dropped[2].Data != 10 {
		t.Errorf("dropped[2] = %v, want value 10", dropped[2])
	}
	finishPass(t, tab)
}

func TestSkipToGroupEnd_PreservesContent(t *testing.T) {
	tab := New()
	visitRows(tab, 1, 2)
	finishPass(t, tab)
	before := tab.Entries()

	tab.SeekGroup(rootTag)
	tab.EnterGroup()
	tab.SkipToGroupEnd()
	if dropped := tab.EndGroup(); len(dropped) > 0 {
		t.Errorf("EndGroup after SkipToGroupEnd dropped %d entries, want 0", len(dropped))
	}
	finishPass(t, tab)

	if diff := cmp.Diff(before, tab.Entries()); diff != "" {
		t.Errorf("table changed (-before +after):\n%s", diff)
	}
}

func TestFinish_DropsTopLevelTail(t *testing.T) {
	tab := New()
	tab.SeekGroup(Tag{Site: "a"})
	tab.EnterGroup()
	tab.EndGroup()
	tab.SeekGroup(Tag{Site: "b"})
	tab.EnterGroup()
	tab.EndGroup()
	finishPass(t, tab)

	tab.SeekGroup(Tag{Site: "a"})
	tab.EnterGroup()
	tab.EndGroup()
	dropped := finishPass(t, tab)

	if len(dropped) != 2 {
		t.Fatalf("Finish dropped %d entries, want 2", len(dropped))
	}
	if dropped[0].Tag != (Tag{Site: "b"}) {
		t.Errorf("Finish dropped %v, want group b", dropped[0])
	}
	if tab.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tab.Len())
	}
}

func TestFinish_ErrorsOnOpenGroup(t *testing.T) {
	tab := New()
	tab.SeekGroup(rootTag)
	tab.EnterGroup()

	_, err := tab.Finish()
	if want := (UnterminatedGroup{Tag: rootTag}); err != want {
		t.Errorf("Finish() -> error %v, want %v", err, want)
	}
}

func TestPeekValue(t *testing.T) {
	tab := New()
	visitRows(tab, 1)
	finishPass(t, tab)

	tab.SeekGroup(rootTag)
	tab.EnterGroup()
	tab.SeekGroup(rowTag(1))
	// From the row group start: +1 is the cell tag, +2 the cell value.
	if got := tab.PeekValue(2, cellTag); got != 10 {
		t.Errorf("PeekValue(2, cell) = %v, want 10", got)
	}
	tab.SkipGroup()
	tab.EndGroup()
	finishPass(t, tab)
}

func TestPeekValue_PanicsOnWrongTag(t *testing.T) {
	tab := New()
	visitRows(tab, 1)
	finishPass(t, tab)

	tab.SeekGroup(rootTag)
	tab.EnterGroup()
	tab.SeekGroup(rowTag(1))
	r := recoverFrom(func() { tab.PeekValue(2, Tag{Site: "other"}) })
	want := TagMismatch{At: 2, Want: Tag{Site: "other"}, Got: cellTag}
	if !reflect.DeepEqual(r, want) {
		t.Errorf("panicked with %v, want %v", r, want)
	}
}

func TestBadCursorPanics(t *testing.T) {
	tab := New()
	visitRows(tab, 1)
	finishPass(t, tab)

	// SkipGroup at a value entry.
	tab.SeekGroup(rootTag)
	tab.EnterGroup()
	tab.SeekGroup(rowTag(1))
	tab.EnterGroup()
	r := recoverFrom(func() { tab.SkipGroup() })
	if bc, ok := r.(BadCursor); !ok || bc.Op != "SkipGroup" || bc.Want != KindGroupStart {
		t.Errorf("SkipGroup at tag entry panicked with %v, want BadCursor", r)
	}

	// EndGroup with no open group.
	tab2 := New()
	r = recoverFrom(func() { tab2.EndGroup() })
	if bc, ok := r.(BadCursor); !ok || bc.Op != "EndGroup" {
		t.Errorf("EndGroup with no open group panicked with %v, want BadCursor", r)
	}

	// ValueAt pointing at a non-value entry.
	r = recoverFrom(func() { tab.ValueAt(0) })
	if bc, ok := r.(BadCursor); !ok || bc.Op != "ValueAt" {
		t.Errorf("ValueAt(0) panicked with %v, want BadCursor", r)
	}
}

func recoverFrom(f func()) (r any) {
	defer func() { r = recover() }()
	f()
	return nil
}
