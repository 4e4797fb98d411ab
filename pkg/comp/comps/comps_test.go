package comps_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/weftui/weft/pkg/comp"
	"github.com/weftui/weft/pkg/comp/comps"
	"github.com/weftui/weft/pkg/comp/comptest"
	"github.com/weftui/weft/pkg/view"
)

func TestLabel_RebuildsOnlyOnTextChange(t *testing.T) {
	f := comptest.New(t)
	text := "hello"
	build := func(cx *comp.Context) *view.Node {
		return comps.Label(cx, "l", "<%s>", text)
	}
	n1 := comptest.Run(f, build)
	if n1.Text != "<hello>" {
		t.Fatalf("pass 1 text = %q, want %q", n1.Text, "<hello>")
	}
	n2 := comptest.Run(f, build)
	if n1 != n2 {
		t.Errorf("unchanged label was rebuilt (distinct nodes)")
	}
	text = "bye"
	n3 := comptest.Run(f, build)
	if n3 == n2 {
		t.Errorf("changed label was not rebuilt")
	}
	if n3.Text != "<bye>" {
		t.Errorf("pass 3 text = %q, want %q", n3.Text, "<bye>")
	}
}

func TestCounter(t *testing.T) {
	f := comptest.New(t)
	build := func(cx *comp.Context) comps.CounterOut {
		return comps.Counter(cx, "c")
	}
	out := comptest.Run(f, build)
	if out.Node.Text != "0" {
		t.Fatalf("initial counter = %q, want %q", out.Node.Text, "0")
	}

	// Bumps queue up and land together on the next pass.
	out.Bump()
	out.Bump()
	out = comptest.Run(f, build)
	if out.Node.Text != "2" {
		t.Errorf("counter after two bumps = %q, want %q", out.Node.Text, "2")
	}

	// The handle returned by a skipped pass still works.
	comptest.Run(f, build)
	out.Bump()
	out = comptest.Run(f, build)
	if out.Node.Text != "3" {
		t.Errorf("counter after third bump = %q, want %q", out.Node.Text, "3")
	}
}

func TestForEachKeyed(t *testing.T) {
	f := comptest.New(t)
	keys := []string{"a", "b", "c"}
	data := map[string]int{"a": 1, "b": 2, "c": 3}
	build := func(cx *comp.Context) []string {
		return comps.ForEachKeyed(cx, "it", keys,
			func(k string) int { return data[k] },
			func(cx *comp.Context, k string, v int) string {
				f.Log(k)
				return fmt.Sprintf("%s%d", k, v)
			})
	}

	got := comptest.Run(f, build)
	if diff := cmp.Diff([]string{"a1", "b2", "c3"}, got); diff != "" {
		t.Fatalf("pass 1 (-want +got):\n%s", diff)
	}
	f.CheckLog("a", "b", "c")

	// One item's data changes: only that child runs.
	data["b"] = 20
	got = comptest.Run(f, build)
	if diff := cmp.Diff([]string{"a1", "b20", "c3"}, got); diff != "" {
		t.Errorf("pass 2 (-want +got):\n%s", diff)
	}
	f.CheckLog("b")
	f.CheckCounts(1, 0, 2, 0)

	// Reorder and shrink: survivors skip in their new order, the removed
	// child is torn down.
	keys = []string{"c", "a"}
	got = comptest.Run(f, build)
	if diff := cmp.Diff([]string{"c3", "a1"}, got); diff != "" {
		t.Errorf("pass 3 (-want +got):\n%s", diff)
	}
	f.CheckLog()
	f.CheckCounts(0, 0, 2, 1)
}

func TestRow(t *testing.T) {
	got := view.Sprint(comps.Row("k1", view.T("label", "x")))
	want := "row key=k1\n  label \"x\"\n"
	if got != want {
		t.Errorf("Sprint -> %q, want %q", got, want)
	}
}
