package comp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDump(t *testing.T) {
	c := New()
	defer c.Close()

	mustRun(t, c, func(cx *Context) int {
		Group(cx, "a", func(cx *Context) int { return 1 })
		return GroupKeyed(cx, "b", 7, func(cx *Context) int { return 2 })
	})

	d := c.Dump()
	if d.Tag != "#root" || d.State != "cached" || d.Gen != 1 {
		t.Errorf("root = %+v, want tag #root, state cached, gen 1", d)
	}
	var tags []string
	for _, ch := range d.Children {
		tags = append(tags, ch.Tag)
	}
	if diff := cmp.Diff([]string{"a", "b[7]"}, tags); diff != "" {
		t.Errorf("child tags (-want +got):\n%s", diff)
	}
	wantVals := []DumpValue{{Tag: "#out", Type: "int"}}
	if diff := cmp.Diff(wantVals, d.Children[0].Values); diff != "" {
		t.Errorf("values of a (-want +got):\n%s", diff)
	}
}

func TestDump_BeforeFirstPass(t *testing.T) {
	c := New()
	defer c.Close()
	d := c.Dump()
	if d.Tag != "#root" || d.State != "empty" {
		t.Errorf("Dump of fresh cache = %+v, want empty #root", d)
	}
}

func TestInvalidateByID(t *testing.T) {
	c := New()
	defer c.Close()

	runs := 0
	build := func(cx *Context) int {
		return Group(cx, "a", func(cx *Context) int {
			runs++
			return 1
		})
	}
	mustRun(t, c, build)
	mustRun(t, c, build)
	if runs != 1 {
		t.Fatalf("body ran %d times, want 1", runs)
	}

	id := c.Dump().Children[0].ID
	if !c.Invalidate(id) {
		t.Fatalf("Invalidate(%d) -> false, want true", id)
	}
	mustRun(t, c, build)
	if runs != 2 {
		t.Errorf("body ran %d times after invalidation, want 2", runs)
	}

	if c.Invalidate(1 << 40) {
		t.Errorf("Invalidate of unknown id -> true, want false")
	}
}
