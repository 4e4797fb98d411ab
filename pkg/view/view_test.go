package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/weftui/weft/pkg/tt"
)

func TestSprint(t *testing.T) {
	tt.Test(t, tt.Fn("Sprint", Sprint), tt.Table{
		tt.Args(T("label", "hi")).Rets("label \"hi\"\n"),
		tt.Args(N("list",
			T("row", "A").WithAttr("key", "A"),
			T("row", "B").WithAttr("key", "B").WithAttr("sel", "1"),
		)).Rets(
			"list\n" +
				"  row key=A \"A\"\n" +
				"  row key=B sel=1 \"B\"\n"),
		tt.Args(N("empty")).Rets("empty\n"),
	})
}

func TestWalk(t *testing.T) {
	tree := N("root",
		N("a", T("a1", ""), T("a2", "")),
		N("skip", T("s1", "")),
		T("b", ""))

	var visited []string
	Walk(tree, func(n *Node) bool {
		visited = append(visited, n.Name)
		return n.Name != "skip"
	})
	want := []string{"root", "a", "a1", "a2", "skip", "b"}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Errorf("visited (-want +got):\n%s", diff)
	}
}

func TestWalk_NilNode(t *testing.T) {
	Walk(nil, func(*Node) bool {
		t.Error("f called for nil node")
		return true
	})
}
