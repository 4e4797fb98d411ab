// Package view defines the result tree that build passes produce.
//
// The cache core is agnostic to what passes return; this package is the
// vocabulary used by this repository's components, demos and tests. It
// carries no layout or styling semantics of its own; a host renderer decides
// what the names and attributes mean.
package view

import (
	"fmt"
	"slices"
	"strings"
)

// Node is one node of a result tree.
type Node struct {
	Name     string
	Text     string
	Attrs    map[string]string
	Children []*Node
}

// N returns a node with the given name and children.
func N(name string, children ...*Node) *Node {
	return &Node{Name: name, Children: children}
}

// T returns a leaf node with the given name and text.
func T(name, text string) *Node {
	return &Node{Name: name, Text: text}
}

// WithAttr sets an attribute and returns the node itself.
func (n *Node) WithAttr(k, v string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[k] = v
	return n
}

// Append adds children and returns the node itself.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Sprint renders the tree one node per line, indented by depth, with
// attributes in sorted order. The output is stable, for tests and debugging.
func Sprint(n *Node) string {
	var sb strings.Builder
	sprint(&sb, n, 0)
	return sb.String()
}

func sprint(sb *strings.Builder, n *Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Name)
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, " %s=%s", k, n.Attrs[k])
	}
	if n.Text != "" {
		fmt.Fprintf(sb, " %q", n.Text)
	}
	sb.WriteByte('\n')
	for _, c := range n.Children {
		sprint(sb, c, depth+1)
	}
}

// Walk calls f on n and then on its descendants, depth-first in document
// order. Children of a node are not visited when f returns false for it.
func Walk(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, f)
	}
}
