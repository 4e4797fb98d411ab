package seqedit

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss"

	"github.com/weftui/weft/pkg/view"
)

// styles bundles the lipgloss styles for terminal output. Styles without
// properties render text unchanged, so the plain variant works on any
// writer.
type styles struct {
	name   lipgloss.Style
	attr   lipgloss.Style
	text   lipgloss.Style
	status lipgloss.Style
	errs   lipgloss.Style
	levels map[log.Level]lipgloss.Style
}

func newStyles(color bool) styles {
	plain := lipgloss.NewStyle()
	s := styles{
		name: plain, attr: plain, text: plain, status: plain, errs: plain,
		levels: map[log.Level]lipgloss.Style{},
	}
	if !color {
		return s
	}
	s.name = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	s.attr = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	s.text = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	s.status = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Italic(true)
	s.errs = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	s.levels = map[log.Level]lipgloss.Style{
		log.DebugLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		log.InfoLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		log.WarnLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		log.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		log.FatalLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
	return s
}

func (s styles) level(l log.Level) lipgloss.Style {
	if st, ok := s.levels[l]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// renderTree renders the view tree one node per line, indented by depth,
// with attributes in sorted order.
func (s styles) renderTree(n *view.Node) string {
	var sb strings.Builder
	s.renderNode(&sb, n, 0)
	return sb.String()
}

func (s styles) renderNode(sb *strings.Builder, n *view.Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(s.name.Render(n.Name))
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		sb.WriteString(" " + s.attr.Render(k+"="+n.Attrs[k]))
	}
	if n.Text != "" {
		sb.WriteString(" " + s.text.Render(fmt.Sprintf("%q", n.Text)))
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		s.renderNode(sb, c, depth+1)
	}
}

// logHandler is an apex/log handler writing one compact styled line per
// entry, with fields in sorted order.
type logHandler struct {
	mu  sync.Mutex
	out io.Writer
	sty styles
}

func (h *logHandler) HandleLog(e *log.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	var sb strings.Builder
	sb.WriteString(h.sty.level(e.Level).Render(strings.ToUpper(e.Level.String())))
	sb.WriteString(" ")
	sb.WriteString(e.Message)
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&sb, " %s=%v", h.sty.attr.Render(name), e.Fields.Get(name))
	}
	_, err := fmt.Fprintln(h.out, sb.String())
	return err
}
