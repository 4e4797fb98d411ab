package seqedit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/weftui/weft/pkg/must"
)

func (a *app) handle(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	cmd, rest := fields[0], fields[1:]
	var err error
	switch cmd {
	case "add":
		err = a.cmdAdd(rest)
	case "set":
		err = a.cmdSet(rest)
	case "del":
		err = a.cmdDel(rest)
	case "mv":
		err = a.cmdMove(rest)
	case "poke":
		err = a.cmdPoke(rest)
	case "show":
		a.redraw(false)
	case "stats":
		fmt.Fprintln(a.out, a.sty.status.Render(a.statusLine()))
	case "dump":
		fmt.Fprintln(a.out, string(must.OK1(json.MarshalIndent(a.cache.Dump(), "", "  "))))
	case "export":
		err = a.cmdExport(rest)
	case "help":
		a.printHelp()
	case "quit", "exit":
		a.lp.Return(nil)
	default:
		err = fmt.Errorf("unknown command %q (try help)", cmd)
	}
	if err != nil {
		a.log.WithError(err).Warn("command failed")
		fmt.Fprintln(a.out, a.sty.errs.Render("error: "+err.Error()))
	}
}

func (a *app) cmdAdd(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: add KEY TEXT...")
	}
	key, text := args[0], strings.Join(args[1:], " ")
	if _, ok := a.findRow(key); ok {
		return fmt.Errorf("row with key %q already exists", key)
	}
	seq, err := a.st.AddRow(key, text)
	if err != nil {
		return err
	}
	if err := a.reload(); err != nil {
		return err
	}
	a.log.WithFields(log.Fields{"key": key, "seq": seq}).Debug("row added")
	fmt.Fprintf(a.out, "added %s (seq %d)\n", key, seq)
	return nil
}

func (a *app) cmdSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set KEY TEXT...")
	}
	key, text := args[0], strings.Join(args[1:], " ")
	r, ok := a.findRow(key)
	if !ok {
		return fmt.Errorf("no row with key %q", key)
	}
	if err := a.st.SetRow(r.Seq, text); err != nil {
		return err
	}
	if err := a.reload(); err != nil {
		return err
	}
	// The key list is unchanged, so the row must be told directly.
	if tok, ok := a.tokens[key]; ok {
		tok.Invalidate()
	}
	a.log.WithFields(log.Fields{"key": key, "seq": r.Seq}).Debug("row updated")
	fmt.Fprintf(a.out, "updated %s\n", key)
	return nil
}

func (a *app) cmdDel(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: del KEY")
	}
	key := args[0]
	r, ok := a.findRow(key)
	if !ok {
		return fmt.Errorf("no row with key %q", key)
	}
	if err := a.st.DelRow(r.Seq); err != nil {
		return err
	}
	if err := a.reload(); err != nil {
		return err
	}
	a.log.WithFields(log.Fields{"key": key, "seq": r.Seq}).Debug("row deleted")
	fmt.Fprintf(a.out, "deleted %s\n", key)
	return nil
}

func (a *app) cmdMove(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: mv KEY DELTA")
	}
	key := args[0]
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad delta %q", args[1])
	}
	r, ok := a.findRow(key)
	if !ok {
		return fmt.Errorf("no row with key %q", key)
	}
	if err := a.st.MoveRow(r.Seq, delta); err != nil {
		return err
	}
	if err := a.reload(); err != nil {
		return err
	}
	a.log.WithFields(log.Fields{"key": key, "delta": delta}).Debug("row moved")
	fmt.Fprintf(a.out, "moved %s\n", key)
	return nil
}

func (a *app) cmdPoke(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: poke KEY")
	}
	key := args[0]
	tok, ok := a.tokens[key]
	if !ok {
		return fmt.Errorf("no live row with key %q", key)
	}
	tok.Invalidate()
	a.log.WithField("key", key).Debug("row invalidated")
	fmt.Fprintf(a.out, "poked %s\n", key)
	return nil
}

func (a *app) cmdExport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: export PATH")
	}
	path := args[0]
	if err := a.st.ExportJSON(path); err != nil {
		return err
	}
	a.log.WithField("path", path).Debug("rows exported")
	fmt.Fprintf(a.out, "exported %d rows to %s\n", len(a.rows), path)
	return nil
}

func (a *app) printHelp() {
	fmt.Fprint(a.out, `commands:
  add KEY TEXT...   append a row
  set KEY TEXT...   replace a row's text
  del KEY           delete a row
  mv KEY DELTA      move a row within the order
  poke KEY          invalidate a row without changing it
  show              run a pass and print the tree
  stats             print the last pass's statistics
  dump              print the cache tree as JSON
  export PATH       write all rows to a JSON file
  help              print this help
  quit              leave the editor
`)
}
