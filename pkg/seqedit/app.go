package seqedit

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/weftui/weft/pkg/comp"
	"github.com/weftui/weft/pkg/comp/comps"
	"github.com/weftui/weft/pkg/store"
	"github.com/weftui/weft/pkg/view"
)

// app holds the editor state. All fields are owned by the loop goroutine;
// the cache and the store do their own locking where the devtools server
// reaches them from connection goroutines.
type app struct {
	st    store.DBStore
	cache *comp.Cache
	out   *os.File
	sty   styles
	log   log.Interface
	lp    *loop

	// rows is the input snapshot of the next pass, reloaded from the store
	// after every store mutation.
	rows []store.Row
	// tokens holds the invalidation token of every live row, registered
	// when the row's group runs and dropped by its cleanup hook.
	tokens  map[string]comp.Token
	started time.Time
}

func newApp(st store.DBStore, cache *comp.Cache, out *os.File, sty styles, lg log.Interface) *app {
	a := &app{
		st: st, cache: cache, out: out, sty: sty, log: lg,
		lp:      newLoop(),
		tokens:  make(map[string]comp.Token),
		started: time.Now(),
	}
	a.lp.handleCb = a.handle
	a.lp.redrawCb = a.redraw
	return a
}

// reload reads the rows from the store into the next pass's input snapshot.
func (a *app) reload() error {
	rows, err := a.st.Rows()
	if err != nil {
		return err
	}
	a.rows = rows
	return nil
}

type rowArgs struct {
	Text string
	Seq  int
}

// build runs on every pass. The row list is guarded by the joined key list
// and each row by its own data, so an unchanged pass skips everything in two
// steps. The key list is the only input the list guard sees: commands that
// change a row's payload without changing the key list must also fire the
// row's token, or the change stays invisible.
func (a *app) build(cx *comp.Context) *view.Node {
	keys := make([]string, len(a.rows))
	data := make(map[string]rowArgs, len(a.rows))
	for i, r := range a.rows {
		keys[i] = r.Key
		data[r.Key] = rowArgs{Text: r.Text, Seq: r.Seq}
	}

	list := comp.Memo(cx, "rows", strings.Join(keys, "\x00"), func(cx *comp.Context) *view.Node {
		children := comps.ForEachKeyed(cx, "row", keys,
			func(k string) rowArgs { return data[k] },
			func(cx *comp.Context, k string, ra rowArgs) *view.Node {
				a.tokens[k] = comp.InvalidationToken(cx)
				comp.Cleanup(cx, func() { delete(a.tokens, k) })
				a.log.WithFields(log.Fields{"key": k, "seq": ra.Seq}).Debug("row built")
				return comps.Row(k, view.T("text", ra.Text)).
					WithAttr("seq", strconv.Itoa(ra.Seq))
			})
		return view.N("rows", children...)
	})
	count := comps.Label(cx, "count", "rows: %d", len(a.rows))
	return view.N("seq", list, count)
}

// redraw runs one pass and prints the resulting tree with a status line.
// It is also called directly by the show command.
func (a *app) redraw(final bool) {
	if final {
		return
	}
	node, err := comp.Run(a.cache, a.build)
	if err != nil {
		a.log.WithError(err).Error("pass failed")
		fmt.Fprintln(a.out, a.sty.errs.Render("error: "+err.Error()))
	}
	if node != nil {
		nodes := 0
		view.Walk(node, func(*view.Node) bool { nodes++; return true })
		a.log.WithFields(log.Fields{"pass": a.cache.Gen(), "nodes": nodes}).Debug("pass done")
		fmt.Fprint(a.out, a.sty.renderTree(node))
		fmt.Fprintln(a.out, a.sty.status.Render(a.statusLine()))
	}
}

func (a *app) statusLine() string {
	s := a.cache.LastStats()
	return fmt.Sprintf(
		"pass %d: evaluated %d, traversed %d, skipped %d, torn down %d, %s entries, started %s",
		a.cache.Gen(), s.Evaluated, s.Traversed, s.Skipped, s.TornDown,
		humanize.Comma(int64(s.Entries)), humanize.Time(a.started))
}

func (a *app) findRow(key string) (store.Row, bool) {
	for _, r := range a.rows {
		if r.Key == key {
			return r, true
		}
	}
	return store.Row{}, false
}
