package comp

import (
	"reflect"
	"strings"

	"github.com/weftui/weft/pkg/slots"
)

// Context carries the walk state of one group body during one pass. The
// build functions take the Context of the group they appear in; passing a
// Context anywhere else, including into a later pass, panics with
// StaleHandleError.
type Context struct {
	c     *Cache
	grp   *group
	dirty bool
	seq   uint64

	// occur counts per-site uses in this body, telling repeated unkeyed
	// calls on one site apart.
	occur map[string]int
	// keys remembers keyed tags declared in this body, to reject a
	// duplicate at its declaration rather than at some later corruption.
	keys map[slots.Tag]struct{}
}

// nextTag allocates the positional tag for the next unkeyed use of site.
func (cx *Context) nextTag(site string) slots.Tag {
	cx.checkLive("site " + site)
	checkSite(site)
	if cx.occur == nil {
		cx.occur = make(map[string]int)
	}
	n := cx.occur[site]
	cx.occur[site] = n + 1
	return slots.Tag{Site: site, Occur: n}
}

// keyedTag allocates the tag for a keyed use of site.
func (cx *Context) keyedTag(site string, key any) slots.Tag {
	cx.checkLive("site " + site)
	checkSite(site)
	if key == nil || !reflect.TypeOf(key).Comparable() {
		panic(&UsageError{Err: BadKey{Key: key}})
	}
	tag := slots.Tag{Site: site, Key: key}
	if cx.keys == nil {
		cx.keys = make(map[slots.Tag]struct{})
	}
	if _, dup := cx.keys[tag]; dup {
		panic(&UsageError{Err: DuplicateKey{Site: site, Key: key}})
	}
	cx.keys[tag] = struct{}{}
	return tag
}

func checkSite(site string) {
	if site == "" || strings.HasPrefix(site, "#") {
		panic(&UsageError{Err: BadSite{Site: site}})
	}
}

// checkLive panics unless cx belongs to the current pass and its group is
// the one whose body is running right now.
func (cx *Context) checkLive(op string) {
	if cx.c == nil || cx.seq != cx.c.passSeq || cx.c.cur != cx.grp {
		panic(StaleHandleError{Op: op})
	}
}
