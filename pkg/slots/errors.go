package slots

import "fmt"

// Errors raised by Table operations. Except for Finish, which returns
// UnterminatedGroup, operations raise these as panics: a failing table
// operation means the layer driving the table has broken the cursor
// discipline, and there is no saner state to continue in. The layer above
// recovers at its pass boundary and surfaces the value as an error.

// BadCursor means a table operation was applied to an entry of the wrong
// kind.
type BadCursor struct {
	Op   string
	At   int
	Want Kind
	Got  string
}

func (e BadCursor) Error() string {
	return fmt.Sprintf("bad cursor in %s: at index %d, want %s, got %s",
		e.Op, e.At, e.Want, e.Got)
}

// TagMismatch means a value was read through a tag it was not stored under.
type TagMismatch struct {
	At   int
	Want Tag
	Got  Tag
}

func (e TagMismatch) Error() string {
	return fmt.Sprintf("slot tag mismatch at index %d: want %s, got %s",
		e.At, e.Want, e.Got)
}

// UnterminatedGroup means a pass finished with a group still open.
type UnterminatedGroup struct {
	Tag Tag
}

func (e UnterminatedGroup) Error() string {
	return fmt.Sprintf("unterminated group %s", e.Tag)
}
