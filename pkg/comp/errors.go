package comp

import (
	"fmt"

	"github.com/weftui/weft/pkg/slots"
)

// UsageError wraps an error caused by driving the cache against its
// contracts: duplicate keys, reserved site names, mismatched value types, or
// broken bracket discipline surfaced by the slot table. The pass that caused
// it is rolled back; the cache itself stays usable.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return "cache usage error: " + e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// DuplicateKey means two keyed calls in the same group used the same site
// and key during one pass.
type DuplicateKey struct {
	Site string
	Key  any
}

func (e DuplicateKey) Error() string {
	return fmt.Sprintf("duplicate key %v for site %s", e.Key, e.Site)
}

// BadSite means a site name was empty or used the reserved "#" prefix.
type BadSite struct {
	Site string
}

func (e BadSite) Error() string {
	return fmt.Sprintf("bad site name %q: must be non-empty and not start with #", e.Site)
}

// BadKey means a key was nil or of a type that does not support ==.
type BadKey struct {
	Key any
}

func (e BadKey) Error() string {
	return fmt.Sprintf("bad key %v of type %T: keys must be non-nil and comparable", e.Key, e.Key)
}

// TypeMismatch means a slot was read at a type other than the one it was
// written with.
type TypeMismatch struct {
	Site string
	Want string
	Got  string
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch at site %s: want %s, got %s", e.Site, e.Want, e.Got)
}

// ReentrancyError means Run was called while another pass was running, from
// within that pass or from another goroutine.
type ReentrancyError struct{}

func (ReentrancyError) Error() string { return "a build pass is already running" }

// StaleHandleError means a pass-scoped handle, a Context or a Var, was used
// outside the pass and group body that created it. Inside a pass it aborts
// the pass; outside one it propagates as a panic.
type StaleHandleError struct {
	Op string
}

func (e StaleHandleError) Error() string {
	return fmt.Sprintf("stale handle in %s: Contexts and Vars are only valid inside the body that made them", e.Op)
}

// ClosedError means the cache was used after Close.
type ClosedError struct{}

func (ClosedError) Error() string { return "cache is closed" }

// asPassError classifies a recovered panic value. Typed errors of this
// package and of the slot table become pass errors returned by Run;
// everything else (runtime faults, foreign panics) is nil, meaning the panic
// should keep unwinding after the pass is rolled back.
func asPassError(r any) error {
	switch r := r.(type) {
	case *UsageError:
		return r
	case StaleHandleError:
		return r
	case slots.BadCursor:
		return &UsageError{Err: r}
	case slots.TagMismatch:
		return &UsageError{Err: r}
	case slots.UnterminatedGroup:
		return &UsageError{Err: r}
	}
	return nil
}
