// Package comptest helps test build functions: it drives passes over one
// cache, records which labeled steps ran, and checks pass statistics.
package comptest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/weftui/weft/pkg/comp"
)

// Fixture drives one Cache through scripted passes. Create it with New;
// the cache is closed when the test finishes.
type Fixture struct {
	t   *testing.T
	c   *comp.Cache
	log []string
}

func New(t *testing.T) *Fixture {
	c := comp.New()
	t.Cleanup(func() { c.Close() })
	return &Fixture{t: t, c: c}
}

// Cache returns the underlying cache.
func (f *Fixture) Cache() *comp.Cache { return f.c }

// Log records that a labeled step ran. Call it from group bodies, init
// functions and cleanup hooks whose executions the test wants to observe.
func (f *Fixture) Log(label string) { f.log = append(f.log, label) }

// TakeLog returns the labels recorded since the last call and resets the
// log.
func (f *Fixture) TakeLog() []string {
	l := f.log
	f.log = nil
	return l
}

// CheckLog asserts the labels recorded since the last TakeLog or CheckLog,
// in order.
func (f *Fixture) CheckLog(want ...string) {
	f.t.Helper()
	if diff := cmp.Diff(want, f.TakeLog(), cmpopts.EquateEmpty()); diff != "" {
		f.t.Errorf("step log (-want +got):\n%s", diff)
	}
}

// CheckCounts asserts the evaluation counts of the last committed pass.
func (f *Fixture) CheckCounts(evaluated, traversed, skipped, tornDown int) {
	f.t.Helper()
	s := f.c.LastStats()
	if s.Evaluated != evaluated || s.Traversed != traversed ||
		s.Skipped != skipped || s.TornDown != tornDown {
		f.t.Errorf("pass evaluated %d, traversed %d, skipped %d, tore down %d; "+
			"want %d, %d, %d, %d",
			s.Evaluated, s.Traversed, s.Skipped, s.TornDown,
			evaluated, traversed, skipped, tornDown)
	}
}

// Run runs one pass of body and returns its result, failing the test on
// error.
func Run[T any](f *Fixture, body func(*comp.Context) T) T {
	f.t.Helper()
	v, err := comp.Run(f.c, body)
	if err != nil {
		f.t.Fatalf("Run -> error %v, want nil", err)
	}
	return v
}
