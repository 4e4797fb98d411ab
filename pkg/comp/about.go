// Package comp implements a positional memoization cache for incremental
// tree builds.
//
// A host application describes its output as a function from state to a
// result tree, and calls [Run] to build it. The first pass runs everything
// and records, in a flat slot table (see [github.com/weftui/weft/pkg/slots]),
// which call sites ran, in what order, and what they produced. Later passes
// replay the same function against the recording: sub-computations whose
// inputs provably did not change are skipped in constant time, reusing the
// recorded result, while the rest re-run in place. The effect is that an
// edit that touches one row of a large tree rebuilds one row, not the tree,
// without the host maintaining any explicit dependency graph.
//
// # Identity
//
// Positions in the table are addressed by call-site identity, not execution
// order alone. Every operation takes a site name, and repeated calls to the
// same site within one group are told apart by their ordinal. Children built
// from dynamic collections should use the Keyed variants with a stable key,
// so that reordering the collection moves the recorded state along with each
// child instead of shifting everything by one. Site names are free-form but
// may not be empty or start with "#", which is reserved for the cache's own
// slots.
//
// # State and invalidation
//
// [State] gives a group a persistent cell. Reading the cell through its
// [Var] records a dependency of the innermost group; writing it, through the
// Var or a detached [Setter], enqueues a deferred write that is applied in
// one batch when the next pass starts. No write is ever observed by the pass
// that issued it. When a batch is applied, the groups that read the written
// cells become stale, and their ancestors learn that something below them is
// stale; the next pass re-runs exactly the stale parts. [Token] provides
// the same staleness trigger without a value attached.
//
// # Skipping and forcing
//
// [Group] is the plain decision point: it re-runs whenever it is stale or
// its parent was re-run as dirty, so plain groups always see fresh
// surroundings. [Memo] guards its body with an arguments value: it re-runs
// only when first built, when the arguments change, or when it is itself
// stale, even under a parent that re-ran. A Memo body must therefore depend
// only on its arguments and on state read through Vars; anything else it
// captures can go stale without the cache noticing.
//
// # Passes
//
// [Run] executes one pass and is serial: concurrent calls fail immediately
// rather than queue. A pass that fails (a usage error, or a panic from user
// code) is rolled back, leaving the table exactly as the last committed pass
// built it. Entries whose call sites did not run this pass are removed at
// commit, and teardown hooks registered with [Cleanup] run exactly once,
// children before parents.
package comp
