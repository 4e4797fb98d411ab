package comp

import "fmt"

// Stats describes what one pass did.
type Stats struct {
	// Evaluated counts group bodies that re-ran because their own inputs
	// changed: first runs, changed memo arguments, stale state, fired
	// tokens, and bodies under an evaluated parent.
	Evaluated int `json:"evaluated"`
	// Traversed counts group bodies that re-ran only as a road to stale
	// descendants.
	Traversed int `json:"traversed"`
	// Skipped counts groups reused whole, without entering them.
	Skipped int `json:"skipped"`
	// TornDown counts groups whose sites stopped being reached and whose
	// cleanup hooks ran.
	TornDown int `json:"tornDown"`
	// Writes and Dropped count the queued mutations the pass consumed,
	// split by whether their target was still alive.
	Writes  int `json:"writes"`
	Dropped int `json:"dropped"`
	// Entries is the size of the slot table after the pass.
	Entries int `json:"entries"`
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"evaluated %d, traversed %d, skipped %d, torn down %d, writes %d (%d dropped), %d entries",
		s.Evaluated, s.Traversed, s.Skipped, s.TornDown, s.Writes, s.Dropped, s.Entries)
}
