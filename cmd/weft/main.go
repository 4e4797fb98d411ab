// Weft is an interactive sequence editor built around a positional build
// cache. Rows live in a database; every redraw runs through the cache, which
// re-evaluates only the rows that changed since the last pass and reports
// what it skipped.
package main

import (
	"os"

	"github.com/weftui/weft/pkg/buildinfo"
	"github.com/weftui/weft/pkg/devtools"
	"github.com/weftui/weft/pkg/prog"
	"github.com/weftui/weft/pkg/seqedit"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&buildinfo.Program{}, &devtools.Program{}, &seqedit.Program{})))
}
