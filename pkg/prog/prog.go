// Package prog supports building testable, composable programs, mainly the
// weft command itself.
package prog

// This package defines a common entry point for "subprograms": the sequence
// editor, the devtools client and the build info printer. It parses flags
// common to all of them and composes the subprograms so that the first
// suitable one runs.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"github.com/spf13/pflag"

	"github.com/weftui/weft/pkg/logutil"
)

// Program represents a subprogram.
type Program interface {
	// RegisterFlags registers the subprogram's flags.
	RegisterFlags(fs *FlagSet)
	// Run runs the subprogram. The command name has already been stripped
	// from args.
	Run(fds [3]*os.File, args []string) error
}

// FlagSet wraps a [pflag.FlagSet], and provides methods to register flags
// shared by multiple subprograms on demand.
type FlagSet struct {
	*pflag.FlagSet
	dataPaths *DataPaths
	json      *bool
}

// DataPaths stores the values of the --db and --sock flags.
type DataPaths struct {
	DB, Sock string
}

// DataPaths returns a pointer to a struct storing the values of the --db and
// --sock flags, registering them on first call.
func (fs *FlagSet) DataPaths() *DataPaths {
	if fs.dataPaths == nil {
		fs.dataPaths = &DataPaths{}
		fs.StringVar(&fs.dataPaths.DB, "db", "", "path to the row database")
		fs.StringVar(&fs.dataPaths.Sock, "sock", "", "path to the devtools socket")
	}
	return fs.dataPaths
}

// JSON returns a pointer to the value of the --json flag, registering it on
// first call.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		fs.json = fs.Bool("json", false, "show output in JSON")
	}
	return fs.json
}

// Run parses args and runs p, returning the exit status. The first element of
// args is taken as the command name and used in usage messages.
func Run(fds [3]*os.File, args []string, p Program) int {
	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	// Errors and usage are printed explicitly below.
	fs.SetOutput(io.Discard)

	var logpath string
	fs.StringVar(&logpath, "log", "", "path to a file to write debug logs")
	var cpuProfile string
	fs.StringVar(&cpuProfile, "cpuprofile", "", "write cpu profile to file")
	var help bool
	fs.BoolVarP(&help, "help", "h", false, "show usage help and quit")

	wfs := &FlagSet{FlagSet: fs}
	p.RegisterFlags(wfs)

	err := fs.Parse(args[1:])
	if err != nil {
		fmt.Fprintln(fds[2], err)
		usage(fds[2], fs)
		return 2
	}

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot create CPU profile:", err)
			fmt.Fprintln(fds[2], "Continuing without CPU profiling.")
		} else {
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}
	}
	if logpath != "" {
		err = logutil.SetOutputFile(logpath)
		if err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}

	if help {
		usage(fds[1], fs)
		return 0
	}

	err = p.Run(fds, fs.Args())
	if err == nil {
		return 0
	}
	if err == ErrNextProgram {
		err = errNoSuitableSubprogram
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	switch err := err.(type) {
	case badUsageError:
		usage(fds[2], fs)
	case exitError:
		return err.exit
	}
	return 2
}

func usage(out io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(out, "Usage: %s [flags] [args]\n", fs.Name())
	fmt.Fprintln(out, "Supported flags:")
	fmt.Fprint(out, fs.FlagUsages())
}

// Composite returns a Program that tries each of the given programs,
// terminating at the first one that doesn't return ErrNextProgram.
func Composite(programs ...Program) Program {
	return compositeProgram(programs)
}

type compositeProgram []Program

func (cp compositeProgram) RegisterFlags(fs *FlagSet) {
	for _, p := range cp {
		p.RegisterFlags(fs)
	}
}

func (cp compositeProgram) Run(fds [3]*os.File, args []string) error {
	for _, p := range cp {
		err := p.Run(fds, args)
		if err != ErrNextProgram {
			return err
		}
	}
	return ErrNextProgram
}

// ErrNextProgram is a special error that may be returned by Program.Run. It
// causes the Composite program to try the next program.
var ErrNextProgram = errors.New("next program")

var errNoSuitableSubprogram = errors.New("internal error: no suitable subprogram")

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It causes
// the main function to exit with the given code without printing any error
// messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }
