package seqedit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

const prompt = "weft> "

// readInput reads command lines and feeds them to the loop. When the input
// is the process's own terminal it uses a line editor with history;
// otherwise it falls back to plain line reading, printing a prompt only if
// the input is still a terminal.
func readInput(fds [3]*os.File, lp *loop, historyPath string) {
	if fds[0] == os.Stdin && isatty.IsTerminal(fds[0].Fd()) {
		readLiner(lp, historyPath)
		return
	}
	interactive := isatty.IsTerminal(fds[0].Fd())
	sc := bufio.NewScanner(fds[0])
	for {
		if interactive {
			fmt.Fprint(fds[1], prompt)
		}
		if !sc.Scan() {
			break
		}
		lp.Input(sc.Text())
	}
	lp.InputDone(sc.Err())
}

// readLiner reads lines with the line editor. The editor insists on the
// process's own stdin and stdout, which is why readInput only picks it for
// that case.
func readLiner(lp *loop, historyPath string) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if historyPath == "" {
			return
		}
		f, err := os.Create(historyPath)
		if err != nil {
			return
		}
		ln.WriteHistory(f)
		f.Close()
	}()

	for {
		line, err := ln.Prompt(prompt)
		switch err {
		case nil:
			if strings.TrimSpace(line) != "" {
				ln.AppendHistory(line)
			}
			lp.Input(line)
		case liner.ErrPromptAborted:
			// Ctrl-C cancels the current line only.
		case io.EOF:
			lp.InputDone(nil)
			return
		default:
			lp.InputDone(err)
			return
		}
	}
}
