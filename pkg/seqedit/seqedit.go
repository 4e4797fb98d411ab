// Package seqedit implements an interactive sequence editor built on the
// build cache. Persistent keyed rows are rendered through the cache on every
// pass, and each redraw reports what re-evaluated, so a session doubles as a
// live demonstration of minimal rebuilds.
package seqedit

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/mattn/go-isatty"

	"github.com/weftui/weft/pkg/comp"
	"github.com/weftui/weft/pkg/devtools"
	"github.com/weftui/weft/pkg/prog"
	"github.com/weftui/weft/pkg/store"
)

// Program is the sequence editor subprogram. It always runs when reached,
// which makes it the last program of the weft command.
type Program struct {
	configPath string
	color      string
	dataPaths  *prog.DataPaths
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.StringVar(&p.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&p.color, "color", "", "colorize output: auto, always or never")
	p.dataPaths = fs.DataPaths()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("the sequence editor takes no arguments")
	}
	cfg := defaultConfig()
	if p.configPath != "" {
		var err error
		cfg, err = readConfig(p.configPath)
		if err != nil {
			return err
		}
	}
	if p.dataPaths.DB != "" {
		cfg.DB = p.dataPaths.DB
	}
	if p.dataPaths.Sock != "" {
		cfg.Sock = p.dataPaths.Sock
	}
	if p.color != "" {
		cfg.Color = p.color
	}

	var color bool
	switch cfg.Color {
	case "always":
		color = true
	case "", "auto":
		color = isatty.IsTerminal(fds[1].Fd())
	case "never":
		color = false
	default:
		return prog.BadUsage(fmt.Sprintf(
			"bad color value %q; want auto, always or never", cfg.Color))
	}
	sty := newStyles(color)
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	lg := &log.Logger{
		Handler: &logHandler{out: fds[2], sty: sty},
		Level:   level,
	}

	st, err := store.NewStore(cfg.DB)
	if err != nil {
		return fmt.Errorf("open row database: %w", err)
	}
	defer st.Close()

	cache := comp.New()
	defer cache.Close()

	a := newApp(st, cache, fds[1], sty, lg)
	if err := a.reload(); err != nil {
		return err
	}

	if cfg.Sock != "" {
		srv := devtools.NewServer(cache)
		srv.OnInvalidate = a.lp.Redraw
		go func() {
			if err := srv.Serve(cfg.Sock); err != nil {
				lg.WithError(err).Error("devtools server failed")
			}
		}()
		defer srv.Close()
		lg.WithField("sock", cfg.Sock).Info("devtools listening")
	}

	go readInput(fds, a.lp, cfg.DB+".history")
	return a.lp.Run()
}
