package seqedit

// Buffer size of the input channel. The value is chosen for no particular
// reason.
const inputChSize = 128

// An input event: one command line, or the end of the input stream.
type event struct {
	line string
	eof  bool
	err  error
}

// A serial main loop: command lines come in as events, and each batch of
// events is followed by one redraw. The loop spawns no goroutines and never
// calls two callbacks in parallel, so the callbacks may manipulate shared
// state without synchronization.
type loop struct {
	inputCh  chan event
	handleCb func(line string)

	redrawCb func(final bool)
	redrawCh chan struct{}

	returnCh chan error
}

func newLoop() *loop {
	return &loop{
		inputCh:  make(chan event, inputChSize),
		handleCb: func(string) {},
		redrawCb: func(bool) {},
		redrawCh: make(chan struct{}, 1),
		returnCh: make(chan error, 1),
	}
}

// Input provides an input line. It may block if the internal buffer is full.
func (lp *loop) Input(line string) {
	lp.inputCh <- event{line: line}
}

// InputDone declares the end of input; err is what Run returns. Lines
// provided before the call are still handled, since the end marker travels
// through the same channel.
func (lp *loop) InputDone(err error) {
	lp.inputCh <- event{eof: true, err: err}
}

// Redraw requests a redraw. It never blocks and may be called from any
// goroutine.
func (lp *loop) Redraw() {
	select {
	case lp.redrawCh <- struct{}{}:
	default:
	}
}

// Return requests the main loop to return right away, dropping buffered
// input. It never blocks. If Return has been called before during the
// current loop iteration, it has no effect.
func (lp *loop) Return(err error) {
	select {
	case lp.returnCh <- err:
	default:
	}
}

// Run runs the event loop until the Return method is called or the input
// ends. A redraw happens before the first event and after every batch of
// events.
func (lp *loop) Run() error {
	for {
		lp.redrawCb(false)
		select {
		case ev := <-lp.inputCh:
			// Consume all buffered events to batch them into one redraw.
		consumeAllEvents:
			for {
				if ev.eof {
					lp.redrawCb(true)
					return ev.err
				}
				lp.handleCb(ev.line)
				select {
				case err := <-lp.returnCh:
					lp.redrawCb(true)
					return err
				default:
				}
				select {
				case ev = <-lp.inputCh:
					// Continue consuming.
				default:
					break consumeAllEvents
				}
			}
		case err := <-lp.returnCh:
			lp.redrawCb(true)
			return err
		case <-lp.redrawCh:
		}
	}
}
