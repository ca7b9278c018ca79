package hal

import (
	"bitbraille/internal/buzzer"
	"bitbraille/internal/logger"
)

// toneWriter is a buzzer.Output whose pin writes happen on a goroutine of
// its own.  Drive and Silence are called with the trainer's lock held, from
// the button watchers, so they only post the request and return.  A request
// that is replaced before the goroutine picks it up is never written.
type toneWriter struct {
	name    string
	apply   func(hz uint32) error // 0 silences the pin
	log     *logger.EventLogger
	req     chan uint32
	done    chan struct{}
	stopped chan struct{}
}

func newToneWriter(name string, apply func(hz uint32) error, log *logger.EventLogger) *toneWriter {
	w := &toneWriter{
		name:    name,
		apply:   apply,
		log:     log,
		req:     make(chan uint32, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.loop()
	return w
}

// Drive plays the frequency the divider and wrap realise rather than the
// requested one.
func (w *toneWriter) Drive(cfg buzzer.PWMConfig) { w.post(cfg.Realised()) }

func (w *toneWriter) Silence() { w.post(0) }

func (w *toneWriter) post(hz uint32) {
	for {
		select {
		case w.req <- hz:
			return
		default:
		}
		// drop the stale request
		select {
		case <-w.req:
		default:
		}
	}
}

func (w *toneWriter) loop() {
	defer close(w.stopped)
	for {
		select {
		case hz := <-w.req:
			w.write(hz)
		case <-w.done:
			select {
			case hz := <-w.req:
				w.write(hz)
			default:
			}
			w.write(0)
			return
		}
	}
}

func (w *toneWriter) write(hz uint32) {
	if err := w.apply(hz); err != nil {
		w.log.Log("buzzer %s: %v", w.name, err)
	}
}

// Close writes any request still waiting, silences the pin and stops the
// writer.  Requests posted afterwards are never written.
func (w *toneWriter) Close() {
	close(w.done)
	<-w.stopped
}
