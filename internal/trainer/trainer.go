// Package trainer coordinates the braille trainer.  It owns the interaction
// mode, the active letter, the option menu and both buzzers, and applies the
// events that arrive from buttons, the joystick and the network to them.
//
// Every event is applied as one critical section.  Event handlers never
// render or log: they record what needs drawing and Tick, called from the
// main loop, does the drawing afterwards.  This keeps the button entry points
// short and allocation free so that they can be called from interrupt
// context.
package trainer

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"bitbraille/internal/braille"
	"bitbraille/internal/buzzer"
	"bitbraille/internal/joystick"
	"bitbraille/internal/options"
)

// Renderer draws on the LED matrix and the display.  Calls are made from
// the main loop only.
type Renderer interface {
	RenderBraille(leds braille.IndexSet)
	RenderOptions(slots options.Slots, cursor int)
	RenderFeedback(success bool)
}

// Axis reads the joystick axis used for option selection as a 12 bit sample.
type Axis interface {
	ReadAxis() uint16
}

// Logger records trainer events.  *logger.EventLogger satisfies it.
type Logger interface {
	Log(format string, args ...any)
}

// Result describes one judged answer.
type Result struct {
	Letter  braille.Letter `json:"letter"`
	Chosen  braille.Letter `json:"chosen"`
	Correct bool           `json:"correct"`
	At      time.Time      `json:"at"`
}

// Config holds the tones and joystick behaviour of the trainer.
type Config struct {
	VictoryHz    uint32
	DefeatHz     uint32
	ToneDuration time.Duration
	Joystick     joystick.Config
}

// DefaultConfig returns the stock settings: a 1 kHz victory
// tone, a 300 Hz defeat tone, both lasting half a second.
func DefaultConfig() Config {
	return Config{
		VictoryHz:    1000,
		DefeatHz:     300,
		ToneDuration: 500 * time.Millisecond,
		Joystick:     joystick.DefaultConfig(),
	}
}

// Snapshot is a consistent copy of the trainer state.
type Snapshot struct {
	Mode         Mode           `json:"mode"`
	Letter       braille.Letter `json:"letter,omitempty"`
	Options      options.Slots  `json:"options"`
	Cursor       int            `json:"cursor"`
	VictoryArmed bool           `json:"victory_armed"`
	DefeatArmed  bool           `json:"defeat_armed"`
}

type screen int

const (
	screenNone screen = iota
	screenOptions
	screenFeedback
)

// pending is the drawing and reporting owed to the outside world since the
// last flush.  For the screen only the most recent request matters.
type pending struct {
	arrived   bool
	braille   bool
	screen    screen
	success   bool
	result    Result
	hasResult bool
}

// Trainer is the interaction state machine.  Its event methods are safe to
// call from any goroutine or interrupt handler; Tick and Run belong to the
// main loop and must not be called concurrently with each other.
type Trainer struct {
	mu      sync.Locker
	now     func() time.Time
	src     options.Source
	render  Renderer
	axis    Axis
	stick   *joystick.Debouncer
	log     Logger
	results func(Result)

	victoryTone  buzzer.PWMConfig
	defeatTone   buzzer.PWMConfig
	toneDuration time.Duration

	// guarded by mu
	mode    Mode
	letter  braille.Letter
	opts    options.Set
	victory *buzzer.Buzzer
	defeat  *buzzer.Buzzer
	pending pending
}

// Option customises a Trainer.
type Option func(*Trainer)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Trainer) { t.now = now }
}

// WithSource replaces the random number source used to generate options.
func WithSource(src options.Source) Option {
	return func(t *Trainer) { t.src = src }
}

// WithLocker replaces the guard around transitions.
func WithLocker(l sync.Locker) Option {
	return func(t *Trainer) { t.mu = l }
}

// WithLogger records letters and answers.
func WithLogger(l Logger) Option {
	return func(t *Trainer) { t.log = l }
}

// WithResults registers fn to receive every judged answer.  It is called
// from Tick and must not block; hand slow work to another goroutine.
func WithResults(fn func(Result)) Option {
	return func(t *Trainer) { t.results = fn }
}

// New returns an idle trainer.  Tone frequencies that the PWM cannot produce
// and a non-positive tone duration are programming errors and panic.  axis
// may be nil, in which case the joystick is never polled.
func New(cfg Config, r Renderer, axis Axis, victory, defeat buzzer.Output, opts ...Option) *Trainer {
	if cfg.ToneDuration <= 0 {
		panic("trainer: tone duration must be positive")
	}
	t := &Trainer{
		mu:           criticalSection(),
		now:          time.Now,
		src:          rand.New(rand.NewSource(time.Now().UnixNano())),
		render:       r,
		axis:         axis,
		stick:        joystick.NewDebouncer(cfg.Joystick),
		victoryTone:  buzzer.MustConfigFor(cfg.VictoryHz),
		defeatTone:   buzzer.MustConfigFor(cfg.DefeatHz),
		toneDuration: cfg.ToneDuration,
		mode:         Idle,
		victory:      buzzer.New("victory", victory),
		defeat:       buzzer.New("defeat", defeat),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// OnLetterEvent makes l the active letter from any mode.  The options are
// regenerated around it and the trainer waits for an answer; feedback on
// screen is abandoned.  Values outside A to Z are ignored.
func (t *Trainer) OnLetterEvent(l braille.Letter) {
	if !l.Valid() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.letter = l
	t.opts.Generate(l, t.src)
	t.mode = AwaitingAnswer
	t.pending.arrived = true
	t.pending.braille = true
	t.pending.screen = screenOptions
}

// OnOptionMoved moves the cursor while an answer is awaited and does nothing
// otherwise.
func (t *Trainer) OnOptionMoved(m options.Move) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mode != AwaitingAnswer {
		return
	}
	t.opts.Move(m)
	t.pending.screen = screenOptions
}

// OnButtonSecondary submits the highlighted option.  A correct answer sounds
// the victory buzzer, a wrong one the defeat buzzer, and the verdict stays on
// screen until OnButtonPrimary.  Outside AwaitingAnswer it does nothing.
func (t *Trainer) OnButtonSecondary() {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mode != AwaitingAnswer {
		return
	}
	chosen := t.opts.Current()
	correct := chosen == t.letter
	if correct {
		t.victory.Arm(t.victoryTone, t.toneDuration, now)
	} else {
		t.defeat.Arm(t.defeatTone, t.toneDuration, now)
	}
	t.mode = ShowingFeedback
	t.pending.screen = screenFeedback
	t.pending.success = correct
	t.pending.result = Result{Letter: t.letter, Chosen: chosen, Correct: correct, At: now}
	t.pending.hasResult = true
}

// OnButtonPrimary leaves the feedback screen and shows the same options
// again.  Outside ShowingFeedback it does nothing.
func (t *Trainer) OnButtonPrimary() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mode != ShowingFeedback {
		return
	}
	t.mode = AwaitingAnswer
	t.pending.screen = screenOptions
}

// Tick is one pass of the main loop: expired tones are silenced, the
// joystick is polled if an answer is awaited, and outstanding drawing is
// done.  It never blocks.
func (t *Trainer) Tick() {
	now := t.now()

	t.mu.Lock()
	t.victory.Tick(now)
	t.defeat.Tick(now)
	polling := t.mode == AwaitingAnswer
	t.mu.Unlock()

	if polling && t.axis != nil {
		if intent, ok := t.stick.Sample(t.axis.ReadAxis(), now); ok {
			t.OnOptionMoved(moveFor(intent))
		}
	}

	t.flush()
}

// up on the stick walks forward through the menu, down walks back
func moveFor(i joystick.Intent) options.Move {
	if i == joystick.Down {
		return options.MovePrev
	}
	return options.MoveNext
}

func (t *Trainer) flush() {
	t.mu.Lock()
	p := t.pending
	t.pending = pending{}
	letter := t.letter
	slots := t.opts.Slots()
	cursor := t.opts.Cursor()
	t.mu.Unlock()

	if p.arrived && t.log != nil {
		t.log.Log("letter %s (%s) received", letter, braille.Encode(letter))
	}
	if p.braille {
		t.render.RenderBraille(braille.Positions(braille.Encode(letter)))
	}
	switch p.screen {
	case screenOptions:
		t.render.RenderOptions(slots, cursor)
	case screenFeedback:
		t.render.RenderFeedback(p.success)
	}
	if p.hasResult {
		if t.log != nil {
			t.log.Log("answer %s for letter %s: correct=%t", p.result.Chosen, p.result.Letter, p.result.Correct)
		}
		if t.results != nil {
			t.results(p.result)
		}
	}
}

// Snapshot returns the current state.
func (t *Trainer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Snapshot{
		Mode:         t.mode,
		Letter:       t.letter,
		Options:      t.opts.Slots(),
		Cursor:       t.opts.Cursor(),
		VictoryArmed: t.victory.Armed(),
		DefeatArmed:  t.defeat.Armed(),
	}
}

// Run calls Tick every interval until ctx is done.
func (t *Trainer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}
