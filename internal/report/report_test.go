package report

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbraille/internal/braille"
	"bitbraille/internal/buzzer"
	"bitbraille/internal/logger"
	"bitbraille/internal/options"
	"bitbraille/internal/trainer"
)

func newLogger(t *testing.T) *logger.EventLogger {
	return logger.NewEventLogger(filepath.Join(t.TempDir(), "events.log"))
}

func TestLogReporter(t *testing.T) {
	log := newLogger(t)
	r := LogReporter{Logger: log}
	require.NoError(t, r.Report(trainer.Result{Letter: 'B', Chosen: 'A'}))
	require.NoError(t, r.Report(trainer.Result{Letter: 'B', Chosen: 'B', Correct: true}))

	lines, err := log.Tail(0)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "result: A chosen for B, incorrect")
	assert.Contains(t, lines[1], "result: B chosen for B, correct")
}

func TestRedisReporter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	sub := client.Subscribe(ctx, "results")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	r := RedisReporter{Client: client, Channel: "results"}
	require.NoError(t, r.Report(trainer.Result{Letter: 'Q', Chosen: 'Q', Correct: true, At: at}))

	select {
	case msg := <-sub.Channel():
		var got trainer.Result
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, trainer.Result{Letter: 'Q', Chosen: 'Q', Correct: true, At: at}, got)
		assert.JSONEq(t, `{"letter":"Q","chosen":"Q","correct":true,"at":"2024-05-01T09:30:00Z"}`, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no result published")
	}
}

type failing struct{}

func (failing) Name() string                { return "failing" }
func (failing) Report(trainer.Result) error { return errors.New("broker down") }

func TestFanout(t *testing.T) {
	t.Run("defaults to the log", func(t *testing.T) {
		log := newLogger(t)
		Fanout(log)(trainer.Result{Letter: 'C', Chosen: 'C', Correct: true})

		lines, err := log.Tail(0)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "result: C chosen for C")
	})

	t.Run("errors are logged and do not stop other reporters", func(t *testing.T) {
		log := newLogger(t)
		Fanout(log, failing{}, LogReporter{Logger: log})(trainer.Result{Letter: 'C', Chosen: 'D'})

		lines, err := log.Tail(0)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "reporter failing error: broker down")
		assert.Contains(t, lines[1], "result: D chosen for C, incorrect")
	})
}

// stalled blocks every report until release is closed.
type stalled struct {
	release chan struct{}
	got     chan trainer.Result
}

func (stalled) Name() string { return "stalled" }

func (s stalled) Report(res trainer.Result) error {
	<-s.release
	s.got <- res
	return nil
}

type quiet struct{}

func (quiet) RenderBraille(braille.IndexSet)   {}
func (quiet) RenderOptions(options.Slots, int) {}
func (quiet) RenderFeedback(bool)              {}
func (quiet) Drive(buzzer.PWMConfig)           {}
func (quiet) Silence()                         {}

func TestQueue(t *testing.T) {
	t.Run("a stalled reporter does not hold up the trainer", func(t *testing.T) {
		rep := stalled{release: make(chan struct{}), got: make(chan trainer.Result, 1)}
		q := NewQueue(newLogger(t), 4, rep)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = q.Run(ctx) }()

		tr := trainer.New(trainer.DefaultConfig(), quiet{}, nil, quiet{}, quiet{},
			trainer.WithResults(q.Enqueue))
		tr.OnLetterEvent('A')
		tr.Tick()
		tr.OnButtonSecondary()

		start := time.Now()
		tr.Tick()
		assert.Less(t, time.Since(start), 50*time.Millisecond)

		close(rep.release)
		select {
		case res := <-rep.got:
			assert.Equal(t, braille.Letter('A'), res.Letter)
		case <-time.After(2 * time.Second):
			t.Fatal("result never reached the reporter")
		}
	})

	t.Run("results are dropped and logged when the buffer is full", func(t *testing.T) {
		log := newLogger(t)
		q := NewQueue(log, 1, failing{})
		q.Enqueue(trainer.Result{Letter: 'B', Chosen: 'C'})
		q.Enqueue(trainer.Result{Letter: 'D', Chosen: 'E'})

		lines, err := log.Tail(0)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "report queue full, dropped result E chosen for D")
	})

	t.Run("run stops with the context", func(t *testing.T) {
		q := NewQueue(newLogger(t), 1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, q.Run(ctx))
	})
}
