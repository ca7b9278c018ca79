// Package report defines pluggable handlers that are told about every
// answer the trainer judges.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bitbraille/internal/logger"
	"bitbraille/internal/trainer"
)

// publishTimeout bounds a single publish so a stalled broker cannot hold up
// the main loop for long.
const publishTimeout = 200 * time.Millisecond

// Reporter delivers the outcome of an answer somewhere.  If an error is
// returned, the caller should log it but continue operation.
type Reporter interface {
	Name() string
	Report(res trainer.Result) error
}

// LogReporter writes each outcome to the event log.  It is the default if
// no other reporters are configured.
type LogReporter struct {
	Logger *logger.EventLogger
}

// Name returns the type name of the reporter.
func (LogReporter) Name() string { return "log" }

// Report writes the result to the event log.
func (r LogReporter) Report(res trainer.Result) error {
	verdict := "incorrect"
	if res.Correct {
		verdict = "correct"
	}
	r.Logger.Log("result: %s chosen for %s, %s", res.Chosen, res.Letter, verdict)
	return nil
}

// RedisReporter publishes each outcome as JSON on a Redis channel, for
// dashboards or a score keeper to subscribe to.
type RedisReporter struct {
	Client  *redis.Client
	Channel string
}

// Name returns the type name of the reporter.
func (RedisReporter) Name() string { return "redis" }

// Report publishes the result.  Errors from the broker are returned
// directly so the caller can log them.
func (r RedisReporter) Report(res trainer.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return r.Client.Publish(ctx, r.Channel, payload).Err()
}

// Fanout returns a result callback for the trainer that hands each result
// to every reporter, logging failures.
func Fanout(log *logger.EventLogger, reporters ...Reporter) func(trainer.Result) {
	if len(reporters) == 0 {
		reporters = []Reporter{LogReporter{Logger: log}}
	}
	return func(res trainer.Result) {
		for _, r := range reporters {
			if err := r.Report(res); err != nil {
				log.Log("reporter %s error: %v", r.Name(), err)
			}
		}
	}
}

// Queue decouples reporters from the trainer's main loop.  Results are
// buffered and handed to the reporters by Run on its own goroutine, so a
// slow broker never holds up a tick.
type Queue struct {
	ch  chan trainer.Result
	log *logger.EventLogger
	fan func(trainer.Result)
}

// NewQueue returns a queue holding up to size results for reporters.
func NewQueue(log *logger.EventLogger, size int, reporters ...Reporter) *Queue {
	return &Queue{
		ch:  make(chan trainer.Result, size),
		log: log,
		fan: Fanout(log, reporters...),
	}
}

// Enqueue buffers res without blocking.  When the buffer is full the
// result is dropped and the drop is logged.
func (q *Queue) Enqueue(res trainer.Result) {
	select {
	case q.ch <- res:
	default:
		q.log.Log("report queue full, dropped result %s chosen for %s", res.Chosen, res.Letter)
	}
}

// Run delivers queued results until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case res := <-q.ch:
			q.fan(res)
		}
	}
}
