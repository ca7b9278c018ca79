// Package feed delivers letters published on a Redis channel to the trainer,
// as an alternative to sending them over HTTP.
package feed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"bitbraille/internal/braille"
	"bitbraille/internal/logger"
)

// Feed subscribes to one channel.  Each message must be a single letter;
// anything else is logged and dropped.
type Feed struct {
	client  *redis.Client
	channel string
	deliver func(braille.Letter)
	log     *logger.EventLogger
}

// New returns a feed that passes valid letters on channel to deliver.
func New(client *redis.Client, channel string, deliver func(braille.Letter), log *logger.EventLogger) *Feed {
	return &Feed{client: client, channel: channel, deliver: deliver, log: log}
}

// Run subscribes and delivers letters until ctx is done.  It returns an
// error if the subscription cannot be established.
func (f *Feed) Run(ctx context.Context) error {
	sub := f.client.Subscribe(ctx, f.channel)
	defer sub.Close()

	// wait for the subscription to be confirmed so that failures surface here
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribing to %s: %w", f.channel, err)
	}
	f.log.Log("letter feed subscribed to redis channel %s", f.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			f.handle(msg.Payload)
		}
	}
}

func (f *Feed) handle(payload string) {
	id := uuid.NewString()
	l, err := braille.Parse(payload)
	if err != nil {
		f.log.Log("feed %s: rejected message %s: %v", f.channel, id, err)
		return
	}
	f.log.Log("feed %s: letter %s (delivery %s)", f.channel, l, id)
	f.deliver(l)
}

// Publish sends a letter to a feed channel.  It is the client side used by
// the send command.
func Publish(ctx context.Context, client *redis.Client, channel string, l braille.Letter) error {
	if !l.Valid() {
		return fmt.Errorf("%q is not a letter between A and Z", byte(l))
	}
	n, err := client.Publish(ctx, channel, l.String()).Result()
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", channel, err)
	}
	if n == 0 {
		return fmt.Errorf("no trainer is listening on %s", channel)
	}
	return nil
}
