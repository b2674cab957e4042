package display

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

// RedisPublisher implements domain.DisplayRefresher and domain.OverdueAlerter
// by publishing a Signal on the namespace's display channel. Publishing runs
// in the background and failures are logged only.
type RedisPublisher struct {
	client  *redis.Client
	channel string

	wg sync.WaitGroup
}

func NewRedisPublisher(client *redis.Client, namespace string) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: Channel(namespace),
	}
}

func (p *RedisPublisher) RefreshTimelines(ctx context.Context) {
	p.publish(ctx, Signal{Type: SignalTypeReload})
}

func (p *RedisPublisher) Alert(ctx context.Context, deadline time.Time) {
	p.publish(ctx, Signal{Type: SignalTypeOverdue, Deadline: &deadline})
}

// Wait blocks until every pending publish has returned.
func (p *RedisPublisher) Wait() {
	p.wg.Wait()
}

func (p *RedisPublisher) publish(ctx context.Context, signal Signal) {
	payload, err := json.Marshal(signal)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal display signal",
			slog.String("type", signal.Type),
			slog.String("error", err.Error()),
		)
		return
	}

	detached := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(detached, publishTimeout)
		defer cancel()

		if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
			slog.WarnContext(ctx, "failed to publish display signal",
				slog.String("event", "display.publish.failed"),
				slog.String("channel", p.channel),
				slog.String("type", signal.Type),
				slog.String("error", err.Error()),
			)
			return
		}

		slog.DebugContext(ctx, "display signal published",
			slog.String("channel", p.channel),
			slog.String("type", signal.Type),
		)
	}()
}
