package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/eduinvest/eduinvest_backend/internal/events"
	"github.com/redis/go-redis/v9"
)

const eventChannelPrefix = "eduinvest:course-events:"

// envelope wraps a CourseEvent with the publishing instance's identity so the
// bridge can skip messages that looped back from this process.
type envelope struct {
	Origin string             `json:"origin"`
	Event  events.CourseEvent `json:"event"`
}

// Publisher mirrors committed-entry events onto a redis channel so other
// instances can serve live streams for courses this instance mutated.
// Best-effort like the in-process broker: a failed publish is logged, never
// surfaced to the committing request.
type Publisher struct {
	client   *redis.Client
	instance string
	logger   *slog.Logger
}

// NewPublisher creates a redis event publisher. instance must be unique per
// process (any fresh UUID works).
func NewPublisher(client *redis.Client, instance string, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, instance: instance, logger: logger}
}

var _ events.Publisher = (*Publisher)(nil)

// Publish mirrors ev to the course's redis channel.
func (p *Publisher) Publish(ctx context.Context, ev events.CourseEvent) {
	payload, err := json.Marshal(envelope{Origin: p.instance, Event: ev})
	if err != nil {
		p.logger.Error("Failed to marshal course event", slog.String("error", err.Error()), slog.String("course_id", ev.CourseID))
		return
	}
	if err := p.client.Publish(ctx, eventChannelPrefix+ev.CourseID, payload).Err(); err != nil {
		p.logger.Warn("Failed to publish course event to redis", slog.String("error", err.Error()), slog.String("course_id", ev.CourseID))
	}
}

// RunBridge pumps events published by other instances into the local broker.
// Blocks until ctx is cancelled; run it in its own goroutine.
func RunBridge(ctx context.Context, client *redis.Client, instance string, broker *events.Broker, logger *slog.Logger) {
	sub := client.PSubscribe(ctx, eventChannelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				logger.Warn("Dropping malformed course event from redis", slog.String("error", err.Error()), slog.String("channel", msg.Channel))
				continue
			}
			if env.Origin == instance {
				// Our own publish looping back; local subscribers already got it.
				continue
			}
			broker.Publish(ctx, env.Event)
		}
	}
}
