package events

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	ChannelAvailability = "sched.availability"
	ChannelSlots        = "sched.slots"
)

// ChangeEvent is published after each committed availability or slot
// write so interested callers can refresh without polling.
type ChangeEvent struct {
	LawyerID string   `json:"lawyer_id"`
	Dates    []string `json:"dates,omitempty"`
}

// Publisher pushes change events over redis pub/sub. A nil Publisher (or
// one built without a redis client) is a no-op, so callers never have to
// guard.
type Publisher struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewPublisher(rdb *redis.Client, log *zap.Logger) *Publisher {
	return &Publisher{rdb: rdb, log: log}
}

func (p *Publisher) AvailabilityChanged(ctx context.Context, lawyerID string, dates []string) {
	p.publish(ctx, ChannelAvailability, ChangeEvent{LawyerID: lawyerID, Dates: dates})
}

func (p *Publisher) SlotsChanged(ctx context.Context, lawyerID string, dates []string) {
	p.publish(ctx, ChannelSlots, ChangeEvent{LawyerID: lawyerID, Dates: dates})
}

func (p *Publisher) publish(ctx context.Context, channel string, ev ChangeEvent) {
	if p == nil || p.rdb == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		// Event delivery is best-effort; the committed write stands.
		p.log.Warn("event publish failed",
			zap.String("channel", channel),
			zap.String("lawyer_id", ev.LawyerID),
			zap.Error(err),
		)
	}
}
