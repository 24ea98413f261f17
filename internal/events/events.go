package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/baharkarakas/hearthcloud/internal/metrics"
	"github.com/baharkarakas/hearthcloud/internal/worker"
)

const (
	ForumCreated   = "forum.created"
	PostCreated    = "post.created"
	CommentCreated = "comment.created"
	AccountDeleted = "account.deleted"
)

type Event struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"userId"`
	EntityID   int64     `json:"entityId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func New(typ string, userID, entityID int64) Event {
	return Event{Type: typ, UserID: userID, EntityID: entityID, OccurredAt: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Emitter hands events off without waiting for delivery.
type Emitter interface {
	Emit(ctx context.Context, ev Event)
}

// LogPublisher is used when no broker is configured.
type LogPublisher struct{ Log *slog.Logger }

func (p LogPublisher) Publish(ctx context.Context, ev Event) error {
	p.Log.InfoContext(ctx, "event", "type", ev.Type, "user_id", ev.UserID, "entity_id", ev.EntityID)
	return nil
}

// Dispatcher publishes on the worker pool. A full queue drops the event.
type Dispatcher struct {
	pub     Publisher
	pool    *worker.Pool
	log     *slog.Logger
	timeout time.Duration
}

func NewDispatcher(pub Publisher, pool *worker.Pool, log *slog.Logger) *Dispatcher {
	return &Dispatcher{pub: pub, pool: pool, log: log, timeout: 5 * time.Second}
}

func (d *Dispatcher) Emit(ctx context.Context, ev Event) {
	metrics.ForumEvents.WithLabelValues(ev.Type).Inc()
	// detach from the request; it ends before the job runs
	base := context.WithoutCancel(ctx)
	ok := d.pool.TrySubmit(func() {
		ctx, cancel := context.WithTimeout(base, d.timeout)
		defer cancel()
		if err := d.pub.Publish(ctx, ev); err != nil {
			d.log.WarnContext(ctx, "event publish failed", "type", ev.Type, "err", err)
		}
	})
	if !ok {
		d.log.WarnContext(ctx, "event dropped, worker queue full", "type", ev.Type)
	}
}
