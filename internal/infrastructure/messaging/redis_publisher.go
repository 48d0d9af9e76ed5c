package messaging

import (
	"context"
	"fmt"
	"time"

	domain "healthmed-scheduler/internal/domain/messaging"
	"healthmed-scheduler/pkg/contract"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	FieldEventID     = "event_id"
	FieldEventType   = "event_type"
	FieldKey         = "key"
	FieldOccurredAt  = "occurred_at"
	FieldPayload     = "payload"
	FieldTraceparent = "traceparent"
)

type RedisStreamPublisherConfig struct {
	NotificationStream string
	EditedStream       string
	MaxLen             int64
}

// RedisStreamPublisher appends every payload to a redis stream with XADD.
// Streams are trimmed approximately to MaxLen entries.
type RedisStreamPublisher struct {
	client  *redis.Client
	streams map[string]string
	maxLen  int64
	log     *logrus.Logger
}

var _ domain.Publisher = (*RedisStreamPublisher)(nil)

func NewRedisStreamPublisher(client *redis.Client, cfg RedisStreamPublisherConfig, log *logrus.Logger) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client:  client,
		streams: topicMap(cfg.NotificationStream, cfg.EditedStream),
		maxLen:  cfg.MaxLen,
		log:     log,
	}
}

func (p *RedisStreamPublisher) PublishNotification(ctx context.Context, msg contract.AppointmentNotificationMessage) error {
	return p.publish(ctx, msg)
}

func (p *RedisStreamPublisher) PublishAppointmentEdited(ctx context.Context, msg contract.EditAppointmentMessage) error {
	return p.publish(ctx, msg)
}

func (p *RedisStreamPublisher) publish(ctx context.Context, msg contract.Message) error {
	env, err := contract.NewEnvelope(msg)
	if err != nil {
		return err
	}

	values := map[string]interface{}{
		FieldEventID:    env.EventID,
		FieldEventType:  env.EventType,
		FieldKey:        env.Key,
		FieldOccurredAt: env.OccurredAt.Format(time.RFC3339Nano),
		FieldPayload:    string(env.Payload),
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if tp := carrier.Get(FieldTraceparent); tp != "" {
		values[FieldTraceparent] = tp
	}

	stream := p.streams[env.EventType]
	args := &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("redis xadd %s: %w", stream, err)
	}

	p.log.Debugf("Published %s event_id=%s stream_id=%s", env.EventType, env.EventID, id)
	return nil
}

// Close is a no-op; the redis client is owned by the caller.
func (p *RedisStreamPublisher) Close() error {
	return nil
}
