package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "healthmed-scheduler/internal/domain/messaging"
	"healthmed-scheduler/pkg/contract"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisherConfig struct {
	Brokers           string
	NotificationTopic string
	EditedTopic       string
}

// KafkaPublisher writes one kafka message per published payload. Messages are
// keyed by appointment id so that events for one appointment stay ordered.
type KafkaPublisher struct {
	writer messageWriter
	topics map[string]string
	log    *logrus.Logger
}

var _ domain.Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(cfg KafkaPublisherConfig, log *logrus.Logger) (*KafkaPublisher, error) {
	brokers := SplitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}

	log.Infof("Kafka publisher ready: brokers=%v", brokers)
	return newKafkaPublisher(writer, cfg, log), nil
}

func newKafkaPublisher(writer messageWriter, cfg KafkaPublisherConfig, log *logrus.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		topics: topicMap(cfg.NotificationTopic, cfg.EditedTopic),
		log:    log,
	}
}

func (p *KafkaPublisher) PublishNotification(ctx context.Context, msg contract.AppointmentNotificationMessage) error {
	return p.publish(ctx, msg)
}

func (p *KafkaPublisher) PublishAppointmentEdited(ctx context.Context, msg contract.EditAppointmentMessage) error {
	return p.publish(ctx, msg)
}

func (p *KafkaPublisher) publish(ctx context.Context, msg contract.Message) error {
	env, err := contract.NewEnvelope(msg)
	if err != nil {
		return err
	}

	km := kafka.Message{
		Topic: p.topics[env.EventType],
		Key:   []byte(env.Key),
		Value: env.Payload,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(env.EventID)},
			{Key: HeaderEventType, Value: []byte(env.EventType)},
		},
	}
	km.Headers = InjectTraceHeaders(ctx, km.Headers)

	if err := p.writer.WriteMessages(ctx, km); err != nil {
		return fmt.Errorf("kafka write %s: %w", km.Topic, err)
	}

	p.log.Debugf("Published %s event_id=%s key=%s", env.EventType, env.EventID, env.Key)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// topicMap resolves each event type to its configured topic, falling back to
// the event type name.
func topicMap(notificationTopic, editedTopic string) map[string]string {
	if notificationTopic == "" {
		notificationTopic = contract.EventAppointmentNotification
	}
	if editedTopic == "" {
		editedTopic = contract.EventAppointmentEdited
	}
	return map[string]string{
		contract.EventAppointmentNotification: notificationTopic,
		contract.EventAppointmentEdited:       editedTopic,
	}
}
