package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"healthmed-scheduler/pkg/contract"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type recordingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func tracedContext(t *testing.T) context.Context {
	t.Helper()
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func traceContextFromHeaders(ctx context.Context, headers []kafka.Header) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, &kafkaHeaderCarrier{headers: headers})
}

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" kafka-1:9092, ,kafka-2:9092,")
	if len(got) != 2 || got[0] != "kafka-1:9092" || got[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers: %v", got)
	}
	if SplitBrokers("") != nil {
		t.Fatal("expected no brokers for empty input")
	}
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	if _, err := NewKafkaPublisher(KafkaPublisherConfig{Brokers: " , "}, quietLogger()); err == nil {
		t.Fatal("expected an error without brokers")
	}
}

func TestKafkaPublisher_PublishNotification(t *testing.T) {
	writer := &recordingWriter{}
	p := newKafkaPublisher(writer, KafkaPublisherConfig{NotificationTopic: "mail.requests"}, quietLogger())

	msg := contract.AppointmentNotificationMessage{
		AppointmentID: uuid.New(),
		Subject:       "New appointment",
		Body:          "<p>Hello</p>",
		Recipient:     "house@clinic.test",
	}
	if err := p.PublishNotification(tracedContext(t), msg); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(writer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(writer.messages))
	}
	km := writer.messages[0]
	if km.Topic != "mail.requests" {
		t.Fatalf("expected configured topic, got %q", km.Topic)
	}
	if string(km.Key) != msg.AppointmentID.String() {
		t.Fatalf("expected key %s, got %s", msg.AppointmentID, km.Key)
	}
	if HeaderValue(km.Headers, HeaderEventType) != contract.EventAppointmentNotification {
		t.Fatalf("unexpected event type header: %v", km.Headers)
	}
	if _, err := uuid.Parse(HeaderValue(km.Headers, HeaderEventID)); err != nil {
		t.Fatalf("expected a uuid event id, got %q", HeaderValue(km.Headers, HeaderEventID))
	}
	if HeaderValue(km.Headers, "traceparent") == "" {
		t.Fatal("expected trace context to be propagated")
	}

	var decoded contract.AppointmentNotificationMessage
	if err := json.Unmarshal(km.Value, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded != msg {
		t.Fatalf("payload mismatch: %+v", decoded)
	}

	extracted := trace.SpanContextFromContext(traceContextFromHeaders(context.Background(), km.Headers))
	if extracted.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("unexpected extracted trace id %s", extracted.TraceID())
	}
}

func TestKafkaPublisher_EditedUsesDefaultTopic(t *testing.T) {
	writer := &recordingWriter{}
	p := newKafkaPublisher(writer, KafkaPublisherConfig{}, quietLogger())

	msg := contract.EditAppointmentMessage{ID: uuid.New(), Title: "Follow-up"}
	if err := p.PublishAppointmentEdited(context.Background(), msg); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if writer.messages[0].Topic != contract.EventAppointmentEdited {
		t.Fatalf("expected default topic, got %q", writer.messages[0].Topic)
	}
	if string(writer.messages[0].Key) != msg.ID.String() {
		t.Fatalf("expected key %s, got %s", msg.ID, writer.messages[0].Key)
	}
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	cause := errors.New("leader not available")
	writer := &recordingWriter{err: cause}
	p := newKafkaPublisher(writer, KafkaPublisherConfig{}, quietLogger())

	err := p.PublishNotification(context.Background(), contract.AppointmentNotificationMessage{AppointmentID: uuid.New()})
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}

	if err := p.Close(); err != nil || !writer.closed {
		t.Fatal("expected the writer to be closed")
	}
}

func TestRedisStreamPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := NewRedisStreamPublisher(client, RedisStreamPublisherConfig{EditedStream: "appointments.edited"}, quietLogger())

	start := time.Date(2025, 1, 10, 10, 30, 0, 0, time.UTC)
	edit := contract.EditAppointmentMessage{
		ID:        uuid.New(),
		Title:     "Follow-up",
		StartAt:   start,
		FinishAt:  start.Add(30 * time.Minute),
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
	}
	notification := contract.AppointmentNotificationMessage{AppointmentID: edit.ID, Recipient: "house@clinic.test"}

	ctx := tracedContext(t)
	if err := p.PublishAppointmentEdited(ctx, edit); err != nil {
		t.Fatalf("publish edited: %v", err)
	}
	if err := p.PublishNotification(ctx, notification); err != nil {
		t.Fatalf("publish notification: %v", err)
	}

	entries, err := client.XRange(context.Background(), "appointments.edited", "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 edited entry, got %d", len(entries))
	}
	values := entries[0].Values
	if values[FieldEventType] != contract.EventAppointmentEdited {
		t.Fatalf("unexpected event type %v", values[FieldEventType])
	}
	if values[FieldKey] != edit.ID.String() {
		t.Fatalf("unexpected key %v", values[FieldKey])
	}
	if values[FieldTraceparent] == nil {
		t.Fatal("expected traceparent field")
	}

	var decoded contract.EditAppointmentMessage
	if err := json.Unmarshal([]byte(values[FieldPayload].(string)), &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.ID != edit.ID || !decoded.StartAt.Equal(start) || decoded.DoctorID != edit.DoctorID {
		t.Fatalf("payload mismatch: %+v", decoded)
	}

	n, err := client.XLen(context.Background(), contract.EventAppointmentNotification).Result()
	if err != nil || n != 1 {
		t.Fatalf("expected 1 notification entry on the default stream, got %d (%v)", n, err)
	}
}

func TestRedisStreamPublisher_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	p := NewRedisStreamPublisher(client, RedisStreamPublisherConfig{}, quietLogger())
	if err := p.PublishNotification(context.Background(), contract.AppointmentNotificationMessage{AppointmentID: uuid.New()}); err == nil {
		t.Fatal("expected an error when redis is down")
	}
}
