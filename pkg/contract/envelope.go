package contract

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Envelope is the metadata sent next to every payload, as message headers on
// kafka and as stream fields on redis.
type Envelope struct {
	EventID    string
	EventType  string
	Key        string
	OccurredAt time.Time
	Payload    []byte
}

// NewEnvelope serialises msg and stamps it with a fresh event id.
func NewEnvelope(msg Message) (Envelope, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", msg.EventType(), err)
	}
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  msg.EventType(),
		Key:        msg.PartitionKey(),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}, nil
}
