// Package notify announces memo mutations on a Kafka stream. Delivery is
// at-least-once and best-effort: a failed publish is reported to the caller,
// who logs it and moves on.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

// Event is the envelope published per mutation. Timestamp is stamped by
// Publish in UTC.
type Event struct {
	Type      string `json:"event_type"`
	MemoID    uint   `json:"memo_id"`
	Title     string `json:"title,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Topic maps an event to its stream, e.g. "created" -> "memo-created".
func (e Event) Topic() string {
	return "memo-" + e.Type
}

type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(brokers []string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (k *Kafka) Publish(ctx context.Context, event Event) error {
	event.Timestamp = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encoding event")
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Topic: event.Topic(),
		Value: payload,
	})
	return errors.Wrapf(err, "publishing to %s", event.Topic())
}

func (k *Kafka) Configured() bool {
	return true
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

// Nop stands in when no brokers are configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, event Event) error { return nil }
func (Nop) Configured() bool                               { return false }
