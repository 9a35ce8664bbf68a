package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaSink publishes events keyed by entity id so one appointment's history
// lands on one partition in order.
type KafkaSink struct {
	writer *kafka.Writer
}

type message struct {
	Action     string         `json:"action"`
	WorkshopID string         `json:"workshop_id"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entity_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	At         time.Time      `json:"at"`
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (k *KafkaSink) Name() string { return "kafka" }

func (k *KafkaSink) Record(ctx context.Context, ev Event) error {
	msg, err := encodeMessage(ev)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, msg)
}

func (k *KafkaSink) Close() error {
	return k.writer.Close()
}

func encodeMessage(ev Event) (kafka.Message, error) {
	body := message{
		Action:     ev.Action,
		WorkshopID: ev.WorkshopID.String(),
		Entity:     ev.Entity,
		Metadata:   ev.Metadata,
		At:         ev.At,
	}
	key := ev.WorkshopID.String()
	if ev.EntityID != nil {
		body.EntityID = ev.EntityID.String()
		key = body.EntityID
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Action)},
		},
	}, nil
}
