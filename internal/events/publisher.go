package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TopicMatchCreated = "match.created"
	TopicMessageSent  = "message.sent"
)

// MatchCreated is published once per newly detected mutual like.
type MatchCreated struct {
	ChatID string    `json:"chat_id"`
	UserA  string    `json:"user_a"`
	UserB  string    `json:"user_b"`
	At     time.Time `json:"at"`
}

// MessageSent is published after a message is persisted. Content is not
// included; consumers fetch history over the API.
type MessageSent struct {
	ChatID string    `json:"chat_id"`
	Sender string    `json:"sender"`
	At     time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
	Close() error
}

// messageWriter is the part of kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer  messageWriter
	backoff time.Duration
	log     *zap.SugaredLogger
}

// NewKafkaPublisher writes synchronously so broker errors surface on Publish
// and drive the retries.
func NewKafkaPublisher(brokers []string, log *zap.SugaredLogger) Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
	return &kafkaPublisher{writer: w, backoff: 500 * time.Millisecond, log: log}
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(time.Now().UTC().Format(time.RFC3339Nano)),
		Value: data,
	}
	for i := 0; i < 3; i++ {
		if err = p.writer.WriteMessages(ctx, msg); err != nil {
			p.log.Warnw("kafka publish failed", "topic", topic, "attempt", i+1, "err", err)
			time.Sleep(p.backoff)
			continue
		}
		return nil
	}
	return fmt.Errorf("publish %s: %w", topic, err)
}

func (p *kafkaPublisher) Close() error { return p.writer.Close() }

// Nop is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }
