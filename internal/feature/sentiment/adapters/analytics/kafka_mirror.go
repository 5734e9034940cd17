// Package analytics mirrors analytics webhook events to Kafka.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"sentiment_backend/internal/feature/sentiment/usecase"
)

// DefaultTopic is the Kafka topic analytics events are mirrored to.
const DefaultTopic = "sentiment.analytics"

// DefaultMirrorTimeout bounds the Kafka write, separately from the webhook publish.
const DefaultMirrorTimeout = 2 * time.Second

// Producer is the subset of the Kafka producer used here.
type Producer interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

// Event is the Kafka message body.
type Event struct {
	Path       string    `json:"path"`
	Payload    any       `json:"payload"`
	MirroredAt time.Time `json:"mirroredAt"`
}

// KafkaMirror は Webhook への送信結果をそのまま返しつつ、同じイベントを Kafka に複製します。
// Kafka 側の失敗はログのみで、呼び出し元には影響しません。
// Webhook を先に送り、Kafka は独自の timeout で書き込みます。
type KafkaMirror struct {
	next     usecase.EventPublisher
	producer Producer
	topic    string
	timeout  time.Duration
	now      func() time.Time
}

var _ usecase.EventPublisher = (*KafkaMirror)(nil)

// NewKafkaMirror wraps next. topic が空なら DefaultTopic を使います。
func NewKafkaMirror(next usecase.EventPublisher, producer Producer, topic string) *KafkaMirror {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaMirror{next: next, producer: producer, topic: topic, timeout: DefaultMirrorTimeout, now: time.Now}
}

// Publish forwards to the wrapped publisher, then mirrors to Kafka.
func (m *KafkaMirror) Publish(ctx context.Context, path string, payload any) error {
	var err error
	if m.next != nil {
		err = m.next.Publish(ctx, path, payload)
	}
	m.mirror(ctx, path, payload)
	return err
}

func (m *KafkaMirror) mirror(ctx context.Context, path string, payload any) {
	// Webhook 側が期限を使い切っていても Kafka には書き込む
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()

	ev := Event{Path: path, Payload: payload, MirroredAt: m.now().UTC()}
	if err := m.producer.Publish(ctx, m.topic, path, ev); err != nil {
		slog.Warn("analytics kafka mirror failed", "topic", m.topic, "path", path, "error", err)
	}
}
