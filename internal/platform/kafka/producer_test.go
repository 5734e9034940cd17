package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	msgs     []kafka.Message
	writeErr error
	closeErr error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return f.closeErr
}

func newTestProducer(writers map[string]*fakeWriter) (*Producer, *int) {
	created := 0
	p := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}})
	p.newWriter = func(topic string) messageWriter {
		created++
		w, ok := writers[topic]
		if !ok {
			w = &fakeWriter{}
			writers[topic] = w
		}
		return w
	}
	return p, &created
}

func TestProducer_Publish(t *testing.T) {
	t.Parallel()

	writers := map[string]*fakeWriter{}
	p, created := newTestProducer(writers)
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, "sentiment.analytics", "AAPL", map[string]any{"stock": "AAPL"}))
	require.NoError(t, p.Publish(ctx, "sentiment.analytics", "TSLA", map[string]any{"stock": "TSLA"}))
	assert.Equal(t, 1, *created, "writer is reused per topic")

	w := writers["sentiment.analytics"]
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "AAPL", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &got))
	assert.Equal(t, "TSLA", got["stock"])
}

func TestProducer_PublishErrors(t *testing.T) {
	t.Parallel()

	writeErr := errors.New("leader not available")
	writers := map[string]*fakeWriter{"t": {writeErr: writeErr}}
	p, _ := newTestProducer(writers)

	err := p.Publish(context.Background(), "t", "k", map[string]any{})
	assert.ErrorIs(t, err, writeErr)

	err = p.Publish(context.Background(), "t", "k", make(chan int))
	assert.ErrorContains(t, err, "marshal")
}

func TestProducer_Close(t *testing.T) {
	t.Parallel()

	closeErr := errors.New("flush failed")
	writers := map[string]*fakeWriter{"a": {}, "b": {closeErr: closeErr}}
	p, _ := newTestProducer(writers)
	require.NoError(t, p.Publish(context.Background(), "a", "k", 1))
	require.NoError(t, p.Publish(context.Background(), "b", "k", 1))

	assert.ErrorIs(t, p.Close(), closeErr)
	assert.True(t, writers["a"].closed)
	assert.True(t, writers["b"].closed)

	assert.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), "a", "k", 1), ErrClosed)
}
