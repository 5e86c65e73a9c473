package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/quidalert-auth/internal/model"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: "auth.security-events"}

	accountID := uuid.New()
	at := time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), model.SecurityEvent{
		Type:       model.EventPasswordResetDone,
		AccountID:  accountID,
		EmailHash:  "abc",
		IP:         "10.0.0.1",
		RequestID:  "req-1",
		OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, accountID.String(), string(msg.Key))
	assert.Contains(t, msg.Headers, kafka.Header{Key: "event_type", Value: []byte(model.EventPasswordResetDone)})
	assert.Contains(t, msg.Headers, kafka.Header{Key: "request_id", Value: []byte("req-1")})

	var env envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, model.EventPasswordResetDone, env.EventType)
	assert.Equal(t, "abc", env.EmailHash)
	assert.Equal(t, source, env.Source)
	assert.True(t, at.Equal(env.OccurredAt))
	assert.NotEmpty(t, env.EventID)
	assert.NotContains(t, string(msg.Value), "@", "events never carry plaintext email")
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := &KafkaPublisher{writer: w, topic: "t"}

	err := p.Publish(context.Background(), model.SecurityEvent{Type: model.EventLoginSucceeded})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event to t")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), model.SecurityEvent{}))
}
