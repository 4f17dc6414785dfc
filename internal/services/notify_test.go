package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"shopfront/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	calls int
	err   error
	last  *gomail.Message
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.calls++
	if len(m) > 0 {
		f.last = m[0]
	}
	return f.err
}

func sampleOrder() models.Order {
	return models.Order{
		ID:               12,
		Email:            "a@a.com",
		TimestampCreated: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Products: map[string]models.LineTotal{
			"Floss": {Total: decimal.RequireFromString("3"), Quantity: 2},
		},
	}
}

func TestEmailService_SendsConfirmation(t *testing.T) {
	sender := &fakeSender{}
	es := newEmailService(sender, "shop@example.com")

	require.NoError(t, es.Deliver(context.Background(), sampleOrder()))
	require.Equal(t, 1, sender.calls)
	assert.Equal(t, []string{"a@a.com"}, sender.last.GetHeader("To"))
	assert.Equal(t, []string{"Order #12 confirmed"}, sender.last.GetHeader("Subject"))
}

func TestEmailService_LogsWithoutSMTP(t *testing.T) {
	es := NewEmailService(SMTPConfig{From: "shop@example.com"})
	assert.NoError(t, es.Deliver(context.Background(), sampleOrder()))
}

func TestEmailService_BreakerOpensAfterFailures(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	es := newEmailService(sender, "shop@example.com")

	for i := 0; i < 3; i++ {
		assert.Error(t, es.Deliver(context.Background(), sampleOrder()))
	}
	err := es.Deliver(context.Background(), sampleOrder())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, sender.calls)
}

func TestEmailService_CancelledContext(t *testing.T) {
	sender := &fakeSender{}
	es := newEmailService(sender, "shop@example.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, es.Deliver(ctx, sampleOrder()), context.Canceled)
	assert.Zero(t, sender.calls)
}

func TestConfirmationBody(t *testing.T) {
	body := confirmationBody(sampleOrder())
	assert.Contains(t, body, "2 x Floss: £3.00")
	assert.Contains(t, body, "Total: £3.00")
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Deliver(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Deliver(context.Background(), sampleOrder()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "12", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "order_confirmed", string(msg.Headers[0].Value))

	var payload struct {
		OrderID  int64                       `json:"order_id"`
		Email    string                      `json:"email"`
		Products map[string]models.LineTotal `json:"products"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, int64(12), payload.OrderID)
	assert.Equal(t, "a@a.com", payload.Email)
	assert.Equal(t, 2, payload.Products["Floss"].Quantity)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("no brokers")}}
	assert.ErrorContains(t, p.Deliver(context.Background(), sampleOrder()), "no brokers")
}
