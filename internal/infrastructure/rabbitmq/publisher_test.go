package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/pkg/logger"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange, key, msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublish_JSONPersistenteEnElExchange(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, exchange: "pos.events", log: logger.Nop()}

	err := p.Publish(context.Background(), ports.EventSaleCreated, map[string]string{"sale_id": "s1"})

	require.NoError(t, err)
	require.Len(t, ch.sent, 1)
	got := ch.sent[0]
	assert.Equal(t, "pos.events", got.exchange)
	assert.Equal(t, ports.EventSaleCreated, got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	var body map[string]string
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "s1", body["sale_id"])
}

func TestPublish_ErrorDelCanalSeEnvuelve(t *testing.T) {
	p := &Publisher{ch: &fakeChannel{err: errors.New("channel closed")}, exchange: "x", log: logger.Nop()}

	err := p.Publish(context.Background(), ports.EventRefundCreated, struct{}{})
	assert.ErrorContains(t, err, "refund.created")
}

func TestClose_CierraElCanal(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, log: logger.Nop()}
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher(logger.Nop())
	assert.NoError(t, p.Publish(context.Background(), ports.EventPaymentRecorded, nil))
	assert.NoError(t, p.Close())
}
