package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	channels []string
	payloads [][]byte
	failOn   string
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if channel == f.failOn {
		cmd.SetErr(assert.AnError)
		return cmd
	}
	f.channels = append(f.channels, channel)
	f.payloads = append(f.payloads, message.([]byte))
	cmd.SetVal(1)
	return cmd
}

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
	err    error
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

func sampleEvent() domain.LedgerEvent {
	return domain.LedgerEvent{
		EventType:  domain.EventPaymentRecorded,
		TenantID:   "tenant-1",
		EntityID:   "pay-1",
		Reference:  "RCT-20240415-0001",
		UnitID:     "unit-1",
		Amount:     decimal.RequireFromString("1500.50"),
		OccurredAt: time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC),
	}
}

func TestEncode_AmountIsString(t *testing.T) {
	payload, err := Encode(sampleEvent())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "payment.recorded", decoded["event_type"])
	assert.Equal(t, "1500.5", decoded["amount"])
	assert.Equal(t, "RCT-20240415-0001", decoded["reference"])
}

func TestRedisPublisher_SharedAndTypedChannels(t *testing.T) {
	rdb := &fakeRedis{}
	p := NewRedisPublisher(rdb, "", nil)

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	assert.Equal(t, []string{DefaultChannel, DefaultChannel + ":payment.recorded"}, rdb.channels)
	assert.Equal(t, rdb.payloads[0], rdb.payloads[1])
}

func TestRedisPublisher_TypedChannelFailureIsNotFatal(t *testing.T) {
	rdb := &fakeRedis{failOn: "ledger:payment.recorded"}
	p := NewRedisPublisher(rdb, "ledger", nil)

	assert.NoError(t, p.Publish(context.Background(), sampleEvent()))
	assert.Equal(t, []string{"ledger"}, rdb.channels)
}

func TestRedisPublisher_SharedChannelFailure(t *testing.T) {
	rdb := &fakeRedis{failOn: "ledger"}
	p := NewRedisPublisher(rdb, "ledger", nil)

	assert.ErrorIs(t, p.Publish(context.Background(), sampleEvent()), assert.AnError)
}

func TestKafkaPublisher_KeysByTenant(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w, nil)

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("tenant-1"), w.msgs[0].Key)
	assert.Equal(t, "event_type", w.msgs[0].Headers[0].Key)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := NewKafkaPublisher(&fakeWriter{err: assert.AnError}, nil)
	assert.ErrorIs(t, p.Publish(context.Background(), sampleEvent()), assert.AnError)
}

func TestNew_Drivers(t *testing.T) {
	p, err := New(Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, p)

	_, err = New(Config{Driver: DriverRedis}, nil)
	assert.Error(t, err)

	_, err = New(Config{Driver: DriverKafka}, nil)
	assert.Error(t, err)

	p, err = New(Config{Driver: DriverKafka, KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "ledger"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, p)

	_, err = New(Config{Driver: "sqs"}, nil)
	assert.Error(t, err)
}
