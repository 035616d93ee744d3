package redis

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const defaultBufferSize = 256

// Event is the msgpack envelope published for every broadcast.
type Event struct {
	Action    string             `msgpack:"action"`
	Payload   msgpack.RawMessage `msgpack:"payload"`
	Timestamp int64              `msgpack:"ts"`
}

// Publisher republishes session broadcasts on a Redis pub/sub channel.
// Publish never blocks the caller: events are queued and sent by Run in order.
type Publisher struct {
	logger  *slog.Logger
	client  *redis.Client
	channel string
	queue   chan []byte
}

func NewPublisher(logger *slog.Logger, client *redis.Client, channel string, bufferSize int) *Publisher {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	return &Publisher{
		logger:  logger.With("component", "redis_publisher"),
		client:  client,
		channel: channel,
		queue:   make(chan []byte, bufferSize),
	}
}

// Publish - encodes the event and queues it, dropping it when the queue is full.
func (that *Publisher) Publish(action string, payload any) {
	log := that.logger.With("method", "Publish", "action", action)

	data, err := EncodeEvent(action, payload, time.Now())
	if err != nil {
		log.Error("failed to encode event", "error", err)
		return
	}

	select {
	case that.queue <- data:
	default:
		log.Warn("publish queue is full, event dropped")
	}
}

// Run - sends queued events until ctx is canceled.
func (that *Publisher) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run", "channel", that.channel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case data := <-that.queue:
			if err := that.client.Publish(ctx, that.channel, data).Err(); err != nil {
				log.Error("failed to publish event", "error", err)
			}
		}
	}
}

// EncodeEvent - msgpack envelope; the payload keeps the websocket field names.
func EncodeEvent(action string, payload any, at time.Time) ([]byte, error) {
	event := Event{
		Action:    action,
		Timestamp: at.UnixMilli(),
	}

	if payload != nil {
		raw, err := marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		event.Payload = raw
	}

	data, err := msgpack.Marshal(&event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return data, nil
}

func DecodeEvent(data []byte) (*Event, error) {
	var event Event
	if err := msgpack.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}

// DecodePayload - decodes an event payload into v using json field names.
// Events without a payload leave v untouched.
func DecodePayload(raw msgpack.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}

	dec := msgpack.NewDecoder(bytes.NewReader(raw))
	dec.SetCustomStructTag("json")

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	return nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
