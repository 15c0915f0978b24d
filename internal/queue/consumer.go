package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/event-analytics/internal/logging"
)

// Handler processes one import event.  A non-nil error rejects the message.
type Handler func(ctx context.Context, ev ImportCompletedEvent) error

const maxBackoff = 30 * time.Second

// StartImportConsumer consumes the attendees.imported queue until ctx is
// cancelled, reconnecting with exponential backoff when the broker goes
// away.  Messages are handled one at a time; a message whose handler fails
// is rejected without requeue so it cannot loop.
func StartImportConsumer(ctx context.Context, url string, handle Handler) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logging.Warn().Err(err).Dur("retry_in", backoff).Msg("import-consumer: failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, handle)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Warn().Err(err).Msg("import-consumer: consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, handle Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(1, 0, false); err != nil {
		logging.Warn().Err(err).Msg("import-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(ImportQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(ImportQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleDelivery(ctx, d.Body, handle); err != nil {
				logging.Error().Err(err).Str("message_id", d.MessageId).Msg("import-consumer: handle message failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleDelivery(ctx context.Context, body []byte, handle Handler) error {
	ev, err := DecodeEvent(body)
	if err != nil {
		return err
	}
	log := logging.With("run_id", ev.RunID)
	log.Info().Int("inserted", ev.Inserted).Str("source", ev.SourcePath).Msg("import event received")
	return handle(ctx, ev)
}

// DecodeEvent parses a message body.
func DecodeEvent(body []byte) (ImportCompletedEvent, error) {
	var ev ImportCompletedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal: %w", err)
	}
	if ev.RunID == "" {
		return ev, errors.New("event without run_id")
	}
	return ev, nil
}
