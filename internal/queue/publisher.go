package queue

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/event-analytics/internal/ingest"
	"github.com/iliyamo/event-analytics/internal/logging"
)

// PublishImportCompleted publishes ev to the attendees.imported queue as a
// persistent JSON message.  Failures are logged and returned so callers
// can ignore them.
func PublishImportCompleted(ctx context.Context, url string, ev ImportCompletedEvent) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		logging.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logging.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		ImportQueue, // name
		true,        // durable
		false,       // autoDelete
		false,       // exclusive
		false,       // noWait
		nil,         // args
	); err != nil {
		logging.Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.RunID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", ImportQueue, false, false, pub); err != nil {
		logging.Warn().Err(err).Msg("rabbitmq: publish failed")
		return err
	}
	logging.Info().Str("run_id", ev.RunID).Str("queue", ImportQueue).Msg("import event published")
	return nil
}

// Notifier publishes an event for every completed import.
type Notifier struct {
	URL string
}

// ImportCompleted implements ingest.Notifier.
func (n Notifier) ImportCompleted(ctx context.Context, res *ingest.Result) error {
	return PublishImportCompleted(ctx, n.URL, EventFromResult(res, time.Now()))
}
