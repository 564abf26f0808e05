// Package service publishes workflow activity to RabbitMQ.  Errors are
// logged and returned so callers can ignore failures without interrupting
// the main request flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/ticketing-gateway/internal/metrics"
	"github.com/iliyamo/ticketing-gateway/internal/queue"
)

// Publisher sends ActivityEvents to the ticketing.activity queue.  Each
// publish opens its own connection; activity is low volume and this keeps
// the publisher free of reconnect state.
type Publisher struct {
	url     string
	timeout time.Duration
	log     *logrus.Entry
	metrics *metrics.Metrics
}

func NewPublisher(url string, log *logrus.Entry, m *metrics.Metrics) *Publisher {
	return &Publisher{url: url, timeout: 3 * time.Second, log: log, metrics: m}
}

// PublishActivity marshals ev and publishes it as a persistent message.
func (p *Publisher) PublishActivity(ctx context.Context, ev queue.ActivityEvent) (err error) {
	defer func() {
		p.metrics.ObservePublish(ev.Kind, err)
		if err != nil {
			p.log.WithError(err).WithFields(logrus.Fields{"kind": ev.Kind, "entity_id": ev.EntityID}).Warn("activity publish failed")
		}
	}()

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.timeout)})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err = ch.QueueDeclare(queue.ActivityQueue, true, false, false, false, nil); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return ch.PublishWithContext(ctx, "", queue.ActivityQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Kind,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
