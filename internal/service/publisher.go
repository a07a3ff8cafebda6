// Package service holds the application logic between the HTTP handlers
// and the repositories: booking admission, meal administration and the
// admin dashboard.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/snehachill/meal-booking/internal/queue"
)

// Publisher sends domain events to RabbitMQ.  It dials per publish, so a
// broker outage only costs the event, never the request.
type Publisher struct {
	URL string
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// PublishMealBooked sends ev to the durable meal.booked queue as a
// persistent JSON message.
func (p *Publisher) PublishMealBooked(ctx context.Context, ev queue.MealBookedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.MealBookedQueue, true, false, false, false, nil); err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",                    // default exchange
		queue.MealBookedQueue, // routing key = queue name
		false,                 // mandatory
		false,                 // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}
