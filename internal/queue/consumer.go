package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const maxBackoff = 30 * time.Second

// Consumer reads meal.booked events and appends one line per booking to
// a ledger file.
type Consumer struct {
	URL        string
	LedgerPath string
	Log        logrus.FieldLogger
}

// Run dials the broker and consumes until ctx is cancelled, reconnecting
// with exponential backoff when the connection drops.  It returns ctx.Err().
func (c *Consumer) Run(ctx context.Context) error {
	log := c.logger()
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.WithError(err).Warnf("booking-consumer: dial failed; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("booking-consumer: consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.logger().WithError(err).Warn("booking-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(MealBookedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(MealBookedQueue, "", false, false, false, false, nil)
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
			if err := c.appendLedger(d.Body); err != nil {
				c.logger().WithError(err).Error("booking-consumer: handle message failed")
				_ = d.Nack(false, false) // no requeue
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) appendLedger(body []byte) error {
	if err := os.MkdirAll(filepath.Dir(c.LedgerPath), 0o755); err != nil {
		return fmt.Errorf("mkdir ledger dir: %w", err)
	}
	f, err := os.OpenFile(c.LedgerPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()
	return WriteLedgerLine(f, body)
}

// WriteLedgerLine decodes a MealBookedEvent from body and writes its
// ledger line to w.
func WriteLedgerLine(w io.Writer, body []byte) error {
	var ev MealBookedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.AttendanceID == 0 || ev.MealID == 0 {
		return errors.New("event missing ids")
	}
	_, err := fmt.Fprintf(w, "[%s] Meal booked | attendance_id=%d | user_id=%d | meal_id=%d | meal=%q | type=%s | date=%s\n",
		ev.BookedAt, ev.AttendanceID, ev.UserID, ev.MealID, ev.MealTitle, ev.MealType, ev.MealDate)
	if err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

func (c *Consumer) logger() logrus.FieldLogger {
	if c.Log != nil {
		return c.Log
	}
	return logrus.StandardLogger()
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
