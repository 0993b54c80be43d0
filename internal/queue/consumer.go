// Package queue contains the background consumer that listens to the
// show change queue and appends one line per change to a change log.
package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "time"

    "github.com/pkg/errors"
    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/ticket-shop/internal/config"
)

// StartChangeLogConsumer connects to RabbitMQ, declares the change queue
// (durable) and consumes until ctx is cancelled.  Broker failures are
// retried with exponential backoff capped at 30s.  A message that cannot
// be handled is rejected without requeue so the loop never spins on it.
func StartChangeLogConsumer(ctx context.Context, cfg config.QueueConfig) error {
    log := logrus.WithField("component", "change-log-consumer")
    backoff := time.Second
    for {
        conn, err := amqp.Dial(cfg.URL)
        if err != nil {
            log.WithError(err).Warnf("failed to dial broker; retrying in %s", backoff)
            if !sleep(ctx, backoff) {
                return nil
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = consumeLoop(ctx, conn, cfg)
        _ = conn.Close()
        if ctx.Err() != nil {
            return nil
        }
        log.WithError(err).Warn("consume loop ended; reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return nil
        }
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg config.QueueConfig) error {
    ch, err := conn.Channel()
    if err != nil {
        return errors.Wrap(err, "channel open")
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        return errors.Wrap(err, "set qos")
    }
    if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
        return errors.Wrap(err, "queue declare")
    }
    msgs, err := ch.ConsumeWithContext(ctx, cfg.Queue, "", false, false, false, false, nil)
    if err != nil {
        return errors.Wrap(err, "queue consume")
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := handleMessage(cfg.ChangeLogPath, d.Body); err != nil {
                logrus.WithError(err).WithField("message_id", d.MessageId).Error("handle show change failed")
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func handleMessage(path string, body []byte) error {
    var ev ShowChangedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return errors.Wrap(err, "unmarshal")
    }
    if ev.Kind == "" {
        return errors.New("message without kind")
    }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return errors.Wrap(err, "mkdir change log dir")
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return errors.Wrap(err, "open change log")
    }
    defer f.Close()

    if _, err := f.WriteString(formatChange(ev)); err != nil {
        return errors.Wrap(err, "write change log")
    }
    return nil
}

func formatChange(ev ShowChangedEvent) string {
    return fmt.Sprintf("[%s] %s | show_id=%d | event_id=%d | name=%q | starts_at=%q | tickets=%d | price=%d cents | correlation_id=%s\n",
        ev.OccurredAt, ev.Kind, ev.Show.ID, ev.Show.EventID, ev.Show.Name, ev.Show.StartsAt,
        ev.Show.AvailableTickets, ev.Show.PriceCents, ev.CorrelationID)
}

// sleep waits for d or until ctx is done; it reports whether ctx is still live.
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
