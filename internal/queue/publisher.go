package queue

import (
    "context"
    "encoding/json"
    "time"

    "github.com/google/uuid"
    "github.com/pkg/errors"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/ticket-shop/internal/config"
    "github.com/iliyamo/ticket-shop/internal/logging"
    "github.com/iliyamo/ticket-shop/internal/model"
)

var publishedMessages = promauto.NewCounterVec(prometheus.CounterOpts{
    Name: "ticketshop_show_changes_published_total",
    Help: "Show change messages handed to the broker, by kind and result.",
}, []string{"kind", "result"})

// Publisher sends ShowChangedEvent messages to a durable RabbitMQ queue.
// A connection is dialled per message; mutations are rare compared to
// reads and this keeps the publisher free of reconnect state.
type Publisher struct {
    cfg config.QueueConfig
    now func() time.Time
}

// NewPublisher returns a publisher for cfg.  When cfg.PublishEnabled is
// false every call is a no-op.
func NewPublisher(cfg config.QueueConfig) *Publisher {
    return &Publisher{cfg: cfg, now: time.Now}
}

// NewShowChangedEvent builds the message for a change observed in ctx.
func NewShowChangedEvent(ctx context.Context, kind ChangeKind, s model.Show, at time.Time) ShowChangedEvent {
    return ShowChangedEvent{
        MessageID:     uuid.NewString(),
        CorrelationID: logging.CorrelationID(ctx),
        Kind:          kind,
        Show:          s,
        OccurredAt:    at.UTC().Format(time.RFC3339),
    }
}

// ShowChanged publishes one change.  Messages are marked persistent.
func (p *Publisher) ShowChanged(ctx context.Context, kind ChangeKind, s model.Show) error {
    if p == nil || !p.cfg.PublishEnabled {
        return nil
    }
    err := p.publish(ctx, NewShowChangedEvent(ctx, kind, s, p.now()))
    result := "ok"
    if err != nil {
        result = "error"
    }
    publishedMessages.WithLabelValues(string(kind), result).Inc()
    return err
}

func (p *Publisher) publish(ctx context.Context, event ShowChangedEvent) error {
    body, err := json.Marshal(event)
    if err != nil {
        return errors.Wrap(err, "marshal show change")
    }

    conn, err := amqp.Dial(p.cfg.URL)
    if err != nil {
        return errors.Wrap(err, "rabbitmq dial")
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return errors.Wrap(err, "rabbitmq channel")
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
        return errors.Wrapf(err, "declare queue %s", p.cfg.Queue)
    }

    pub := amqp.Publishing{
        ContentType:   "application/json",
        DeliveryMode:  amqp.Persistent,
        MessageId:     event.MessageID,
        CorrelationId: event.CorrelationID,
        Type:          string(event.Kind),
        Timestamp:     p.now().UTC(),
        Body:          body,
    }
    // Default exchange, routing key = queue name.
    if err := ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, pub); err != nil {
        return errors.Wrap(err, "rabbitmq publish")
    }
    return nil
}
