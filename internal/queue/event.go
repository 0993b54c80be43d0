// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/iliyamo/ticket-shop/internal/model"

// ChangeKind names what happened to a show.
type ChangeKind string

const (
    ShowCreated ChangeKind = "show.created"
    ShowUpdated ChangeKind = "show.updated"
    ShowDeleted ChangeKind = "show.deleted"
)

// ShowChangedEvent is published after every successful show mutation.
// It carries a snapshot of the show so downstream consumers can log or
// notify without querying the primary database.
type ShowChangedEvent struct {
    MessageID     string     `json:"message_id"`
    CorrelationID string     `json:"correlation_id,omitempty"`
    Kind          ChangeKind `json:"kind"`
    Show          model.Show `json:"show"`
    OccurredAt    string     `json:"occurred_at"`
}
