package model

// Show represents a single scheduled performance of an event.  A show
// belongs to exactly one event and carries its own start time, ticket
// allotment and price.  This struct corresponds to a row in the
// `shows` table.
//
// Fields:
//  ID               – primary key identifier, assigned by the store
//                     (zero until the show has been persisted).
//  EventID          – event the show belongs to.
//  Name             – display name of the performance.
//  Description      – optional free text (nil when unset).
//  StartsAt         – start time in DB format "2006-01-02 15:04:05" (UTC).
//  AvailableTickets – number of tickets on sale for this show.
//  PriceCents       – ticket price in cents.
//  CreatedAt        – creation timestamp, assigned by the store.
//  UpdatedAt        – last update timestamp, assigned by the store.
type Show struct {
    ID               uint64  `db:"id" json:"id"`                               // shows.id
    EventID          uint64  `db:"event_id" json:"event_id"`                   // shows.event_id
    Name             string  `db:"name" json:"name"`                           // shows.name
    Description      *string `db:"description" json:"description,omitempty"`   // shows.description (nullable)
    StartsAt         string  `db:"starts_at" json:"starts_at"`                 // shows.starts_at
    AvailableTickets uint32  `db:"available_tickets" json:"available_tickets"` // shows.available_tickets
    PriceCents       uint32  `db:"price_cents" json:"price_cents"`             // shows.price_cents
    CreatedAt        string  `db:"created_at" json:"created_at"`               // shows.created_at
    UpdatedAt        string  `db:"updated_at" json:"updated_at"`               // shows.updated_at
}

// TimeLayout is the format used for every timestamp column.
const TimeLayout = "2006-01-02 15:04:05"
