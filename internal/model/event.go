package model

// Event groups shows under a common title (a concert tour, a play, a
// festival).  Only the identity and a name are stored; shows reference
// an event through Show.EventID.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – event name.
//  CreatedAt – timestamp when the event was created.
type Event struct {
    ID        uint64 `db:"id" json:"id"`                 // events.id
    Name      string `db:"name" json:"name"`             // events.name
    CreatedAt string `db:"created_at" json:"created_at"` // events.created_at
}
