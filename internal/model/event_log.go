package model

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeWhatsApp EventType = "WHATSAPP"
	EventTypeSystem   EventType = "SYSTEM"
)

// EventLog records notification-worthy occurrences. Outbound messages are
// simulated: they are stored and logged, never delivered.
type EventLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	VendorID  uuid.UUID `json:"vendor_id" db:"vendor_id"`
	Type      EventType `json:"type" db:"type"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
