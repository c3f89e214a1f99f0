package model

import (
	"time"

	"github.com/google/uuid"
)

type Branch struct {
	ID        uuid.UUID `json:"id" db:"id"`
	VendorID  uuid.UUID `json:"vendor_id" db:"vendor_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
