package model

import (
	"time"

	"github.com/google/uuid"
)

// Settings is the per-vendor configuration row, one per vendor.
type Settings struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	VendorID       uuid.UUID  `json:"vendor_id" db:"vendor_id"`
	Rate           float64    `json:"rate" db:"rate"` // points per currency unit (0.05 = 5%)
	ActiveBranchID *uuid.UUID `json:"active_branch_id,omitempty" db:"active_branch_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
