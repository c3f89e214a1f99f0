package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeEarn   TransactionType = "EARN"
	TransactionTypeRedeem TransactionType = "REDEEM"
)

type Transaction struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	VendorID   uuid.UUID       `json:"vendor_id" db:"vendor_id"`
	CustomerID uuid.UUID       `json:"customer_id" db:"customer_id"`
	Type       TransactionType `json:"type" db:"type"`
	Amount     *float64        `json:"amount,omitempty" db:"amount"` // purchase amount, EARN only
	Points     int             `json:"points" db:"points"`           // always positive, sign implied by type
	BranchID   *uuid.UUID      `json:"branch_id,omitempty" db:"branch_id"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

type TransactionWithCustomer struct {
	Transaction
	CustomerName string `json:"customer_name"`
}
