package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pagocadm-web/redimi-loyalty/internal/model"
)

var (
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrSettingsNotFound    = errors.New("settings not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// LedgerEntry describes one balance mutation to be committed atomically
// together with its transaction record.
type LedgerEntry struct {
	VendorID   uuid.UUID
	CustomerID uuid.UUID
	Type       model.TransactionType
	Amount     *float64 // purchase amount, EARN only
	Points     int      // always positive
	BranchID   *uuid.UUID
}

// SettingsUpdate carries a partial settings update. Nil fields keep the
// stored value.
type SettingsUpdate struct {
	Rate           *float64
	ActiveBranchID *uuid.UUID
}

// Store is the persistence capability the services run against. Two
// implementations exist: Postgres for production and an in-memory store for
// tests and database-less runs, selected by configuration.
type Store interface {
	// Vendors
	GetVendor(ctx context.Context, id uuid.UUID) (*model.Vendor, error)
	GetVendorByUsername(ctx context.Context, username string) (*model.Vendor, error)
	CreateVendor(ctx context.Context, username, passwordHash, email string) (*model.Vendor, error)
	UpdateVendorPassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// Customers
	GetCustomers(ctx context.Context, vendorID uuid.UUID) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id, vendorID uuid.UUID) (*model.Customer, error)
	CreateCustomer(ctx context.Context, vendorID uuid.UUID, name, whatsapp string, birthday *string) (*model.Customer, error)

	// Ledger. ApplyTransaction commits the balance update and the
	// transaction insert as one atomic unit. A REDEEM entry that would
	// drive the balance negative fails with ErrInsufficientBalance and
	// leaves no trace. Returns the created transaction and the new balance.
	ApplyTransaction(ctx context.Context, entry LedgerEntry) (*model.Transaction, int, error)
	GetTransactions(ctx context.Context, vendorID uuid.UUID, limit int) ([]model.Transaction, error)

	// Settings. EnsureSettings lazily creates the vendor's settings row
	// (and a default branch when the vendor has none) on first access;
	// concurrent first access never creates duplicates.
	GetSettings(ctx context.Context, vendorID uuid.UUID) (*model.Settings, error)
	EnsureSettings(ctx context.Context, vendorID uuid.UUID, defaultRate float64, defaultBranch string) (*model.Settings, error)
	UpdateSettings(ctx context.Context, vendorID uuid.UUID, upd SettingsUpdate) (*model.Settings, error)
	GetBranches(ctx context.Context, vendorID uuid.UUID) ([]model.Branch, error)
	CreateBranch(ctx context.Context, vendorID uuid.UUID, name string) (*model.Branch, error)

	// Event log
	CreateEventLog(ctx context.Context, vendorID uuid.UUID, eventType model.EventType, message string) (*model.EventLog, error)
	GetEventLogs(ctx context.Context, vendorID uuid.UUID, limit int) ([]model.EventLog, error)

	Ping(ctx context.Context) error
	Close() error
}
