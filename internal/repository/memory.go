package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pagocadm-web/redimi-loyalty/internal/model"
)

// Memory is an in-memory Store used by the test suite and by database-less
// runs. A single mutex serializes all operations, which gives ApplyTransaction
// and EnsureSettings the same atomicity the Postgres store gets from row locks.
type Memory struct {
	mu           sync.Mutex
	vendors      map[uuid.UUID]model.Vendor
	customers    map[uuid.UUID]model.Customer
	transactions []model.Transaction
	branches     []model.Branch
	settings     map[uuid.UUID]model.Settings
	events       []model.EventLog
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		vendors:   make(map[uuid.UUID]model.Vendor),
		customers: make(map[uuid.UUID]model.Customer),
		settings:  make(map[uuid.UUID]model.Settings),
	}
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
func (m *Memory) Close() error                   { return nil }

// Vendors

func (m *Memory) GetVendor(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vendor, ok := m.vendors[id]
	if !ok {
		return nil, ErrVendorNotFound
	}
	return &vendor, nil
}

func (m *Memory) GetVendorByUsername(ctx context.Context, username string) (*model.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, vendor := range m.vendors {
		if vendor.Username == username {
			v := vendor
			return &v, nil
		}
	}
	return nil, ErrVendorNotFound
}

func (m *Memory) CreateVendor(ctx context.Context, username, passwordHash, email string) (*model.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, vendor := range m.vendors {
		if vendor.Username == username {
			return nil, fmt.Errorf("vendor username %q already taken", username)
		}
	}

	now := time.Now()
	vendor := model.Vendor{
		ID:        uuid.New(),
		Username:  username,
		Password:  passwordHash,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.vendors[vendor.ID] = vendor
	return &vendor, nil
}

func (m *Memory) UpdateVendorPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	vendor, ok := m.vendors[id]
	if !ok {
		return ErrVendorNotFound
	}
	vendor.Password = passwordHash
	vendor.UpdatedAt = time.Now()
	m.vendors[id] = vendor
	return nil
}

// Customers

func (m *Memory) GetCustomers(ctx context.Context, vendorID uuid.UUID) ([]model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	customers := []model.Customer{}
	for _, customer := range m.customers {
		if customer.VendorID == vendorID {
			customers = append(customers, customer)
		}
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CreatedAt.After(customers[j].CreatedAt)
	})
	return customers, nil
}

func (m *Memory) GetCustomer(ctx context.Context, id, vendorID uuid.UUID) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	customer, ok := m.customers[id]
	if !ok || customer.VendorID != vendorID {
		return nil, ErrCustomerNotFound
	}
	return &customer, nil
}

func (m *Memory) CreateCustomer(ctx context.Context, vendorID uuid.UUID, name, whatsapp string, birthday *string) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	customer := model.Customer{
		ID:        uuid.New(),
		VendorID:  vendorID,
		Name:      name,
		WhatsApp:  whatsapp,
		Birthday:  birthday,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.customers[customer.ID] = customer
	return &customer, nil
}

// Ledger

func (m *Memory) ApplyTransaction(ctx context.Context, entry LedgerEntry) (*model.Transaction, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	customer, ok := m.customers[entry.CustomerID]
	if !ok || customer.VendorID != entry.VendorID {
		return nil, 0, ErrCustomerNotFound
	}

	delta := entry.Points
	if entry.Type == model.TransactionTypeRedeem {
		delta = -entry.Points
	}

	newBalance := customer.Balance + delta
	if newBalance < 0 {
		return nil, 0, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, customer.Balance, entry.Points)
	}

	customer.Balance = newBalance
	customer.UpdatedAt = time.Now()
	m.customers[customer.ID] = customer

	txn := model.Transaction{
		ID:         uuid.New(),
		VendorID:   entry.VendorID,
		CustomerID: entry.CustomerID,
		Type:       entry.Type,
		Amount:     entry.Amount,
		Points:     entry.Points,
		BranchID:   entry.BranchID,
		CreatedAt:  time.Now(),
	}
	m.transactions = append(m.transactions, txn)

	return &txn, newBalance, nil
}

func (m *Memory) GetTransactions(ctx context.Context, vendorID uuid.UUID, limit int) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// newest first: walk the append-only log backwards
	transactions := []model.Transaction{}
	for i := len(m.transactions) - 1; i >= 0 && len(transactions) < limit; i-- {
		if m.transactions[i].VendorID == vendorID {
			transactions = append(transactions, m.transactions[i])
		}
	}
	return transactions, nil
}

// Settings

func (m *Memory) GetSettings(ctx context.Context, vendorID uuid.UUID) (*model.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	settings, ok := m.settings[vendorID]
	if !ok {
		return nil, ErrSettingsNotFound
	}
	return &settings, nil
}

func (m *Memory) EnsureSettings(ctx context.Context, vendorID uuid.UUID, defaultRate float64, defaultBranch string) (*model.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if settings, ok := m.settings[vendorID]; ok {
		return &settings, nil
	}

	if _, ok := m.vendors[vendorID]; !ok {
		return nil, ErrVendorNotFound
	}

	var branchID *uuid.UUID
	for i := range m.branches {
		if m.branches[i].VendorID == vendorID {
			id := m.branches[i].ID
			branchID = &id
			break
		}
	}
	if branchID == nil {
		branch := model.Branch{
			ID:        uuid.New(),
			VendorID:  vendorID,
			Name:      defaultBranch,
			CreatedAt: time.Now(),
		}
		m.branches = append(m.branches, branch)
		branchID = &branch.ID
	}

	now := time.Now()
	settings := model.Settings{
		ID:             uuid.New(),
		VendorID:       vendorID,
		Rate:           defaultRate,
		ActiveBranchID: branchID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.settings[vendorID] = settings
	return &settings, nil
}

func (m *Memory) UpdateSettings(ctx context.Context, vendorID uuid.UUID, upd SettingsUpdate) (*model.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	settings, ok := m.settings[vendorID]
	if !ok {
		return nil, ErrSettingsNotFound
	}
	if upd.Rate != nil {
		settings.Rate = *upd.Rate
	}
	if upd.ActiveBranchID != nil {
		id := *upd.ActiveBranchID
		settings.ActiveBranchID = &id
	}
	settings.UpdatedAt = time.Now()
	m.settings[vendorID] = settings
	return &settings, nil
}

func (m *Memory) GetBranches(ctx context.Context, vendorID uuid.UUID) ([]model.Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	branches := []model.Branch{}
	for _, branch := range m.branches {
		if branch.VendorID == vendorID {
			branches = append(branches, branch)
		}
	}
	return branches, nil
}

func (m *Memory) CreateBranch(ctx context.Context, vendorID uuid.UUID, name string) (*model.Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	branch := model.Branch{
		ID:        uuid.New(),
		VendorID:  vendorID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	m.branches = append(m.branches, branch)
	return &branch, nil
}

// Event log

func (m *Memory) CreateEventLog(ctx context.Context, vendorID uuid.UUID, eventType model.EventType, message string) (*model.EventLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event := model.EventLog{
		ID:        uuid.New(),
		VendorID:  vendorID,
		Type:      eventType,
		Message:   message,
		CreatedAt: time.Now(),
	}
	m.events = append(m.events, event)
	return &event, nil
}

func (m *Memory) GetEventLogs(ctx context.Context, vendorID uuid.UUID, limit int) ([]model.EventLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := []model.EventLog{}
	for i := len(m.events) - 1; i >= 0 && len(events) < limit; i-- {
		if m.events[i].VendorID == vendorID {
			events = append(events, m.events[i])
		}
	}
	return events, nil
}
