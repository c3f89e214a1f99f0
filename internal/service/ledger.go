package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pagocadm-web/redimi-loyalty/internal/model"
	"github.com/pagocadm-web/redimi-loyalty/internal/repository"
)

var ErrInvalidArgument = errors.New("invalid argument")

const (
	defaultTransactionLimit = 100
	maxTransactionLimit     = 1000
	statsScanLimit          = 10000
)

// LedgerService owns the customer-balance mutation rules: point accrual on
// purchases, redemptions, and the transaction and event trail both produce.
type LedgerService struct {
	store       repository.Store
	settingsSvc *SettingsService
	log         *zap.Logger
}

func NewLedgerService(store repository.Store, settingsSvc *SettingsService, log *zap.Logger) *LedgerService {
	return &LedgerService{store: store, settingsSvc: settingsSvc, log: log}
}

// Earn credits floor(amount * rate) points to the customer and appends the
// EARN transaction in one atomic unit, then records the simulated WhatsApp
// notification.
func (s *LedgerService) Earn(ctx context.Context, vendorID, customerID uuid.UUID, amount float64) (*model.TransactionWithCustomer, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: purchase amount must be positive", ErrInvalidArgument)
	}

	customer, err := s.store.GetCustomer(ctx, customerID, vendorID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsSvc.Resolve(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	// A vendor never overpays for a fractional point: always round down.
	points := int(math.Floor(amount * settings.Rate))

	purchase := amount
	txn, newBalance, err := s.store.ApplyTransaction(ctx, repository.LedgerEntry{
		VendorID:   vendorID,
		CustomerID: customerID,
		Type:       model.TransactionTypeEarn,
		Amount:     &purchase,
		Points:     points,
		BranchID:   settings.ActiveBranchID,
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Hola %s, sumaste %d puntos. Total actual: %d puntos.", customer.Name, points, newBalance)
	if _, err := s.store.CreateEventLog(ctx, vendorID, model.EventTypeWhatsApp, message); err != nil {
		return nil, fmt.Errorf("failed to record event: %w", err)
	}

	s.log.Info("points earned",
		zap.String("vendor_id", vendorID.String()),
		zap.String("customer_id", customerID.String()),
		zap.Int("points", points),
		zap.Int("balance", newBalance))

	return &model.TransactionWithCustomer{Transaction: *txn, CustomerName: customer.Name}, nil
}

// Redeem debits the requested points and appends the REDEEM transaction
// atomically. The sufficiency check happens inside the store against the
// authoritative balance, so concurrent redemptions can never overdraw.
func (s *LedgerService) Redeem(ctx context.Context, vendorID, customerID uuid.UUID, points int) (*model.TransactionWithCustomer, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: points must be positive", ErrInvalidArgument)
	}

	customer, err := s.store.GetCustomer(ctx, customerID, vendorID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsSvc.Resolve(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	txn, newBalance, err := s.store.ApplyTransaction(ctx, repository.LedgerEntry{
		VendorID:   vendorID,
		CustomerID: customerID,
		Type:       model.TransactionTypeRedeem,
		Points:     points,
		BranchID:   settings.ActiveBranchID,
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Hola %s, canjeaste %d puntos. Total actual: %d puntos.", customer.Name, points, newBalance)
	if _, err := s.store.CreateEventLog(ctx, vendorID, model.EventTypeWhatsApp, message); err != nil {
		return nil, fmt.Errorf("failed to record event: %w", err)
	}

	s.log.Info("points redeemed",
		zap.String("vendor_id", vendorID.String()),
		zap.String("customer_id", customerID.String()),
		zap.Int("points", points),
		zap.Int("balance", newBalance))

	return &model.TransactionWithCustomer{Transaction: *txn, CustomerName: customer.Name}, nil
}

// GetTransactions returns the vendor's ledger newest first, enriched with
// customer display names.
func (s *LedgerService) GetTransactions(ctx context.Context, vendorID uuid.UUID, limit int) ([]model.TransactionWithCustomer, error) {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}

	transactions, err := s.store.GetTransactions(ctx, vendorID, limit)
	if err != nil {
		return nil, err
	}

	customers, err := s.store.GetCustomers(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	enriched := make([]model.TransactionWithCustomer, 0, len(transactions))
	for _, txn := range transactions {
		name, ok := names[txn.CustomerID]
		if !ok {
			name = "Unknown"
		}
		enriched = append(enriched, model.TransactionWithCustomer{Transaction: txn, CustomerName: name})
	}
	return enriched, nil
}

type Stats struct {
	TotalCustomers      int `json:"total_customers"`
	TotalPointsIssued   int `json:"total_points_issued"`
	TotalPointsRedeemed int `json:"total_points_redeemed"`
}

func (s *LedgerService) GetStats(ctx context.Context, vendorID uuid.UUID) (*Stats, error) {
	transactions, err := s.store.GetTransactions(ctx, vendorID, statsScanLimit)
	if err != nil {
		return nil, err
	}
	customers, err := s.store.GetCustomers(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalCustomers: len(customers)}
	for _, txn := range transactions {
		switch txn.Type {
		case model.TransactionTypeEarn:
			stats.TotalPointsIssued += txn.Points
		case model.TransactionTypeRedeem:
			stats.TotalPointsRedeemed += txn.Points
		}
	}
	return stats, nil
}
