package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pagocadm-web/redimi-loyalty/internal/model"
)

// ApplyTransaction commits a balance mutation and its transaction record in
// one database transaction. The customer row is locked for the duration, so
// the sufficiency check on a REDEEM is evaluated against the authoritative
// balance and concurrent redemptions serialize instead of jointly overdrawing.
func (p *Postgres) ApplyTransaction(ctx context.Context, entry LedgerEntry) (*model.Transaction, int, error) {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	var balance int
	err = tx.GetContext(ctx, &balance,
		"SELECT balance FROM customers WHERE id = $1 AND vendor_id = $2 FOR UPDATE",
		entry.CustomerID, entry.VendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrCustomerNotFound
		}
		return nil, 0, fmt.Errorf("failed to get balance: %w", err)
	}

	delta := entry.Points
	if entry.Type == model.TransactionTypeRedeem {
		delta = -entry.Points
	}

	newBalance := balance + delta
	if newBalance < 0 {
		return nil, 0, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, balance, entry.Points)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE customers SET balance = $1, updated_at = NOW() WHERE id = $2 AND vendor_id = $3",
		newBalance, entry.CustomerID, entry.VendorID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to update balance: %w", err)
	}

	var txn model.Transaction
	err = tx.GetContext(ctx, &txn, `
		INSERT INTO transactions (vendor_id, customer_id, type, amount, points, branch_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *`,
		entry.VendorID, entry.CustomerID, entry.Type, entry.Amount, entry.Points, entry.BranchID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}

	return &txn, newBalance, nil
}

func (p *Postgres) GetTransactions(ctx context.Context, vendorID uuid.UUID, limit int) ([]model.Transaction, error) {
	transactions := []model.Transaction{}
	err := p.db.SelectContext(ctx, &transactions, `
		SELECT * FROM transactions
		WHERE vendor_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		vendorID, limit)
	return transactions, err
}
