package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagocadm-web/redimi-loyalty/internal/model"
)

func seedCustomer(t *testing.T, store *Memory) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	vendor, err := store.CreateVendor(ctx, "cafe", "hash", "cafe@example.com")
	require.NoError(t, err)
	customer, err := store.CreateCustomer(ctx, vendor.ID, "Maria", "+549110000", nil)
	require.NoError(t, err)
	return vendor.ID, customer.ID
}

func TestApplyTransactionEarn(t *testing.T) {
	store := NewMemory()
	vendorID, customerID := seedCustomer(t, store)
	ctx := context.Background()

	amount := 100.0
	txn, balance, err := store.ApplyTransaction(ctx, LedgerEntry{
		VendorID:   vendorID,
		CustomerID: customerID,
		Type:       model.TransactionTypeEarn,
		Amount:     &amount,
		Points:     5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, balance)
	assert.Equal(t, 5, txn.Points)
	assert.NotEqual(t, uuid.Nil, txn.ID)

	customer, err := store.GetCustomer(ctx, customerID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, 5, customer.Balance)
}

func TestApplyTransactionInsufficientBalanceNoPartialState(t *testing.T) {
	store := NewMemory()
	vendorID, customerID := seedCustomer(t, store)
	ctx := context.Background()

	_, _, err := store.ApplyTransaction(ctx, LedgerEntry{
		VendorID:   vendorID,
		CustomerID: customerID,
		Type:       model.TransactionTypeRedeem,
		Points:     1,
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	customer, err := store.GetCustomer(ctx, customerID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, 0, customer.Balance)

	transactions, err := store.GetTransactions(ctx, vendorID, 10)
	require.NoError(t, err)
	assert.Empty(t, transactions, "a failed redeem must leave no transaction")
}

func TestApplyTransactionWrongTenant(t *testing.T) {
	store := NewMemory()
	_, customerID := seedCustomer(t, store)
	ctx := context.Background()

	other, err := store.CreateVendor(ctx, "bakery", "hash", "bakery@example.com")
	require.NoError(t, err)

	_, _, err = store.ApplyTransaction(ctx, LedgerEntry{
		VendorID:   other.ID,
		CustomerID: customerID,
		Type:       model.TransactionTypeEarn,
		Points:     5,
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestApplyTransactionConcurrentSerializes(t *testing.T) {
	store := NewMemory()
	vendorID, customerID := seedCustomer(t, store)
	ctx := context.Background()

	_, _, err := store.ApplyTransaction(ctx, LedgerEntry{
		VendorID:   vendorID,
		CustomerID: customerID,
		Type:       model.TransactionTypeEarn,
		Points:     100,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := store.ApplyTransaction(ctx, LedgerEntry{
				VendorID:   vendorID,
				CustomerID: customerID,
				Type:       model.TransactionTypeRedeem,
				Points:     100,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, insufficient int
	for err := range errs {
		if err == nil {
			ok++
		} else {
			require.ErrorIs(t, err, ErrInsufficientBalance)
			insufficient++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	customer, err := store.GetCustomer(ctx, customerID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, 0, customer.Balance)
}

func TestGetTransactionsNewestFirstWithLimit(t *testing.T) {
	store := NewMemory()
	vendorID, customerID := seedCustomer(t, store)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, _, err := store.ApplyTransaction(ctx, LedgerEntry{
			VendorID:   vendorID,
			CustomerID: customerID,
			Type:       model.TransactionTypeEarn,
			Points:     i,
		})
		require.NoError(t, err)
	}

	transactions, err := store.GetTransactions(ctx, vendorID, 3)
	require.NoError(t, err)
	require.Len(t, transactions, 3)
	assert.Equal(t, 5, transactions[0].Points)
	assert.Equal(t, 4, transactions[1].Points)
	assert.Equal(t, 3, transactions[2].Points)
}

func TestEnsureSettingsCreatesOnce(t *testing.T) {
	store := NewMemory()
	vendorID, _ := seedCustomer(t, store)
	ctx := context.Background()

	first, err := store.EnsureSettings(ctx, vendorID, 0.05, "Main Store")
	require.NoError(t, err)
	second, err := store.EnsureSettings(ctx, vendorID, 0.10, "Other")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 0.05, second.Rate, "defaults only apply on first access")

	branches, err := store.GetBranches(ctx, vendorID)
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, "Main Store", branches[0].Name)
}

func TestEnsureSettingsReusesExistingBranch(t *testing.T) {
	store := NewMemory()
	vendorID, _ := seedCustomer(t, store)
	ctx := context.Background()

	branch, err := store.CreateBranch(ctx, vendorID, "Original")
	require.NoError(t, err)

	settings, err := store.EnsureSettings(ctx, vendorID, 0.05, "Main Store")
	require.NoError(t, err)
	require.NotNil(t, settings.ActiveBranchID)
	assert.Equal(t, branch.ID, *settings.ActiveBranchID)

	branches, err := store.GetBranches(ctx, vendorID)
	require.NoError(t, err)
	assert.Len(t, branches, 1)
}

func TestUpdateSettingsPartial(t *testing.T) {
	store := NewMemory()
	vendorID, _ := seedCustomer(t, store)
	ctx := context.Background()

	created, err := store.EnsureSettings(ctx, vendorID, 0.05, "Main Store")
	require.NoError(t, err)

	rate := 0.2
	updated, err := store.UpdateSettings(ctx, vendorID, SettingsUpdate{Rate: &rate})
	require.NoError(t, err)
	assert.Equal(t, 0.2, updated.Rate)
	assert.Equal(t, created.ActiveBranchID, updated.ActiveBranchID)
}

func TestUpdateSettingsMissingRow(t *testing.T) {
	store := NewMemory()

	_, err := store.UpdateSettings(context.Background(), uuid.New(), SettingsUpdate{})
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestEventLogsNewestFirst(t *testing.T) {
	store := NewMemory()
	vendorID, _ := seedCustomer(t, store)
	ctx := context.Background()

	_, err := store.CreateEventLog(ctx, vendorID, model.EventTypeWhatsApp, "first")
	require.NoError(t, err)
	_, err = store.CreateEventLog(ctx, vendorID, model.EventTypeSystem, "second")
	require.NoError(t, err)

	events, err := store.GetEventLogs(ctx, vendorID, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "second", events[0].Message)
	assert.Equal(t, "first", events[1].Message)
}

func TestCustomersScopedByVendor(t *testing.T) {
	store := NewMemory()
	vendorID, customerID := seedCustomer(t, store)
	ctx := context.Background()

	other, err := store.CreateVendor(ctx, "bakery", "hash", "bakery@example.com")
	require.NoError(t, err)

	_, err = store.GetCustomer(ctx, customerID, other.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	mine, err := store.GetCustomers(ctx, vendorID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := store.GetCustomers(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
