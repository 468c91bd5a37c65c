package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/josh-kwaku/bank-ledger/internal/domain"
)

// accountRow pairs an account with the mutex that serializes its mutations.
// The mutex lives as long as the account.
type accountRow struct {
	mu      sync.Mutex
	account *domain.Account
}

// AccountRepository is the in-memory account table, keyed by client ID.
type AccountRepository struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*accountRow
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{rows: make(map[uuid.UUID]*accountRow)}
}

// Create inserts account for its client. The existence check and the insert
// happen under the table lock, so concurrent creators for one client cannot
// both succeed.
func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rows[account.ClientID]; exists {
		return fmt.Errorf("Create: %w", domain.ErrAccountExists)
	}
	r.rows[account.ClientID] = &accountRow{account: account}
	return nil
}

// GetByClientID returns a copy of the client's account.
func (r *AccountRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) (*domain.Account, error) {
	account, release, err := r.GetForUpdate(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("GetByClientID: %w", err)
	}
	defer release()

	cp := *account
	return &cp, nil
}

// GetForUpdate locks the client's account and returns the live record. The
// caller owns the account until it calls release; release must be called
// exactly once.
func (r *AccountRepository) GetForUpdate(_ context.Context, clientID uuid.UUID) (*domain.Account, func(), error) {
	r.mu.RLock()
	row, ok := r.rows[clientID]
	r.mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("GetForUpdate: %w", domain.ErrAccountNotFound)
	}

	row.mu.Lock()
	return row.account, row.mu.Unlock, nil
}

func (r *AccountRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}
