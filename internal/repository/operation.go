package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/josh-kwaku/bank-ledger/internal/domain"
)

// OperationRepository is the append-only operation log. It has its own lock
// so appends for different accounts can run concurrently with each other's
// account locks held.
type OperationRepository struct {
	mu        sync.RWMutex
	entries   []domain.Operation
	byAccount map[uuid.UUID][]int
}

func NewOperationRepository() *OperationRepository {
	return &OperationRepository{byAccount: make(map[uuid.UUID][]int)}
}

// Append stores op and stamps it with its log position.
func (r *OperationRepository) Append(_ context.Context, op *domain.Operation) error {
	if !op.Kind.IsValid() {
		return fmt.Errorf("Append: %w", domain.ErrInvalidOperationKind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	op.Sequence = uint64(len(r.entries)) + 1
	r.byAccount[op.AccountID] = append(r.byAccount[op.AccountID], len(r.entries))
	r.entries = append(r.entries, *op)
	return nil
}

// GetByAccountID returns the account's operations in append order. The
// returned slice is a copy.
func (r *OperationRepository) GetByAccountID(_ context.Context, accountID uuid.UUID) ([]domain.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.byAccount[accountID]
	ops := make([]domain.Operation, 0, len(idx))
	for _, i := range idx {
		ops = append(ops, r.entries[i])
	}
	return ops, nil
}

func (r *OperationRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
