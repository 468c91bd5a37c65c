package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OperationKind uint8

const (
	OperationKindDeposit OperationKind = iota + 1
	OperationKindWithdraw
)

func (k OperationKind) IsValid() bool {
	switch k {
	case OperationKindDeposit, OperationKindWithdraw:
		return true
	}
	return false
}

func (k OperationKind) String() string {
	switch k {
	case OperationKindDeposit:
		return "deposit"
	case OperationKindWithdraw:
		return "withdraw"
	}
	return fmt.Sprintf("OperationKind(%d)", uint8(k))
}

// Operation is an immutable record of one balance change. Sequence is
// assigned by the operation log when the record is appended.
type Operation struct {
	ID            uuid.UUID
	Sequence      uint64
	Kind          OperationKind
	AccountID     uuid.UUID
	ClientID      uuid.UUID
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}

func NewOperation(kind OperationKind, account *Account, amount, balanceBefore decimal.Decimal, createdAt time.Time) (*Operation, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("NewOperation: %s: %w", kind, ErrInvalidOperationKind)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("NewOperation: %w", ErrNegativeAmount)
	}
	return &Operation{
		ID:            uuid.New(),
		Kind:          kind,
		AccountID:     account.ID,
		ClientID:      account.ClientID,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  account.Balance,
		CreatedAt:     createdAt,
	}, nil
}

// Delta is the signed change the operation applied to its account.
func (o Operation) Delta() decimal.Decimal {
	if o.Kind == OperationKindWithdraw {
		return o.Amount.Neg()
	}
	return o.Amount
}

// SortOperations orders ops by CreatedAt. Equal timestamps keep their
// existing relative order.
func SortOperations(ops []Operation) {
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].CreatedAt.Before(ops[j].CreatedAt)
	})
}
