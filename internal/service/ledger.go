package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/logging"
	"github.com/shopspring/decimal"
)

type Option func(*LedgerService)

// WithClock overrides the time source used to stamp accounts and operations.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) {
		s.clock = newMonotonicClock(now)
	}
}

// LedgerService owns the account table and the operation log. Mutations on
// one account are serialized by that account's lock; different accounts
// proceed in parallel.
type LedgerService struct {
	accounts   accountStore
	operations operationStore
	clock      *monotonicClock
}

func NewLedgerService(accounts accountStore, operations operationStore, opts ...Option) *LedgerService {
	s := &LedgerService{
		accounts:   accounts,
		operations: operations,
		clock:      newMonotonicClock(func() time.Time { return time.Now().UTC() }),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LedgerService) CreateAccount(ctx context.Context, client domain.Client) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if !client.IsValid() {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrInvalidClient)
	}

	account := domain.NewAccount(client, s.clock.Now())
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	log.Info("account created",
		"account_id", account.ID,
		"client_id", client.ID,
	)

	cp := *account
	return &cp, nil
}

func (s *LedgerService) Deposit(ctx context.Context, client domain.Client, amount decimal.Decimal) (*domain.Operation, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("Deposit: %w", domain.ErrNegativeAmount)
	}

	account, release, err := s.accounts.GetForUpdate(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}
	defer release()

	op, err := s.apply(ctx, account, domain.OperationKindDeposit, amount)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}
	return op, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, client domain.Client, amount decimal.Decimal) (*domain.Operation, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("Withdraw: %w", domain.ErrNegativeAmount)
	}

	account, release, err := s.accounts.GetForUpdate(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}
	defer release()

	op, err := s.apply(ctx, account, domain.OperationKindWithdraw, amount)
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}
	return op, nil
}

// WithdrawAll withdraws the whole current balance. The balance is read and
// withdrawn under a single lock acquisition. Errors are returned to the
// caller rather than logged and dropped.
func (s *LedgerService) WithdrawAll(ctx context.Context, client domain.Client) (*domain.Operation, error) {
	account, release, err := s.accounts.GetForUpdate(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("WithdrawAll: %w", err)
	}
	defer release()

	op, err := s.apply(ctx, account, domain.OperationKindWithdraw, account.Balance)
	if err != nil {
		logging.FromContext(ctx).Error("withdraw all failed",
			"account_id", account.ID,
			"error", err,
		)
		return nil, fmt.Errorf("WithdrawAll: %w", err)
	}
	return op, nil
}

// History returns the client's operations ordered by time.
func (s *LedgerService) History(ctx context.Context, client domain.Client) ([]domain.Operation, error) {
	account, err := s.accounts.GetByClientID(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}

	ops, err := s.operations.GetByAccountID(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	domain.SortOperations(ops)

	log := logging.FromContext(ctx)
	log.Debug("account history", "account_id", account.ID, "operations", len(ops))
	for _, op := range ops {
		log.Debug("history entry",
			"sequence", op.Sequence,
			"kind", op.Kind.String(),
			"amount", op.Amount.String(),
			"balance_after", op.BalanceAfter.String(),
			"created_at", op.CreatedAt,
		)
	}

	return ops, nil
}

func (s *LedgerService) AccountBalance(ctx context.Context, client domain.Client) (decimal.Decimal, error) {
	account, err := s.accounts.GetByClientID(ctx, client.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("AccountBalance: %w", err)
	}
	return account.Balance, nil
}

// GetAccount returns a snapshot of the client's account.
func (s *LedgerService) GetAccount(ctx context.Context, client domain.Client) (*domain.Account, error) {
	account, err := s.accounts.GetByClientID(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return account, nil
}

// apply validates, commits and records one balance change. The caller must
// hold the account lock. Nothing is mutated or logged when validation fails.
func (s *LedgerService) apply(ctx context.Context, account *domain.Account, kind domain.OperationKind, amount decimal.Decimal) (*domain.Operation, error) {
	log := logging.FromContext(ctx)
	before := account.Balance

	if kind == domain.OperationKindWithdraw && before.Sub(amount).IsNegative() {
		log.Warn("withdrawal rejected",
			"account_id", account.ID,
			"amount", amount.String(),
			"balance", before.String(),
		)
		return nil, fmt.Errorf("apply: %w", domain.ErrInsufficientFunds)
	}

	switch kind {
	case domain.OperationKindDeposit:
		account.Deposit(amount)
	case domain.OperationKindWithdraw:
		account.Withdraw(amount)
	default:
		return nil, fmt.Errorf("apply: %s: %w", kind, domain.ErrInvalidOperationKind)
	}

	op, err := domain.NewOperation(kind, account, amount, before, s.clock.Now())
	if err == nil {
		err = s.operations.Append(ctx, op)
	}
	if err != nil {
		account.Balance = before
		return nil, fmt.Errorf("apply: %w", err)
	}

	log.Info("operation recorded",
		"operation_id", op.ID,
		"account_id", op.AccountID,
		"kind", op.Kind.String(),
		"amount", op.Amount.String(),
		"balance_after", op.BalanceAfter.String(),
	)

	cp := *op
	return &cp, nil
}

// IsRejection reports whether err is a validation failure the caller can
// correct, as opposed to a missing account or an internal fault.
func IsRejection(err error) bool {
	return errors.Is(err, domain.ErrNegativeAmount) || errors.Is(err, domain.ErrInsufficientFunds)
}
