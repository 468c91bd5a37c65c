package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/josh-kwaku/bank-ledger/internal/domain"
)

type accountStore interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByClientID(ctx context.Context, clientID uuid.UUID) (*domain.Account, error)
	GetForUpdate(ctx context.Context, clientID uuid.UUID) (*domain.Account, func(), error)
}

type operationStore interface {
	Append(ctx context.Context, op *domain.Operation) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]domain.Operation, error)
}
