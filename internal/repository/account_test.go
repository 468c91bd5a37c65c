package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
)

func TestAccountRepository_CreateAndGet(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()
	client := domain.NewClient()
	acct := domain.NewAccount(client, time.Now())

	require.NoError(t, repo.Create(ctx, acct))
	assert.Equal(t, 1, repo.Count())

	got, err := repo.GetByClientID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)
	assert.NotSame(t, acct, got, "reads must return a copy")

	err = repo.Create(ctx, domain.NewAccount(client, time.Now()))
	require.ErrorIs(t, err, domain.ErrAccountExists)
	assert.Equal(t, 1, repo.Count())
}

func TestAccountRepository_NotFound(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()
	id := domain.NewClient().ID

	_, err := repo.GetByClientID(ctx, id)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, _, err = repo.GetForUpdate(ctx, id)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_ConcurrentCreateSameClient(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()
	client := domain.NewClient()

	const creators = 50
	var wg sync.WaitGroup
	errs := make([]error, creators)
	for i := range creators {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = repo.Create(ctx, domain.NewAccount(client, time.Now()))
		}()
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAccountExists)
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, repo.Count())
}

func TestAccountRepository_GetForUpdateSerializes(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()
	client := domain.NewClient()
	require.NoError(t, repo.Create(ctx, domain.NewAccount(client, time.Now())))

	const writers = 100
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acct, release, err := repo.GetForUpdate(ctx, client.ID)
			if !assert.NoError(t, err) {
				return
			}
			defer release()
			acct.Deposit(decimal.NewFromInt(1))
		}()
	}
	wg.Wait()

	got, err := repo.GetByClientID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(writers)), "got %s", got.Balance)
}
