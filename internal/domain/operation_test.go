package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationKind(t *testing.T) {
	tests := []struct {
		kind  OperationKind
		valid bool
		str   string
	}{
		{OperationKindDeposit, true, "deposit"},
		{OperationKindWithdraw, true, "withdraw"},
		{OperationKind(0), false, "OperationKind(0)"},
		{OperationKind(9), false, "OperationKind(9)"},
	}

	for _, tc := range tests {
		t.Run(tc.str, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.kind.IsValid())
			assert.Equal(t, tc.str, tc.kind.String())
		})
	}
}

func TestNewOperation(t *testing.T) {
	acct := NewAccount(NewClient(), time.Now())
	before := acct.Balance
	acct.Deposit(decimal.RequireFromString("100"))
	now := time.Now()

	op, err := NewOperation(OperationKindDeposit, acct, decimal.RequireFromString("100"), before, now)
	require.NoError(t, err)

	assert.Equal(t, OperationKindDeposit, op.Kind)
	assert.Equal(t, acct.ID, op.AccountID)
	assert.Equal(t, acct.ClientID, op.ClientID)
	assert.True(t, op.BalanceBefore.IsZero())
	assert.True(t, op.BalanceAfter.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, now, op.CreatedAt)
	assert.Zero(t, op.Sequence)
}

func TestNewOperation_Invalid(t *testing.T) {
	acct := NewAccount(NewClient(), time.Now())

	_, err := NewOperation(OperationKind(7), acct, decimal.NewFromInt(1), decimal.Zero, time.Now())
	require.ErrorIs(t, err, ErrInvalidOperationKind)

	_, err = NewOperation(OperationKindWithdraw, acct, decimal.NewFromInt(-1), decimal.Zero, time.Now())
	require.ErrorIs(t, err, ErrNegativeAmount)
}

func TestOperation_Delta(t *testing.T) {
	dep := Operation{Kind: OperationKindDeposit, Amount: decimal.RequireFromString("12.5")}
	wd := Operation{Kind: OperationKindWithdraw, Amount: decimal.RequireFromString("12.5")}

	assert.True(t, dep.Delta().Equal(decimal.RequireFromString("12.5")))
	assert.True(t, wd.Delta().Equal(decimal.RequireFromString("-12.5")))
}

func TestSortOperations(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ops := []Operation{
		{Sequence: 1, CreatedAt: t0.Add(2 * time.Second)},
		{Sequence: 2, CreatedAt: t0},
		{Sequence: 3, CreatedAt: t0.Add(time.Second)},
		{Sequence: 4, CreatedAt: t0},
		{Sequence: 5, CreatedAt: t0.Add(time.Second)},
	}

	SortOperations(ops)

	var got []uint64
	for _, op := range ops {
		got = append(got, op.Sequence)
	}
	assert.Equal(t, []uint64{2, 4, 3, 5, 1}, got)
}
