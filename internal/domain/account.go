package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is the identity an account is opened for. Two clients are the same
// client when their IDs are equal.
type Client struct {
	ID uuid.UUID
}

func NewClient() Client {
	return Client{ID: uuid.New()}
}

func (c Client) IsValid() bool {
	return c.ID != uuid.Nil
}

type Account struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Balance   decimal.Decimal
	CreatedAt time.Time
}

func NewAccount(client Client, createdAt time.Time) *Account {
	return &Account{
		ID:        uuid.New(),
		ClientID:  client.ID,
		Balance:   decimal.Zero,
		CreatedAt: createdAt,
	}
}

// Deposit adds amount to the balance and returns the new balance.
func (a *Account) Deposit(amount decimal.Decimal) decimal.Decimal {
	a.Balance = a.Balance.Add(amount)
	return a.Balance
}

// Withdraw subtracts amount from the balance and returns the new balance.
// It does not check the sign of the result; callers validate first.
func (a *Account) Withdraw(amount decimal.Decimal) decimal.Decimal {
	a.Balance = a.Balance.Sub(amount)
	return a.Balance
}
