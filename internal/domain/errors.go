package domain

import "errors"

var (
	ErrNegativeAmount       = errors.New("amount must not be negative")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountExists        = errors.New("account already exists for this client")
	ErrInvalidClient        = errors.New("invalid client")
	ErrInvalidOperationKind = errors.New("invalid operation kind")
)
