// Package simulation drives a ledger service with a concurrent random
// workload and checks the ledger invariants once the workload drains.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
	"github.com/josh-kwaku/bank-ledger/internal/logging"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type ledger interface {
	CreateAccount(ctx context.Context, client domain.Client) (*domain.Account, error)
	Deposit(ctx context.Context, client domain.Client, amount decimal.Decimal) (*domain.Operation, error)
	Withdraw(ctx context.Context, client domain.Client, amount decimal.Decimal) (*domain.Operation, error)
	WithdrawAll(ctx context.Context, client domain.Client) (*domain.Operation, error)
	History(ctx context.Context, client domain.Client) ([]domain.Operation, error)
	AccountBalance(ctx context.Context, client domain.Client) (decimal.Decimal, error)
}

type Params struct {
	Clients      int
	Workers      int
	OpsPerWorker int
	MaxAmount    decimal.Decimal
	Seed         int64
}

type Report struct {
	Accounts   int
	Committed  int64
	Rejected   int64
	TotalFunds decimal.Decimal
	Duration   time.Duration
	Violations []string
}

func (r Report) OK() bool {
	return len(r.Violations) == 0
}

// Run seeds every client with one deposit, runs the workload and verifies
// each account. Only unexpected errors abort the run; insufficient funds is
// counted as a rejection.
func Run(ctx context.Context, svc ledger, p Params) (Report, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	clients := make([]domain.Client, p.Clients)
	committed := make([]atomic.Int64, p.Clients)
	for i := range clients {
		clients[i] = domain.NewClient()
		if _, err := svc.CreateAccount(ctx, clients[i]); err != nil {
			return Report{}, fmt.Errorf("Run: %w", err)
		}
		if _, err := svc.Deposit(ctx, clients[i], p.MaxAmount); err != nil {
			return Report{}, fmt.Errorf("Run: seed: %w", err)
		}
		committed[i].Add(1)
	}

	var rejected atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for w := range p.Workers {
		rng := rand.New(rand.NewSource(seed + int64(w)))
		wlog := log.With("worker", w)
		g.Go(func() error {
			wctx := logging.WithLogger(gctx, wlog)
			for range p.OpsPerWorker {
				if err := gctx.Err(); err != nil {
					return err
				}
				idx := rng.Intn(len(clients))
				err := step(wctx, svc, clients[idx], rng, p.MaxAmount)
				switch {
				case err == nil:
					committed[idx].Add(1)
				case errors.Is(err, domain.ErrInsufficientFunds):
					rejected.Add(1)
				default:
					return fmt.Errorf("worker %d: %w", w, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("Run: %w", err)
	}

	report := Report{Accounts: len(clients), Rejected: rejected.Load(), TotalFunds: decimal.Zero}
	for i, c := range clients {
		n := committed[i].Load()
		report.Committed += n
		violations, balance, err := verify(ctx, svc, c, int(n))
		if err != nil {
			return Report{}, fmt.Errorf("Run: verify: %w", err)
		}
		report.Violations = append(report.Violations, violations...)
		report.TotalFunds = report.TotalFunds.Add(balance)
	}
	report.Duration = time.Since(start)

	log.Info("simulation finished",
		"accounts", report.Accounts,
		"committed", report.Committed,
		"rejected", report.Rejected,
		"total_funds", report.TotalFunds.String(),
		"violations", len(report.Violations),
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

func step(ctx context.Context, svc ledger, c domain.Client, rng *rand.Rand, maxAmount decimal.Decimal) error {
	// Uniform in [0, maxAmount], to the cent.
	amount := maxAmount.Mul(decimal.NewFromInt(rng.Int63n(101))).Div(decimal.NewFromInt(100)).Round(2)

	var err error
	switch r := rng.Intn(20); {
	case r < 10:
		_, err = svc.Deposit(ctx, c, amount)
	case r < 19:
		_, err = svc.Withdraw(ctx, c, amount)
	default:
		_, err = svc.WithdrawAll(ctx, c)
	}
	return err
}

func verify(ctx context.Context, svc ledger, c domain.Client, wantOps int) ([]string, decimal.Decimal, error) {
	balance, err := svc.AccountBalance(ctx, c)
	if err != nil {
		return nil, decimal.Zero, err
	}
	history, err := svc.History(ctx, c)
	if err != nil {
		return nil, decimal.Zero, err
	}

	var violations []string
	fail := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf("client %s: ", c.ID)+fmt.Sprintf(format, args...))
	}

	if balance.IsNegative() {
		fail("negative balance %s", balance)
	}
	if len(history) != wantOps {
		fail("history has %d operations, want %d", len(history), wantOps)
	}

	sum := decimal.Zero
	for i, op := range history {
		if i > 0 && op.CreatedAt.Before(history[i-1].CreatedAt) {
			fail("history out of order at %d", i)
		}
		if i > 0 && !op.BalanceBefore.Equal(history[i-1].BalanceAfter) {
			fail("operation %s does not continue from %s", op.ID, history[i-1].ID)
		}
		if !op.BalanceBefore.Add(op.Delta()).Equal(op.BalanceAfter) {
			fail("operation %s does not add up", op.ID)
		}
		if op.BalanceAfter.IsNegative() {
			fail("operation %s left a negative balance", op.ID)
		}
		sum = sum.Add(op.Delta())
	}
	if !sum.Equal(balance) {
		fail("operations sum to %s, balance is %s", sum, balance)
	}
	if n := len(history); n > 0 && !history[n-1].BalanceAfter.Equal(balance) {
		fail("last balance %s, current balance %s", history[n-1].BalanceAfter, balance)
	}
	return violations, balance, nil
}
