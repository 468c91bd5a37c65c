package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/josh-kwaku/bank-ledger/internal/config"
	"github.com/josh-kwaku/bank-ledger/internal/logging"
	"github.com/josh-kwaku/bank-ledger/internal/repository"
	"github.com/josh-kwaku/bank-ledger/internal/service"
	"github.com/josh-kwaku/bank-ledger/internal/simulation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("ledgersim", cfg.LogLevel, cfg.AppEnv)

	maxAmount, err := cfg.MaxAmount()
	if err != nil {
		logger.Error("invalid max amount", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	svc := service.NewLedgerService(
		repository.NewAccountRepository(),
		repository.NewOperationRepository(),
	)

	report, err := simulation.Run(ctx, svc, simulation.Params{
		Clients:      cfg.SimClients,
		Workers:      cfg.SimWorkers,
		OpsPerWorker: cfg.SimOpsPerWorker,
		MaxAmount:    maxAmount,
		Seed:         cfg.SimSeed,
	})
	if err != nil {
		logger.Error("simulation aborted", "error", err)
		os.Exit(1)
	}

	for _, v := range report.Violations {
		logger.Error("invariant violated", "detail", v)
	}
	if !report.OK() {
		os.Exit(2)
	}
	logger.Info("ledger consistent",
		"committed", report.Committed,
		"rejected", report.Rejected,
	)
}
