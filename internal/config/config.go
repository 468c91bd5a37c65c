package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`

	SimClients      int    `env:"SIM_CLIENTS" envDefault:"8"`
	SimWorkers      int    `env:"SIM_WORKERS" envDefault:"16"`
	SimOpsPerWorker int    `env:"SIM_OPS_PER_WORKER" envDefault:"250"`
	SimMaxAmount    string `env:"SIM_MAX_AMOUNT" envDefault:"100.00"`
	SimSeed         int64  `env:"SIM_SEED" envDefault:"0"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	if c.SimClients <= 0 {
		return fmt.Errorf("SIM_CLIENTS must be positive, got %d", c.SimClients)
	}
	if c.SimWorkers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be positive, got %d", c.SimWorkers)
	}
	if c.SimOpsPerWorker <= 0 {
		return fmt.Errorf("SIM_OPS_PER_WORKER must be positive, got %d", c.SimOpsPerWorker)
	}
	amount, err := c.MaxAmount()
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("SIM_MAX_AMOUNT must be positive, got %s", c.SimMaxAmount)
	}
	return nil
}

func (c Config) MaxAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(c.SimMaxAmount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("SIM_MAX_AMOUNT: %w", err)
	}
	return amount, nil
}
