package chain

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config for the CLI-backed chain service.
type Config struct {
	Binary             string        `env:"CHAIN_BINARY" envDefault:"solana"`
	TokenBinary        string        `env:"CHAIN_TOKEN_BINARY" envDefault:"spl-token"`
	NetworkURL         string        `env:"CHAIN_NETWORK_URL" envDefault:"https://api.devnet.solana.com"`
	CallTimeout        time.Duration `env:"CHAIN_CALL_TIMEOUT" envDefault:"30s"`
	FundingAmount      string        `env:"FUNDING_AMOUNT" envDefault:"1"`
	FundingMinInterval time.Duration `env:"FUNDING_MIN_INTERVAL" envDefault:"20s"`
	FundingDailyMax    int           `env:"FUNDING_DAILY_MAX" envDefault:"2"`
}

// ParseConfig parses environment variables to a valid Config.
func ParseConfig() (cfg Config) {
	if err := env.Parse(&cfg, env.Options{Prefix: "MARKET_"}); err != nil {
		panic(err)
	}

	return
}
