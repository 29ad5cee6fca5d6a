// Package configs parses the application configuration from environment
// variables, prefixed with "MARKET_".
package configs

import (
	"time"

	"github.com/caarlos0/env/v6"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	// -- Server --

	Host                 string        `env:"HOST"`
	Port                 int           `env:"PORT" envDefault:"3001"`
	ServerRequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`

	// -- Data directories --

	// DataDir is the root of all persisted state. Account directories live
	// under DataDir/AccountsDirName, shared marketplace state under
	// DataDir/marketplace.
	DataDir         string `env:"DATA_DIR" envDefault:"keypairs"`
	AccountsDirName string `env:"ACCOUNTS_DIR_NAME" envDefault:""`

	// -- Marketplace --

	// PlatformFee is the proportional surcharge added to every purchase.
	PlatformFee string `env:"PLATFORM_FEE" envDefault:"0.025"`
	// FeeSinkAddress, when set, receives the platform fee of every
	// purchase. When empty the fee is only recorded on the transaction.
	FeeSinkAddress string `env:"FEE_SINK_ADDRESS"`

	// -- Chain --

	ChainBinary        string        `env:"CHAIN_BINARY" envDefault:"solana"`
	ChainTokenBinary   string        `env:"CHAIN_TOKEN_BINARY" envDefault:"spl-token"`
	ChainNetworkURL    string        `env:"CHAIN_NETWORK_URL" envDefault:"https://api.devnet.solana.com"`
	ChainCallTimeout   time.Duration `env:"CHAIN_CALL_TIMEOUT" envDefault:"30s"`
	ChainMaxSendRate   int           `env:"CHAIN_MAX_SEND_RATE" envDefault:"10"`
	FundingAmount      string        `env:"FUNDING_AMOUNT" envDefault:"1"`
	FundingMinInterval time.Duration `env:"FUNDING_MIN_INTERVAL" envDefault:"20s"`
	FundingDailyMax    int           `env:"FUNDING_DAILY_MAX" envDefault:"2"`

	// -- Workers --

	WorkerCount         uint `env:"WORKER_COUNT" envDefault:"1"`
	WorkerQueueCapacity uint `env:"WORKER_QUEUE_CAPACITY" envDefault:"1000"`

	// -- Feature flags --

	DisableProvisioningAPI bool `env:"DISABLE_PROVISIONING_API" envDefault:"false"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Parse parses environment variables to a valid Config.
func Parse(opts ...env.Options) (*Config, error) {
	opts = append(opts, env.Options{Prefix: "MARKET_"})

	cfg := Config{}
	if err := env.Parse(&cfg, opts...); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func ConfigureLogger(logLevel string) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
