package chain

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// maxReadAttempts bounds retries of read-only CLI calls. Mutating calls
// are never retried, they are not idempotent.
const maxReadAttempts = 3

// runnerFunc executes an external command and returns its combined stdout.
type runnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CLIService implements Service by shelling out to the chain command line
// tools, the way the reference marketplace drives its network.
type CLIService struct {
	cfg       Config
	run       runnerFunc
	sendPacer ratelimit.Limiter
	funding   *fundingLimiter
}

type CLIServiceOption func(*CLIService)

// WithRunner overrides command execution, used in tests.
func WithRunner(run runnerFunc) CLIServiceOption {
	return func(svc *CLIService) {
		svc.run = run
	}
}

// WithSendPacer overrides the rate limiter applied to mutating calls.
func WithSendPacer(limiter ratelimit.Limiter) CLIServiceOption {
	return func(svc *CLIService) {
		svc.sendPacer = limiter
	}
}

func NewCLIService(cfg Config, sendRate int, opts ...CLIServiceOption) *CLIService {
	svc := &CLIService{
		cfg:       cfg,
		run:       defaultRunner,
		sendPacer: ratelimit.New(sendRate, ratelimit.WithoutSlack),
		funding:   newFundingLimiter(cfg.FundingMinInterval, cfg.FundingDailyMax),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

func (svc *CLIService) GetBalance(ctx context.Context, wallet string) (decimal.Decimal, error) {
	out, err := svc.runRead(ctx, svc.cfg.Binary, "balance", wallet, "--url", svc.cfg.NetworkURL)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance query for %s: %w", wallet, err)
	}

	return parseBalance(string(out))
}

func (svc *CLIService) TransferAsset(ctx context.Context, toWallet, assetHandle string) error {
	svc.sendPacer.Take()

	_, err := svc.runOnce(ctx, svc.cfg.TokenBinary, "transfer", assetHandle, "1", toWallet, "--url", svc.cfg.NetworkURL)
	if err != nil {
		return fmt.Errorf("transfer of %s to %s: %w", assetHandle, toWallet, err)
	}

	return nil
}

func (svc *CLIService) MintAsset(ctx context.Context, metadataURI string) (string, error) {
	svc.sendPacer.Take()

	out, err := svc.runOnce(ctx, svc.cfg.TokenBinary, "create-token", "--url", svc.cfg.NetworkURL)
	if err != nil {
		return "", fmt.Errorf("mint: %w", err)
	}

	mintAddress := firstField(string(out))
	if mintAddress == "" {
		return "", fmt.Errorf("mint: no mint address in output")
	}

	log.
		WithFields(log.Fields{"mintAddress": mintAddress, "metadataUri": metadataURI}).
		Debug("Minted asset")

	return mintAddress, nil
}

func (svc *CLIService) ListAsset(ctx context.Context, assetHandle string) error {
	svc.sendPacer.Take()

	_, err := svc.runOnce(ctx, svc.cfg.TokenBinary, "approve", assetHandle, "1", "--url", svc.cfg.NetworkURL)
	if err != nil {
		return fmt.Errorf("list of %s: %w", assetHandle, err)
	}

	return nil
}

func (svc *CLIService) CreateWallet(ctx context.Context, keypairPath string) (string, error) {
	_, err := svc.runOnce(ctx, svc.cfg.Binary+"-keygen", "new", "--no-bip39-passphrase", "--force", "-o", keypairPath)
	if err != nil {
		return "", fmt.Errorf("keygen: %w", err)
	}

	out, err := svc.runRead(ctx, svc.cfg.Binary, "address", "-k", keypairPath)
	if err != nil {
		return "", fmt.Errorf("address derivation: %w", err)
	}

	address := firstField(string(out))
	if address == "" {
		return "", fmt.Errorf("address derivation: empty output")
	}

	return address, nil
}

func (svc *CLIService) RequestFunds(ctx context.Context, wallet string) error {
	if err := svc.funding.allow(); err != nil {
		return err
	}

	_, err := svc.runOnce(ctx, svc.cfg.Binary, "airdrop", svc.cfg.FundingAmount, wallet, "--url", svc.cfg.NetworkURL)
	if err != nil {
		return fmt.Errorf("funding request for %s: %w", wallet, err)
	}

	return nil
}

// runOnce executes a command with the configured call timeout, no retries.
func (svc *CLIService) runOnce(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.cfg.CallTimeout)
	defer cancel()

	return svc.run(ctx, name, args...)
}

// runRead executes a read-only command, retrying transient failures with
// backoff.
func (svc *CLIService) runRead(ctx context.Context, name string, args ...string) ([]byte, error) {
	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < maxReadAttempts; attempt++ {
		out, err := svc.runOnce(ctx, name, args...)
		if err == nil {
			return out, nil
		}
		lastErr = err

		select {
		case <-time.After(b.Duration()):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// parseBalance extracts the decimal amount from CLI output such as
// "12.5 SOL".
func parseBalance(out string) (decimal.Decimal, error) {
	field := firstField(out)
	if field == "" {
		return decimal.Zero, fmt.Errorf("empty balance output")
	}

	balance, err := decimal.NewFromString(field)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed balance output %q: %w", out, err)
	}

	return balance, nil
}

func firstField(out string) string {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
