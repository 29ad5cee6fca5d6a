package chain

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseBalance(t *testing.T) {
	cases := []struct {
		in       string
		expected string
		wantErr  bool
	}{
		{"12.5 SOL\n", "12.5", false},
		{"0 SOL", "0", false},
		{"20.000000000", "20", false},
		{"", "", true},
		{"not-a-number SOL", "", true},
	}

	for _, c := range cases {
		got, err := parseBalance(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("expected an error for %q", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("unexpected error for %q: %s", c.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(c.expected)) {
			t.Errorf("expected %s for %q, got %s", c.expected, c.in, got)
		}
	}
}

func TestCLIServiceGetBalance(t *testing.T) {
	cfg := Config{Binary: "solana", NetworkURL: "url", CallTimeout: time.Second}

	var gotArgs []string
	svc := NewCLIService(cfg, 10, WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return []byte("7.25 SOL\n"), nil
	}))

	balance, err := svc.GetBalance(context.Background(), "some-wallet")
	if err != nil {
		t.Fatal(err)
	}

	if !balance.Equal(decimal.RequireFromString("7.25")) {
		t.Errorf("expected balance 7.25, got %s", balance)
	}

	if len(gotArgs) == 0 || gotArgs[0] != "solana" || gotArgs[1] != "balance" || gotArgs[2] != "some-wallet" {
		t.Errorf("unexpected command: %v", gotArgs)
	}
}

func TestCLIServiceReadRetries(t *testing.T) {
	cfg := Config{Binary: "solana", NetworkURL: "url", CallTimeout: time.Second}

	attempts := 0
	svc := NewCLIService(cfg, 10, WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		attempts++
		if attempts < 3 {
			return nil, fmt.Errorf("transient failure")
		}
		return []byte("1 SOL"), nil
	}))

	if _, err := svc.GetBalance(context.Background(), "w"); err != nil {
		t.Fatalf("expected retries to recover, got %s", err)
	}

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestFundingLimiter(t *testing.T) {
	limiter := newFundingLimiter(20*time.Second, 2)

	now := time.Unix(1700000000, 0)
	limiter.now = func() time.Time { return now }

	if err := limiter.allow(); err != nil {
		t.Fatalf("first request should pass, got %s", err)
	}

	// Within the minimum interval.
	now = now.Add(5 * time.Second)
	if err := limiter.allow(); err != ErrFundingTooSoon {
		t.Fatalf("expected ErrFundingTooSoon, got %v", err)
	}

	// Interval elapsed, second of the day.
	now = now.Add(20 * time.Second)
	if err := limiter.allow(); err != nil {
		t.Fatalf("second request should pass, got %s", err)
	}

	// Third within the same day.
	now = now.Add(time.Minute)
	if err := limiter.allow(); err != ErrFundingDailyCapReached {
		t.Fatalf("expected ErrFundingDailyCapReached, got %v", err)
	}

	// A half day later one slot has refilled.
	now = now.Add(13 * time.Hour)
	if err := limiter.allow(); err != nil {
		t.Fatalf("expected refilled slot to pass, got %s", err)
	}
}
