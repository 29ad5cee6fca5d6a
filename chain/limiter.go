package chain

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrFundingTooSoon         = errors.New("minimum interval between funding requests not elapsed")
	ErrFundingDailyCapReached = errors.New("daily funding request limit reached")
)

// fundingLimiter enforces the faucet policy: a minimum interval between
// requests and a cap per rolling 24h window.
type fundingLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	last        time.Time
	daily       *rate.Limiter
	now         func() time.Time
}

func newFundingLimiter(minInterval time.Duration, dailyMax int) *fundingLimiter {
	if dailyMax < 1 {
		dailyMax = 1
	}

	return &fundingLimiter{
		minInterval: minInterval,
		daily:       rate.NewLimiter(rate.Every(24*time.Hour/time.Duration(dailyMax)), dailyMax),
		now:         time.Now,
	}
}

func (l *fundingLimiter) allow() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if !l.last.IsZero() && now.Sub(l.last) < l.minInterval {
		return ErrFundingTooSoon
	}

	if !l.daily.AllowN(now, 1) {
		return ErrFundingDailyCapReached
	}

	l.last = now
	return nil
}
