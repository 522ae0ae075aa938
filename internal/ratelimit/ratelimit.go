// Package ratelimit throttles outbound API calls per upstream service.
// A token bucket smooths the per-minute rate; fixed windows cap the
// per-hour and per-day quotas.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// QuotaError is returned when an hourly or daily quota is exhausted.
// Unlike an empty token bucket it cannot be waited out within a call.
type QuotaError struct {
	Window     string // "hour" or "day"
	Limit      int
	RetryAfter time.Duration
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("ratelimit: %s quota of %d exhausted, retry after %s",
		e.Window, e.Limit, e.RetryAfter.Truncate(time.Second))
}

// Limiter throttles calls to one upstream API. Zero limits mean unlimited.
type Limiter struct {
	perMinute int
	perHour   int
	perDay    int

	mu sync.Mutex

	tokens     float64
	lastRefill time.Time

	hourCount int
	hourStart time.Time
	dayCount  int
	dayStart  time.Time
}

func New(perMinute, perHour, perDay int) *Limiter {
	now := time.Now()
	l := &Limiter{
		perMinute: perMinute,
		perHour:   perHour,
		perDay:    perDay,
		hourStart: now.Truncate(time.Hour),
		dayStart:  dayStart(now),
	}
	if perMinute > 0 {
		l.tokens = float64(perMinute)
		l.lastRefill = now
	}
	return l
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Wait blocks until a token is available or ctx is cancelled. It returns
// *QuotaError immediately when the hour or day window is exhausted.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.perMinute == 0 && l.perHour == 0 && l.perDay == 0 {
		return nil
	}
	for {
		retryAfter, err := l.acquire()
		if err != nil {
			return err
		}
		if retryAfter == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryAfter):
		}
	}
}

// acquire takes a token if one is available. It returns a non-zero wait
// duration when the bucket is empty but refilling, and *QuotaError when a
// fixed window is exhausted.
func (l *Limiter) acquire() (time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	if l.perDay > 0 {
		if start := dayStart(now); start != l.dayStart {
			l.dayCount = 0
			l.dayStart = start
		}
		if l.dayCount >= l.perDay {
			return 0, &QuotaError{
				Window:     "day",
				Limit:      l.perDay,
				RetryAfter: l.dayStart.Add(24 * time.Hour).Sub(now),
			}
		}
	}

	if l.perHour > 0 {
		if start := now.Truncate(time.Hour); start != l.hourStart {
			l.hourCount = 0
			l.hourStart = start
		}
		if l.hourCount >= l.perHour {
			return 0, &QuotaError{
				Window:     "hour",
				Limit:      l.perHour,
				RetryAfter: l.hourStart.Add(time.Hour).Sub(now),
			}
		}
	}

	if l.perMinute > 0 {
		perSecond := float64(l.perMinute) / 60.0
		l.tokens += now.Sub(l.lastRefill).Seconds() * perSecond
		if l.tokens > float64(l.perMinute) {
			l.tokens = float64(l.perMinute)
		}
		l.lastRefill = now

		if l.tokens < 1.0 {
			wait := time.Duration((1.0 - l.tokens) / perSecond * float64(time.Second))
			if wait < time.Millisecond {
				wait = time.Millisecond
			}
			return wait, nil
		}
		l.tokens--
	}

	if l.perHour > 0 {
		l.hourCount++
	}
	if l.perDay > 0 {
		l.dayCount++
	}
	return 0, nil
}
