package domain

import (
	"fmt"
	"time"
)

// DateLayout is the UTC calendar-day key used by counters and daily stats.
const DateLayout = "2006-01-02"

// UTCDate returns the calendar day of t in UTC.
func UTCDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Well-known throttle scopes.
const (
	ScopeBuybackCycle   = "buyback:cycle"
	ScopeWalletTransfer = "wallet:transfer"
)

// Rejection reasons returned in RateDecision.Reason.
const (
	ReasonLockout     = "lockout in effect"
	ReasonDailyLimit  = "daily limit reached"
	ReasonMinInterval = "minimum interval not elapsed"
)

// RateLimitCounter tracks actions taken under one scope.
type RateLimitCounter struct {
	Scope          string     `json:"scope"`
	DailyCount     int        `json:"daily_count"`
	DailyResetDate string     `json:"daily_reset_date"`
	LastActionAt   *time.Time `json:"last_action_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// RateDecision is the structured answer of a throttle check.
type RateDecision struct {
	Allowed   bool       `json:"allowed"`
	Reason    string     `json:"reason,omitempty"`
	Remaining int        `json:"remaining"`
	RetryAt   *time.Time `json:"retry_at,omitempty"`
}

// RolloverTo zeroes the daily count when today differs from the stored reset
// date. It reports whether a reset happened.
func (c *RateLimitCounter) RolloverTo(today string) bool {
	if c.DailyResetDate == today {
		return false
	}
	c.DailyCount = 0
	c.DailyResetDate = today
	return true
}

// Evaluate decides whether one more action is allowed at now. The counter
// must already be rolled over to now's date. The interval check only applies
// once an action has been taken on the current day.
func (c *RateLimitCounter) Evaluate(now, lockoutUntil time.Time, dailyLimit int, minInterval time.Duration) RateDecision {
	if !lockoutUntil.IsZero() && now.Before(lockoutUntil) {
		retry := lockoutUntil
		return RateDecision{
			Reason:  fmt.Sprintf("%s until %s", ReasonLockout, lockoutUntil.UTC().Format(time.RFC3339)),
			RetryAt: &retry,
		}
	}

	remaining := dailyLimit - c.DailyCount
	if remaining <= 0 {
		next := startOfNextUTCDay(now)
		return RateDecision{Reason: ReasonDailyLimit, RetryAt: &next}
	}

	if c.DailyCount > 0 && c.LastActionAt != nil && minInterval > 0 {
		if elapsed := now.Sub(*c.LastActionAt); elapsed < minInterval {
			retry := c.LastActionAt.Add(minInterval)
			return RateDecision{Reason: ReasonMinInterval, Remaining: remaining, RetryAt: &retry}
		}
	}

	return RateDecision{Allowed: true, Remaining: remaining}
}

// Record counts one action at now.
func (c *RateLimitCounter) Record(now time.Time) {
	c.RolloverTo(UTCDate(now))
	c.DailyCount++
	at := now.UTC()
	c.LastActionAt = &at
	c.UpdatedAt = at
}

func startOfNextUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day()+1, 0, 0, 0, 0, time.UTC)
}
