package github

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/ghpipe/internal/logger"
)

// DefaultSecondaryCooldown applies when a secondary rate limit response
// carries no Retry-After header.
const DefaultSecondaryCooldown = 60 * time.Second

// MaxCooldownSeconds is the longest cooldown a time.Duration can hold.
// Larger values in a rate-limit message are clamped to it.
const MaxCooldownSeconds = int64(math.MaxInt64 / int64(time.Second))

var cooldownPattern = regexp.MustCompile(`(?i)rate limited for the next\s+(\d+)\s+seconds`)

// now is replaced in tests.
var now = time.Now

// Classify reports how long to wait before retrying a failed call.
// Zero means the error is not throttling and must be treated as fatal.
func Classify(err error) time.Duration {
	if err == nil {
		return 0
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		if d := abuseErr.GetRetryAfter(); d > 0 {
			return roundUp(d)
		}
		return DefaultSecondaryCooldown
	}

	var ghLimitErr *gh.RateLimitError
	if errors.As(err, &ghLimitErr) {
		return untilReset(ghLimitErr.Rate.Reset.Time)
	}

	var limitErr *RateLimitError
	if errors.As(err, &limitErr) {
		return untilReset(limitErr.ResetAt)
	}

	if seconds, ok := CooldownSeconds(err.Error()); ok {
		return time.Duration(seconds) * time.Second
	}

	logger.Info("not a rate limit: %v", err)
	return 0
}

// CooldownSeconds extracts N from "rate limited for the next N seconds",
// clamped to MaxCooldownSeconds.
func CooldownSeconds(message string) (int64, bool) {
	m := cooldownPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return MaxCooldownSeconds, true
	}
	if err != nil {
		return 0, false
	}
	return min(n, MaxCooldownSeconds), true
}

func untilReset(reset time.Time) time.Duration {
	if reset.IsZero() {
		return DefaultSecondaryCooldown
	}
	d := roundUp(reset.Sub(now()))
	if d < time.Second {
		return time.Second
	}
	return d
}

func roundUp(d time.Duration) time.Duration {
	return time.Duration(math.Ceil(d.Seconds())) * time.Second
}
