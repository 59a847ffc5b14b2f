package middlewares

import (
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/tableserve/tableserve/ratelimit"
	"github.com/tableserve/tableserve/router"
	"github.com/tableserve/tableserve/utils"
	"golang.org/x/time/rate"
)

var keySanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)

// RateLimit is a fixed-window limiter keyed by client IP. The timestamp
// list lives in the store so the backend can be swapped for a shared
// cache in multi-instance deployments.
func RateLimit(max int, window time.Duration, store ratelimit.Store) router.Middleware {
	return func(req *router.Request) *router.Response {
		key := keySanitizer.ReplaceAllString(req.ClientIP(), "_")
		now := time.Now()

		var limited bool
		var oldest time.Time

		kept, err := store.Update(key, func(current []time.Time) []time.Time {
			cutoff := now.Add(-window)
			valid := current[:0]
			for _, t := range current {
				if t.After(cutoff) {
					valid = append(valid, t)
				}
			}

			if len(valid) >= max {
				limited = true
				oldest = valid[0]
				return valid
			}
			return append(valid, now)
		})
		if err != nil {
			// A broken limiter store must not take the API down.
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Errorf("rate limit store error for %s: %v", key, err)
			}
			return nil
		}

		if limited {
			retryAfter := int(math.Ceil(oldest.Add(window).Sub(now).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			return router.TooManyRequests(retryAfter)
		}

		req.RespHeader.Set("X-RateLimit-Limit", strconv.Itoa(max))
		req.RespHeader.Set("X-RateLimit-Remaining", strconv.Itoa(max-len(kept)))
		req.RespHeader.Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(window).Unix(), 10))
		return nil
	}
}

// LoginLimiter is a stricter process-wide limiter for the login
// endpoint: burst of 5 attempts, refilling one per minute.
func LoginLimiter() router.Middleware {
	limiter := rate.NewLimiter(rate.Every(time.Minute), 5)
	return func(req *router.Request) *router.Response {
		if !limiter.Allow() {
			return router.TooManyRequests(60)
		}
		return nil
	}
}
