// Package ratelimit paces page loads so a long run does not hammer the
// search endpoint.
//
// Two limiters implement the Limiter interface:
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Suitable for bursts followed by quiet periods
//
// Sliding Window:
//   - Tracks requests within a moving time window
//   - Used for the page_loads_per_minute setting
//
// Wait honors context cancellation so an interrupted run stops promptly.
// Limiters only delay requests; they never repeat a failed one.
//
// Usage:
//
//	limiter := ratelimit.ForPageLoads(cfg.RateLimit.PageLoadsPerMinute, cfg.RateLimit.Strategy)
//	if limiter != nil {
//	    if err := limiter.Wait(ctx); err != nil {
//	        return err
//	    }
//	}
package ratelimit
