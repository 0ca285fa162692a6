package middleware

import (
    "strconv"
    "strings"
    "time"

    "github.com/gofiber/fiber/v2"
    "github.com/redis/go-redis/v9"
)

const (
    loginRateLimitPrefix = "bank_portal:rl:login:"
    loginRateLimitWindow = time.Minute
)

// LoginRateLimit limits sign-in attempts per identifier (email or username)
// or, failing that, per client IP. Without Redis it is a no-op; cache errors
// fail open.
func LoginRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
    if maxPerMin <= 0 {
        maxPerMin = 5
    }
    return func(c *fiber.Ctx) error {
        if cache == nil {
            return c.Next()
        }
        var req struct {
            Email    string `json:"email"`
            Username string `json:"username"`
        }
        _ = c.BodyParser(&req)
        subject := strings.ToLower(strings.TrimSpace(req.Email))
        if subject == "" {
            subject = strings.ToLower(strings.TrimSpace(req.Username))
        }
        if subject == "" {
            subject = c.IP()
        }

        key := loginRateLimitPrefix + c.Path() + ":" + subject
        ctx := c.UserContext()
        // The window is created with its TTL, so a counter never outlives it.
        pipe := cache.TxPipeline()
        pipe.SetNX(ctx, key, 0, loginRateLimitWindow)
        incr := pipe.Incr(ctx, key)
        if _, err := pipe.Exec(ctx); err != nil {
            return c.Next()
        }
        if cnt := incr.Val(); cnt > int64(maxPerMin) {
            if ttl, err := cache.TTL(ctx, key).Result(); err == nil && ttl > 0 {
                c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(ttl.Seconds())+1))
            }
            return fiber.NewError(fiber.StatusTooManyRequests, "too many login attempts, try again later")
        }
        return c.Next()
    }
}
