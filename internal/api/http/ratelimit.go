package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/devtama101/customer-support-dashboard/internal/persistence"
	apperrors "github.com/devtama101/customer-support-dashboard/pkg/util"
)

// Fixed-window counter: INCR the per-client key and set its expiry on
// first hit, atomically.
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[2])
end
if current > tonumber(ARGV[1]) then
	return 0
end
return 1
`

// WidgetRateLimiter limits public intake requests per client IP using a
// Redis fixed window. When Redis is unreachable the request is allowed;
// intake availability wins over strict limiting.
func WidgetRateLimiter(store *persistence.Redis, logger *zap.Logger, limitPerMinute int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limitPerMinute <= 0 || store == nil || store.Client == nil {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:widget:%s", c.IP())
		window := int(time.Minute.Seconds())
		allowed, err := store.Client.Eval(c.UserContext(), rateLimitScript, []string{key}, limitPerMinute, window).Int()
		if err != nil {
			logger.Warn("rate limit check failed", zap.Error(err))
			return c.Next()
		}
		if allowed != 1 {
			return apperrors.NewTooManyRequests("too many requests, try again later")
		}
		return c.Next()
	}
}
