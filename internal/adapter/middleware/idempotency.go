package middleware

import (
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
)

type cachedResponse struct {
	status int
	body   []byte
}

// IdempotencyCache remembers responses by Idempotency-Key for the lifetime
// of the process, in memory like everything else in this service.
type IdempotencyCache struct {
	mu   sync.Mutex
	seen map[string]cachedResponse
}

func NewIdempotencyCache() *IdempotencyCache {
	return &IdempotencyCache{seen: make(map[string]cachedResponse)}
}

func (ic *IdempotencyCache) get(key string) (cachedResponse, bool) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	res, ok := ic.seen[key]
	return res, ok
}

func (ic *IdempotencyCache) put(key string, res cachedResponse) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if _, exists := ic.seen[key]; exists {
		return
	}
	ic.seen[key] = res
}

func Idempotency(cache *IdempotencyCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Get key from header. No key, no caching.
		key := c.Get("Idempotency-Key")
		if key == "" {
			return c.Next()
		}

		// 2. Replay the cached response if we've seen this key
		if res, ok := cache.get(key); ok {
			slog.Info("🛑 Idempotency hit! Returning cached response", "key", key)
			c.Set("X-Idempotency-Hit", "true")
			c.Set("Content-Type", "application/json")
			return c.Status(res.status).Send(res.body)
		}

		// 3. Run the handler
		if err := c.Next(); err != nil {
			return err
		}

		// 4. Save the result (copy the body, fiber reuses its buffers)
		body := make([]byte, len(c.Response().Body()))
		copy(body, c.Response().Body())
		cache.put(key, cachedResponse{status: c.Response().StatusCode(), body: body})
		slog.Info("💾 Idempotency key saved", "key", key)

		return nil
	}
}
