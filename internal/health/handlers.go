package health

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Rdb         *redis.Client
	DB          DBPinger
	MailPingURL string
}

// JSON serves the machine-readable health snapshot.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := Collect(c.Context(), h.Rdb, h.DB, h.MailPingURL)
	return c.JSON(result)
}

// Live is the bare liveness probe for load balancers.
func (h *Handlers) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
