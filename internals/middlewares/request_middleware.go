package middlewares

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"

	"sekolahku_backend/internals/helpers/metrics"
)

// RequestID memakai X-Request-ID dari client atau membuat UUID baru.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get("X-Request-ID"))
		if id == "" || len(id) > 64 {
			id = utils.UUID()
		}
		c.Locals("request_id", id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}

// RequestTimeout memasang deadline di UserContext; repository & storage memakainya.
// Request multipart (upload, batch foto) memakai upload yang lebih panjang.
// Route SSE dilewati karena memang berumur panjang.
func RequestTimeout(d, upload time.Duration, skip ...string) fiber.Handler {
	skipped := map[string]bool{}
	for _, p := range skip {
		skipped[p] = true
	}
	return func(c *fiber.Ctx) error {
		if skipped[c.Path()] {
			return c.Next()
		}
		limit := d
		if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
			limit = upload
		}
		if limit <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), limit)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// HTTPMetrics menghitung request per route (pola route, bukan path mentah).
func HTTPMetrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		return err
	}
}
