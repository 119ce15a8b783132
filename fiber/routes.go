// Package fiber adapts the pagemd endpoints to the Fiber routing
// convention, mirroring the net/http handlers in the http package.
package fiber

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fwojciec/pagemd"
	pagemdhttp "github.com/fwojciec/pagemd/http"
)

// Config wires the dependencies the routes need.
type Config struct {
	Listing   func(ctx context.Context) (*pagemd.SiteListing, error)
	Lookup    func(ctx context.Context, slug string) (*pagemd.ContentRecord, error)
	Assembler *pagemd.Assembler
	Store     pagemd.EventStore
	Limiter   *pagemdhttp.RateLimiter

	// CacheControl defaults to pagemdhttp.DefaultCacheControl.
	CacheControl string
	Logger       *slog.Logger
}

// RegisterRoutes attaches the pagemd endpoints to app:
// GET /llms.txt, GET /md/:slug, POST /analytics, and the ?llm=1 rewrite.
func RegisterRoutes(app *fiber.App, cfg Config) {
	if cfg.CacheControl == "" {
		cfg.CacheControl = pagemdhttp.DefaultCacheControl
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	submitter := pagemd.NewSubmitter(cfg.Store)

	// ?llm=1 on any GET re-routes to the markdown variant of the page.
	app.Use(func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet && c.Query("llm") == "1" && len(c.Path()) >= 1 && !isMarkdownPath(c.Path()) {
			c.Path("/md" + c.Path())
			return c.RestartRouting()
		}
		return c.Next()
	})

	app.Get("/llms.txt", func(c *fiber.Ctx) error {
		listing, err := cfg.Listing(c.UserContext())
		if err != nil {
			cfg.Logger.Error("llms.txt listing provider failed", "err", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
		}
		body, err := pagemd.GenerateLLMsTxt(*listing)
		if err != nil {
			cfg.Logger.Error("llms.txt generation failed", "err", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
		}
		setContentHeaders(c, cfg.CacheControl, "text/plain; charset=utf-8")
		return c.SendString(body)
	})

	app.Get("/md/:slug", func(c *fiber.Ctx) error {
		slug := c.Params("slug")
		rec, err := cfg.Lookup(c.UserContext(), slug)
		if err != nil && pagemd.ErrorCode(err) != pagemd.ENOTFOUND {
			cfg.Logger.Error("content lookup failed", "slug", slug, "err", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
		}
		if rec == nil {
			return c.Status(fiber.StatusNotFound).SendString("Content not found")
		}
		doc, err := cfg.Assembler.Assemble(*rec)
		if err != nil {
			cfg.Logger.Error("assembly failed", "slug", slug, "err", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
		}
		setContentHeaders(c, cfg.CacheControl, "text/markdown; charset=utf-8")
		return c.SendString(doc.Markdown)
	})

	app.Options("/analytics", func(c *fiber.Ctx) error {
		setCORSHeaders(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Post("/analytics", func(c *fiber.Ctx) error {
		setCORSHeaders(c)

		if cfg.Limiter != nil {
			if ok, retry := cfg.Limiter.Allow(c.IP()); !ok {
				seconds := int(retry.Round(time.Second).Seconds())
				if seconds < 1 {
					seconds = 1
				}
				c.Set("Retry-After", strconv.Itoa(seconds))
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"success": false,
					"error":   "Rate limit exceeded",
				})
			}
		}

		var event pagemd.AnalyticsEvent
		if err := c.BodyParser(&event); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid event payload",
			})
		}
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)

		if err := submitter.Submit(c.UserContext(), &event); err != nil {
			cfg.Logger.Error("analytics submit failed", "action", event.Action, "err", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   pagemd.ErrorMessage(err),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"event":   event,
		})
	})
}

func isMarkdownPath(p string) bool {
	return p == "/md" || (len(p) > 3 && p[:4] == "/md/")
}

func setContentHeaders(c *fiber.Ctx, cacheControl, contentType string) {
	c.Set("Content-Type", contentType)
	c.Set("Cache-Control", cacheControl)
	c.Set("X-Robots-Tag", "noindex")
}

func setCORSHeaders(c *fiber.Ctx) {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type")
}
