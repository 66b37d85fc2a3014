package routes

import (
	"time"

	"fileshare-api/internal/config"
	"fileshare-api/internal/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *fiber.App, fileHandler *handlers.FileHandler, pinConfig config.PinConfig) {
	// Prometheus exposition and the built-in monitor page
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/monitor", monitor.New())

	// Health check route
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"service":   "fileshare-api",
			"timestamp": time.Now().UTC(),
		})
	})

	api := app.Group("/api")
	api.Post("/upload", fileHandler.UploadFile)
	api.Get("/file-info/:id", fileHandler.GetFileInfo)
	api.Get("/download/:id", fileHandler.DownloadFile)
	api.Post("/verify-pin", pinRateLimiter(pinConfig), fileHandler.VerifyPin)
}

// pinRateLimiter throttles PIN guesses per client IP; a zero limit disables it
func pinRateLimiter(cfg config.PinConfig) fiber.Handler {
	if cfg.RateLimit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	window := cfg.RateWindow
	if window <= 0 {
		window = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many PIN attempts, try again later")
		},
	})
}
