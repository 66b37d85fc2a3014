package routes

import (
	"strings"

	"fileshare-api/internal/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// multipartOverhead leaves room for form boundaries and headers on top of the file size limit
const multipartOverhead = 1024 * 1024

// NewApp creates the Fiber app with the service middleware stack
func NewApp(maxFileSize int64) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    int(maxFileSize + multipartOverhead),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(compress.New(compress.Config{
		// Downloads keep their exact Content-Length
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), handlers.DownloadPathPrefix)
		},
	}))
	app.Use(healthcheck.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return uuid.New().String()
		},
	}))
	app.Use(logger.New())

	return app
}
