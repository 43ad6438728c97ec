package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/heartlinkapp/heartlink/internal/config"
	"github.com/heartlinkapp/heartlink/internal/routes"
)

// New assembles the fiber app: panic recovery, CORS, static mounts for
// uploaded and bundled images, then the API and websocket routes.
func New(cfg *config.Config, deps routes.Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "heartlink",
		BodyLimit: 8 << 20,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Static("/uploads", cfg.Uploads.Dir)
	app.Static("/images", "./public/images")

	routes.Setup(app, deps)
	return app
}
