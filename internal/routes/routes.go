package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/heartlinkapp/heartlink/internal/handlers"
	"github.com/heartlinkapp/heartlink/internal/metrics"
	"github.com/heartlinkapp/heartlink/internal/middleware"
	"github.com/heartlinkapp/heartlink/internal/ws"
)

type Deps struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Chats    *handlers.ChatHandler
	WS       *ws.Handler
	Verifier middleware.TokenVerifier
	Limiter  *middleware.RateLimiter
}

func Setup(app *fiber.App, d Deps) {
	authRequired := middleware.RequireAuth(d.Verifier)
	limited := d.Limiter.ByIP()

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/register", limited, d.Auth.Register)
	users.Post("/login", limited, d.Auth.Login)
	users.Get("/profile", authRequired, d.Users.GetProfile)
	users.Post("/profile", authRequired, d.Users.UpdateProfile)
	users.Get("/profiles", authRequired, d.Users.ListProfiles)
	users.Post("/like/:profileId", authRequired, d.Users.Like)

	chats := api.Group("/chats", authRequired)
	chats.Post("/", d.Chats.CreateChat)
	chats.Get("/", d.Chats.ListChats)
	chats.Get("/:chatId", d.Chats.GetChat)

	app.Use("/ws", ws.Upgrade)
	app.Get("/ws", d.WS.Serve())
}
