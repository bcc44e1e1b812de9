package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Post("/password", handler.AuthRequired, handler.ChangePassword)

	entries := api.Group("/entries", handler.AuthRequired)
	entries.Get("", handler.ListEntries)
	entries.Post("", handler.OwnerOnly, handler.CreateEntry)
	entries.Put("/:id", handler.OwnerOnly, handler.UpdateEntry)
	entries.Delete("/:id", handler.OwnerOnly, handler.DeleteEntry)

	api.Get("/prediction", handler.AuthRequired, handler.GetPrediction)
	api.Get("/fertility", handler.AuthRequired, handler.GetFertility)
	api.Get("/cycles", handler.AuthRequired, handler.GetCycles)

	api.Use(func(c *fiber.Ctx) error {
		return apiError(c, fiber.StatusNotFound, "not found")
	})
}
